// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package flowcontrol

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ava-labs/flowgate/utils/units"
)

var (
	errZeroCapacity           = errors.New("capacity must be positive")
	errCapacityTooLarge       = errors.New("capacity can't be granted in a single message")
	errFloodExceedsTotal      = errors.New("flood reading capacity exceeds reading capacity")
	errZeroBatchSize          = errors.New("send more batch size must be positive")
	errBatchExceedsCapacity   = errors.New("send more batch size exceeds flood reading capacity")
	errZeroQueueLimit         = errors.New("outbound queue limit must be positive")
	errNonPositiveTimeout     = errors.New("timeout must be positive")
	errNonPositiveHalflife    = errors.New("queue delay halflife must be positive")
	errTxSizeExceedsQueueCap  = errors.New("max tx size exceeds outbound tx queue byte limit")
	errTxSizeExceedsByteSlack = errors.New("flood reading capacity bytes can't fit a byte batch plus a max size tx")

	DefaultConfig = Config{
		PeerFloodReadingCapacity:      200,
		PeerReadingCapacity:           201,
		PeerFloodReadingCapacityBytes: 300 * units.KiB,
		SendMoreBatchSize:             40,
		SendMoreBatchSizeBytes:        100 * units.KiB,
		OutboundQueueLimit:            1000,
		OutboundTxQueueByteLimit:      3 * units.MiB,
		MaxTxSize:                     100 * units.KiB,
		OutboundQueueTimeout:          30 * time.Second,
		NoOutboundCapacityTimeout:     time.Minute,
		QueueDelayHalflife:            time.Minute,
	}
)

// Config holds the per-connection flow control parameters. The same values are
// used for every connection of a node.
type Config struct {
	// PeerFloodReadingCapacity is the number of flood messages a peer may have
	// outstanding with this node.
	PeerFloodReadingCapacity uint64 `json:"peerFloodReadingCapacity"`
	// PeerReadingCapacity is the number of messages, flood or not, that may be
	// in processing for a peer at once.
	PeerReadingCapacity uint64 `json:"peerReadingCapacity"`
	// PeerFloodReadingCapacityBytes is the number of flood message bytes a peer
	// may have outstanding with this node when byte flow control is enabled.
	PeerFloodReadingCapacityBytes uint64 `json:"peerFloodReadingCapacityBytes"`

	// SendMoreBatchSize is the number of processed flood messages after which
	// capacity is granted back to the peer.
	SendMoreBatchSize uint64 `json:"sendMoreBatchSize"`
	// SendMoreBatchSizeBytes is the number of processed flood bytes after which
	// capacity is granted back to the peer.
	SendMoreBatchSizeBytes uint64 `json:"sendMoreBatchSizeBytes"`

	// OutboundQueueLimit bounds the transaction queue in messages and the
	// advert and demand queues in transaction hashes.
	OutboundQueueLimit uint64 `json:"outboundQueueLimit"`
	// OutboundTxQueueByteLimit bounds the transaction queue in bytes when byte
	// flow control is enabled.
	OutboundTxQueueByteLimit uint64 `json:"outboundTxQueueByteLimit"`
	// MaxTxSize is the largest transaction that will be queued when byte flow
	// control is enabled.
	MaxTxSize uint64 `json:"maxTxSize"`
	// OutboundQueueTimeout is how long a transaction, advert or demand may wait
	// in an outbound queue before it is dropped.
	OutboundQueueTimeout time.Duration `json:"outboundQueueTimeout"`
	// NoOutboundCapacityTimeout is how long a peer may leave this node without
	// outbound capacity before the connection is closed.
	NoOutboundCapacityTimeout time.Duration `json:"noOutboundCapacityTimeout"`
	// QueueDelayHalflife is the halflife of the reported average queue delays.
	QueueDelayHalflife time.Duration `json:"queueDelayHalflife"`
}

func (c *Config) Verify() error {
	switch {
	case c.PeerFloodReadingCapacity == 0:
		return fmt.Errorf("%w: peer flood reading capacity", errZeroCapacity)
	case c.PeerReadingCapacity == 0:
		return fmt.Errorf("%w: peer reading capacity", errZeroCapacity)
	case c.PeerFloodReadingCapacityBytes == 0:
		return fmt.Errorf("%w: peer flood reading capacity bytes", errZeroCapacity)
	case c.PeerFloodReadingCapacity > math.MaxUint32:
		return fmt.Errorf("%w: %d flood messages", errCapacityTooLarge, c.PeerFloodReadingCapacity)
	case c.PeerFloodReadingCapacityBytes > math.MaxUint32:
		return fmt.Errorf("%w: %d flood bytes", errCapacityTooLarge, c.PeerFloodReadingCapacityBytes)
	case c.PeerFloodReadingCapacity > c.PeerReadingCapacity:
		return fmt.Errorf("%w: %d > %d", errFloodExceedsTotal, c.PeerFloodReadingCapacity, c.PeerReadingCapacity)
	case c.SendMoreBatchSize == 0:
		return fmt.Errorf("%w: messages", errZeroBatchSize)
	case c.SendMoreBatchSizeBytes == 0:
		return fmt.Errorf("%w: bytes", errZeroBatchSize)
	case c.SendMoreBatchSize > c.PeerFloodReadingCapacity:
		return fmt.Errorf("%w: %d > %d messages", errBatchExceedsCapacity, c.SendMoreBatchSize, c.PeerFloodReadingCapacity)
	case c.SendMoreBatchSizeBytes > c.PeerFloodReadingCapacityBytes:
		return fmt.Errorf("%w: %d > %d bytes", errBatchExceedsCapacity, c.SendMoreBatchSizeBytes, c.PeerFloodReadingCapacityBytes)
	case c.OutboundQueueLimit == 0:
		return errZeroQueueLimit
	case c.MaxTxSize > c.OutboundTxQueueByteLimit:
		return fmt.Errorf("%w: %d > %d", errTxSizeExceedsQueueCap, c.MaxTxSize, c.OutboundTxQueueByteLimit)
	// A sender holding less than a byte batch of unacknowledged flood bytes
	// must still be able to send a max size tx, or neither side ever grants.
	case c.PeerFloodReadingCapacityBytes-c.SendMoreBatchSizeBytes < c.MaxTxSize:
		return fmt.Errorf("%w: %d - %d < %d",
			errTxSizeExceedsByteSlack,
			c.PeerFloodReadingCapacityBytes,
			c.SendMoreBatchSizeBytes,
			c.MaxTxSize,
		)
	case c.OutboundQueueTimeout <= 0:
		return fmt.Errorf("%w: outbound queue timeout", errNonPositiveTimeout)
	case c.NoOutboundCapacityTimeout <= 0:
		return fmt.Errorf("%w: no outbound capacity timeout", errNonPositiveTimeout)
	case c.QueueDelayHalflife <= 0:
		return errNonPositiveHalflife
	default:
		return nil
	}
}
