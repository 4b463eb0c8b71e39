// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package flowcontrol

import (
	"fmt"

	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/message"
	"github.com/ava-labs/flowgate/utils/logging"
)

const (
	MessagePolicyName = "messages"
	BytePolicyName    = "bytes"
)

var (
	_ Policy = (*messagePolicy)(nil)
	_ Policy = (*bytePolicy)(nil)
)

// Policy decides how a Capacity engine accounts for messages. The only
// policies are message counting and byte counting.
type Policy interface {
	// Name is used in logs and metrics.
	Name() string
	// MsgResourceCount returns the cost of [msg].
	MsgResourceCount(msg message.Message) uint64
	// Limits returns the reading capacity granted to a peer.
	Limits() ReadingCapacity

	// grantAmount returns the outbound capacity granted by [msg].
	grantAmount(msg message.Message) (uint64, error)
	// canRead returns whether a peer with [capacity] left may be read from.
	canRead(capacity ReadingCapacity) (bool, error)
}

// NewMessageCapacity returns an engine where every message costs one unit and
// both flood and total reading capacity are limited.
func NewMessageCapacity(
	config *Config,
	log logging.Logger,
	nodeID ids.NodeID,
	classifier message.Classifier,
	metrics *Metrics,
) *Capacity {
	return newCapacity(log, nodeID, classifier, metrics, &messagePolicy{
		limits: ReadingCapacity{
			Flood: config.PeerFloodReadingCapacity,
			Total: Capped(config.PeerReadingCapacity),
		},
	})
}

// NewByteCapacity returns an engine where every message costs its serialized
// size and only flood reading capacity is limited.
func NewByteCapacity(
	config *Config,
	log logging.Logger,
	nodeID ids.NodeID,
	classifier message.Classifier,
	metrics *Metrics,
) *Capacity {
	return newCapacity(log, nodeID, classifier, metrics, &bytePolicy{
		limits: ReadingCapacity{
			Flood: config.PeerFloodReadingCapacityBytes,
			Total: Uncapped{},
		},
	})
}

type messagePolicy struct {
	limits ReadingCapacity
}

func (*messagePolicy) Name() string {
	return MessagePolicyName
}

func (*messagePolicy) MsgResourceCount(message.Message) uint64 {
	return 1
}

func (p *messagePolicy) Limits() ReadingCapacity {
	return p.limits
}

// Both grant types carry a message count.
func (*messagePolicy) grantAmount(msg message.Message) (uint64, error) {
	switch msg := msg.(type) {
	case *message.SendMore:
		return uint64(msg.NumMessages), nil
	case *message.SendMoreExtended:
		return uint64(msg.NumMessages), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnexpectedGrant, msg.Op())
	}
}

func (*messagePolicy) canRead(capacity ReadingCapacity) (bool, error) {
	total, ok := capacity.Total.(Capped)
	if !ok {
		return false, fmt.Errorf("%w: message policy has %s total capacity", ErrCapacityInvariant, capacity.Total)
	}
	return total > 0, nil
}

type bytePolicy struct {
	limits ReadingCapacity
}

func (*bytePolicy) Name() string {
	return BytePolicyName
}

func (*bytePolicy) MsgResourceCount(msg message.Message) uint64 {
	return uint64(len(msg.Bytes()))
}

func (p *bytePolicy) Limits() ReadingCapacity {
	return p.limits
}

func (*bytePolicy) grantAmount(msg message.Message) (uint64, error) {
	grant, ok := msg.(*message.SendMoreExtended)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnexpectedGrant, msg.Op())
	}
	return uint64(grant.NumBytes), nil
}

func (*bytePolicy) canRead(capacity ReadingCapacity) (bool, error) {
	if _, ok := capacity.Total.(Uncapped); !ok {
		return false, fmt.Errorf("%w: byte policy has %s total capacity", ErrCapacityInvariant, capacity.Total)
	}
	return true, nil
}
