// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package flowcontrol

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/message"
	"github.com/ava-labs/flowgate/utils/buffer"
	"github.com/ava-labs/flowgate/utils/logging"
	"github.com/ava-labs/flowgate/utils/timer/mockable"

	safemath "github.com/ava-labs/flowgate/utils/math"
)

var (
	ErrInvalidGrant = errors.New("invalid grant")

	errNotStarted      = errors.New("flow control was not started")
	errUnknownFloodOp  = errors.New("unknown flood op")
	errQueueAccounting = errors.New("outbound queue accounting mismatch")
	errBatchOverflow   = errors.New("processed more than a batch without granting capacity")
	errGrantTooLarge   = errors.New("grant doesn't fit in a message")
)

// FlowControl manages the capacity of a single connection in both directions.
//
// Inbound, it admits messages against the capacity granted to the peer and
// grants capacity back in batches as messages are processed. Outbound, it
// queues flood messages by priority and sends them as the peer grants
// capacity, shedding load when the queues grow too large or too old.
//
// FlowControl is not thread safe.
type FlowControl struct {
	config     *Config
	log        logging.Logger
	nodeID     ids.NodeID
	classifier message.Classifier
	tracker    StatementTracker
	metrics    *Metrics
	clock      *mockable.Clock

	sender          Sender
	messageCapacity *Capacity
	// byteCapacity is nil unless byte flow control was negotiated.
	byteCapacity *Capacity

	// flood capacity released since capacity was last granted to the peer
	floodDataProcessed      uint64
	floodDataProcessedBytes uint64

	outboundQueues         [numQueues]buffer.Deque[*queuedMessage]
	txQueueByteCount       uint64
	advertQueueTxHashCount uint64
	demandQueueTxHashCount uint64
	queueDelays            map[message.Op]safemath.Averager

	// set while the peer hasn't granted enough capacity to send the next
	// queued message
	noOutboundCapacity    time.Time
	hasNoOutboundCapacity bool
}

func New(
	config *Config,
	log logging.Logger,
	nodeID ids.NodeID,
	classifier message.Classifier,
	tracker StatementTracker,
	metrics *Metrics,
	clock *mockable.Clock,
) *FlowControl {
	return &FlowControl{
		config:          config,
		log:             log,
		nodeID:          nodeID,
		classifier:      classifier,
		tracker:         tracker,
		metrics:         metrics,
		clock:           clock,
		messageCapacity: NewMessageCapacity(config, log, nodeID, classifier, metrics),
		outboundQueues:  newOutboundQueues(),
		queueDelays:     make(map[message.Op]safemath.Averager),
		// The peer must grant capacity before anything can be sent.
		noOutboundCapacity:    clock.Time(),
		hasNoOutboundCapacity: true,
	}
}

// Start enables flow control for the connection and grants the peer its
// initial capacity.
func (fc *FlowControl) Start(sender Sender, enableBytes bool) error {
	fc.sender = sender
	if enableBytes {
		fc.byteCapacity = NewByteCapacity(fc.config, fc.log, fc.nodeID, fc.classifier, fc.metrics)
		return fc.sendSendMoreExtended(
			fc.config.PeerFloodReadingCapacity,
			fc.config.PeerFloodReadingCapacityBytes,
		)
	}
	return fc.sendSendMore(fc.config.PeerFloodReadingCapacity)
}

// BytesEnabled returns true if byte flow control is in use.
func (fc *FlowControl) BytesEnabled() bool {
	return fc.byteCapacity != nil
}

// BeginMessageProcessing locks the local capacity needed to process [msg].
// Returns false if the peer sent a flood message without having the capacity
// to do so.
func (fc *FlowControl) BeginMessageProcessing(msg message.Message) bool {
	return fc.messageCapacity.LockLocalCapacity(msg) &&
		(fc.byteCapacity == nil || fc.byteCapacity.LockLocalCapacity(msg))
}

// EndMessageProcessing releases the local capacity locked for [msg] and grants
// the released flood capacity back to the peer once a batch was processed or
// the peer's flood capacity recovered from zero.
func (fc *FlowControl) EndMessageProcessing(msg message.Message) error {
	released, recovered := fc.messageCapacity.ReleaseLocalCapacity(msg)
	fc.floodDataProcessed += released

	if fc.byteCapacity != nil {
		releasedBytes, recoveredBytes := fc.byteCapacity.ReleaseLocalCapacity(msg)
		fc.floodDataProcessedBytes += releasedBytes
		recovered = recovered || recoveredBytes
	}

	if fc.floodDataProcessed > fc.config.SendMoreBatchSize {
		fatal(fc.log, errBatchOverflow,
			zap.Stringer("nodeID", fc.nodeID),
			zap.Uint64("processed", fc.floodDataProcessed),
			zap.Uint64("batchSize", fc.config.SendMoreBatchSize),
		)
	}

	shouldSendMore := recovered || fc.floodDataProcessed == fc.config.SendMoreBatchSize
	if fc.byteCapacity != nil {
		shouldSendMore = shouldSendMore || fc.floodDataProcessedBytes >= fc.config.SendMoreBatchSizeBytes
	}
	if !shouldSendMore {
		return nil
	}

	var err error
	if fc.byteCapacity != nil {
		err = fc.sendSendMoreExtended(fc.floodDataProcessed, fc.floodDataProcessedBytes)
	} else {
		if fc.floodDataProcessedBytes != 0 {
			fatal(fc.log, errBatchOverflow,
				zap.Stringer("nodeID", fc.nodeID),
				zap.Uint64("processedBytes", fc.floodDataProcessedBytes),
			)
		}
		err = fc.sendSendMore(fc.floodDataProcessed)
	}
	fc.floodDataProcessed = 0
	fc.floodDataProcessedBytes = 0
	return err
}

// IsSendMoreValid verifies a grant received from the peer before it is
// applied.
func (fc *FlowControl) IsSendMoreValid(msg message.Message) error {
	var numMessages, numBytes uint32
	switch msg := msg.(type) {
	case *message.SendMore:
		if fc.byteCapacity != nil {
			return fmt.Errorf("%w: %w: %s with byte flow control", ErrInvalidGrant, ErrUnexpectedGrant, msg.Op())
		}
		numMessages = msg.NumMessages
	case *message.SendMoreExtended:
		if fc.byteCapacity == nil {
			return fmt.Errorf("%w: %w: %s without byte flow control", ErrInvalidGrant, ErrUnexpectedGrant, msg.Op())
		}
		numMessages = msg.NumMessages
		numBytes = msg.NumBytes
	default:
		return fmt.Errorf("%w: %w: %s", ErrInvalidGrant, ErrUnexpectedGrant, msg.Op())
	}

	if numMessages == 0 || (fc.byteCapacity != nil && numBytes == 0) {
		return fmt.Errorf("%w: empty %s", ErrInvalidGrant, msg.Op())
	}

	if _, err := safemath.Add64(fc.messageCapacity.OutboundCapacity(), uint64(numMessages)); err != nil {
		return fmt.Errorf("%w: %w: messages", ErrInvalidGrant, ErrOutboundCapacityOverflow)
	}
	if fc.byteCapacity != nil {
		if _, err := safemath.Add64(fc.byteCapacity.OutboundCapacity(), uint64(numBytes)); err != nil {
			return fmt.Errorf("%w: %w: bytes", ErrInvalidGrant, ErrOutboundCapacityOverflow)
		}
	}
	return nil
}

// MaybeReleaseCapacityAndTriggerSend applies a grant from the peer and sends
// as many queued messages as the new capacity allows. The grant must have been
// verified with IsSendMoreValid. Other messages are ignored.
func (fc *FlowControl) MaybeReleaseCapacityAndTriggerSend(msg message.Message) {
	if !msg.Op().IsGrant() {
		return
	}

	fc.hasNoOutboundCapacity = false
	fc.messageCapacity.ReleaseOutboundCapacity(msg)
	if fc.byteCapacity != nil {
		fc.byteCapacity.ReleaseOutboundCapacity(msg)
	}
	fc.metrics.grantsReceived.Inc()

	fc.log.Verbo("peer granted capacity",
		zap.Stringer("nodeID", fc.nodeID),
		zap.Stringer("grant", msg),
	)

	fc.maybeSendNextBatch()
}

// SendMessage queues [msg] if it is a flood message and sends as many queued
// messages as possible. Returns false if [msg] isn't a flood message, in which
// case the caller should send it directly.
func (fc *FlowControl) SendMessage(msg message.Message) bool {
	if !fc.classifier.IsFlood(msg) {
		return false
	}
	fc.addMsgAndMaybeTrimQueue(msg)
	fc.maybeSendNextBatch()
	return true
}

// CanRead returns true if more messages may be read from the peer.
func (fc *FlowControl) CanRead() bool {
	return (fc.byteCapacity == nil || fc.byteCapacity.CanRead()) &&
		fc.messageCapacity.CanRead()
}

// NoOutboundCapacitySince returns the time since which a queued message has
// been waiting for capacity from the peer.
func (fc *FlowControl) NoOutboundCapacitySince() (time.Time, bool) {
	return fc.noOutboundCapacity, fc.hasNoOutboundCapacity
}

// QueueLen returns the number of messages waiting to be sent.
func (fc *FlowControl) QueueLen() int {
	var numQueued int
	for _, queue := range fc.outboundQueues {
		numQueued += queue.Len()
	}
	return numQueued
}

func (fc *FlowControl) MessageCapacity() *Capacity {
	return fc.messageCapacity
}

// ByteCapacity returns nil if byte flow control isn't in use.
func (fc *FlowControl) ByteCapacity() *Capacity {
	return fc.byteCapacity
}

func (fc *FlowControl) hasOutboundCapacity(msg message.Message) bool {
	return fc.messageCapacity.HasOutboundCapacity(msg) &&
		(fc.byteCapacity == nil || fc.byteCapacity.HasOutboundCapacity(msg))
}

// maybeSendNextBatch sends queued messages in priority order while the peer
// has granted enough capacity.
func (fc *FlowControl) maybeSendNextBatch() {
	if fc.sender == nil {
		fatal(fc.log, errNotStarted, zap.Stringer("nodeID", fc.nodeID))
	}

	now := fc.clock.Time()
	var sent int
	for _, queue := range fc.outboundQueues {
		for {
			front, ok := queue.PeekLeft()
			if !ok {
				break
			}

			msg := front.msg
			if !fc.hasOutboundCapacity(msg) {
				fc.log.Debug("no outbound capacity for peer",
					zap.Stringer("nodeID", fc.nodeID),
					zap.Stringer("op", msg.Op()),
				)
				if !fc.hasNoOutboundCapacity {
					fc.noOutboundCapacity = now
					fc.hasNoOutboundCapacity = true
				}
				break
			}

			if !fc.sender.Send(msg) {
				fc.log.Debug("failed to send flood message",
					zap.Stringer("nodeID", fc.nodeID),
					zap.Stringer("op", msg.Op()),
				)
			}
			sent++

			fc.messageCapacity.LockOutboundCapacity(msg)
			if fc.byteCapacity != nil {
				fc.byteCapacity.LockOutboundCapacity(msg)
			}

			op := msg.Op()
			fc.observeQueueDelay(op, now.Sub(front.timeEmplaced), now)
			switch op {
			case message.TxOp:
				fc.removedFromTxQueue(msg)
			case message.FloodDemandOp:
				fc.subHashes(&fc.demandQueueTxHashCount, msg)
			case message.FloodAdvertOp:
				fc.subHashes(&fc.advertQueueTxHashCount, msg)
			}
			_, _ = queue.PopLeft()
		}
	}

	if sent > 0 {
		fc.log.Verbo("sent flood batch",
			zap.Stringer("nodeID", fc.nodeID),
			zap.Int("numSent", sent),
		)
	}
}

func (fc *FlowControl) observeQueueDelay(op message.Op, delay time.Duration, now time.Time) {
	fc.metrics.observeQueueDelay(op, delay)
	averager, ok := fc.queueDelays[op]
	if !ok {
		fc.queueDelays[op] = safemath.NewAverager(float64(delay), fc.config.QueueDelayHalflife, now)
		return
	}
	averager.Observe(float64(delay), now)
}

func (fc *FlowControl) sendSendMore(numMessages uint64) error {
	if numMessages > math.MaxUint32 {
		return fmt.Errorf("%w: %d messages", errGrantTooLarge, numMessages)
	}
	msg, err := message.NewSendMore(uint32(numMessages))
	if err != nil {
		return err
	}
	fc.sendGrant(msg)
	return nil
}

func (fc *FlowControl) sendSendMoreExtended(numMessages, numBytes uint64) error {
	if numMessages > math.MaxUint32 || numBytes > math.MaxUint32 {
		return fmt.Errorf("%w: %d messages, %d bytes", errGrantTooLarge, numMessages, numBytes)
	}
	msg, err := message.NewSendMoreExtended(uint32(numMessages), uint32(numBytes))
	if err != nil {
		return err
	}
	fc.sendGrant(msg)
	return nil
}

func (fc *FlowControl) sendGrant(msg message.Message) {
	if fc.sender == nil {
		fatal(fc.log, errNotStarted, zap.Stringer("nodeID", fc.nodeID))
	}
	if !fc.sender.Send(msg) {
		fc.log.Debug("failed to send grant",
			zap.Stringer("nodeID", fc.nodeID),
			zap.Stringer("grant", msg),
		)
		return
	}
	fc.metrics.grantsSent.Inc()
}
