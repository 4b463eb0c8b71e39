// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package flowcontrol

import (
	"time"

	"go.uber.org/zap"

	"github.com/ava-labs/flowgate/message"
	"github.com/ava-labs/flowgate/utils/buffer"

	safemath "github.com/ava-labs/flowgate/utils/math"
)

// Outbound queues in the order they are flushed.
const (
	statementQueue = iota
	txQueue
	demandQueue
	advertQueue
	numQueues
)

type queuedMessage struct {
	msg          message.Message
	timeEmplaced time.Time
}

func newOutboundQueues() [numQueues]buffer.Deque[*queuedMessage] {
	var queues [numQueues]buffer.Deque[*queuedMessage]
	for i := range queues {
		queues[i] = buffer.NewUnboundedDeque[*queuedMessage](0)
	}
	return queues
}

func queueIndex(op message.Op) (int, bool) {
	switch op {
	case message.StatementOp:
		return statementQueue, true
	case message.TxOp:
		return txQueue, true
	case message.FloodDemandOp:
		return demandQueue, true
	case message.FloodAdvertOp:
		return advertQueue, true
	default:
		return 0, false
	}
}

func numTxHashes(msg message.Message) uint64 {
	switch msg := msg.(type) {
	case *message.FloodAdvert:
		return uint64(len(msg.TxHashes))
	case *message.FloodDemand:
		return uint64(len(msg.TxHashes))
	default:
		return 0
	}
}

func (fc *FlowControl) isStale(queued *queuedMessage, now time.Time) bool {
	return now.Sub(queued.timeEmplaced) > fc.config.OutboundQueueTimeout
}

// addMsgAndMaybeTrimQueue queues [msg] and then sheds load from its queue.
func (fc *FlowControl) addMsgAndMaybeTrimQueue(msg message.Message) {
	op := msg.Op()
	index, ok := queueIndex(op)
	if !ok {
		fatal(fc.log, errUnknownFloodOp,
			zap.Stringer("nodeID", fc.nodeID),
			zap.Stringer("op", op),
		)
	}

	switch index {
	case txQueue:
		if fc.byteCapacity != nil {
			size := fc.byteCapacity.MsgResourceCount(msg)
			// Transactions this large won't be flooded by the peer anyways.
			if size > fc.config.MaxTxSize {
				fc.log.Debug("dropping oversized transaction",
					zap.Stringer("nodeID", fc.nodeID),
					zap.Uint64("size", size),
					zap.Uint64("maxSize", fc.config.MaxTxSize),
				)
				fc.metrics.oversizedTxs.Inc()
				return
			}
			fc.txQueueByteCount += size
		}
	case demandQueue:
		fc.demandQueueTxHashCount += numTxHashes(msg)
	case advertQueue:
		fc.advertQueueTxHashCount += numTxHashes(msg)
	}

	now := fc.clock.Time()
	queue := fc.outboundQueues[index]
	queue.PushRight(&queuedMessage{
		msg:          msg,
		timeEmplaced: now,
	})

	var dropped int
	switch index {
	case txQueue:
		for fc.txQueueOverLimit(queue, now) {
			front, _ := queue.PopLeft()
			fc.removedFromTxQueue(front.msg)
			dropped++
		}
	case statementQueue:
		dropped = fc.trimStatementQueue(queue)
	case demandQueue:
		dropped = fc.trimHashQueue(queue, &fc.demandQueueTxHashCount, now)
	case advertQueue:
		dropped = fc.trimHashQueue(queue, &fc.advertQueueTxHashCount, now)
	}

	if dropped > 0 {
		fc.metrics.dropped(op, dropped)
		fc.log.Verbo("dropped queued messages",
			zap.Stringer("nodeID", fc.nodeID),
			zap.Stringer("op", op),
			zap.Int("numDropped", dropped),
		)
	}
}

func (fc *FlowControl) txQueueOverLimit(queue buffer.Deque[*queuedMessage], now time.Time) bool {
	if uint64(queue.Len()) > fc.config.OutboundQueueLimit {
		return true
	}
	if fc.byteCapacity != nil && fc.txQueueByteCount > fc.config.OutboundTxQueueByteLimit {
		return true
	}
	front, ok := queue.PeekLeft()
	return ok && fc.isStale(front, now)
}

// trimHashQueue drops adverts or demands from the front of [queue] while the
// queue holds too many hashes or its oldest message is stale.
func (fc *FlowControl) trimHashQueue(queue buffer.Deque[*queuedMessage], hashCount *uint64, now time.Time) int {
	var dropped int
	for {
		front, ok := queue.PeekLeft()
		if !ok || (*hashCount <= fc.config.OutboundQueueLimit && !fc.isStale(front, now)) {
			return dropped
		}
		_, _ = queue.PopLeft()
		fc.subHashes(hashCount, front.msg)
		dropped++
	}
}

// trimStatementQueue drops statements for slots that are no longer remembered
// and replaces at most one statement that is superseded by the newest queued
// statement.
func (fc *FlowControl) trimStatementQueue(queue buffer.Deque[*queuedMessage]) int {
	var (
		minSlot       = fc.tracker.MinSlotToRemember()
		checkpoint    = fc.tracker.CheckpointSlot()
		entries       = queue.List()
		kept          = make([]*queuedMessage, 0, len(entries))
		valueReplaced bool
		dropped       int
	)
	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		statement, ok := entry.msg.(*message.Statement)
		if !ok {
			kept = append(kept, entry)
			continue
		}
		if statement.SlotIndex < minSlot && statement.SlotIndex != checkpoint {
			dropped++
			continue
		}

		last := len(entries) - 1
		if !valueReplaced && i != last {
			newest, ok := entries[last].msg.(*message.Statement)
			if ok && fc.tracker.IsNewerStatement(statement, newest) {
				valueReplaced = true
				kept = append(kept, entries[last])
				entries = entries[:last]
				dropped++
				continue
			}
		}
		kept = append(kept, entry)
	}

	if dropped == 0 {
		return 0
	}
	for queue.Len() > 0 {
		_, _ = queue.PopLeft()
	}
	for _, entry := range kept {
		queue.PushRight(entry)
	}
	return dropped
}

func (fc *FlowControl) removedFromTxQueue(msg message.Message) {
	if fc.byteCapacity == nil {
		return
	}
	size := fc.byteCapacity.MsgResourceCount(msg)
	remaining, err := safemath.Sub(fc.txQueueByteCount, size)
	if err != nil {
		fatal(fc.log, errQueueAccounting,
			zap.Stringer("nodeID", fc.nodeID),
			zap.Uint64("queueBytes", fc.txQueueByteCount),
			zap.Uint64("size", size),
		)
	}
	fc.txQueueByteCount = remaining
}

func (fc *FlowControl) subHashes(hashCount *uint64, msg message.Message) {
	numHashes := numTxHashes(msg)
	remaining, err := safemath.Sub(*hashCount, numHashes)
	if err != nil {
		fatal(fc.log, errQueueAccounting,
			zap.Stringer("nodeID", fc.nodeID),
			zap.Uint64("queueHashes", *hashCount),
			zap.Uint64("numHashes", numHashes),
		)
	}
	*hashCount = remaining
}
