// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package flowcontrol

import (
	"bytes"
	"sync/atomic"

	"github.com/ava-labs/flowgate/message"
)

var _ StatementTracker = (*SlotWindow)(nil)

// Sender transmits messages to a peer.
type Sender interface {
	// Send queues [msg] to be written to the peer. Returns false if the message
	// will not be written.
	Send(msg message.Message) bool
}

// StatementTracker exposes the consensus state used to drop statements that are
// no longer useful from the outbound statement queue.
type StatementTracker interface {
	// MinSlotToRemember is the oldest slot whose statements are still relayed.
	MinSlotToRemember() uint64
	// CheckpointSlot is a slot whose statements are always relayed.
	CheckpointSlot() uint64
	// IsNewerStatement returns true if [newer] supersedes [older].
	IsNewerStatement(older, newer *message.Statement) bool
}

// SlotWindow is a StatementTracker with a movable window of remembered slots.
// A statement supersedes another one made by the same node for the same slot
// with a smaller counter, or with the same counter but a larger value.
type SlotWindow struct {
	minSlot    atomic.Uint64
	checkpoint atomic.Uint64
}

// SetWindow sets the oldest remembered slot and the checkpoint slot.
func (w *SlotWindow) SetWindow(minSlot, checkpoint uint64) {
	w.minSlot.Store(minSlot)
	w.checkpoint.Store(checkpoint)
}

func (w *SlotWindow) MinSlotToRemember() uint64 {
	return w.minSlot.Load()
}

func (w *SlotWindow) CheckpointSlot() uint64 {
	return w.checkpoint.Load()
}

func (*SlotWindow) IsNewerStatement(older, newer *message.Statement) bool {
	if older.NodeID != newer.NodeID || older.SlotIndex != newer.SlotIndex {
		return false
	}
	if older.Counter != newer.Counter {
		return older.Counter < newer.Counter
	}
	return bytes.Compare(older.Value, newer.Value) < 0
}
