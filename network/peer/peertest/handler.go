// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package peertest

import (
	"sync"

	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/message"
	"github.com/ava-labs/flowgate/network/peer"
)

var _ peer.Handler = (*Handler)(nil)

// Handler records the messages it handles. If set, OnInbound is called for
// every handled message and its result is returned to the peer.
type Handler struct {
	OnInbound func(nodeID ids.NodeID, msg message.Message) error

	lock         sync.Mutex
	received     map[message.Op]int
	disconnected map[ids.NodeID]error
}

func (h *Handler) HandleInbound(nodeID ids.NodeID, msg message.Message) error {
	h.lock.Lock()
	if h.received == nil {
		h.received = make(map[message.Op]int)
	}
	h.received[msg.Op()]++
	h.lock.Unlock()

	if h.OnInbound == nil {
		return nil
	}
	return h.OnInbound(nodeID, msg)
}

func (h *Handler) Disconnected(nodeID ids.NodeID, err error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.disconnected == nil {
		h.disconnected = make(map[ids.NodeID]error)
	}
	h.disconnected[nodeID] = err
}

// Received returns the number of handled messages with [op].
func (h *Handler) Received(op message.Op) int {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.received[op]
}

// DisconnectReason returns the reason [nodeID] was disconnected, or nil if it
// wasn't.
func (h *Handler) DisconnectReason(nodeID ids.NodeID) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.disconnected[nodeID]
}
