// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package peer

import (
	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/message"
)

// Handler processes the messages a peer admits and is notified when the peer
// shuts down.
type Handler interface {
	// HandleInbound is called with every message admitted by flow control,
	// other than grants. The message's capacity is released once this returns.
	//
	// HandleInbound may send messages to any peer, including [nodeID].
	HandleInbound(nodeID ids.NodeID, msg message.Message) error

	// Disconnected is called once when the peer is closed. [err] is the reason
	// the peer was closed.
	Disconnected(nodeID ids.NodeID, err error)
}
