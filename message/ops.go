// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

// Op is an opcode
type Op byte

// Types of messages that may be sent between peers. The opcode is the first
// byte of every serialized message.
const (
	// Keepalive:
	PingOp Op = iota
	PongOp
	// Request / response:
	GetTxSetOp
	TxSetOp
	// Flow control:
	SendMoreOp
	SendMoreExtendedOp
	// Flooded:
	TxOp
	StatementOp
	FloodAdvertOp
	FloodDemandOp
)

var (
	// FloodOps are gossiped to most peers and are admitted against the flood
	// capacity of a connection.
	FloodOps = []Op{
		TxOp,
		StatementOp,
		FloodAdvertOp,
		FloodDemandOp,
	}

	// FlowControlOps grant outbound capacity to the receiver.
	FlowControlOps = []Op{
		SendMoreOp,
		SendMoreExtendedOp,
	}
)

// IsFlood returns true if messages with this opcode are flooded.
func (op Op) IsFlood() bool {
	switch op {
	case TxOp, StatementOp, FloodAdvertOp, FloodDemandOp:
		return true
	default:
		return false
	}
}

// IsGrant returns true if messages with this opcode grant outbound capacity.
func (op Op) IsGrant() bool {
	return op == SendMoreOp || op == SendMoreExtendedOp
}

func (op Op) String() string {
	switch op {
	case PingOp:
		return "ping"
	case PongOp:
		return "pong"
	case GetTxSetOp:
		return "get_tx_set"
	case TxSetOp:
		return "tx_set"
	case SendMoreOp:
		return "send_more"
	case SendMoreExtendedOp:
		return "send_more_extended"
	case TxOp:
		return "tx"
	case StatementOp:
		return "statement"
	case FloodAdvertOp:
		return "flood_advert"
	case FloodDemandOp:
		return "flood_demand"
	default:
		return "unknown"
	}
}
