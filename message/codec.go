// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"errors"
	"fmt"

	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/utils/units"
	"github.com/ava-labs/flowgate/utils/wrappers"
)

const (
	// DefaultMaxMessageSize is the largest serialized message that will be
	// packed or parsed.
	DefaultMaxMessageSize = 2 * units.MiB

	maxHashesPerMessage = DefaultMaxMessageSize / ids.IDLen
	maxTxsPerSet        = DefaultMaxMessageSize / wrappers.IntLen
)

var (
	errUnknownOp       = errors.New("unknown opcode")
	errFailedToPack    = errors.New("failed to pack message")
	errFailedToParse   = errors.New("failed to parse message")
	errTrailingBytes   = errors.New("message has trailing bytes")
	errTooManyElements = errors.New("too many elements")
	errEmptyMessage    = errors.New("empty message")
)

// Parse the serialized form of a message. The returned message keeps a
// reference to [bytes].
func Parse(bytes []byte) (Message, error) {
	if len(bytes) == 0 {
		return nil, errEmptyMessage
	}
	if len(bytes) > DefaultMaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", errFailedToParse, len(bytes), DefaultMaxMessageSize)
	}

	p := wrappers.Packer{Bytes: bytes}
	op := Op(p.UnpackByte())
	msg, err := newPayload(op)
	if err != nil {
		return nil, err
	}
	msg.unpack(&p)
	if p.Errored() {
		return nil, fmt.Errorf("%w %s: %w", errFailedToParse, op, p.Err)
	}
	if p.Offset != len(bytes) {
		return nil, fmt.Errorf("%w: %s has %d extra bytes", errTrailingBytes, op, len(bytes)-p.Offset)
	}
	msg.setBytes(bytes)
	return msg, nil
}

func newPayload(op Op) (payload, error) {
	switch op {
	case PingOp:
		return &Ping{}, nil
	case PongOp:
		return &Pong{}, nil
	case GetTxSetOp:
		return &GetTxSet{}, nil
	case TxSetOp:
		return &TxSet{}, nil
	case SendMoreOp:
		return &SendMore{}, nil
	case SendMoreExtendedOp:
		return &SendMoreExtended{}, nil
	case TxOp:
		return &Tx{}, nil
	case StatementOp:
		return &Statement{}, nil
	case FloodAdvertOp:
		return &FloodAdvert{}, nil
	case FloodDemandOp:
		return &FloodDemand{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", errUnknownOp, op)
	}
}

// encode serializes [msg] as its opcode followed by its fields and caches the
// result on [msg].
func encode(msg payload) error {
	p := wrappers.Packer{MaxSize: DefaultMaxMessageSize}
	p.PackByte(byte(msg.Op()))
	msg.pack(&p)
	if p.Errored() {
		return fmt.Errorf("%w %s: %w", errFailedToPack, msg.Op(), p.Err)
	}
	msg.setBytes(p.Bytes)
	return nil
}
