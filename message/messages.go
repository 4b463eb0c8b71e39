// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"fmt"

	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/utils/wrappers"
)

var (
	_ Message = (*Ping)(nil)
	_ Message = (*Pong)(nil)
	_ Message = (*GetTxSet)(nil)
	_ Message = (*TxSet)(nil)
	_ Message = (*SendMore)(nil)
	_ Message = (*SendMoreExtended)(nil)
	_ Message = (*Tx)(nil)
	_ Message = (*Statement)(nil)
	_ Message = (*FloodAdvert)(nil)
	_ Message = (*FloodDemand)(nil)
)

// Message is a parsed message along with its serialized form.
type Message interface {
	fmt.Stringer

	// Op returns the opcode of this message
	Op() Op
	// Bytes returns the serialized form of this message. The length of the
	// returned slice is the resource cost of the message under byte based flow
	// control.
	Bytes() []byte
}

type payload interface {
	Message

	pack(*wrappers.Packer)
	unpack(*wrappers.Packer)
	setBytes([]byte)
}

type encoded struct {
	bytes []byte
}

func (e *encoded) Bytes() []byte {
	return e.bytes
}

func (e *encoded) setBytes(b []byte) {
	e.bytes = b
}

type Ping struct {
	encoded

	Nonce uint64
}

func (*Ping) Op() Op {
	return PingOp
}

func (m *Ping) String() string {
	return fmt.Sprintf("Ping(nonce=%d)", m.Nonce)
}

func (m *Ping) pack(p *wrappers.Packer) {
	p.PackLong(m.Nonce)
}

func (m *Ping) unpack(p *wrappers.Packer) {
	m.Nonce = p.UnpackLong()
}

type Pong struct {
	encoded

	Nonce uint64
}

func (*Pong) Op() Op {
	return PongOp
}

func (m *Pong) String() string {
	return fmt.Sprintf("Pong(nonce=%d)", m.Nonce)
}

func (m *Pong) pack(p *wrappers.Packer) {
	p.PackLong(m.Nonce)
}

func (m *Pong) unpack(p *wrappers.Packer) {
	m.Nonce = p.UnpackLong()
}

// GetTxSet requests the transaction set with the given hash.
type GetTxSet struct {
	encoded

	SetHash ids.ID
}

func (*GetTxSet) Op() Op {
	return GetTxSetOp
}

func (m *GetTxSet) String() string {
	return fmt.Sprintf("GetTxSet(hash=%s)", m.SetHash)
}

func (m *GetTxSet) pack(p *wrappers.Packer) {
	p.PackFixedBytes(m.SetHash[:])
}

func (m *GetTxSet) unpack(p *wrappers.Packer) {
	m.SetHash = unpackID(p)
}

// TxSet is the response to a GetTxSet.
type TxSet struct {
	encoded

	SetHash ids.ID
	Txs     [][]byte
}

func (*TxSet) Op() Op {
	return TxSetOp
}

func (m *TxSet) String() string {
	return fmt.Sprintf("TxSet(hash=%s, numTxs=%d)", m.SetHash, len(m.Txs))
}

func (m *TxSet) pack(p *wrappers.Packer) {
	p.PackFixedBytes(m.SetHash[:])
	p.PackInt(uint32(len(m.Txs)))
	for _, tx := range m.Txs {
		p.PackBytes(tx)
	}
}

func (m *TxSet) unpack(p *wrappers.Packer) {
	m.SetHash = unpackID(p)
	numTxs := p.UnpackInt()
	if numTxs > maxTxsPerSet {
		p.Add(fmt.Errorf("%w: %d txs", errTooManyElements, numTxs))
		return
	}
	m.Txs = make([][]byte, 0, numTxs)
	for i := uint32(0); i < numTxs && !p.Errored(); i++ {
		m.Txs = append(m.Txs, p.UnpackLimitedBytes(DefaultMaxMessageSize))
	}
}

// SendMore grants the receiver capacity to send [NumMessages] more flood
// messages.
type SendMore struct {
	encoded

	NumMessages uint32
}

func (*SendMore) Op() Op {
	return SendMoreOp
}

func (m *SendMore) String() string {
	return fmt.Sprintf("SendMore(numMessages=%d)", m.NumMessages)
}

func (m *SendMore) pack(p *wrappers.Packer) {
	p.PackInt(m.NumMessages)
}

func (m *SendMore) unpack(p *wrappers.Packer) {
	m.NumMessages = p.UnpackInt()
}

// SendMoreExtended grants the receiver capacity to send [NumMessages] more
// flood messages totalling at most [NumBytes] more bytes.
type SendMoreExtended struct {
	encoded

	NumMessages uint32
	NumBytes    uint32
}

func (*SendMoreExtended) Op() Op {
	return SendMoreExtendedOp
}

func (m *SendMoreExtended) String() string {
	return fmt.Sprintf("SendMoreExtended(numMessages=%d, numBytes=%d)", m.NumMessages, m.NumBytes)
}

func (m *SendMoreExtended) pack(p *wrappers.Packer) {
	p.PackInt(m.NumMessages)
	p.PackInt(m.NumBytes)
}

func (m *SendMoreExtended) unpack(p *wrappers.Packer) {
	m.NumMessages = p.UnpackInt()
	m.NumBytes = p.UnpackInt()
}

// Tx floods a single serialized transaction.
type Tx struct {
	encoded

	Tx []byte
}

func (*Tx) Op() Op {
	return TxOp
}

func (m *Tx) String() string {
	return fmt.Sprintf("Tx(id=%s, size=%d)", m.ID(), len(m.Tx))
}

// ID returns the hash of the transaction.
func (m *Tx) ID() ids.ID {
	return ids.Checksum256(m.Tx)
}

func (m *Tx) pack(p *wrappers.Packer) {
	p.PackBytes(m.Tx)
}

func (m *Tx) unpack(p *wrappers.Packer) {
	m.Tx = p.UnpackLimitedBytes(DefaultMaxMessageSize)
}

// Statement floods a consensus statement made by [NodeID] for [SlotIndex].
// Statements from the same node for the same slot are ordered by [Counter].
type Statement struct {
	encoded

	NodeID    ids.NodeID
	SlotIndex uint64
	Counter   uint32
	Value     []byte
}

func (*Statement) Op() Op {
	return StatementOp
}

func (m *Statement) String() string {
	return fmt.Sprintf("Statement(node=%s, slot=%d, counter=%d)", m.NodeID.ShortString(), m.SlotIndex, m.Counter)
}

func (m *Statement) pack(p *wrappers.Packer) {
	p.PackFixedBytes(m.NodeID[:])
	p.PackLong(m.SlotIndex)
	p.PackInt(m.Counter)
	p.PackBytes(m.Value)
}

func (m *Statement) unpack(p *wrappers.Packer) {
	copy(m.NodeID[:], p.UnpackFixedBytes(ids.NodeIDLen))
	m.SlotIndex = p.UnpackLong()
	m.Counter = p.UnpackInt()
	m.Value = p.UnpackLimitedBytes(DefaultMaxMessageSize)
}

// FloodAdvert advertises transactions by hash.
type FloodAdvert struct {
	encoded

	TxHashes []ids.ID
}

func (*FloodAdvert) Op() Op {
	return FloodAdvertOp
}

func (m *FloodAdvert) String() string {
	return fmt.Sprintf("FloodAdvert(numHashes=%d)", len(m.TxHashes))
}

func (m *FloodAdvert) pack(p *wrappers.Packer) {
	packIDs(p, m.TxHashes)
}

func (m *FloodAdvert) unpack(p *wrappers.Packer) {
	m.TxHashes = unpackIDs(p)
}

// FloodDemand requests advertised transactions by hash.
type FloodDemand struct {
	encoded

	TxHashes []ids.ID
}

func (*FloodDemand) Op() Op {
	return FloodDemandOp
}

func (m *FloodDemand) String() string {
	return fmt.Sprintf("FloodDemand(numHashes=%d)", len(m.TxHashes))
}

func (m *FloodDemand) pack(p *wrappers.Packer) {
	packIDs(p, m.TxHashes)
}

func (m *FloodDemand) unpack(p *wrappers.Packer) {
	m.TxHashes = unpackIDs(p)
}

func unpackID(p *wrappers.Packer) ids.ID {
	var id ids.ID
	copy(id[:], p.UnpackFixedBytes(ids.IDLen))
	return id
}

func packIDs(p *wrappers.Packer, hashes []ids.ID) {
	p.PackInt(uint32(len(hashes)))
	for _, hash := range hashes {
		p.PackFixedBytes(hash[:])
	}
}

func unpackIDs(p *wrappers.Packer) []ids.ID {
	numHashes := p.UnpackInt()
	if numHashes > maxHashesPerMessage {
		p.Add(fmt.Errorf("%w: %d hashes", errTooManyElements, numHashes))
		return nil
	}
	hashes := make([]ids.ID, 0, numHashes)
	for i := uint32(0); i < numHashes && !p.Errored(); i++ {
		hashes = append(hashes, unpackID(p))
	}
	return hashes
}
