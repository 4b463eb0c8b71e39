// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

import "github.com/ava-labs/flowgate/ids"

func NewPing(nonce uint64) (*Ping, error) {
	msg := &Ping{Nonce: nonce}
	return msg, encode(msg)
}

func NewPong(nonce uint64) (*Pong, error) {
	msg := &Pong{Nonce: nonce}
	return msg, encode(msg)
}

func NewGetTxSet(setHash ids.ID) (*GetTxSet, error) {
	msg := &GetTxSet{SetHash: setHash}
	return msg, encode(msg)
}

func NewTxSet(setHash ids.ID, txs [][]byte) (*TxSet, error) {
	msg := &TxSet{
		SetHash: setHash,
		Txs:     txs,
	}
	return msg, encode(msg)
}

func NewSendMore(numMessages uint32) (*SendMore, error) {
	msg := &SendMore{NumMessages: numMessages}
	return msg, encode(msg)
}

func NewSendMoreExtended(numMessages, numBytes uint32) (*SendMoreExtended, error) {
	msg := &SendMoreExtended{
		NumMessages: numMessages,
		NumBytes:    numBytes,
	}
	return msg, encode(msg)
}

func NewTx(tx []byte) (*Tx, error) {
	msg := &Tx{Tx: tx}
	return msg, encode(msg)
}

func NewStatement(nodeID ids.NodeID, slotIndex uint64, counter uint32, value []byte) (*Statement, error) {
	msg := &Statement{
		NodeID:    nodeID,
		SlotIndex: slotIndex,
		Counter:   counter,
		Value:     value,
	}
	return msg, encode(msg)
}

func NewFloodAdvert(txHashes []ids.ID) (*FloodAdvert, error) {
	msg := &FloodAdvert{TxHashes: txHashes}
	return msg, encode(msg)
}

func NewFloodDemand(txHashes []ids.ID) (*FloodDemand, error) {
	msg := &FloodDemand{TxHashes: txHashes}
	return msg, encode(msg)
}
