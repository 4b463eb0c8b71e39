// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package peertest

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/network/peer"
)

// Pair is an in-memory connection between two nodes.
type Pair struct {
	// A is node A's session with node B.
	A *peer.Peer
	// B is node B's session with node A.
	B *peer.Peer

	AToB *Link
	BToA *Link
}

func NewPair(configA, configB *peer.Config, nodeA, nodeB ids.NodeID) *Pair {
	aToB := NewLink()
	bToA := NewLink()
	return &Pair{
		A:    peer.New(configA, nodeB, aToB),
		B:    peer.New(configB, nodeA, bToA),
		AToB: aToB,
		BToA: bToA,
	}
}

// Start starts both sessions. Their initial grants are queued until Run
// delivers them.
func (p *Pair) Start(enableBytes bool) error {
	return errors.Join(
		p.A.Start(enableBytes),
		p.B.Start(enableBytes),
	)
}

// Run delivers messages in both directions until [ctx] is done or either
// session is closed.
func (p *Pair) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return p.AToB.Pump(ctx, p.B)
	})
	eg.Go(func() error {
		return p.BToA.Pump(ctx, p.A)
	})
	return eg.Wait()
}

// Idle returns true if no message is in flight in either direction.
func (p *Pair) Idle() bool {
	return p.AToB.Idle() && p.BToA.Idle()
}

func (p *Pair) Close() {
	p.AToB.Close()
	p.BToA.Close()
}
