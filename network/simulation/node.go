// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulation

import (
	"sync"

	"go.uber.org/zap"

	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/message"
	"github.com/ava-labs/flowgate/network/peer"
	"github.com/ava-labs/flowgate/utils/logging"
)

var _ peer.Handler = (*node)(nil)

// node relays every transaction it sees for the first time to its peers.
type node struct {
	id     ids.NodeID
	log    logging.Logger
	fanout int

	// peersLock guards [peers] membership. Peers are only removed once they
	// disconnect.
	peersLock sync.RWMutex
	peers     peer.Set

	lock         sync.Mutex
	seen         map[ids.ID]struct{}
	pingNonce    uint64
	pingsSent    int
	pongs        int
	disconnected int
}

func newNode(id ids.NodeID, log logging.Logger, fanout int) *node {
	return &node{
		id:     id,
		log:    log,
		fanout: fanout,
		peers:  peer.NewSet(),
		seen:   make(map[ids.ID]struct{}),
	}
}

func (n *node) HandleInbound(nodeID ids.NodeID, msg message.Message) error {
	switch msg := msg.(type) {
	case *message.Tx:
		n.issue(nodeID, msg)
	case *message.Ping:
		pong, err := message.NewPong(msg.Nonce)
		if err != nil {
			return err
		}
		n.peersLock.RLock()
		p, ok := n.peers.GetByID(nodeID)
		n.peersLock.RUnlock()
		if ok {
			p.Send(pong)
		}
	case *message.Pong:
		n.lock.Lock()
		if msg.Nonce == n.pingNonce {
			n.pongs++
		}
		n.lock.Unlock()
	}
	return nil
}

func (n *node) Disconnected(nodeID ids.NodeID, err error) {
	n.log.Warn("peer disconnected",
		zap.Stringer("nodeID", n.id),
		zap.Stringer("peerID", nodeID),
		zap.Error(err),
	)

	n.peersLock.Lock()
	n.peers.Remove(nodeID)
	n.peersLock.Unlock()

	n.lock.Lock()
	n.disconnected++
	n.lock.Unlock()
}

// ping floods a ping with [nonce] to every connected peer.
func (n *node) ping(nonce uint64) error {
	ping, err := message.NewPing(nonce)
	if err != nil {
		return err
	}

	n.lock.Lock()
	n.pingNonce = nonce
	n.lock.Unlock()

	n.peersLock.RLock()
	numSent := n.peers.Flood(ping)
	n.peersLock.RUnlock()

	n.lock.Lock()
	n.pingsSent += numSent
	n.lock.Unlock()
	return nil
}

// issue records [tx] and relays it if it wasn't seen before. [from] is the
// peer the tx was received from, or the node itself if it originated here.
func (n *node) issue(from ids.NodeID, tx *message.Tx) {
	txID := tx.ID()

	n.lock.Lock()
	_, seen := n.seen[txID]
	n.seen[txID] = struct{}{}
	n.lock.Unlock()
	if seen {
		return
	}

	notSender := func(p *peer.Peer) bool {
		return p.ID() != from && p.Err() == nil
	}
	n.peersLock.RLock()
	numTargets := n.fanout
	if numTargets == 0 {
		numTargets = n.peers.Len()
	}
	targets := n.peers.Sample(numTargets, notSender)
	n.peersLock.RUnlock()

	for _, p := range targets {
		if !p.Send(tx) {
			n.log.Debug("dropped tx",
				zap.Stringer("nodeID", n.id),
				zap.Stringer("peerID", p.ID()),
				zap.Stringer("txID", txID),
			)
		}
	}
}

// connected returns the peers that haven't disconnected.
func (n *node) connected() []*peer.Peer {
	n.peersLock.RLock()
	defer n.peersLock.RUnlock()

	peers := make([]*peer.Peer, 0, n.peers.Len())
	for i := 0; i < n.peers.Len(); i++ {
		p, _ := n.peers.GetByIndex(i)
		peers = append(peers, p)
	}
	return peers
}

// pinged returns true once every ping was answered or its peer disconnected.
func (n *node) pinged() bool {
	n.lock.Lock()
	defer n.lock.Unlock()

	return n.pongs+n.disconnected >= n.pingsSent
}

func (n *node) numSeen() int {
	n.lock.Lock()
	defer n.lock.Unlock()

	return len(n.seen)
}

func (n *node) report() NodeReport {
	n.lock.Lock()
	seen := len(n.seen)
	pongs := n.pongs
	disconnected := n.disconnected
	n.lock.Unlock()

	n.peersLock.RLock()
	peers := n.peers.AllInfo(true)
	n.peersLock.RUnlock()

	return NodeReport{
		ID:           n.id,
		Seen:         seen,
		Pongs:        pongs,
		Disconnected: disconnected,
		Peers:        peers,
	}
}
