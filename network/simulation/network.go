// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulation

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/message"
	"github.com/ava-labs/flowgate/network/flowcontrol"
	"github.com/ava-labs/flowgate/network/peer"
	"github.com/ava-labs/flowgate/network/peer/peertest"
	"github.com/ava-labs/flowgate/utils/hashing"
	"github.com/ava-labs/flowgate/utils/logging"
	"github.com/ava-labs/flowgate/utils/timer/mockable"
)

const pollFrequency = 10 * time.Millisecond

var errTxTooLarge = errors.New("tx exceeds the max tx size")

// Network is a set of fully connected nodes that exchange messages in memory.
type Network struct {
	config   Config
	log      logging.Logger
	gatherer prometheus.Gatherer
	clock    *mockable.Clock

	nodes []*node
	pairs []*peertest.Pair
	txs   []*message.Tx
}

// New creates a network of [config.Nodes] nodes. Every connection uses
// [flowConfig] and reports to [metrics], which are read back from [gatherer]
// for the final report.
func New(
	config Config,
	flowConfig *flowcontrol.Config,
	log logging.Logger,
	metrics *flowcontrol.Metrics,
	gatherer prometheus.Gatherer,
	clock *mockable.Clock,
) (*Network, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	if err := flowConfig.Verify(); err != nil {
		return nil, err
	}

	txs := make([]*message.Tx, config.Txs)
	for i := range txs {
		payload := make([]byte, config.TxSize)
		binary.BigEndian.PutUint64(payload, uint64(i))
		tx, err := message.NewTx(payload)
		if err != nil {
			return nil, err
		}
		txs[i] = tx
	}
	if txSize := uint64(len(txs[0].Bytes())); config.BytesEnabled && txSize > flowConfig.MaxTxSize {
		return nil, fmt.Errorf("%w: %d > %d", errTxTooLarge, txSize, flowConfig.MaxTxSize)
	}

	n := &Network{
		config:   config,
		log:      log,
		gatherer: gatherer,
		clock:    clock,
		nodes:    make([]*node, config.Nodes),
		txs:      txs,
	}
	peerConfigs := make([]*peer.Config, config.Nodes)
	for i := range n.nodes {
		nd := newNode(nodeID(i), log, config.GossipFanout)
		n.nodes[i] = nd
		peerConfigs[i] = &peer.Config{
			FlowControl: flowConfig,
			Log:         log,
			Metrics:     metrics,
			Classifier:  message.FloodClassifier,
			Tracker:     &flowcontrol.SlotWindow{},
			Handler:     nd,
			Clock:       clock,
		}
	}

	for i, a := range n.nodes {
		for j := i + 1; j < len(n.nodes); j++ {
			b := n.nodes[j]
			pair := peertest.NewPair(peerConfigs[i], peerConfigs[j], a.id, b.id)
			a.peers.Add(pair.A)
			b.peers.Add(pair.B)
			n.pairs = append(n.pairs, pair)
		}
	}
	return n, nil
}

func nodeID(index int) ids.NodeID {
	var indexBytes [8]byte
	binary.BigEndian.PutUint64(indexBytes[:], uint64(index))
	hash := hashing.ComputeHash256Array(indexBytes[:])

	var nodeID ids.NodeID
	copy(nodeID[:], hash[:ids.NodeIDLen])
	return nodeID
}

// Run starts every connection, pings every peer, issues the transactions round
// robin across the nodes and waits until every node has seen every transaction
// and every ping was answered, [ctx] is done or the configured duration
// elapsed.
func (n *Network) Run(ctx context.Context) (*Report, error) {
	for _, pair := range n.pairs {
		if err := pair.Start(n.config.BytesEnabled); err != nil {
			return nil, err
		}
	}
	for i, nd := range n.nodes {
		if err := nd.ping(uint64(i)); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, n.config.Duration)
	defer cancel()

	startTime := n.clock.Time()
	eg, egCtx := errgroup.WithContext(ctx)
	for _, pair := range n.pairs {
		pair := pair
		eg.Go(func() error {
			err := pair.Run(egCtx)
			switch {
			case err == nil,
				errors.Is(err, context.Canceled),
				errors.Is(err, context.DeadlineExceeded),
				errors.Is(err, peertest.ErrLinkClosed):
				return nil
			case pair.A.Err() != nil || pair.B.Err() != nil:
				// The closed peer is reported with its error.
				n.log.Warn("connection stopped",
					zap.Stringer("nodeA", pair.B.ID()),
					zap.Stringer("nodeB", pair.A.ID()),
					zap.Error(err),
				)
				return nil
			default:
				return err
			}
		})
	}
	eg.Go(func() error {
		n.checkOutboundCapacity(egCtx)
		return nil
	})

	limiter := rate.NewLimiter(rate.Inf, 1)
	if n.config.TxRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(n.config.TxRate), 1)
	}
	numIssued := 0
	for i, tx := range n.txs {
		if err := limiter.Wait(egCtx); err != nil {
			break
		}
		origin := n.nodes[i%len(n.nodes)]
		origin.issue(origin.id, tx)
		numIssued++
	}
	n.log.Info("issued txs",
		zap.Int("numTxs", numIssued),
		zap.Int("numNodes", len(n.nodes)),
	)

	complete := n.awaitGossip(egCtx)
	cancel()
	err := eg.Wait()
	for _, pair := range n.pairs {
		pair.Close()
	}
	if err != nil {
		return nil, err
	}

	report, err := n.report(complete, n.clock.Time().Sub(startTime))
	if err != nil {
		return nil, err
	}
	n.log.Info("simulation finished",
		zap.Bool("complete", report.Complete),
		zap.Duration("elapsed", report.Elapsed),
		zap.Uint64("saturations", report.Metrics.Saturations),
		zap.Uint64("grantsSent", report.Metrics.GrantsSent),
	)
	return report, nil
}

// awaitGossip returns true once every node has seen every tx and heard back
// from every ping, or false if [ctx] is done first.
func (n *Network) awaitGossip(ctx context.Context) bool {
	ticker := time.NewTicker(pollFrequency)
	defer ticker.Stop()

	for {
		if n.converged() {
			return true
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return n.converged()
		}
	}
}

func (n *Network) converged() bool {
	for _, nd := range n.nodes {
		if nd.numSeen() < len(n.txs) || !nd.pinged() {
			return false
		}
	}
	for _, pair := range n.pairs {
		closed := pair.A.Err() != nil || pair.B.Err() != nil
		if !closed && !pair.Idle() {
			return false
		}
	}
	return true
}

func (n *Network) checkOutboundCapacity(ctx context.Context) {
	ticker := time.NewTicker(n.config.CheckPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}

		now := n.clock.Time()
		for _, nd := range n.nodes {
			for _, p := range nd.connected() {
				if err := p.CheckOutboundCapacity(now); err != nil {
					n.log.Warn("disconnecting stuck peer",
						zap.Stringer("nodeID", nd.id),
						zap.Stringer("peerID", p.ID()),
						zap.Error(err),
					)
				}
			}
		}
	}
}

func (n *Network) report(complete bool, elapsed time.Duration) (*Report, error) {
	summary, err := summarizeMetrics(n.gatherer)
	if err != nil {
		return nil, err
	}
	report := &Report{
		Complete: complete,
		Elapsed:  elapsed,
		Nodes:    make([]NodeReport, len(n.nodes)),
		Metrics:  summary,
	}
	for i, nd := range n.nodes {
		report.Nodes[i] = nd.report()
	}
	return report, nil
}
