// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulation

import (
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/flowgate/utils/wrappers"
)

var (
	errTooFewNodes         = errors.New("at least two nodes are required")
	errNoTxs               = errors.New("at least one tx is required")
	errTxTooSmall          = errors.New("tx size is too small")
	errInvalidFanout       = errors.New("gossip fanout must be in [0, nodes-1]")
	errNegativeTxRate      = errors.New("tx rate must be non-negative")
	errNonPositiveDuration = errors.New("duration must be positive")

	DefaultConfig = Config{
		Nodes:        4,
		Txs:          1000,
		TxSize:       256,
		GossipFanout: 0,
		TxRate:       0,
		Duration:     time.Minute,
		CheckPeriod:  time.Second,
		BytesEnabled: true,
	}
)

type Config struct {
	// Nodes is the number of nodes in the network. Every pair of nodes is
	// connected.
	Nodes int `json:"nodes"`
	// Txs is the number of transactions injected into the network.
	Txs int `json:"txs"`
	// TxSize is the payload size of every injected transaction.
	TxSize int `json:"txSize"`
	// GossipFanout is the number of peers a newly seen transaction is relayed
	// to. 0 relays to every peer.
	GossipFanout int `json:"gossipFanout"`
	// TxRate is the number of txs issued per second. 0 issues them all at
	// once.
	TxRate int `json:"txRate"`
	// Duration bounds how long the network runs.
	Duration time.Duration `json:"duration"`
	// CheckPeriod is how often connections are checked for missing outbound
	// capacity.
	CheckPeriod time.Duration `json:"checkPeriod"`
	// BytesEnabled is whether byte flow control is negotiated on every
	// connection.
	BytesEnabled bool `json:"bytesEnabled"`
}

func (c *Config) Verify() error {
	switch {
	case c.Nodes < 2:
		return fmt.Errorf("%w: %d", errTooFewNodes, c.Nodes)
	case c.Txs <= 0:
		return fmt.Errorf("%w: %d", errNoTxs, c.Txs)
	case c.TxSize < wrappers.LongLen:
		return fmt.Errorf("%w: %d < %d", errTxTooSmall, c.TxSize, wrappers.LongLen)
	case c.GossipFanout < 0 || c.GossipFanout >= c.Nodes:
		return fmt.Errorf("%w: %d", errInvalidFanout, c.GossipFanout)
	case c.TxRate < 0:
		return fmt.Errorf("%w: %d", errNegativeTxRate, c.TxRate)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration", errNonPositiveDuration)
	case c.CheckPeriod <= 0:
		return fmt.Errorf("%w: check period", errNonPositiveDuration)
	default:
		return nil
	}
}
