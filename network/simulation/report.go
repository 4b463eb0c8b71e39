// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulation

import (
	"time"

	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/network/peer"
)

type Report struct {
	// Complete is true if every node saw every tx.
	Complete bool           `json:"complete"`
	Elapsed  time.Duration  `json:"elapsed"`
	Nodes    []NodeReport   `json:"nodes"`
	Metrics  MetricsSummary `json:"metrics"`
}

type NodeReport struct {
	ID   ids.NodeID `json:"nodeID"`
	Seen int        `json:"seen"`
	// Pongs is the number of answers to the liveness ping flooded at start.
	Pongs int `json:"pongs"`
	// Disconnected is the number of peers removed after they closed.
	Disconnected int `json:"disconnected"`
	// Peers holds the connections still open.
	Peers []peer.Info `json:"peers"`
}
