// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package peer

import (
	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/network/flowcontrol"
)

type Info struct {
	ID          ids.NodeID       `json:"nodeID"`
	Closed      bool             `json:"closed"`
	Error       string           `json:"error,omitempty"`
	QueueLen    int              `json:"queueLen"`
	FlowControl flowcontrol.Info `json:"flowControl"`
}
