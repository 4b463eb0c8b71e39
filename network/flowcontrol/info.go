// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package flowcontrol

import (
	"time"

	"github.com/ava-labs/flowgate/message"
)

// Info is a snapshot of the flow control state of a connection.
type Info struct {
	LocalCapacity      CapacityInfo  `json:"localCapacity"`
	PeerCapacity       uint64        `json:"peerCapacity"`
	LocalCapacityBytes *CapacityInfo `json:"localCapacityBytes,omitempty"`
	PeerCapacityBytes  *uint64       `json:"peerCapacityBytes,omitempty"`

	// Only populated for non-compact snapshots.
	QueuedMessages      map[string]int           `json:"queuedMessages,omitempty"`
	OutboundQueueDelays map[string]time.Duration `json:"outboundQueueDelays,omitempty"`
}

// CapacityInfo is the remaining reading capacity of a peer. Reading is omitted
// when the total capacity is uncapped.
type CapacityInfo struct {
	Reading *uint64 `json:"reading,omitempty"`
	Flood   uint64  `json:"flood"`
}

func newCapacityInfo(capacity ReadingCapacity) CapacityInfo {
	info := CapacityInfo{
		Flood: capacity.Flood,
	}
	if total, ok := capacity.Total.(Capped); ok {
		reading := uint64(total)
		info.Reading = &reading
	}
	return info
}

// Info returns a snapshot of the connection's flow control. A compact snapshot
// only contains capacities.
func (fc *FlowControl) Info(compact bool) Info {
	info := Info{
		LocalCapacity: newCapacityInfo(fc.messageCapacity.Capacity()),
		PeerCapacity:  fc.messageCapacity.OutboundCapacity(),
	}
	if fc.byteCapacity != nil {
		localBytes := newCapacityInfo(fc.byteCapacity.Capacity())
		peerBytes := fc.byteCapacity.OutboundCapacity()
		info.LocalCapacityBytes = &localBytes
		info.PeerCapacityBytes = &peerBytes
	}
	if compact {
		return info
	}

	info.QueuedMessages = make(map[string]int, numQueues)
	for _, op := range message.FloodOps {
		index, _ := queueIndex(op)
		info.QueuedMessages[op.String()] = fc.outboundQueues[index].Len()
	}
	info.OutboundQueueDelays = make(map[string]time.Duration, len(fc.queueDelays))
	for op, averager := range fc.queueDelays {
		info.OutboundQueueDelays[op.String()] = time.Duration(averager.Read())
	}
	return info
}
