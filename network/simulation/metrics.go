// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulation

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsSummary totals the flow control counters of every connection.
type MetricsSummary struct {
	Saturations       uint64 `json:"saturations"`
	Recoveries        uint64 `json:"recoveries"`
	CapacityExceeded  uint64 `json:"capacityExceeded"`
	GrantsSent        uint64 `json:"grantsSent"`
	GrantsReceived    uint64 `json:"grantsReceived"`
	FloodMessagesSent uint64 `json:"floodMessagesSent"`
	QueueDrops        uint64 `json:"queueDrops"`
	OversizedTxs      uint64 `json:"oversizedTxs"`
}

func summarizeMetrics(gatherer prometheus.Gatherer) (MetricsSummary, error) {
	families, err := gatherer.Gather()
	if err != nil {
		return MetricsSummary{}, err
	}

	totals := make(map[string]float64, len(families))
	for _, family := range families {
		var total float64
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		totals[family.GetName()] = total
	}
	// Counters may be registered under a namespace.
	counter := func(name string) uint64 {
		for familyName, total := range totals {
			if familyName == name || strings.HasSuffix(familyName, "_"+name) {
				return uint64(total)
			}
		}
		return 0
	}
	return MetricsSummary{
		Saturations:       counter("flood_capacity_saturations"),
		Recoveries:        counter("flood_capacity_recoveries"),
		CapacityExceeded:  counter("flood_capacity_exceeded"),
		GrantsSent:        counter("grants_sent"),
		GrantsReceived:    counter("grants_received"),
		FloodMessagesSent: counter("flood_messages_sent"),
		QueueDrops:        counter("outbound_queue_drops"),
		OversizedTxs:      counter("outbound_oversized_txs"),
	}, nil
}
