// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package flowcontrol

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/flowgate/message"
	"github.com/ava-labs/flowgate/utils/metric"
	"github.com/ava-labs/flowgate/utils/wrappers"
)

const (
	policyLabel = "policy"
	opLabel     = "op"
)

// Metrics are shared by the flow control of every connection of a node.
type Metrics struct {
	saturations     *prometheus.CounterVec
	recoveries      *prometheus.CounterVec
	lockFailures    *prometheus.CounterVec
	grantsSent      prometheus.Counter
	grantsReceived  prometheus.Counter
	queueDrops      *prometheus.CounterVec
	queueDelay      *prometheus.HistogramVec
	oversizedTxs    prometheus.Counter
	floodMessagesTx *prometheus.CounterVec
}

func NewMetrics(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{}
	return m, m.initialize(namespace, registerer)
}

func (m *Metrics) initialize(namespace string, reg prometheus.Registerer) error {
	m.saturations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flood_capacity_saturations",
			Help:      "Number of times a peer's flood reading capacity reached zero",
		},
		[]string{policyLabel},
	)
	m.recoveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flood_capacity_recoveries",
			Help:      "Number of times a peer's flood reading capacity recovered from zero",
		},
		[]string{policyLabel},
	)
	m.lockFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flood_capacity_exceeded",
			Help:      "Number of flood messages received from peers that exceeded their granted capacity",
		},
		[]string{policyLabel},
	)
	m.grantsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "grants_sent",
		Help:      "Number of capacity grants sent to peers",
	})
	m.grantsReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "grants_received",
		Help:      "Number of capacity grants received from peers",
	})
	m.queueDrops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbound_queue_drops",
			Help:      "Number of flood messages dropped from outbound queues",
		},
		[]string{opLabel},
	)
	m.queueDelay = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbound_queue_delay",
			Help:      "Time (in ns) flood messages spent in outbound queues",
			Buckets:   metric.QueueDelayBuckets,
		},
		[]string{opLabel},
	)
	m.oversizedTxs = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbound_oversized_txs",
		Help:      "Number of transactions not queued because they exceed the max tx size",
	})
	m.floodMessagesTx = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flood_messages_sent",
			Help:      "Number of flood messages sent to peers",
		},
		[]string{opLabel},
	)

	errs := wrappers.Errs{}
	errs.Add(
		reg.Register(m.saturations),
		reg.Register(m.recoveries),
		reg.Register(m.lockFailures),
		reg.Register(m.grantsSent),
		reg.Register(m.grantsReceived),
		reg.Register(m.queueDrops),
		reg.Register(m.queueDelay),
		reg.Register(m.oversizedTxs),
		reg.Register(m.floodMessagesTx),
	)
	return errs.Err
}

func (m *Metrics) observeQueueDelay(op message.Op, delay time.Duration) {
	m.queueDelay.WithLabelValues(op.String()).Observe(float64(delay))
	m.floodMessagesTx.WithLabelValues(op.String()).Inc()
}

func (m *Metrics) dropped(op message.Op, count int) {
	m.queueDrops.WithLabelValues(op.String()).Add(float64(count))
}
