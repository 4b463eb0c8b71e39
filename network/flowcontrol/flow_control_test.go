// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package flowcontrol

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/message"
	"github.com/ava-labs/flowgate/network/flowcontrol/flowcontrolmock"
	"github.com/ava-labs/flowgate/utils/logging"
	"github.com/ava-labs/flowgate/utils/timer/mockable"
)

var startTime = time.Unix(1_700_000_000, 0)

type testFlowControl struct {
	fc      *FlowControl
	clock   *mockable.Clock
	metrics *Metrics
	sent    []message.Message
}

func newTestFlowControl(t *testing.T, config *Config, tracker StatementTracker) *testFlowControl {
	clock := &mockable.Clock{}
	clock.Set(startTime)
	metrics := newTestMetrics(t)
	return &testFlowControl{
		fc: New(
			config,
			logging.NoLog{},
			ids.GenerateTestNodeID(),
			message.FloodClassifier,
			tracker,
			metrics,
			clock,
		),
		clock:   clock,
		metrics: metrics,
	}
}

// start records every message sent by the flow control.
func (tfc *testFlowControl) start(t *testing.T, enableBytes bool) {
	ctrl := gomock.NewController(t)
	sender := flowcontrolmock.NewSender(ctrl)
	sender.EXPECT().Send(gomock.Any()).DoAndReturn(func(msg message.Message) bool {
		tfc.sent = append(tfc.sent, msg)
		return true
	}).AnyTimes()
	require.NoError(t, tfc.fc.Start(sender, enableBytes))
}

func (tfc *testFlowControl) grant(t *testing.T, grant message.Message) {
	require.NoError(t, tfc.fc.IsSendMoreValid(grant))
	tfc.fc.MaybeReleaseCapacityAndTriggerSend(grant)
}

func newStatement(t *testing.T, nodeID ids.NodeID, slot uint64, counter uint32) *message.Statement {
	statement, err := message.NewStatement(nodeID, slot, counter, []byte{byte(counter)})
	require.NoError(t, err)
	return statement
}

func newAdvert(t *testing.T, numHashes int) *message.FloodAdvert {
	hashes := make([]ids.ID, numHashes)
	for i := range hashes {
		hashes[i] = ids.GenerateTestID()
	}
	advert, err := message.NewFloodAdvert(hashes)
	require.NoError(t, err)
	return advert
}

func newDemand(t *testing.T, numHashes int) *message.FloodDemand {
	hashes := make([]ids.ID, numHashes)
	for i := range hashes {
		hashes[i] = ids.GenerateTestID()
	}
	demand, err := message.NewFloodDemand(hashes)
	require.NoError(t, err)
	return demand
}

func TestStartGrantsInitialCapacity(t *testing.T) {
	tests := map[string]struct {
		enableBytes bool
		expected    func(t *testing.T) message.Message
	}{
		"messages": {
			expected: func(t *testing.T) message.Message {
				return newSendMore(t, 5)
			},
		},
		"bytes": {
			enableBytes: true,
			expected: func(t *testing.T) message.Message {
				return newSendMoreExtended(t, 5, 1000)
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			config := newTestConfig()
			tfc := newTestFlowControl(t, &config, &SlotWindow{})
			tfc.start(t, test.enableBytes)

			require.Equal([]message.Message{test.expected(t)}, tfc.sent)
			require.Equal(test.enableBytes, tfc.fc.BytesEnabled())
			require.Equal(test.enableBytes, tfc.fc.ByteCapacity() != nil)
			require.Equal(1.0, testutil.ToFloat64(tfc.metrics.grantsSent))
		})
	}
}

func TestStartFailedGrantIsNotCounted(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})

	ctrl := gomock.NewController(t)
	sender := flowcontrolmock.NewSender(ctrl)
	sender.EXPECT().Send(newSendMore(t, 5)).Return(false)
	require.NoError(tfc.fc.Start(sender, false))
	require.Zero(testutil.ToFloat64(tfc.metrics.grantsSent))
}

func TestSendBeforeStart(t *testing.T) {
	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})

	requireFatal(t, errNotStarted, func() {
		tfc.fc.SendMessage(newTx(t, 10))
	})
}

func TestEndMessageProcessingBatchesGrants(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})
	tfc.start(t, false)
	tfc.sent = nil

	tx := newTx(t, 10)
	ping := newPing(t)
	require.True(tfc.fc.BeginMessageProcessing(tx))
	require.True(tfc.fc.BeginMessageProcessing(ping))
	require.True(tfc.fc.BeginMessageProcessing(tx))

	require.NoError(tfc.fc.EndMessageProcessing(tx))
	require.Empty(tfc.sent)
	require.NoError(tfc.fc.EndMessageProcessing(ping))
	require.Empty(tfc.sent)
	require.NoError(tfc.fc.EndMessageProcessing(tx))
	require.Equal([]message.Message{newSendMore(t, 2)}, tfc.sent)

	require.Equal(tfc.fc.MessageCapacity().Limits(), tfc.fc.MessageCapacity().Capacity())
}

func TestEndMessageProcessingGrantsOnRecovery(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})
	tfc.start(t, false)
	tfc.sent = nil

	txs := make([]message.Message, config.PeerFloodReadingCapacity)
	for i := range txs {
		txs[i] = newTx(t, 10+i)
		require.True(tfc.fc.BeginMessageProcessing(txs[i]))
	}
	require.Zero(tfc.fc.MessageCapacity().Capacity().Flood)

	// The first release after saturation grants immediately.
	require.NoError(tfc.fc.EndMessageProcessing(txs[0]))
	require.Equal([]message.Message{newSendMore(t, 1)}, tfc.sent)

	require.NoError(tfc.fc.EndMessageProcessing(txs[1]))
	require.Len(tfc.sent, 1)
	require.NoError(tfc.fc.EndMessageProcessing(txs[2]))
	require.Equal([]message.Message{
		newSendMore(t, 1),
		newSendMore(t, 2),
	}, tfc.sent)
	require.Equal(1.0, testutil.ToFloat64(tfc.metrics.recoveries.WithLabelValues(MessagePolicyName)))
}

func TestEndMessageProcessingBatchesGrantsBytes(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})
	tfc.start(t, true)
	tfc.sent = nil

	process := func(msg message.Message) {
		require.True(tfc.fc.BeginMessageProcessing(msg))
		require.NoError(tfc.fc.EndMessageProcessing(msg))
	}

	// The message batch completes first.
	process(newTx(t, 200))
	require.Empty(tfc.sent)
	process(newTx(t, 50))
	require.Equal([]message.Message{newSendMoreExtended(t, 2, 250)}, tfc.sent)

	// The byte batch completes first.
	process(newTx(t, 350))
	require.Equal([]message.Message{
		newSendMoreExtended(t, 2, 250),
		newSendMoreExtended(t, 1, 350),
	}, tfc.sent)

	require.Equal(tfc.fc.ByteCapacity().Limits(), tfc.fc.ByteCapacity().Capacity())
	require.Equal(3.0, testutil.ToFloat64(tfc.metrics.grantsSent))
}

func TestBeginMessageProcessingRejectsFloodOverrun(t *testing.T) {
	tests := map[string]struct {
		enableBytes bool
		msgs        func(t *testing.T) []message.Message
	}{
		"too many messages": {
			msgs: func(t *testing.T) []message.Message {
				msgs := make([]message.Message, 6)
				for i := range msgs {
					msgs[i] = newTx(t, 10)
				}
				return msgs
			},
		},
		"too many bytes": {
			enableBytes: true,
			msgs: func(t *testing.T) []message.Message {
				return []message.Message{
					newTx(t, 400),
					newTx(t, 400),
					newTx(t, 400),
				}
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			config := newTestConfig()
			tfc := newTestFlowControl(t, &config, &SlotWindow{})
			tfc.start(t, test.enableBytes)

			msgs := test.msgs(t)
			last := len(msgs) - 1
			for _, msg := range msgs[:last] {
				require.True(tfc.fc.BeginMessageProcessing(msg))
			}
			require.False(tfc.fc.BeginMessageProcessing(msgs[last]))
			require.True(tfc.fc.CanRead())
		})
	}
}

func TestCanReadWhenTotalCapacityExhausted(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})
	tfc.start(t, true)

	ping := newPing(t)
	for i := uint64(0); i < config.PeerReadingCapacity; i++ {
		require.True(tfc.fc.CanRead())
		require.True(tfc.fc.BeginMessageProcessing(ping))
	}
	require.False(tfc.fc.CanRead())

	require.NoError(tfc.fc.EndMessageProcessing(ping))
	require.True(tfc.fc.CanRead())
}

func TestIsSendMoreValid(t *testing.T) {
	tests := map[string]struct {
		enableBytes bool
		setup       func(fc *FlowControl)
		grant       func(t *testing.T) message.Message
		expectedErr error
	}{
		"send more": {
			grant: func(t *testing.T) message.Message {
				return newSendMore(t, 1)
			},
		},
		"send more extended": {
			enableBytes: true,
			grant: func(t *testing.T) message.Message {
				return newSendMoreExtended(t, 1, 100)
			},
		},
		"send more extended without byte flow control": {
			grant: func(t *testing.T) message.Message {
				return newSendMoreExtended(t, 1, 100)
			},
			expectedErr: ErrUnexpectedGrant,
		},
		"send more with byte flow control": {
			enableBytes: true,
			grant: func(t *testing.T) message.Message {
				return newSendMore(t, 1)
			},
			expectedErr: ErrUnexpectedGrant,
		},
		"not a grant": {
			grant: func(t *testing.T) message.Message {
				return newPing(t)
			},
			expectedErr: ErrUnexpectedGrant,
		},
		"no messages": {
			grant: func(t *testing.T) message.Message {
				return newSendMore(t, 0)
			},
			expectedErr: ErrInvalidGrant,
		},
		"no bytes": {
			enableBytes: true,
			grant: func(t *testing.T) message.Message {
				return newSendMoreExtended(t, 1, 0)
			},
			expectedErr: ErrInvalidGrant,
		},
		"message capacity overflow": {
			setup: func(fc *FlowControl) {
				fc.messageCapacity.outbound = math.MaxUint64
			},
			grant: func(t *testing.T) message.Message {
				return newSendMore(t, 1)
			},
			expectedErr: ErrOutboundCapacityOverflow,
		},
		"byte capacity overflow": {
			enableBytes: true,
			setup: func(fc *FlowControl) {
				fc.byteCapacity.outbound = math.MaxUint64 - 50
			},
			grant: func(t *testing.T) message.Message {
				return newSendMoreExtended(t, 1, 100)
			},
			expectedErr: ErrOutboundCapacityOverflow,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			config := newTestConfig()
			tfc := newTestFlowControl(t, &config, &SlotWindow{})
			tfc.start(t, test.enableBytes)
			if test.setup != nil {
				test.setup(tfc.fc)
			}

			err := tfc.fc.IsSendMoreValid(test.grant(t))
			require.ErrorIs(err, test.expectedErr)
			if test.expectedErr != nil {
				require.ErrorIs(err, ErrInvalidGrant)
			}
		})
	}
}

func TestSendMessageIgnoresNonFloodMessages(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})
	tfc.start(t, false)
	tfc.sent = nil

	require.False(tfc.fc.SendMessage(newPing(t)))
	require.Zero(tfc.fc.QueueLen())
	require.Empty(tfc.sent)
}

func TestQueuedMessagesSentWhenGranted(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})
	tfc.start(t, false)
	tfc.sent = nil

	since, ok := tfc.fc.NoOutboundCapacitySince()
	require.True(ok)
	require.Equal(startTime, since)

	tx := newTx(t, 10)
	require.True(tfc.fc.SendMessage(tx))
	require.Equal(1, tfc.fc.QueueLen())
	require.Empty(tfc.sent)

	tfc.clock.Advance(2 * time.Second)
	tfc.grant(t, newSendMore(t, 2))
	require.Equal([]message.Message{tx}, tfc.sent)
	require.Zero(tfc.fc.QueueLen())
	require.Equal(uint64(1), tfc.fc.MessageCapacity().OutboundCapacity())
	require.Equal(1.0, testutil.ToFloat64(tfc.metrics.grantsReceived))
	require.Equal(1.0, testutil.ToFloat64(tfc.metrics.floodMessagesTx.WithLabelValues(message.TxOp.String())))

	_, ok = tfc.fc.NoOutboundCapacitySince()
	require.False(ok)

	info := tfc.fc.Info(false)
	require.Equal(2*time.Second, info.OutboundQueueDelays[message.TxOp.String()])
}

func TestFailedFloodSendConsumesCapacity(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})

	ctrl := gomock.NewController(t)
	sender := flowcontrolmock.NewSender(ctrl)
	tx := newTx(t, 10)
	gomock.InOrder(
		sender.EXPECT().Send(newSendMore(t, 5)).Return(true),
		sender.EXPECT().Send(tx).Return(false),
	)
	require.NoError(tfc.fc.Start(sender, false))

	tfc.grant(t, newSendMore(t, 1))
	require.True(tfc.fc.SendMessage(tx))
	require.Zero(tfc.fc.QueueLen())
	require.Zero(tfc.fc.MessageCapacity().OutboundCapacity())
}

func TestOutboundQueuePriority(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})
	tfc.start(t, false)
	tfc.sent = nil

	var (
		advert    = newAdvert(t, 1)
		demand    = newDemand(t, 1)
		tx        = newTx(t, 10)
		statement = newStatement(t, ids.GenerateTestNodeID(), 5, 1)
	)
	for _, msg := range []message.Message{advert, demand, tx, statement} {
		require.True(tfc.fc.SendMessage(msg))
	}
	require.Equal(4, tfc.fc.QueueLen())

	tfc.grant(t, newSendMore(t, 4))
	require.Equal([]message.Message{statement, tx, demand, advert}, tfc.sent)
}

func TestBlockedQueueDoesNotBlockLowerPriorities(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})
	tfc.start(t, true)
	tfc.sent = nil

	tx := newTx(t, 400)
	advert := newAdvert(t, 1)
	require.True(tfc.fc.SendMessage(tx))
	require.True(tfc.fc.SendMessage(advert))

	tfc.clock.Advance(time.Second)
	tfc.grant(t, newSendMoreExtended(t, 5, 100))
	require.Equal([]message.Message{advert}, tfc.sent)
	require.Equal(1, tfc.fc.QueueLen())

	since, ok := tfc.fc.NoOutboundCapacitySince()
	require.True(ok)
	require.Equal(startTime.Add(time.Second), since)

	tfc.grant(t, newSendMoreExtended(t, 1, 400))
	require.Equal([]message.Message{advert, tx}, tfc.sent)
	require.Zero(tfc.fc.QueueLen())
}

func TestNoOutboundCapacitySinceIsNotReset(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})
	tfc.start(t, false)

	tfc.grant(t, newSendMore(t, 1))
	require.True(tfc.fc.SendMessage(newTx(t, 10)))
	_, ok := tfc.fc.NoOutboundCapacitySince()
	require.False(ok)

	tfc.clock.Advance(10 * time.Second)
	require.True(tfc.fc.SendMessage(newTx(t, 11)))
	since, ok := tfc.fc.NoOutboundCapacitySince()
	require.True(ok)
	require.Equal(startTime.Add(10*time.Second), since)

	tfc.clock.Advance(5 * time.Second)
	require.True(tfc.fc.SendMessage(newTx(t, 12)))
	since, ok = tfc.fc.NoOutboundCapacitySince()
	require.True(ok)
	require.Equal(startTime.Add(10*time.Second), since)
}

func TestTxQueueLimit(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})
	tfc.start(t, false)
	tfc.sent = nil

	txs := make([]message.Message, 5)
	for i := range txs {
		txs[i] = newTx(t, 10+i)
		require.True(tfc.fc.SendMessage(txs[i]))
	}
	require.Equal(3, tfc.fc.QueueLen())
	require.Equal(2.0, testutil.ToFloat64(tfc.metrics.queueDrops.WithLabelValues(message.TxOp.String())))

	tfc.grant(t, newSendMore(t, 5))
	require.Equal(txs[2:], tfc.sent)
}

func TestTxQueueDropsStaleMessages(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})
	tfc.start(t, false)
	tfc.sent = nil

	require.True(tfc.fc.SendMessage(newTx(t, 10)))
	tfc.clock.Advance(config.OutboundQueueTimeout)
	fresh := newTx(t, 11)
	require.True(tfc.fc.SendMessage(fresh))
	require.Equal(2, tfc.fc.QueueLen())

	tfc.clock.Advance(time.Second)
	newest := newTx(t, 12)
	require.True(tfc.fc.SendMessage(newest))
	require.Equal(2, tfc.fc.QueueLen())

	tfc.grant(t, newSendMore(t, 5))
	require.Equal([]message.Message{fresh, newest}, tfc.sent)
}

func TestTxQueueByteLimit(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})
	tfc.start(t, true)
	tfc.sent = nil

	txs := []message.Message{
		newTx(t, 400),
		newTx(t, 401),
		newTx(t, 402),
	}
	for _, tx := range txs {
		require.True(tfc.fc.SendMessage(tx))
	}
	require.Equal(2, tfc.fc.QueueLen())
	require.Equal(uint64(803), tfc.fc.txQueueByteCount)

	require.True(tfc.fc.SendMessage(newTx(t, 501)))
	require.Equal(2, tfc.fc.QueueLen())
	require.Equal(1.0, testutil.ToFloat64(tfc.metrics.oversizedTxs))

	tfc.grant(t, newSendMoreExtended(t, 5, 1000))
	require.Equal(txs[1:], tfc.sent)
	require.Zero(tfc.fc.txQueueByteCount)
}

func TestHashQueueLimits(t *testing.T) {
	tests := map[string]struct {
		newMsg    func(t *testing.T, numHashes int) message.Message
		op        message.Op
		hashCount func(fc *FlowControl) uint64
	}{
		"adverts": {
			newMsg: func(t *testing.T, numHashes int) message.Message {
				return newAdvert(t, numHashes)
			},
			op: message.FloodAdvertOp,
			hashCount: func(fc *FlowControl) uint64 {
				return fc.advertQueueTxHashCount
			},
		},
		"demands": {
			newMsg: func(t *testing.T, numHashes int) message.Message {
				return newDemand(t, numHashes)
			},
			op: message.FloodDemandOp,
			hashCount: func(fc *FlowControl) uint64 {
				return fc.demandQueueTxHashCount
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			config := newTestConfig()
			tfc := newTestFlowControl(t, &config, &SlotWindow{})
			tfc.start(t, false)
			tfc.sent = nil

			require.True(tfc.fc.SendMessage(test.newMsg(t, 2)))
			require.Equal(uint64(2), test.hashCount(tfc.fc))

			second := test.newMsg(t, 1)
			require.True(tfc.fc.SendMessage(second))
			require.Equal(uint64(3), test.hashCount(tfc.fc))
			require.Equal(2, tfc.fc.QueueLen())

			third := test.newMsg(t, 2)
			require.True(tfc.fc.SendMessage(third))
			require.Equal(uint64(3), test.hashCount(tfc.fc))
			require.Equal(2, tfc.fc.QueueLen())
			require.Equal(1.0, testutil.ToFloat64(tfc.metrics.queueDrops.WithLabelValues(test.op.String())))

			// A message can't fit more hashes than the queue limit.
			require.True(tfc.fc.SendMessage(test.newMsg(t, 4)))
			require.Zero(test.hashCount(tfc.fc))
			require.Zero(tfc.fc.QueueLen())

			require.True(tfc.fc.SendMessage(second))
			tfc.clock.Advance(config.OutboundQueueTimeout + time.Second)
			require.True(tfc.fc.SendMessage(third))
			require.Equal(uint64(2), test.hashCount(tfc.fc))

			tfc.grant(t, newSendMore(t, 5))
			require.Equal([]message.Message{third}, tfc.sent)
			require.Zero(test.hashCount(tfc.fc))
		})
	}
}

func TestStatementQueueDropsForgottenSlots(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tracker := &SlotWindow{}
	tfc := newTestFlowControl(t, &config, tracker)
	tfc.start(t, false)
	tfc.sent = nil

	nodeID := ids.GenerateTestNodeID()
	checkpoint := newStatement(t, nodeID, 3, 1)
	forgotten := newStatement(t, nodeID, 5, 1)
	current := newStatement(t, nodeID, 12, 1)

	require.True(tfc.fc.SendMessage(checkpoint))
	require.True(tfc.fc.SendMessage(forgotten))
	require.Equal(2, tfc.fc.QueueLen())

	tracker.SetWindow(10, 3)
	require.True(tfc.fc.SendMessage(current))
	require.Equal(2, tfc.fc.QueueLen())
	require.Equal(1.0, testutil.ToFloat64(tfc.metrics.queueDrops.WithLabelValues(message.StatementOp.String())))

	tfc.grant(t, newSendMore(t, 5))
	require.Equal([]message.Message{checkpoint, current}, tfc.sent)
}

func TestStatementQueueReplacesSupersededStatement(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	tracker := flowcontrolmock.NewStatementTracker(ctrl)
	tracker.EXPECT().MinSlotToRemember().Return(uint64(0)).AnyTimes()
	tracker.EXPECT().CheckpointSlot().Return(uint64(0)).AnyTimes()

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, tracker)
	tfc.start(t, false)
	tfc.sent = nil

	nodeID := ids.GenerateTestNodeID()
	older := newStatement(t, nodeID, 7, 1)
	newer := newStatement(t, nodeID, 7, 2)

	require.True(tfc.fc.SendMessage(older))
	tracker.EXPECT().IsNewerStatement(older, newer).Return(true)
	require.True(tfc.fc.SendMessage(newer))
	require.Equal(1, tfc.fc.QueueLen())

	tfc.grant(t, newSendMore(t, 5))
	require.Equal([]message.Message{newer}, tfc.sent)
}

func TestSlotWindowIsNewerStatement(t *testing.T) {
	nodeID := ids.GenerateTestNodeID()
	statement := func(nodeID ids.NodeID, slot uint64, counter uint32, value byte) *message.Statement {
		return &message.Statement{
			NodeID:    nodeID,
			SlotIndex: slot,
			Counter:   counter,
			Value:     []byte{value},
		}
	}

	tests := map[string]struct {
		older    *message.Statement
		newer    *message.Statement
		expected bool
	}{
		"higher counter": {
			older:    statement(nodeID, 1, 1, 9),
			newer:    statement(nodeID, 1, 2, 0),
			expected: true,
		},
		"lower counter": {
			older:    statement(nodeID, 1, 2, 0),
			newer:    statement(nodeID, 1, 1, 9),
			expected: false,
		},
		"same counter larger value": {
			older:    statement(nodeID, 1, 1, 1),
			newer:    statement(nodeID, 1, 1, 2),
			expected: true,
		},
		"identical": {
			older:    statement(nodeID, 1, 1, 1),
			newer:    statement(nodeID, 1, 1, 1),
			expected: false,
		},
		"different slot": {
			older:    statement(nodeID, 1, 1, 1),
			newer:    statement(nodeID, 2, 2, 1),
			expected: false,
		},
		"different node": {
			older:    statement(nodeID, 1, 1, 1),
			newer:    statement(ids.GenerateTestNodeID(), 1, 2, 1),
			expected: false,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			window := &SlotWindow{}
			require.Equal(t, test.expected, window.IsNewerStatement(test.older, test.newer))
		})
	}
}

func TestInfo(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})
	tfc.start(t, false)

	compact, err := json.Marshal(tfc.fc.Info(true))
	require.NoError(err)
	require.JSONEq(`{"localCapacity":{"reading":10,"flood":5},"peerCapacity":0}`, string(compact))

	require.True(tfc.fc.SendMessage(newTx(t, 10)))
	info := tfc.fc.Info(false)
	require.Equal(map[string]int{
		"tx":           1,
		"statement":    0,
		"flood_advert": 0,
		"flood_demand": 0,
	}, info.QueuedMessages)
	require.Empty(info.OutboundQueueDelays)
}

func TestInfoBytes(t *testing.T) {
	require := require.New(t)

	config := newTestConfig()
	tfc := newTestFlowControl(t, &config, &SlotWindow{})
	tfc.start(t, true)
	tfc.grant(t, newSendMoreExtended(t, 3, 300))

	compact, err := json.Marshal(tfc.fc.Info(true))
	require.NoError(err)
	require.JSONEq(`{
		"localCapacity":{"reading":10,"flood":5},
		"peerCapacity":3,
		"localCapacityBytes":{"flood":1000},
		"peerCapacityBytes":300
	}`, string(compact))
}
