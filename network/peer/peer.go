// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package peer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/message"
	"github.com/ava-labs/flowgate/network/flowcontrol"
	"github.com/ava-labs/flowgate/utils/logging"
	"github.com/ava-labs/flowgate/utils/timer/mockable"
)

var (
	ErrFloodCapacityExceeded = errors.New("peer exceeded its flood capacity")
	ErrNoOutboundCapacity    = errors.New("peer didn't grant outbound capacity")
	ErrClosed                = errors.New("peer closed")
)

// Config is shared by every peer of a node.
type Config struct {
	FlowControl *flowcontrol.Config
	Log         logging.Logger
	Metrics     *flowcontrol.Metrics
	Classifier  message.Classifier
	Tracker     flowcontrol.StatementTracker
	Handler     Handler
	Clock       *mockable.Clock
}

// Peer is the session of a single connection. It serializes every flow
// control call for the connection.
type Peer struct {
	config *Config
	id     ids.NodeID
	sender flowcontrol.Sender

	// lock guards [flowControl]. It is never held while the handler runs.
	lock        sync.Mutex
	flowControl *flowcontrol.FlowControl

	closeOnce sync.Once
	// closed is closed once [err] is set.
	closed chan struct{}
	err    error
}

// New returns a peer that writes to the connection with [sender]. The peer
// must be started before messages are exchanged.
func New(config *Config, nodeID ids.NodeID, sender flowcontrol.Sender) *Peer {
	return &Peer{
		config: config,
		id:     nodeID,
		sender: sender,
		flowControl: flowcontrol.New(
			config.FlowControl,
			config.Log,
			nodeID,
			config.Classifier,
			config.Tracker,
			config.Metrics,
			config.Clock,
		),
		closed: make(chan struct{}),
	}
}

func (p *Peer) ID() ids.NodeID {
	return p.id
}

// Start grants the remote its initial capacity. [enableBytes] is whether byte
// flow control was negotiated for the connection.
func (p *Peer) Start(enableBytes bool) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.flowControl.Start(p.sender, enableBytes)
}

// Receive handles a message read from the connection. Any error returned
// other than the handler's closes the peer.
func (p *Peer) Receive(msg message.Message) error {
	select {
	case <-p.closed:
		return p.err
	default:
	}

	if msg.Op().IsGrant() {
		return p.receiveGrant(msg)
	}

	p.lock.Lock()
	admitted := p.flowControl.BeginMessageProcessing(msg)
	p.lock.Unlock()
	if !admitted {
		err := fmt.Errorf("%w: %s", ErrFloodCapacityExceeded, msg.Op())
		p.Close(err)
		return err
	}

	handlerErr := p.config.Handler.HandleInbound(p.id, msg)
	if handlerErr != nil {
		p.config.Log.Debug("failed to handle message",
			zap.Stringer("nodeID", p.id),
			zap.Stringer("messageOp", msg.Op()),
			zap.Error(handlerErr),
		)
	}

	p.lock.Lock()
	err := p.flowControl.EndMessageProcessing(msg)
	p.lock.Unlock()
	if err != nil {
		p.Close(err)
		return errors.Join(handlerErr, err)
	}
	return handlerErr
}

func (p *Peer) receiveGrant(msg message.Message) error {
	p.lock.Lock()
	err := p.flowControl.IsSendMoreValid(msg)
	if err == nil {
		p.flowControl.MaybeReleaseCapacityAndTriggerSend(msg)
	}
	p.lock.Unlock()

	if err != nil {
		p.Close(err)
	}
	return err
}

// Send writes [msg] to the connection. Flood messages are queued until the
// remote grants the capacity to send them. Returns false if the message was
// not sent or queued.
func (p *Peer) Send(msg message.Message) bool {
	select {
	case <-p.closed:
		return false
	default:
	}

	p.lock.Lock()
	queued := p.flowControl.SendMessage(msg)
	p.lock.Unlock()
	if queued {
		return true
	}
	return p.sender.Send(msg)
}

// CanRead returns false while the local capacity doesn't allow reading
// another message from the connection.
func (p *Peer) CanRead() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.flowControl.CanRead()
}

// CheckOutboundCapacity closes the peer if the remote hasn't granted the
// capacity to send a queued message within the configured timeout.
func (p *Peer) CheckOutboundCapacity(now time.Time) error {
	p.lock.Lock()
	since, waiting := p.flowControl.NoOutboundCapacitySince()
	p.lock.Unlock()

	if !waiting {
		return nil
	}
	waited := now.Sub(since)
	if waited < p.config.FlowControl.NoOutboundCapacityTimeout {
		return nil
	}

	err := fmt.Errorf("%w for %s", ErrNoOutboundCapacity, waited)
	p.Close(err)
	return err
}

// Close shuts down the peer. Only the first call has an effect.
func (p *Peer) Close(err error) {
	p.closeOnce.Do(func() {
		if err == nil {
			err = ErrClosed
		}
		p.err = err
		close(p.closed)

		p.config.Log.Debug("closing peer",
			zap.Stringer("nodeID", p.id),
			zap.Error(err),
		)
		p.config.Handler.Disconnected(p.id, err)
	})
}

// Closed is closed once the peer is closed.
func (p *Peer) Closed() <-chan struct{} {
	return p.closed
}

// Err returns the reason the peer was closed, or nil if it is still open.
func (p *Peer) Err() error {
	select {
	case <-p.closed:
		return p.err
	default:
		return nil
	}
}

func (p *Peer) Info(compact bool) Info {
	p.lock.Lock()
	flowControl := p.flowControl.Info(compact)
	queued := p.flowControl.QueueLen()
	p.lock.Unlock()

	info := Info{
		ID:          p.id,
		FlowControl: flowControl,
		QueueLen:    queued,
	}
	if err := p.Err(); err != nil {
		info.Closed = true
		info.Error = err.Error()
	}
	return info
}
