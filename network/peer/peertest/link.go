// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package peertest

import (
	"context"
	"errors"
	"sync"

	"github.com/ava-labs/flowgate/message"
	"github.com/ava-labs/flowgate/network/flowcontrol"
	"github.com/ava-labs/flowgate/network/peer"
	"github.com/ava-labs/flowgate/utils/buffer"
)

var (
	_ flowcontrol.Sender = (*Link)(nil)

	ErrLinkClosed = errors.New("link closed")
)

// Link is one direction of an in-memory connection. Messages are serialized
// when sent and parsed again when delivered.
type Link struct {
	lock       sync.Mutex
	queue      buffer.Deque[[]byte]
	delivering bool
	closed     bool
	// notify has a pending value when messages may be available.
	notify chan struct{}
}

func NewLink() *Link {
	return &Link{
		queue:  buffer.NewUnboundedDeque[[]byte](0),
		notify: make(chan struct{}, 1),
	}
}

// Send queues [msg] for delivery. Returns false once the link is closed.
func (l *Link) Send(msg message.Message) bool {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.closed {
		return false
	}
	l.queue.PushRight(msg.Bytes())
	l.signal()
	return true
}

// Close stops accepting messages. Queued messages are discarded.
func (l *Link) Close() {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.closed = true
	for l.queue.Len() > 0 {
		_, _ = l.queue.PopLeft()
	}
	l.signal()
}

// Idle returns true if no message is queued or being delivered.
func (l *Link) Idle() bool {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.queue.Len() == 0 && !l.delivering
}

// Pump delivers queued messages to [to] until [ctx] is done, the link is
// closed or [to] is closed. Returns the reason delivery stopped.
func (l *Link) Pump(ctx context.Context, to *peer.Peer) error {
	for {
		bytes, ok, err := l.next()
		if err != nil {
			return err
		}
		if !ok {
			select {
			case <-l.notify:
				continue
			case <-ctx.Done():
				return ctx.Err()
			case <-to.Closed():
				return to.Err()
			}
		}

		msg, err := message.Parse(bytes)
		if err != nil {
			l.delivered()
			return err
		}
		err = to.Receive(msg)
		l.delivered()
		if err != nil && to.Err() != nil {
			return err
		}
	}
}

func (l *Link) next() ([]byte, bool, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.closed {
		return nil, false, ErrLinkClosed
	}
	bytes, ok := l.queue.PopLeft()
	l.delivering = ok
	return bytes, ok, nil
}

func (l *Link) delivered() {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.delivering = false
}

func (l *Link) signal() {
	select {
	case l.notify <- struct{}{}:
	default:
	}
}
