// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package flowcontrol

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/message"
	"github.com/ava-labs/flowgate/utils/logging"

	safemath "github.com/ava-labs/flowgate/utils/math"
)

var (
	_ TotalCapacity = Capped(0)
	_ TotalCapacity = Uncapped{}

	ErrInsufficientTotalCapacity    = errors.New("insufficient total reading capacity")
	ErrInsufficientOutboundCapacity = errors.New("insufficient outbound capacity")
	ErrUnexpectedGrant              = errors.New("unexpected grant")
	ErrCapacityInvariant            = errors.New("capacity invariant violated")
	ErrOutboundCapacityOverflow     = errors.New("outbound capacity overflow")
)

// TotalCapacity is the total reading capacity of a connection. It is either
// Capped or Uncapped, as decided by the policy of the engine.
type TotalCapacity interface {
	fmt.Stringer

	isTotalCapacity()
}

// Capped limits the number of resources being read from a peer at once.
type Capped uint64

func (Capped) isTotalCapacity() {}

func (c Capped) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// Uncapped places no limit on the resources being read from a peer at once.
// Only flood traffic is bounded.
type Uncapped struct{}

func (Uncapped) isTotalCapacity() {}

func (Uncapped) String() string {
	return "uncapped"
}

// ReadingCapacity describes both the limits of an engine and its current
// remaining budget.
type ReadingCapacity struct {
	Flood uint64
	Total TotalCapacity
}

// Capacity tracks the reading capacity this node grants to a peer and the
// outbound capacity the peer has granted to this node.
//
// Capacity is not thread safe.
type Capacity struct {
	log        logging.Logger
	nodeID     ids.NodeID
	classifier message.Classifier
	metrics    *Metrics
	policy     Policy

	limits   ReadingCapacity
	capacity ReadingCapacity
	outbound uint64
}

func newCapacity(
	log logging.Logger,
	nodeID ids.NodeID,
	classifier message.Classifier,
	metrics *Metrics,
	policy Policy,
) *Capacity {
	limits := policy.Limits()
	return &Capacity{
		log:        log,
		nodeID:     nodeID,
		classifier: classifier,
		metrics:    metrics,
		policy:     policy,
		limits:     limits,
		capacity:   limits,
	}
}

// LockLocalCapacity reserves the resources of [msg] before it is processed.
//
// The total capacity, if capped, is always reduced. Returns false if [msg] is
// a flood message and the peer has exceeded its flood capacity. In that case
// the flood capacity is left untouched while the total capacity stays reduced.
func (c *Capacity) LockLocalCapacity(msg message.Message) bool {
	c.CheckCapacityInvariants()

	cost := c.policy.MsgResourceCount(msg)
	if total, ok := c.capacity.Total.(Capped); ok {
		if uint64(total) < cost {
			c.fatal(ErrInsufficientTotalCapacity,
				zap.Stringer("op", msg.Op()),
				zap.Uint64("totalCapacity", uint64(total)),
				zap.Uint64("cost", cost),
			)
		}
		c.capacity.Total = total - Capped(cost)
	}

	if !c.classifier.IsFlood(msg) {
		return true
	}

	if c.capacity.Flood < cost {
		c.log.Debug("peer exceeded flood capacity",
			zap.Stringer("nodeID", c.nodeID),
			zap.String("policy", c.policy.Name()),
			zap.Stringer("op", msg.Op()),
			zap.Uint64("floodCapacity", c.capacity.Flood),
			zap.Uint64("cost", cost),
		)
		c.metrics.lockFailures.WithLabelValues(c.policy.Name()).Inc()
		return false
	}

	c.capacity.Flood -= cost
	if c.capacity.Flood == 0 {
		c.log.Debug("no flood capacity left for peer",
			zap.Stringer("nodeID", c.nodeID),
			zap.String("policy", c.policy.Name()),
		)
		c.metrics.saturations.WithLabelValues(c.policy.Name()).Inc()
	}
	return true
}

// ReleaseLocalCapacity returns the resources of [msg] once it was processed.
// Returns the amount of flood capacity released, which is zero for non-flood
// messages, and whether the flood capacity went from zero to positive.
func (c *Capacity) ReleaseLocalCapacity(msg message.Message) (uint64, bool) {
	cost := c.policy.MsgResourceCount(msg)
	if total, ok := c.capacity.Total.(Capped); ok {
		c.capacity.Total = total + Capped(cost)
	}

	var (
		released  uint64
		recovered bool
	)
	if c.classifier.IsFlood(msg) {
		if c.capacity.Flood == 0 && cost > 0 {
			c.log.Debug("flood capacity recovered for peer",
				zap.Stringer("nodeID", c.nodeID),
				zap.String("policy", c.policy.Name()),
				zap.Uint64("floodCapacity", cost),
			)
			c.metrics.recoveries.WithLabelValues(c.policy.Name()).Inc()
			recovered = true
		}
		c.capacity.Flood += cost
		released = cost
	}

	c.CheckCapacityInvariants()
	return released, recovered
}

// LockOutboundCapacity consumes the outbound capacity needed to send [msg].
// The caller must have checked HasOutboundCapacity. Non-flood messages don't
// consume outbound capacity.
func (c *Capacity) LockOutboundCapacity(msg message.Message) {
	if !c.classifier.IsFlood(msg) {
		return
	}

	cost := c.policy.MsgResourceCount(msg)
	if c.outbound < cost {
		c.fatal(ErrInsufficientOutboundCapacity,
			zap.Stringer("op", msg.Op()),
			zap.Uint64("outboundCapacity", c.outbound),
			zap.Uint64("cost", cost),
		)
	}
	c.outbound -= cost
}

// ReleaseOutboundCapacity adds the capacity granted by [msg] to the outbound
// capacity.
func (c *Capacity) ReleaseOutboundCapacity(msg message.Message) {
	granted, err := c.policy.grantAmount(msg)
	if err != nil {
		c.fatal(err, zap.Stringer("op", msg.Op()))
	}

	outbound, err := safemath.Add64(c.outbound, granted)
	if err != nil {
		c.fatal(ErrOutboundCapacityOverflow,
			zap.Uint64("outboundCapacity", c.outbound),
			zap.Uint64("granted", granted),
		)
	}

	if c.outbound == 0 && granted != 0 {
		c.log.Debug("got outbound capacity for peer",
			zap.Stringer("nodeID", c.nodeID),
			zap.String("policy", c.policy.Name()),
			zap.Uint64("granted", granted),
		)
	}
	c.outbound = outbound
}

// HasOutboundCapacity returns true if [msg] can be sent to the peer.
func (c *Capacity) HasOutboundCapacity(msg message.Message) bool {
	return c.outbound >= c.policy.MsgResourceCount(msg)
}

// CanRead returns true if more messages may be read from the peer.
func (c *Capacity) CanRead() bool {
	canRead, err := c.policy.canRead(c.capacity)
	if err != nil {
		c.fatal(err)
	}
	return canRead
}

// CheckCapacityInvariants verifies that the current capacity never exceeds the
// limits of the engine.
func (c *Capacity) CheckCapacityInvariants() {
	if c.capacity.Flood > c.limits.Flood {
		c.fatal(ErrCapacityInvariant,
			zap.Uint64("floodCapacity", c.capacity.Flood),
			zap.Uint64("floodLimit", c.limits.Flood),
		)
	}

	switch limit := c.limits.Total.(type) {
	case Capped:
		total, ok := c.capacity.Total.(Capped)
		if !ok || total > limit {
			c.fatal(ErrCapacityInvariant,
				zap.Stringer("totalCapacity", c.capacity.Total),
				zap.Stringer("totalLimit", limit),
			)
		}
	case Uncapped:
		if _, ok := c.capacity.Total.(Uncapped); !ok {
			c.fatal(ErrCapacityInvariant,
				zap.Stringer("totalCapacity", c.capacity.Total),
				zap.Stringer("totalLimit", limit),
			)
		}
	default:
		c.fatal(ErrCapacityInvariant, zap.String("reason", "unknown total capacity limit"))
	}
}

// Capacity returns the remaining reading capacity.
func (c *Capacity) Capacity() ReadingCapacity {
	return c.capacity
}

// Limits returns the reading capacity the engine started with.
func (c *Capacity) Limits() ReadingCapacity {
	return c.limits
}

// OutboundCapacity returns the capacity the peer has granted to this node.
func (c *Capacity) OutboundCapacity() uint64 {
	return c.outbound
}

// MsgResourceCount returns the cost of [msg] under the policy of this engine.
func (c *Capacity) MsgResourceCount(msg message.Message) uint64 {
	return c.policy.MsgResourceCount(msg)
}

func (c *Capacity) Policy() Policy {
	return c.policy
}

func (c *Capacity) fatal(err error, fields ...zap.Field) {
	fields = append(fields,
		zap.Stringer("nodeID", c.nodeID),
		zap.String("policy", c.policy.Name()),
	)
	fatal(c.log, err, fields...)
}

// fatal logs a broken local invariant and panics. These are never caused by a
// peer.
func fatal(log logging.Logger, err error, fields ...zap.Field) {
	err = fmt.Errorf("flow control: %w", err)
	log.Fatal("flow control invariant violated", append(fields, zap.Error(err))...)
	panic(err)
}
