// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package math

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAveragerInitialPrediction(t *testing.T) {
	a := NewAverager(10, time.Second, time.Unix(0, 0))
	require.InDelta(t, 10, a.Read(), 1e-9)
}

func TestAveragerHalflife(t *testing.T) {
	require := require.New(t)

	start := time.Unix(0, 0)
	a := NewAverager(0, time.Second, start)

	// After one halflife the initial prediction weighs 1/2 and the new
	// observation weighs 1.
	a.Observe(3, start.Add(time.Second))
	require.InDelta(2, a.Read(), 1e-9)
}

func TestAveragerSameTime(t *testing.T) {
	require := require.New(t)

	start := time.Unix(0, 0)
	a := NewAverager(0, time.Second, start)
	a.Observe(4, start)
	a.Observe(8, start)
	require.InDelta(4, a.Read(), 1e-9)
}

func TestAveragerOutOfOrder(t *testing.T) {
	require := require.New(t)

	start := time.Unix(0, 0)
	a := NewAverager(0, time.Second, start.Add(time.Second))

	// An observation made one halflife before the last update counts half.
	a.Observe(3, start)
	require.InDelta(1, a.Read(), 1e-9)
}
