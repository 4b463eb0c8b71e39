// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package math

import (
	"math"
	"time"
)

var _ Averager = (*continuousAverager)(nil)

// Averager tracks a continuous time exponential moving average of the provided
// values.
type Averager interface {
	// Observe the value at the given time
	Observe(value float64, currentTime time.Time)

	// Read returns the average of the provided values.
	Read() float64
}

// continuousAverager weighs every observation by 2^(-age/halflife), so an
// observation made one halflife ago counts half as much as a fresh one.
type continuousAverager struct {
	halflife    time.Duration
	weightedSum float64
	normalizer  float64
	lastUpdated time.Time
}

// NewAverager returns an averager whose first reading is [initialPrediction].
func NewAverager(
	initialPrediction float64,
	halflife time.Duration,
	currentTime time.Time,
) Averager {
	return &continuousAverager{
		halflife:    halflife,
		weightedSum: initialPrediction,
		normalizer:  1,
		lastUpdated: currentTime,
	}
}

func (a *continuousAverager) Observe(value float64, currentTime time.Time) {
	if currentTime.After(a.lastUpdated) {
		// decay the existing observations to [currentTime]
		decay := math.Exp2(-float64(currentTime.Sub(a.lastUpdated)) / float64(a.halflife))
		a.weightedSum *= decay
		a.normalizer *= decay
		a.lastUpdated = currentTime
		a.weightedSum += value
		a.normalizer++
		return
	}

	// out of order observations are decayed relative to the latest update
	weight := math.Exp2(-float64(a.lastUpdated.Sub(currentTime)) / float64(a.halflife))
	a.weightedSum += weight * value
	a.normalizer += weight
}

func (a *continuousAverager) Read() float64 {
	return a.weightedSum / a.normalizer
}
