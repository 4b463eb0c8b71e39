// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sampler

// Uniform samples values without replacement in the provided range
type Uniform interface {
	Initialize(length uint64)
	// Sample returns false if there are fewer than [length] values left.
	Sample(length int) ([]uint64, bool)

	Seed(int64)
	ClearSeed()

	Reset()
	// Next returns false once every value in the range was drawn.
	Next() (uint64, bool)
}

// NewUniform returns a new sampler
func NewUniform() Uniform {
	return &uniformResample{}
}
