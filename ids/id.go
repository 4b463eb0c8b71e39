// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ava-labs/flowgate/utils/formatting"
	"github.com/ava-labs/flowgate/utils/hashing"
)

const IDLen = 32

var (
	// Empty is a useful all zero value
	Empty = ID{}

	errWrongIDLen = errors.New("wrong ID length")
)

// ID wraps a 32 byte hash used as an identifier. Flood adverts and demands
// refer to transactions by ID.
type ID [IDLen]byte

// ToID attempt to convert a byte slice into an id
func ToID(bytes []byte) (ID, error) {
	if len(bytes) != IDLen {
		return ID{}, fmt.Errorf("%w: expected %d bytes but got %d", errWrongIDLen, IDLen, len(bytes))
	}
	var id ID
	copy(id[:], bytes)
	return id, nil
}

// Checksum256 returns the ID of [bytes].
func Checksum256(bytes []byte) ID {
	return hashing.ComputeHash256Array(bytes)
}

// FromString is the inverse of ID.String()
func FromString(idStr string) (ID, error) {
	bytes, err := formatting.DecodeCB58(idStr)
	if err != nil {
		return ID{}, err
	}
	return ToID(bytes)
}

func (id ID) String() string {
	// We assume that the maximum size of a byte slice that
	// can be stringified is at least the length of an ID
	s, _ := formatting.EncodeCB58(id[:])
	return s
}

func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}
