// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ava-labs/flowgate/utils/formatting"
)

const (
	NodeIDPrefix = "NodeID-"
	NodeIDLen    = 20

	// shortStringLen is the number of encoded characters kept by
	// NodeID.ShortString.
	shortStringLen = 5
)

var (
	EmptyNodeID = NodeID{}

	errShortNodeID      = errors.New("insufficient NodeID length")
	errMissingPrefix    = errors.New("missing NodeID prefix")
	errWrongNodeIDLen   = errors.New("wrong NodeID length")
	errMissingQuotes    = errors.New("first and last characters should be quotes")
	errNodeIDUnmarshall = errors.New("couldn't unmarshal NodeID")
)

// NodeID identifies the remote end of a connection.
type NodeID [NodeIDLen]byte

// ToNodeID attempt to convert a byte slice into a node id
func ToNodeID(bytes []byte) (NodeID, error) {
	if len(bytes) != NodeIDLen {
		return NodeID{}, fmt.Errorf("%w: expected %d bytes but got %d", errWrongNodeIDLen, NodeIDLen, len(bytes))
	}
	var nodeID NodeID
	copy(nodeID[:], bytes)
	return nodeID, nil
}

func (id NodeID) Bytes() []byte {
	return id[:]
}

func (id NodeID) String() string {
	s, _ := formatting.EncodeCB58(id[:])
	return NodeIDPrefix + s
}

// ShortString returns an abbreviated form of the node ID that is still
// distinguishable in logs.
func (id NodeID) ShortString() string {
	s, _ := formatting.EncodeCB58(id[:])
	if len(s) > shortStringLen {
		s = s[:shortStringLen]
	}
	return s
}

// NodeIDFromString is the inverse of NodeID.String()
func NodeIDFromString(nodeIDStr string) (NodeID, error) {
	if !strings.HasPrefix(nodeIDStr, NodeIDPrefix) {
		return NodeID{}, fmt.Errorf("%w: %q", errMissingPrefix, nodeIDStr)
	}
	bytes, err := formatting.DecodeCB58(strings.TrimPrefix(nodeIDStr, NodeIDPrefix))
	if err != nil {
		return NodeID{}, err
	}
	return ToNodeID(bytes)
}

func (id NodeID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

func (id *NodeID) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str == "null" { // If "null", do nothing
		return nil
	} else if len(str) <= 2+len(NodeIDPrefix) {
		return fmt.Errorf("%w: expected to be > %d", errShortNodeID, 2+len(NodeIDPrefix))
	}

	lastIndex := len(str) - 1
	if str[0] != '"' || str[lastIndex] != '"' {
		return errMissingQuotes
	}

	nodeID, err := NodeIDFromString(str[1:lastIndex])
	if err != nil {
		return fmt.Errorf("%w: %v", errNodeIDUnmarshall, err)
	}
	*id = nodeID
	return nil
}
