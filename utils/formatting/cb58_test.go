// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package formatting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCB58RoundTrip(t *testing.T) {
	require := require.New(t)

	for _, input := range [][]byte{
		{},
		{0},
		{1, 2, 3, 4, 5},
		make([]byte, 32),
	} {
		str, err := EncodeCB58(input)
		require.NoError(err)

		decoded, err := DecodeCB58(str)
		require.NoError(err)
		require.Equal(input, decoded)
	}
}

func TestDecodeCB58BadChecksum(t *testing.T) {
	require := require.New(t)

	str, err := EncodeCB58([]byte{1, 2, 3})
	require.NoError(err)

	// flip the last character to corrupt the checksum
	corrupted := []byte(str)
	if corrupted[len(corrupted)-1] == '2' {
		corrupted[len(corrupted)-1] = '3'
	} else {
		corrupted[len(corrupted)-1] = '2'
	}
	_, err = DecodeCB58(string(corrupted))
	require.Error(err)
}

func TestEncodeCB58Oversized(t *testing.T) {
	_, err := EncodeCB58(make([]byte, maxCB58EncodeSize+1))
	require.ErrorIs(t, err, errEncodingOverFlow)
}
