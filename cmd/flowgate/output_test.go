// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/flowgate/ids"
	"github.com/ava-labs/flowgate/network/flowcontrol"
	"github.com/ava-labs/flowgate/network/peer"
	"github.com/ava-labs/flowgate/network/simulation"
)

func newTestReport() *simulation.Report {
	reading := uint64(201)
	peerBytes := uint64(1024)
	return &simulation.Report{
		Complete: true,
		Elapsed:  time.Second,
		Nodes: []simulation.NodeReport{
			{
				ID:    ids.NodeID{0x01},
				Seen:  3,
				Pongs: 1,
				Peers: []peer.Info{
					{
						ID: ids.NodeID{0x02},
						FlowControl: flowcontrol.Info{
							LocalCapacity: flowcontrol.CapacityInfo{
								Reading: &reading,
								Flood:   200,
							},
							PeerCapacity:       199,
							LocalCapacityBytes: &flowcontrol.CapacityInfo{Flood: 2048},
							PeerCapacityBytes:  &peerBytes,
						},
					},
					{
						ID:     ids.NodeID{0x03},
						Closed: true,
						Error:  "peer didn't grant outbound capacity",
					},
				},
			},
		},
		Metrics: simulation.MetricsSummary{
			Saturations: 4,
			GrantsSent:  17,
		},
	}
}

func TestToOutputFormat(t *testing.T) {
	tests := map[string]struct {
		input       string
		expected    outputFormat
		expectedErr error
	}{
		"table": {
			input:    "table",
			expected: tableFormat,
		},
		"json upper case": {
			input:    "JSON",
			expected: jsonFormat,
		},
		"yaml": {
			input:    "yaml",
			expected: yamlFormat,
		},
		"unknown": {
			input:       "csv",
			expectedErr: errUnknownOutputFormat,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			format, err := toOutputFormat(test.input)
			require.ErrorIs(err, test.expectedErr)
			require.Equal(test.expected, format)
		})
	}
}

func TestWriteReportJSON(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	require.NoError(writeReport(&buf, jsonFormat, newTestReport()))
	require.Contains(buf.String(), `"complete": true`)
	require.Contains(buf.String(), `"peerCapacity": 199`)
	require.Contains(buf.String(), `"grantsSent": 17`)
	require.Contains(buf.String(), ids.NodeID{0x02}.String())
}

func TestWriteReportYAML(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	require.NoError(writeReport(&buf, yamlFormat, newTestReport()))
	require.Contains(buf.String(), "complete: true")
	require.Contains(buf.String(), "peerCapacityBytes: 1024")
	require.Contains(buf.String(), "closed: true")
	require.Contains(buf.String(), "saturations: 4")
}

func TestWriteReportTable(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	require.NoError(writeReport(&buf, tableFormat, newTestReport()))
	out := buf.String()
	require.Contains(out, ids.NodeID{0x02}.ShortString())
	require.Contains(out, "2048")
	require.Contains(out, "closed: peer didn't grant outbound capacity")
	// Footers and headers are upper cased.
	require.Contains(strings.ToLower(out), "complete in 1s")
	require.Contains(out, "Grants Sent")
	require.Contains(out, "17")
}

func TestWriteValueRejectsTable(t *testing.T) {
	err := writeValue(&bytes.Buffer{}, tableFormat, newTestReport())
	require.ErrorIs(t, err, errUnknownOutputFormat)
}
