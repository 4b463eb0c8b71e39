// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/flowgate/config"
)

func TestSimulateCommand(t *testing.T) {
	require := require.New(t)

	cmd := newRootCommand()
	cmd.SetArgs([]string{
		"simulate",
		"--" + config.LogLevelKey + "=off",
		"--" + config.SimulationNodesKey + "=3",
		"--" + config.SimulationTxsKey + "=20",
		"--" + config.SimulationTxSizeKey + "=32",
		"--" + config.SimulationOutputFormatKey + "=json",
	})
	require.NoError(cmd.Execute())
}

func TestSimulateCommandRejectsInvalidConfig(t *testing.T) {
	tests := map[string][]string{
		"single node":    {"--" + config.SimulationNodesKey + "=1"},
		"unknown format": {"--" + config.SimulationOutputFormatKey + "=csv"},
		"batch exceeds flood capacity": {
			"--" + config.FlowControlPeerFloodReadingCapacityKey + "=10",
			"--" + config.FlowControlSendMoreBatchSizeKey + "=11",
		},
		"max tx doesn't fit beside a byte batch": {
			"--" + config.FlowControlPeerFloodReadingCapacityBytesKey + "=1000",
			"--" + config.FlowControlSendMoreBatchSizeBytesKey + "=1000",
			"--" + config.FlowControlMaxTxSizeKey + "=700",
		},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := newRootCommand()
			cmd.SetArgs(append([]string{"simulate", "--" + config.LogLevelKey + "=off"}, args...))
			require.Error(t, cmd.Execute())
		})
	}
}

func TestConfigCommand(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{
		"config",
		"--" + config.FlowControlSendMoreBatchSizeKey + "=8",
	})
	require.NoError(t, cmd.Execute())
}
