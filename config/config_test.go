// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/flowgate/network/flowcontrol"
	"github.com/ava-labs/flowgate/network/simulation"
	"github.com/ava-labs/flowgate/utils/logging"
)

func TestDefaults(t *testing.T) {
	require := require.New(t)

	v, err := BuildViper(BuildFlagSet(), nil)
	require.NoError(err)

	flowConfig, err := GetFlowControlConfig(v)
	require.NoError(err)
	require.Equal(flowcontrol.DefaultConfig, flowConfig)

	loggingConfig, err := GetLoggingConfig(v)
	require.NoError(err)
	require.Equal(logging.DefaultConfig(), loggingConfig)

	simConfig, err := GetSimulationConfig(v)
	require.NoError(err)
	require.Equal(simulation.DefaultConfig, simConfig)
}

func TestGetFlowControlConfig(t *testing.T) {
	tests := map[string]struct {
		args        []string
		expected    func(*flowcontrol.Config)
		expectedErr bool
	}{
		"flags": {
			args: []string{
				"--" + FlowControlPeerFloodReadingCapacityKey + "=20",
				"--" + FlowControlPeerReadingCapacityKey + "=30",
				"--" + FlowControlSendMoreBatchSizeKey + "=5",
				"--" + FlowControlOutboundQueueTimeoutKey + "=3s",
			},
			expected: func(c *flowcontrol.Config) {
				c.PeerFloodReadingCapacity = 20
				c.PeerReadingCapacity = 30
				c.SendMoreBatchSize = 5
				c.OutboundQueueTimeout = 3 * time.Second
			},
		},
		"batch exceeds flood capacity": {
			args: []string{
				"--" + FlowControlPeerFloodReadingCapacityKey + "=20",
				"--" + FlowControlSendMoreBatchSizeKey + "=21",
			},
			expectedErr: true,
		},
		"flood exceeds total": {
			args: []string{
				"--" + FlowControlPeerReadingCapacityKey + "=10",
			},
			expectedErr: true,
		},
		"zero queue limit": {
			args: []string{
				"--" + FlowControlOutboundQueueLimitKey + "=0",
			},
			expectedErr: true,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			v, err := BuildViper(BuildFlagSet(), test.args)
			require.NoError(err)

			config, err := GetFlowControlConfig(v)
			if test.expectedErr {
				require.ErrorContains(err, "invalid flow control config")
				return
			}
			require.NoError(err)

			expected := flowcontrol.DefaultConfig
			test.expected(&expected)
			require.Equal(expected, config)
		})
	}
}

func TestGetLoggingConfig(t *testing.T) {
	tests := map[string]struct {
		args        []string
		expected    func(*logging.Config)
		expectedErr error
	}{
		"display level inherits log level": {
			args: []string{"--" + LogLevelKey + "=debug"},
			expected: func(c *logging.Config) {
				c.LogLevel = logging.Debug
				c.DisplayLevel = logging.Debug
			},
		},
		"display level overrides log level": {
			args: []string{
				"--" + LogLevelKey + "=debug",
				"--" + LogDisplayLevelKey + "=warn",
			},
			expected: func(c *logging.Config) {
				c.LogLevel = logging.Debug
				c.DisplayLevel = logging.Warn
			},
		},
		"json format with rotation": {
			args: []string{
				"--" + LogFormatKey + "=json",
				"--" + LogRotaterMaxSizeKey + "=16",
				"--" + LogRotaterMaxFilesKey + "=3",
				"--" + LogRotaterCompressKey,
			},
			expected: func(c *logging.Config) {
				c.LogFormat = logging.JSON
				c.MaxSize = 16
				c.MaxFiles = 3
				c.Compress = true
			},
		},
		"unknown log level": {
			args:        []string{"--" + LogLevelKey + "=loud"},
			expectedErr: logging.ErrUnknownLevel,
		},
		"unknown display level": {
			args:        []string{"--" + LogDisplayLevelKey + "=loud"},
			expectedErr: logging.ErrUnknownLevel,
		},
		"negative max size": {
			args:        []string{"--" + LogRotaterMaxSizeKey + "=-1"},
			expectedErr: errNegativeValue,
		},
		"negative max age": {
			args:        []string{"--" + LogRotaterMaxAgeKey + "=-1"},
			expectedErr: errNegativeValue,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			v, err := BuildViper(BuildFlagSet(), test.args)
			require.NoError(err)

			config, err := GetLoggingConfig(v)
			require.ErrorIs(err, test.expectedErr)
			if test.expectedErr != nil {
				return
			}

			expected := logging.DefaultConfig()
			test.expected(&expected)
			require.Equal(expected, config)
		})
	}
}

func TestLogsDirIsAbsolute(t *testing.T) {
	require := require.New(t)

	v, err := BuildViper(BuildFlagSet(), []string{"--" + LogsDirKey + "=logs"})
	require.NoError(err)

	config, err := GetLoggingConfig(v)
	require.NoError(err)
	require.True(filepath.IsAbs(config.Directory))
	require.Equal("logs", filepath.Base(config.Directory))
}

func TestGetSimulationConfig(t *testing.T) {
	require := require.New(t)

	v, err := BuildViper(BuildFlagSet(), []string{
		"--" + SimulationNodesKey + "=6",
		"--" + SimulationGossipFanoutKey + "=2",
		"--" + FlowControlBytesEnabledKey + "=false",
	})
	require.NoError(err)

	config, err := GetSimulationConfig(v)
	require.NoError(err)
	require.Equal(6, config.Nodes)
	require.Equal(2, config.GossipFanout)
	require.False(config.BytesEnabled)

	v, err = BuildViper(BuildFlagSet(), []string{"--" + SimulationNodesKey + "=1"})
	require.NoError(err)
	_, err = GetSimulationConfig(v)
	require.ErrorContains(err, "invalid simulation config")
}

func TestConfigFile(t *testing.T) {
	require := require.New(t)

	content := fmt.Sprintf(`{
	%q: 7,
	%q: "2m",
	%q: "debug"
}`,
		FlowControlSendMoreBatchSizeKey,
		FlowControlNoOutboundCapacityTimeoutKey,
		LogLevelKey,
	)
	configFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(os.WriteFile(configFile, []byte(content), 0o600))

	v, err := BuildViper(BuildFlagSet(), []string{
		"--" + ConfigFileKey + "=" + configFile,
		// Flags take precedence over the config file.
		"--" + LogLevelKey + "=warn",
	})
	require.NoError(err)

	flowConfig, err := GetFlowControlConfig(v)
	require.NoError(err)
	require.Equal(uint64(7), flowConfig.SendMoreBatchSize)
	require.Equal(2*time.Minute, flowConfig.NoOutboundCapacityTimeout)

	loggingConfig, err := GetLoggingConfig(v)
	require.NoError(err)
	require.Equal(logging.Warn, loggingConfig.LogLevel)
}

func TestConfigFileMissing(t *testing.T) {
	_, err := BuildViper(BuildFlagSet(), []string{
		"--" + ConfigFileKey + "=" + filepath.Join(t.TempDir(), "missing.json"),
	})
	require.Error(t, err)
}

func TestConfigContent(t *testing.T) {
	require := require.New(t)

	content := fmt.Sprintf("%s: 9\n%s: 12\n", FlowControlSendMoreBatchSizeKey, SimulationTxsKey)
	v, err := BuildViper(BuildFlagSet(), []string{
		"--" + ConfigContentKey + "=" + base64.StdEncoding.EncodeToString([]byte(content)),
		"--" + ConfigContentTypeKey + "=yaml",
	})
	require.NoError(err)

	flowConfig, err := GetFlowControlConfig(v)
	require.NoError(err)
	require.Equal(uint64(9), flowConfig.SendMoreBatchSize)

	simConfig, err := GetSimulationConfig(v)
	require.NoError(err)
	require.Equal(12, simConfig.Txs)
}

func TestConfigContentInvalidBase64(t *testing.T) {
	_, err := BuildViper(BuildFlagSet(), []string{
		"--" + ConfigContentKey + "=not base64!",
	})
	require.ErrorContains(t, err, "unable to decode base64 config content")
}

func TestEnvironment(t *testing.T) {
	require := require.New(t)

	t.Setenv("FLOWGATE_FLOW_CONTROL_SEND_MORE_BATCH_SIZE", "11")

	v, err := BuildViper(BuildFlagSet(), nil)
	require.NoError(err)

	flowConfig, err := GetFlowControlConfig(v)
	require.NoError(err)
	require.Equal(uint64(11), flowConfig.SendMoreBatchSize)
}
