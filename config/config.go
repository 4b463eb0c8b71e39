// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ava-labs/flowgate/network/flowcontrol"
	"github.com/ava-labs/flowgate/network/simulation"
	"github.com/ava-labs/flowgate/utils/logging"
)

const envPrefix = "FLOWGATE"

var errNegativeValue = errors.New("value must be non-negative")

// BuildViper parses [args] into [fs] and returns the resulting viper
// environment.
func BuildViper(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return NewViper(fs)
}

// NewViper returns the viper environment built from the already parsed [fs],
// FLOWGATE_ prefixed environment variables and the optional config file.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix(envPrefix)
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	switch {
	case v.IsSet(ConfigContentKey):
		configContentB64 := v.GetString(ConfigContentKey)
		configBytes, err := base64.StdEncoding.DecodeString(configContentB64)
		if err != nil {
			return nil, fmt.Errorf("unable to decode base64 config content: %w", err)
		}
		v.SetConfigType(v.GetString(ConfigContentTypeKey))
		if err := v.ReadConfig(bytes.NewBuffer(configBytes)); err != nil {
			return nil, err
		}
	case v.IsSet(ConfigFileKey):
		filename := getExpandedArg(v, ConfigFileKey)
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// getExpandedArg gets the string in viper corresponding to [key] and expands
// any variables using the OS env. If the result is a relative path, it is made
// absolute.
func getExpandedArg(v *viper.Viper, key string) string {
	value := os.ExpandEnv(v.GetString(key))
	if value == "" || filepath.IsAbs(value) {
		return value
	}
	if abs, err := filepath.Abs(value); err == nil {
		return abs
	}
	return value
}

func GetFlowControlConfig(v *viper.Viper) (flowcontrol.Config, error) {
	config := flowcontrol.Config{
		PeerFloodReadingCapacity:      v.GetUint64(FlowControlPeerFloodReadingCapacityKey),
		PeerReadingCapacity:           v.GetUint64(FlowControlPeerReadingCapacityKey),
		PeerFloodReadingCapacityBytes: v.GetUint64(FlowControlPeerFloodReadingCapacityBytesKey),
		SendMoreBatchSize:             v.GetUint64(FlowControlSendMoreBatchSizeKey),
		SendMoreBatchSizeBytes:        v.GetUint64(FlowControlSendMoreBatchSizeBytesKey),
		OutboundQueueLimit:            v.GetUint64(FlowControlOutboundQueueLimitKey),
		OutboundTxQueueByteLimit:      v.GetUint64(FlowControlOutboundTxQueueByteLimitKey),
		MaxTxSize:                     v.GetUint64(FlowControlMaxTxSizeKey),
		OutboundQueueTimeout:          v.GetDuration(FlowControlOutboundQueueTimeoutKey),
		NoOutboundCapacityTimeout:     v.GetDuration(FlowControlNoOutboundCapacityTimeoutKey),
		QueueDelayHalflife:            v.GetDuration(FlowControlQueueDelayHalflifeKey),
	}
	if err := config.Verify(); err != nil {
		return flowcontrol.Config{}, fmt.Errorf("invalid flow control config: %w", err)
	}
	return config, nil
}

func GetLoggingConfig(v *viper.Viper) (logging.Config, error) {
	loggingConfig := logging.DefaultConfig()
	loggingConfig.Directory = getExpandedArg(v, LogsDirKey)

	var err error
	loggingConfig.LogLevel, err = logging.ToLevel(v.GetString(LogLevelKey))
	if err != nil {
		return loggingConfig, err
	}

	logDisplayLevel := v.GetString(LogLevelKey)
	if v.IsSet(LogDisplayLevelKey) {
		logDisplayLevel = v.GetString(LogDisplayLevelKey)
	}
	loggingConfig.DisplayLevel, err = logging.ToLevel(logDisplayLevel)
	if err != nil {
		return loggingConfig, err
	}

	loggingConfig.LogFormat, err = logging.ToFormat(v.GetString(LogFormatKey))
	if err != nil {
		return loggingConfig, err
	}

	loggingConfig.MaxSize = v.GetInt(LogRotaterMaxSizeKey)
	if loggingConfig.MaxSize < 0 {
		return loggingConfig, fmt.Errorf("%w: %s=%d", errNegativeValue, LogRotaterMaxSizeKey, loggingConfig.MaxSize)
	}
	loggingConfig.MaxFiles = v.GetInt(LogRotaterMaxFilesKey)
	if loggingConfig.MaxFiles < 0 {
		return loggingConfig, fmt.Errorf("%w: %s=%d", errNegativeValue, LogRotaterMaxFilesKey, loggingConfig.MaxFiles)
	}
	loggingConfig.MaxAge = v.GetInt(LogRotaterMaxAgeKey)
	if loggingConfig.MaxAge < 0 {
		return loggingConfig, fmt.Errorf("%w: %s=%d", errNegativeValue, LogRotaterMaxAgeKey, loggingConfig.MaxAge)
	}
	loggingConfig.Compress = v.GetBool(LogRotaterCompressKey)
	loggingConfig.DisableWriterDisplaying = v.GetBool(LogDisableDisplayingKey)
	return loggingConfig, nil
}

func GetSimulationConfig(v *viper.Viper) (simulation.Config, error) {
	config := simulation.Config{
		Nodes:        v.GetInt(SimulationNodesKey),
		Txs:          v.GetInt(SimulationTxsKey),
		TxSize:       v.GetInt(SimulationTxSizeKey),
		GossipFanout: v.GetInt(SimulationGossipFanoutKey),
		TxRate:       v.GetInt(SimulationTxRateKey),
		Duration:     v.GetDuration(SimulationDurationKey),
		CheckPeriod:  v.GetDuration(SimulationCheckPeriodKey),
		BytesEnabled: v.GetBool(FlowControlBytesEnabledKey),
	}
	if err := config.Verify(); err != nil {
		return simulation.Config{}, fmt.Errorf("invalid simulation config: %w", err)
	}
	return config, nil
}
