// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ava-labs/flowgate/network/flowcontrol"
	"github.com/ava-labs/flowgate/network/simulation"
	"github.com/ava-labs/flowgate/utils/logging"
)

const appName = "flowgate"

// BuildFlagSet returns the complete set of flags for flowgate.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	AddFlags(fs)
	return fs
}

// AddFlags registers every flowgate flag on [fs].
func AddFlags(fs *pflag.FlagSet) {
	// Config file
	fs.String(ConfigFileKey, "", fmt.Sprintf("Specifies a config file. Ignored if %s is specified", ConfigContentKey))
	fs.String(ConfigContentKey, "", "Specifies base64 encoded config content")
	fs.String(ConfigContentTypeKey, "json", "Specifies the format of the base64 encoded config content. Available values: 'json', 'yaml', 'toml'")

	addFlowControlFlags(fs)
	addLoggingFlags(fs)
	addSimulationFlags(fs)
}

func addFlowControlFlags(fs *pflag.FlagSet) {
	defaults := flowcontrol.DefaultConfig
	fs.Uint64(FlowControlPeerFloodReadingCapacityKey, defaults.PeerFloodReadingCapacity, "Number of flood messages a peer may have in processing with this node")
	fs.Uint64(FlowControlPeerReadingCapacityKey, defaults.PeerReadingCapacity, "Number of messages, flood or not, a peer may have in processing with this node")
	fs.Uint64(FlowControlPeerFloodReadingCapacityBytesKey, defaults.PeerFloodReadingCapacityBytes, "Number of flood message bytes a peer may have in processing with this node")
	fs.Uint64(FlowControlSendMoreBatchSizeKey, defaults.SendMoreBatchSize, "Number of processed flood messages after which capacity is granted back to the peer")
	fs.Uint64(FlowControlSendMoreBatchSizeBytesKey, defaults.SendMoreBatchSizeBytes, "Number of processed flood bytes after which capacity is granted back to the peer")
	fs.Uint64(FlowControlOutboundQueueLimitKey, defaults.OutboundQueueLimit, "Maximum number of queued outbound transactions, and of queued advert or demand hashes")
	fs.Uint64(FlowControlOutboundTxQueueByteLimitKey, defaults.OutboundTxQueueByteLimit, "Maximum number of queued outbound transaction bytes when byte flow control is enabled")
	fs.Uint64(FlowControlMaxTxSizeKey, defaults.MaxTxSize, "Largest transaction, in bytes, that will be queued when byte flow control is enabled")
	fs.Duration(FlowControlOutboundQueueTimeoutKey, defaults.OutboundQueueTimeout, "Time an outbound flood message may wait in a queue before it is dropped")
	fs.Duration(FlowControlNoOutboundCapacityTimeoutKey, defaults.NoOutboundCapacityTimeout, "Time a peer may leave this node without outbound capacity before it is disconnected")
	fs.Duration(FlowControlQueueDelayHalflifeKey, defaults.QueueDelayHalflife, "Halflife of the reported average outbound queue delays")
	fs.Bool(FlowControlBytesEnabledKey, true, "If true, flood messages are also limited by their size")
}

func addLoggingFlags(fs *pflag.FlagSet) {
	defaults := logging.DefaultConfig()
	fs.String(LogsDirKey, "", "Logging directory. If empty, logs are only displayed")
	fs.String(LogLevelKey, strings.ToLower(defaults.LogLevel.String()), "The log level. Should be one of {verbo, debug, trace, info, warn, error, fatal, off}")
	fs.String(LogDisplayLevelKey, "", fmt.Sprintf("The log display level. If left blank, will inherit the value of %s. Otherwise, should be one of {verbo, debug, trace, info, warn, error, fatal, off}", LogLevelKey))
	fs.String(LogFormatKey, "plain", "The structure of log format. Should be one of {plain, json}")
	fs.Int(LogRotaterMaxSizeKey, defaults.MaxSize, "The maximum file size in megabytes of the log file before it gets rotated")
	fs.Int(LogRotaterMaxFilesKey, defaults.MaxFiles, "The maximum number of old log files to retain. 0 means retain all old log files")
	fs.Int(LogRotaterMaxAgeKey, defaults.MaxAge, "The maximum number of days to retain old log files based on the timestamp encoded in their filename. 0 means retain all old log files")
	fs.Bool(LogRotaterCompressKey, defaults.Compress, "Enables the compression of rotated log files through gzip")
	fs.Bool(LogDisableDisplayingKey, defaults.DisableWriterDisplaying, "Disables displaying logs in stdout")
}

func addSimulationFlags(fs *pflag.FlagSet) {
	defaults := simulation.DefaultConfig
	fs.Int(SimulationNodesKey, defaults.Nodes, "Number of nodes in the simulated network. Every pair of nodes is connected")
	fs.Int(SimulationTxsKey, defaults.Txs, "Number of transactions injected into the simulated network")
	fs.Int(SimulationTxSizeKey, defaults.TxSize, "Size, in bytes, of the payload of every injected transaction")
	fs.Int(SimulationGossipFanoutKey, defaults.GossipFanout, "Number of peers a newly seen transaction is relayed to. 0 relays to every peer")
	fs.Int(SimulationTxRateKey, defaults.TxRate, "Number of transactions issued per second. 0 issues every transaction at once")
	fs.Duration(SimulationDurationKey, defaults.Duration, "Maximum time to wait for every node to see every transaction")
	fs.Duration(SimulationCheckPeriodKey, defaults.CheckPeriod, "Period at which stuck connections are detected")
	fs.String(SimulationOutputFormatKey, "table", "Format of the simulation report. Should be one of {table, json, yaml}")
}
