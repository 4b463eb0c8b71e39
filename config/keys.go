// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

const (
	ConfigFileKey        = "config-file"
	ConfigContentKey     = "config-file-content"
	ConfigContentTypeKey = "config-file-content-type"

	// Flow control
	FlowControlPeerFloodReadingCapacityKey      = "flow-control-peer-flood-reading-capacity"
	FlowControlPeerReadingCapacityKey           = "flow-control-peer-reading-capacity"
	FlowControlPeerFloodReadingCapacityBytesKey = "flow-control-peer-flood-reading-capacity-bytes"
	FlowControlSendMoreBatchSizeKey             = "flow-control-send-more-batch-size"
	FlowControlSendMoreBatchSizeBytesKey        = "flow-control-send-more-batch-size-bytes"
	FlowControlOutboundQueueLimitKey            = "flow-control-outbound-queue-limit"
	FlowControlOutboundTxQueueByteLimitKey      = "flow-control-outbound-tx-queue-byte-limit"
	FlowControlMaxTxSizeKey                     = "flow-control-max-tx-size"
	FlowControlOutboundQueueTimeoutKey          = "flow-control-outbound-queue-timeout"
	FlowControlNoOutboundCapacityTimeoutKey     = "flow-control-no-outbound-capacity-timeout"
	FlowControlQueueDelayHalflifeKey            = "flow-control-queue-delay-halflife"
	FlowControlBytesEnabledKey                  = "flow-control-bytes-enabled"

	// Logging
	LogsDirKey              = "log-dir"
	LogLevelKey             = "log-level"
	LogDisplayLevelKey      = "log-display-level"
	LogFormatKey            = "log-format"
	LogRotaterMaxSizeKey    = "log-rotater-max-size"
	LogRotaterMaxFilesKey   = "log-rotater-max-files"
	LogRotaterMaxAgeKey     = "log-rotater-max-age"
	LogRotaterCompressKey   = "log-rotater-compress-enabled"
	LogDisableDisplayingKey = "log-disable-display"

	// Simulation
	SimulationNodesKey        = "sim-nodes"
	SimulationTxsKey          = "sim-txs"
	SimulationTxSizeKey       = "sim-tx-size"
	SimulationGossipFanoutKey = "sim-gossip-fanout"
	SimulationTxRateKey       = "sim-tx-rate"
	SimulationDurationKey     = "sim-duration"
	SimulationCheckPeriodKey  = "sim-check-period"
	SimulationOutputFormatKey = "sim-output-format"
)
