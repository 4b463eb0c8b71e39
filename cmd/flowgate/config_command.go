// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ava-labs/flowgate/config"
	"github.com/ava-labs/flowgate/network/flowcontrol"
	"github.com/ava-labs/flowgate/network/simulation"
	"github.com/ava-labs/flowgate/utils/logging"
)

type resolvedConfig struct {
	FlowControl flowcontrol.Config `json:"flowControl"`
	Logging     logging.Config     `json:"logging"`
	Simulation  simulation.Config  `json:"simulation"`
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the configuration resolved from flags, environment and config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.NewViper(cmd.Flags())
			if err != nil {
				return err
			}
			resolved, err := resolveConfig(v)
			if err != nil {
				return err
			}
			format, err := toOutputFormat(v.GetString(config.SimulationOutputFormatKey))
			if err != nil {
				return err
			}
			if format == tableFormat {
				format = yamlFormat
			}
			return writeValue(os.Stdout, format, resolved)
		},
	}
	config.AddFlags(cmd.Flags())
	return cmd
}

func resolveConfig(v *viper.Viper) (resolvedConfig, error) {
	flowConfig, err := config.GetFlowControlConfig(v)
	if err != nil {
		return resolvedConfig{}, err
	}
	loggingConfig, err := config.GetLoggingConfig(v)
	if err != nil {
		return resolvedConfig{}, err
	}
	simConfig, err := config.GetSimulationConfig(v)
	if err != nil {
		return resolvedConfig{}, err
	}
	return resolvedConfig{
		FlowControl: flowConfig,
		Logging:     loggingConfig,
		Simulation:  simConfig,
	}, nil
}
