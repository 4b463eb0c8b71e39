// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/flowgate/config"
	"github.com/ava-labs/flowgate/network/flowcontrol"
	"github.com/ava-labs/flowgate/network/simulation"
	"github.com/ava-labs/flowgate/utils/logging"
	"github.com/ava-labs/flowgate/utils/timer/mockable"
)

const metricsNamespace = "flowgate"

func newSimulateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Gossip transactions between in-memory nodes and report every connection's flow control state",
		Args:  cobra.NoArgs,
		RunE:  runSimulate,
	}
	config.AddFlags(cmd.Flags())
	return cmd
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return err
	}
	loggingConfig, err := config.GetLoggingConfig(v)
	if err != nil {
		return err
	}
	flowConfig, err := config.GetFlowControlConfig(v)
	if err != nil {
		return err
	}
	simConfig, err := config.GetSimulationConfig(v)
	if err != nil {
		return err
	}
	format, err := toOutputFormat(v.GetString(config.SimulationOutputFormatKey))
	if err != nil {
		return err
	}

	logFactory := logging.NewFactory(loggingConfig)
	defer logFactory.Close()

	log, err := logFactory.Make("simulation")
	if err != nil {
		return err
	}
	defer log.StopOnPanic()

	registry := prometheus.NewRegistry()
	metrics, err := flowcontrol.NewMetrics(metricsNamespace, registry)
	if err != nil {
		return err
	}

	network, err := simulation.New(simConfig, &flowConfig, log, metrics, registry, &mockable.Clock{})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	log.Info("starting simulation",
		zap.Reflect("config", simConfig),
		zap.Reflect("flowControlConfig", flowConfig),
	)
	report, err := network.Run(ctx)
	if err != nil {
		return err
	}
	return writeReport(os.Stdout, format, report)
}
