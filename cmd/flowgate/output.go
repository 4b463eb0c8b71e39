// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"sigs.k8s.io/yaml"

	"github.com/ava-labs/flowgate/network/flowcontrol"
	"github.com/ava-labs/flowgate/network/simulation"
)

const (
	tableFormat outputFormat = "table"
	jsonFormat  outputFormat = "json"
	yamlFormat  outputFormat = "yaml"
)

var errUnknownOutputFormat = errors.New("unknown output format")

type outputFormat string

func toOutputFormat(s string) (outputFormat, error) {
	switch format := outputFormat(strings.ToLower(s)); format {
	case tableFormat, jsonFormat, yamlFormat:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownOutputFormat, s)
	}
}

func writeReport(w io.Writer, format outputFormat, report *simulation.Report) error {
	if format != tableFormat {
		return writeValue(w, format, report)
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", renderReport(report), renderMetrics(report.Metrics))
	return err
}

func writeValue(w io.Writer, format outputFormat, value any) error {
	var (
		out []byte
		err error
	)
	switch format {
	case jsonFormat:
		out, err = json.MarshalIndent(value, "", "  ")
		out = append(out, '\n')
	case yamlFormat:
		out, err = yaml.Marshal(value)
	default:
		return fmt.Errorf("%w: %q", errUnknownOutputFormat, format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func renderReport(report *simulation.Report) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Node", "Peer", "Seen", "Pongs", "Status", "Local Flood", "Local Reading", "Local Flood Bytes", "Peer Capacity", "Peer Capacity Bytes", "Queued"})

	for _, node := range report.Nodes {
		for _, peer := range node.Peers {
			status := "open"
			if peer.Closed {
				status = "closed: " + peer.Error
			}
			t.AppendRow(table.Row{
				node.ID.ShortString(),
				peer.ID.ShortString(),
				node.Seen,
				node.Pongs,
				status,
				peer.FlowControl.LocalCapacity.Flood,
				optional(peer.FlowControl.LocalCapacity.Reading),
				optionalFlood(peer.FlowControl.LocalCapacityBytes),
				peer.FlowControl.PeerCapacity,
				optional(peer.FlowControl.PeerCapacityBytes),
				peer.QueueLen,
			})
		}
	}

	summary := "incomplete"
	if report.Complete {
		summary = "complete"
	}
	t.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf("%s in %s", summary, report.Elapsed)})
	return t.Render()
}

func renderMetrics(summary simulation.MetricsSummary) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Metric", "Total"})
	t.AppendRows([]table.Row{
		{"Saturations", summary.Saturations},
		{"Recoveries", summary.Recoveries},
		{"Capacity Exceeded", summary.CapacityExceeded},
		{"Grants Sent", summary.GrantsSent},
		{"Grants Received", summary.GrantsReceived},
		{"Flood Messages Sent", summary.FloodMessagesSent},
		{"Queue Drops", summary.QueueDrops},
		{"Oversized Txs", summary.OversizedTxs},
	})
	return t.Render()
}

func optional(v *uint64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func optionalFlood(info *flowcontrol.CapacityInfo) string {
	if info == nil {
		return "-"
	}
	return fmt.Sprint(info.Flood)
}
