// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/z5labs/flatfile/reader"

	"github.com/spf13/cobra"
)

// Trace exporters selectable with --trace.
const (
	traceNone   = "none"
	traceStdout = "stdout"
	traceOtlp   = "otlp"
)

type readFlags struct {
	configPath  string
	concurrency uint
	logLevel    string
	trace       string
	otlpTarget  string
	metricsAddr string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "flatfile",
		Short:         "Read records from flat files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newReadCmd(stdout, stderr))
	return root
}

func newReadCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags readFlags

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Write every record of a flat file to stdout as JSON lines",
		Long: fmt.Sprintf(
			"Write every record of a flat file to stdout as JSON lines.\n\n"+
				"The config file is YAML, or JSON when its name ends in .json, and is\n"+
				"rendered as a Go text/template before being parsed. Environment variables\n"+
				"prefixed with %s override values from the file. Supported reader types: %v.",
			envPrefix,
			reader.Types(),
		),
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			var lvl slog.Level
			err := lvl.UnmarshalText([]byte(flags.logLevel))
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}

			switch flags.trace {
			case traceNone, traceStdout:
			case traceOtlp:
				if flags.otlpTarget == "" {
					return fmt.Errorf("--otlp-target is required when --trace=%s", traceOtlp)
				}
			default:
				return fmt.Errorf("unknown --trace exporter: %s", flags.trace)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), flags, stdout, stderr)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&flags.configPath, "config", "c", "", "path to the reader config file")
	fs.UintVar(&flags.concurrency, "concurrency", 1, "number of records processed at once")
	fs.StringVar(&flags.logLevel, "log-level", "info", "minimum log level (debug, info, warn, error)")
	fs.StringVar(&flags.trace, "trace", traceNone, "trace exporter (none, stdout, otlp)")
	fs.StringVar(&flags.otlpTarget, "otlp-target", "", "gRPC address of the OTLP collector")
	fs.StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.MarkFlagRequired("config")

	return cmd
}
