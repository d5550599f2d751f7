// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/z5labs/flatfile"
	"github.com/z5labs/flatfile/config"
	"github.com/z5labs/flatfile/internal/otelconfig"
	"github.com/z5labs/flatfile/internal/otelslog"
	"github.com/z5labs/flatfile/internal/slogfield"
	"github.com/z5labs/flatfile/metric"
	"github.com/z5labs/flatfile/reader"
	"github.com/z5labs/flatfile/stream"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const envPrefix = "FLATFILE_"

// ConfigReadError occurs when the config file or environment can not be read.
type ConfigReadError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ConfigReadError) Error() string {
	return fmt.Sprintf("failed to read config source(s): %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConfigReadError) Unwrap() error {
	return e.Cause
}

// ConfigUnmarshalError
type ConfigUnmarshalError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ConfigUnmarshalError) Error() string {
	return fmt.Sprintf("failed to unmarshal config: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConfigUnmarshalError) Unwrap() error {
	return e.Cause
}

// ReaderBuildError
type ReaderBuildError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ReaderBuildError) Error() string {
	return fmt.Sprintf("failed to build reader: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ReaderBuildError) Unwrap() error {
	return e.Cause
}

// StreamRunError
type StreamRunError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e StreamRunError) Error() string {
	return fmt.Sprintf("failed to stream records: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e StreamRunError) Unwrap() error {
	return e.Cause
}

type appConfig struct {
	// Name labels the reader metrics. Defaults to the base name of file_path.
	Name     string `config:"name"`
	FilePath string `config:"file_path"`
}

func (cfg appConfig) readerName() string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return filepath.Base(cfg.FilePath)
}

func run(ctx context.Context, flags readFlags, stdout, stderr io.Writer) error {
	var lvl slog.Level
	lvl.UnmarshalText([]byte(flags.logLevel))
	logHandler := otelslog.NewHandler(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: lvl}))
	log := slog.New(logHandler)

	shutdown, err := initTracing(ctx, flags, stderr)
	if err != nil {
		log.ErrorContext(ctx, "failed to initialize tracing", slogfield.Error(err))
		return err
	}
	defer shutdown()

	m, err := config.Read(
		config.File(nil, flags.configPath),
		config.FromEnv(envPrefix),
	)
	if err != nil {
		return ConfigReadError{Cause: err}
	}

	var cfg appConfig
	err = m.Unmarshal(&cfg)
	if err != nil {
		return ConfigUnmarshalError{Cause: err}
	}

	rc, err := reader.New(m, reader.LogHandler(logHandler))
	if err != nil {
		return ReaderBuildError{Cause: err}
	}
	defer rc.Close()

	var r flatfile.Reader = rc
	if flags.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		c, err := metric.NewCollector(reg)
		if err != nil {
			return err
		}
		r = c.Instrument(cfg.readerName(), r)

		stop, err := serveMetrics(flags.metricsAddr, reg, log)
		if err != nil {
			return err
		}
		defer stop()
	}

	p := &jsonLines{w: stdout}

	var rt interface{ Run(context.Context) error }
	if flags.concurrency <= 1 {
		rt = stream.Sequential(r, p, stream.LogHandler(logHandler))
	} else {
		rt = stream.Pipe(
			r,
			p,
			stream.LogHandler(logHandler),
			stream.MaxConcurrentProcessors(flags.concurrency),
		)
	}

	err = rt.Run(ctx)
	if err != nil {
		return StreamRunError{Cause: err}
	}
	return nil
}

func initTracing(ctx context.Context, flags readFlags, stderr io.Writer) (func(), error) {
	var initializer otelconfig.Initializer = otelconfig.Noop
	switch flags.trace {
	case traceStdout:
		// stdout is reserved for records
		initializer = otelconfig.Stdout(stderr)
	case traceOtlp:
		initializer = otelconfig.OTLP(flags.otlpTarget)
	}

	tp, err := initializer.Init(ctx)
	if err != nil {
		return nil, err
	}
	if tp == otel.GetTracerProvider() {
		return func() {}, nil
	}
	otel.SetTracerProvider(tp)

	return func() {
		sp, ok := tp.(interface {
			trace.TracerProvider
			Shutdown(context.Context) error
		})
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		sp.Shutdown(ctx)
	}, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, log *slog.Logger) (func(), error) {
	ls, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:           metricsHandler(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		err := srv.Serve(ls)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", slogfield.Error(err))
		}
	}()
	log.Info("serving metrics", slog.String("addr", ls.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}, nil
}

func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}
