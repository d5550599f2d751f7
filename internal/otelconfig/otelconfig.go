// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelconfig builds the TracerProvider installed by the flatfile CLI.
package otelconfig

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// DefaultServiceName is the service.name resource attribute used when
// none is configured.
const DefaultServiceName = "flatfile"

type options struct {
	serviceName string
	dialTimeout time.Duration
}

// Option configures an Initializer.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) {
	f(o)
}

// ServiceName sets the service.name resource attribute.
func ServiceName(name string) Option {
	return optionFunc(func(o *options) {
		o.serviceName = name
	})
}

// DialTimeout bounds how long OTLP waits for the collector connection.
func DialTimeout(d time.Duration) Option {
	return optionFunc(func(o *options) {
		o.dialTimeout = d
	})
}

func newOptions(opts []Option) options {
	o := options{
		serviceName: DefaultServiceName,
		dialTimeout: time.Second,
	}
	for _, opt := range opts {
		opt.apply(&o)
	}
	return o
}

// Initializer creates a TracerProvider.
type Initializer interface {
	Init(context.Context) (trace.TracerProvider, error)
}

// Noop leaves the global TracerProvider untouched.
var Noop = noopInitializer{}

type noopInitializer struct{}

// Init implements the Initializer interface.
func (noopInitializer) Init(context.Context) (trace.TracerProvider, error) {
	return otel.GetTracerProvider(), nil
}

// StdoutInitializer exports spans as JSON to a writer.
type StdoutInitializer struct {
	out  io.Writer
	opts options
}

// Stdout returns an Initializer which writes every span to w.
func Stdout(w io.Writer, opts ...Option) StdoutInitializer {
	return StdoutInitializer{
		out:  w,
		opts: newOptions(opts),
	}
}

// Init implements the Initializer interface.
func (s StdoutInitializer) Init(ctx context.Context) (trace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(s.out))
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, s.opts.serviceName)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return tp, nil
}

func newResource(ctx context.Context, serviceName string) (*resource.Resource, error) {
	return resource.New(
		ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
}
