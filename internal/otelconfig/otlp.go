// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelconfig

import (
	"context"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// OTLPInitializer exports spans to an OTLP collector over gRPC.
type OTLPInitializer struct {
	target string
	opts   options
}

// OTLP returns an Initializer which exports spans to the collector at target.
func OTLP(target string, opts ...Option) OTLPInitializer {
	return OTLPInitializer{
		target: target,
		opts:   newOptions(opts),
	}
}

// Init implements the Initializer interface.
func (o OTLPInitializer) Init(ctx context.Context) (trace.TracerProvider, error) {
	res, err := newResource(ctx, o.opts.serviceName)
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, o.opts.dialTimeout)
	defer cancel()

	conn, err := grpc.DialContext(
		dialCtx,
		o.target,
		// collectors are expected to run as a local sidecar
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, err
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		conn.Close()
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
	)
	return tp, nil
}
