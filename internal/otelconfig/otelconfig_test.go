// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelconfig

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNoop(t *testing.T) {
	t.Run("will return the global tracer provider", func(t *testing.T) {
		t.Run("always", func(t *testing.T) {
			tp, err := Noop.Init(context.Background())
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, otel.GetTracerProvider(), tp) {
				return
			}
		})
	})
}

func TestStdoutInitializer_Init(t *testing.T) {
	t.Run("will write spans to the writer", func(t *testing.T) {
		t.Run("if the tracer provider is shutdown", func(t *testing.T) {
			var buf bytes.Buffer
			tp, err := Stdout(&buf, ServiceName("flatfile-test")).Init(context.Background())
			if !assert.Nil(t, err) {
				return
			}

			sdktp, ok := tp.(*sdktrace.TracerProvider)
			if !assert.True(t, ok) {
				return
			}

			_, span := sdktp.Tracer("otelconfig").Start(context.Background(), "Reader.ReadItem")
			span.End()

			err = sdktp.Shutdown(context.Background())
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Contains(t, buf.String(), "Reader.ReadItem") {
				return
			}
			if !assert.Contains(t, buf.String(), "flatfile-test") {
				return
			}
		})
	})
}

func TestOTLPInitializer_Init(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the collector can not be reached", func(t *testing.T) {
			ls, err := net.Listen("tcp", "127.0.0.1:0")
			if !assert.Nil(t, err) {
				return
			}
			addr := ls.Addr().String()
			ls.Close()

			_, err = OTLP(addr, DialTimeout(50*time.Millisecond)).Init(context.Background())
			if !assert.ErrorIs(t, err, context.DeadlineExceeded) {
				return
			}
		})
	})
}
