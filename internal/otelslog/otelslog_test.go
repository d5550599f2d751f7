// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelslog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type logLine struct {
	Message string `json:"msg"`
	OTel    struct {
		TraceID string `json:"trace_id"`
		SpanID  string `json:"span_id"`
	} `json:"otel"`
}

func TestHandler_Handle(t *testing.T) {
	t.Run("will not add trace id and span id", func(t *testing.T) {
		t.Run("if the span context is invalid", func(t *testing.T) {
			var buf bytes.Buffer
			log := New(slog.NewJSONHandler(&buf, nil))

			log.InfoContext(context.Background(), "test")

			var line logLine
			err := json.Unmarshal(buf.Bytes(), &line)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "test", line.Message) {
				return
			}
			if !assert.Empty(t, line.OTel.TraceID) {
				return
			}
		})
	})

	t.Run("will add trace id and span id", func(t *testing.T) {
		t.Run("if the span context is valid", func(t *testing.T) {
			var buf bytes.Buffer
			log := New(slog.NewJSONHandler(&buf, nil))

			tp := sdktrace.NewTracerProvider()
			ctx, span := tp.Tracer("otelslog").Start(context.Background(), "test")
			defer span.End()

			log.InfoContext(ctx, "test")

			var line logLine
			err := json.Unmarshal(buf.Bytes(), &line)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, span.SpanContext().TraceID().String(), line.OTel.TraceID) {
				return
			}
			if !assert.Equal(t, span.SpanContext().SpanID().String(), line.OTel.SpanID) {
				return
			}
		})
	})

	t.Run("will add an event to the span", func(t *testing.T) {
		t.Run("if the record is logged at error level", func(t *testing.T) {
			var buf bytes.Buffer
			log := New(slog.NewJSONHandler(&buf, nil))

			sr := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
			ctx, span := tp.Tracer("otelslog").Start(context.Background(), "test")

			log.ErrorContext(ctx, "failed to open file", slog.Any("error", errors.New("boom")))
			span.End()

			spans := sr.Ended()
			if !assert.Len(t, spans, 1) {
				return
			}

			var names []string
			for _, ev := range spans[0].Events() {
				names = append(names, ev.Name)
			}
			if !assert.Contains(t, names, "failed to open file") {
				return
			}
			if !assert.Contains(t, names, "exception") {
				return
			}
		})
	})
}

func TestNewHandler(t *testing.T) {
	t.Run("will not double wrap", func(t *testing.T) {
		t.Run("if given a *Handler", func(t *testing.T) {
			h := NewHandler(slog.NewJSONHandler(&bytes.Buffer{}, nil))

			if !assert.Same(t, h, NewHandler(h)) {
				return
			}
		})
	})
}
