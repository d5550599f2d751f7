// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package stream provides runtimes which pull every record from a
// flatfile.Reader and hand it to a Processor.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/z5labs/flatfile"
	"github.com/z5labs/flatfile/internal/noop"
	"github.com/z5labs/flatfile/internal/slogfield"
	"github.com/z5labs/flatfile/internal/try"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/sync/errgroup"
)

// Processor handles a single record.
type Processor interface {
	Process(context.Context, flatfile.Value) error
}

// ProcessorFunc is a functional implementation of the Processor interface.
type ProcessorFunc func(context.Context, flatfile.Value) error

// Process implements the Processor interface.
func (f ProcessorFunc) Process(ctx context.Context, v flatfile.Value) error {
	return f(ctx, v)
}

// ReaderPanicError occurs when the Reader panics. A runtime stops
// reading once this happens.
type ReaderPanicError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ReaderPanicError) Error() string {
	return fmt.Sprintf("reader panicked: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ReaderPanicError) Unwrap() error {
	return e.Cause
}

// SequentialRuntime reads and processes one record at a time.
type SequentialRuntime struct {
	log *slog.Logger
	r   flatfile.Reader
	p   Processor
}

// Sequential returns a runtime which processes each record before reading the next.
func Sequential(r flatfile.Reader, p Processor, opts ...SequentialOption) *SequentialRuntime {
	so := &sequentialOptions{
		commonOptions: commonOptions{
			logHandler: noop.LogHandler{},
		},
	}
	for _, opt := range opts {
		opt.applySequential(so)
	}

	return &SequentialRuntime{
		log: slog.New(so.logHandler),
		r:   r,
		p:   p,
	}
}

// Run reads until the Reader returns io.EOF or ctx is done, both of
// which return nil. Read and process errors are logged and skipped.
func (rt *SequentialRuntime) Run(ctx context.Context) error {
	tracer := otel.Tracer("stream")
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		spanCtx, span := tracer.Start(ctx, "SequentialRuntime.Run")
		v, err := read(spanCtx, rt.r)
		if errors.Is(err, io.EOF) {
			span.End()
			return nil
		}
		var perr ReaderPanicError
		if errors.As(err, &perr) {
			pe, _ := try.AsPanic(err)
			rt.log.ErrorContext(spanCtx, "stopping since reader panicked", slogfield.Error(err), slogfield.Stack(pe.Stack))
			span.End()
			return err
		}
		if err != nil {
			logReadError(spanCtx, rt.log, err)
			span.End()
			continue
		}

		err = process(spanCtx, rt.p, v)
		if err != nil {
			rt.log.ErrorContext(spanCtx, "failed to process record", slogfield.Error(err))
		}
		span.End()
	}
}

// PipeRuntime reads records on one goroutine and processes them
// concurrently on others.
type PipeRuntime struct {
	log *slog.Logger
	r   flatfile.Reader
	p   Processor

	propagator              propagation.TextMapPropagator
	maxConcurrentProcessors int
}

// Pipe returns a runtime which reads and processes records concurrently.
func Pipe(r flatfile.Reader, p Processor, opts ...PipeOption) *PipeRuntime {
	po := &pipeOptions{
		commonOptions: commonOptions{
			logHandler: noop.LogHandler{},
		},
		maxConcurrentProcessors: -1,
	}
	for _, opt := range opts {
		opt.applyPipe(po)
	}

	return &PipeRuntime{
		log: slog.New(po.logHandler),
		r:   r,
		p:   p,
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
		maxConcurrentProcessors: po.maxConcurrentProcessors,
	}
}

// Run reads until the Reader returns io.EOF or ctx is done and waits for
// every in flight record to be processed. Read and process errors are
// logged and skipped.
func (rt *PipeRuntime) Run(ctx context.Context) error {
	itemCh := make(chan *item)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(rt.readItems(gctx, itemCh))
	g.Go(rt.processItems(gctx, itemCh))
	return g.Wait()
}

type item struct {
	value flatfile.Value

	// the otel context needs to be propagated between goroutines
	carrier propagation.MapCarrier
}

func (rt *PipeRuntime) readItems(ctx context.Context, itemCh chan<- *item) func() error {
	return func() error {
		defer close(itemCh)

		tracer := otel.Tracer("stream")
		for {
			spanCtx, span := tracer.Start(ctx, "PipeRuntime.readItems")

			select {
			case <-spanCtx.Done():
				span.End()
				return nil
			default:
			}

			v, err := read(spanCtx, rt.r)
			if errors.Is(err, io.EOF) {
				span.End()
				return nil
			}
			var perr ReaderPanicError
			if errors.As(err, &perr) {
				pe, _ := try.AsPanic(err)
				rt.log.ErrorContext(spanCtx, "stopping since reader panicked", slogfield.Error(err), slogfield.Stack(pe.Stack))
				span.End()
				return err
			}
			if err != nil {
				logReadError(spanCtx, rt.log, err)
				span.End()
				continue
			}

			i := &item{
				value:   v,
				carrier: make(propagation.MapCarrier),
			}
			rt.propagator.Inject(spanCtx, i.carrier)

			select {
			case <-spanCtx.Done():
				span.End()
				return nil
			case itemCh <- i:
				span.End()
			}
		}
	}
}

func (rt *PipeRuntime) processItems(ctx context.Context, itemCh <-chan *item) func() error {
	return func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(rt.maxConcurrentProcessors)

		for {
			var i *item
			select {
			case <-gctx.Done():
				return g.Wait()
			case i = <-itemCh:
			}
			if i == nil {
				rt.log.DebugContext(ctx, "stopping record processing since the reader is exhausted")
				return g.Wait()
			}

			propCtx := rt.propagator.Extract(gctx, i.carrier)
			g.Go(rt.processItem(propCtx, i))
		}
	}
}

func (rt *PipeRuntime) processItem(ctx context.Context, i *item) func() error {
	return func() error {
		spanCtx, span := otel.Tracer("stream").Start(ctx, "PipeRuntime.processItem")
		defer span.End()

		err := process(spanCtx, rt.p, i.value)
		if err != nil {
			rt.log.ErrorContext(spanCtx, "failed to process record", slogfield.Error(err))
		}
		return nil
	}
}

func read(ctx context.Context, r flatfile.Reader) (v flatfile.Value, err error) {
	spanCtx, span := otel.Tracer("stream").Start(ctx, "read")
	defer span.End()
	defer func() {
		if perr, ok := try.AsPanic(err); ok {
			err = ReaderPanicError{Cause: perr}
		}
	}()
	defer try.Recover(&err)

	return r.ReadItem(spanCtx)
}

func process(ctx context.Context, p Processor, v flatfile.Value) (err error) {
	spanCtx, span := otel.Tracer("stream").Start(ctx, "process")
	defer span.End()
	defer try.Recover(&err)

	return p.Process(spanCtx, v)
}

func logReadError(ctx context.Context, log *slog.Logger, err error) {
	if flatfile.IsRecoverable(err) {
		log.WarnContext(ctx, "skipping malformed record", slogfield.Error(err))
		return
	}
	log.ErrorContext(ctx, "failed to read record", slogfield.Error(err))
}
