// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stream

import (
	"log/slog"

	"github.com/z5labs/flatfile/internal/otelslog"
)

type commonOptions struct {
	logHandler slog.Handler
}

// CommonOption can configure both a SequentialRuntime and a PipeRuntime.
type CommonOption interface {
	SequentialOption
	PipeOption
}

type commonOptionFunc func(*commonOptions)

func (f commonOptionFunc) applySequential(so *sequentialOptions) {
	f(&so.commonOptions)
}

func (f commonOptionFunc) applyPipe(po *pipeOptions) {
	f(&po.commonOptions)
}

// LogHandler configures the underlying slog.Handler used by the runtime.
func LogHandler(h slog.Handler) CommonOption {
	return commonOptionFunc(func(co *commonOptions) {
		co.logHandler = otelslog.NewHandler(h)
	})
}

type sequentialOptions struct {
	commonOptions
}

// SequentialOption configures a SequentialRuntime.
type SequentialOption interface {
	applySequential(*sequentialOptions)
}

type pipeOptions struct {
	commonOptions

	maxConcurrentProcessors int
}

// PipeOption configures a PipeRuntime.
type PipeOption interface {
	applyPipe(*pipeOptions)
}

type pipeOptionFunc func(*pipeOptions)

func (f pipeOptionFunc) applyPipe(po *pipeOptions) {
	f(po)
}

// MaxConcurrentProcessors bounds how many records are processed at once.
// Zero means no limit, which is also the default.
func MaxConcurrentProcessors(n uint) PipeOption {
	return pipeOptionFunc(func(po *pipeOptions) {
		if n == 0 {
			po.maxConcurrentProcessors = -1
			return
		}
		po.maxConcurrentProcessors = int(n)
	})
}
