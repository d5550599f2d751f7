// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package jsonstream provides a flatfile.Reader for files containing
// a sequence of JSON values, like newline delimited JSON.
//
// Values are separated by their structure, not by newlines, so pretty
// printed and packed values may be mixed within a file.
package jsonstream

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/z5labs/flatfile"
	"github.com/z5labs/flatfile/internal/lazy"
	"github.com/z5labs/flatfile/internal/noop"
	"github.com/z5labs/flatfile/internal/opener"
	"github.com/z5labs/flatfile/internal/otelslog"
	"github.com/z5labs/flatfile/internal/slogfield"
	"github.com/z5labs/flatfile/internal/try"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxRecordBytes is used when Config.MaxRecordBytes is zero.
const DefaultMaxRecordBytes = 16 << 20

// Config configures a Reader.
type Config struct {
	FilePath    string               `config:"file_path"`
	Compression flatfile.Compression `config:"compression"`

	// MaxRecordBytes bounds the size of a single JSON value.
	MaxRecordBytes int `config:"max_record_bytes"`
}

// Validate reports whether the config can ever produce a working Reader.
func (cfg Config) Validate() error {
	if cfg.FilePath == "" {
		return flatfile.InvalidConfigError{Field: "file_path", Reason: "must be set"}
	}
	if cfg.MaxRecordBytes < 0 {
		return flatfile.InvalidConfigError{Field: "max_record_bytes", Reason: "must not be negative"}
	}
	return nil
}

type options struct {
	logHandler slog.Handler
	fsys       fs.FS
}

// Option configures a Reader.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) {
	f(o)
}

// LogHandler configures the underlying slog.Handler used by the Reader.
func LogHandler(h slog.Handler) Option {
	return optionFunc(func(o *options) {
		o.logHandler = otelslog.NewHandler(h)
	})
}

// FS configures the file system the file is opened from.
// By default, the OS file system is used.
func FS(fsys fs.FS) Option {
	return optionFunc(func(o *options) {
		o.fsys = fsys
	})
}

type cursor struct {
	rc      io.ReadCloser
	scanner *bufio.Scanner
	split   *splitter
}

func (c *cursor) Close() error {
	return c.rc.Close()
}

// Reader reads JSON values from a file.
//
// The file is not opened until the first call to ReadItem.
// Reader is safe for concurrent use, every value is returned
// to exactly one caller.
type Reader struct {
	log *slog.Logger
	cfg Config

	mu  sync.Mutex
	src *lazy.Resource[*cursor]
}

// New validates cfg and returns a Reader for it.
func New(cfg Config, opts ...Option) (*Reader, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	if cfg.MaxRecordBytes == 0 {
		cfg.MaxRecordBytes = DefaultMaxRecordBytes
	}

	o := &options{
		logHandler: noop.LogHandler{},
	}
	for _, opt := range opts {
		opt.apply(o)
	}

	r := &Reader{
		log: slog.New(o.logHandler),
		cfg: cfg,
	}
	r.src = lazy.New(func() (*cursor, error) {
		return r.open(o.fsys)
	})
	return r, nil
}

func (r *Reader) open(fsys fs.FS) (*cursor, error) {
	rc, err := opener.Open(fsys, r.cfg.FilePath, r.cfg.Compression)
	if err != nil {
		return nil, flatfile.IoError{Op: "open", Path: r.cfg.FilePath, Cause: err}
	}

	split := &splitter{}
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, min(bufio.MaxScanTokenSize, r.cfg.MaxRecordBytes)), r.cfg.MaxRecordBytes)
	scanner.Split(split.split)

	return &cursor{
		rc:      rc,
		scanner: scanner,
		split:   split,
	}, nil
}

// ReadItem implements the [flatfile.Reader] interface.
//
// A malformed value is reported as a [flatfile.JsonError] and reading
// continues with the next value. A failure to open or read the file,
// or a value larger than Config.MaxRecordBytes, is reported exactly
// once as a fatal error, after which [io.EOF] is returned.
//
// If reading panics, the cursor is considered poisoned. The panic is
// reported once as a [flatfile.InitializationError] and every later
// call returns [io.EOF].
func (r *Reader) ReadItem(ctx context.Context) (flatfile.Value, error) {
	spanCtx, span := otel.Tracer("jsonstream").Start(ctx, "Reader.ReadItem", trace.WithAttributes(
		attribute.String("file_path", r.cfg.FilePath),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	v, err := r.advance(spanCtx)

	if perr, ok := try.AsPanic(err); ok {
		r.src.Fail()

		err = flatfile.InitializationError{Reason: flatfile.ReasonLockPoisoned, Cause: perr}
		r.log.ErrorContext(spanCtx, "jsonstream cursor poisoned", slogfield.Error(err), slogfield.FilePath(r.cfg.FilePath))
		return flatfile.Value{}, err
	}
	return v, err
}

// advance must only be called while holding r.mu.
func (r *Reader) advance(ctx context.Context) (_ flatfile.Value, err error) {
	defer try.Recover(&err)

	initializing := r.src.Uninitialized()
	cur, err := r.src.Acquire()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return flatfile.Value{}, io.EOF
		}
		if initializing {
			r.log.ErrorContext(
				ctx,
				"failed to initialize jsonstream reader",
				slogfield.Error(err),
				slogfield.FilePath(r.cfg.FilePath),
			)
		}
		return flatfile.Value{}, err
	}
	if initializing {
		r.log.DebugContext(ctx, "initialized jsonstream reader", slogfield.Config(r.cfg))
	}

	if cur.scanner.Scan() {
		v, err := decode(cur.scanner.Bytes())
		if err != nil {
			return flatfile.Value{}, flatfile.JsonError{Offset: cur.split.offset, Cause: err}
		}
		return v, nil
	}

	err = cur.scanner.Err()
	switch {
	case err == nil:
		r.src.Release()
		return flatfile.Value{}, io.EOF
	case errors.Is(err, bufio.ErrTooLong):
		r.src.Fail()
		// the scanner can not skip past the value so nothing after it is readable
		err = flatfile.IoError{
			Op:    "read",
			Path:  r.cfg.FilePath,
			Cause: fmt.Errorf("json value at offset %d exceeds %d bytes: %w", cur.split.consumed, r.cfg.MaxRecordBytes, err),
		}
		r.log.ErrorContext(ctx, "json value exceeds max record size", slogfield.Error(err), slogfield.Offset(cur.split.consumed))
		return flatfile.Value{}, err
	default:
		r.src.Fail()
		err = flatfile.IoError{Op: "read", Path: r.cfg.FilePath, Cause: err}
		r.log.ErrorContext(ctx, "failed to read json value", slogfield.Error(err), slogfield.FilePath(r.cfg.FilePath))
		return flatfile.Value{}, err
	}
}

// ErrTrailingData occurs when a value is followed by more than whitespace.
var ErrTrailingData = errors.New("unexpected data after json value")

func decode(b []byte) (flatfile.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var x any
	err := dec.Decode(&x)
	if err != nil {
		return flatfile.Value{}, err
	}

	var extra any
	err = dec.Decode(&extra)
	if !errors.Is(err, io.EOF) {
		return flatfile.Value{}, ErrTrailingData
	}
	return flatfile.FromAny(x)
}

// Close releases the underlying file. After Close, ReadItem returns [io.EOF].
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.src.Release()
}
