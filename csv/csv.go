// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package csv provides a flatfile.Reader for delimited text files.
//
// The first row of a file is always its header. Every following row
// becomes an object keyed by the header names, with each field
// coerced by [Coerce].
package csv

import (
	"context"
	enccsv "encoding/csv"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"slices"
	"unicode/utf8"

	"github.com/z5labs/flatfile"
	"github.com/z5labs/flatfile/internal/lazy"
	"github.com/z5labs/flatfile/internal/noop"
	"github.com/z5labs/flatfile/internal/opener"
	"github.com/z5labs/flatfile/internal/otelslog"
	"github.com/z5labs/flatfile/internal/slogfield"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Config configures a Reader.
type Config struct {
	// Delimiter separates fields. Only its first byte is used
	// and an empty delimiter means ",".
	Delimiter string `config:"delimiter"`

	// Flexible allows rows whose field count differs from the header.
	// Missing fields are null and extra fields are dropped.
	Flexible bool `config:"flexible"`

	FilePath    string               `config:"file_path"`
	Compression flatfile.Compression `config:"compression"`
}

// Comma returns the field separator described by the Delimiter.
func (cfg Config) Comma() rune {
	if cfg.Delimiter == "" {
		return ','
	}
	return rune(cfg.Delimiter[0])
}

// Validate reports whether the config can ever produce a working Reader.
func (cfg Config) Validate() error {
	if cfg.FilePath == "" {
		return flatfile.InvalidConfigError{Field: "file_path", Reason: "must be set"}
	}

	switch c := cfg.Comma(); {
	case c == 0, c == '"', c == '\r', c == '\n', c >= 0x80:
		return flatfile.InvalidConfigError{
			Field:  "delimiter",
			Reason: "first byte can not be used as a field separator",
		}
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

type source struct {
	rc     io.ReadCloser
	csv    *enccsv.Reader
	header []string
}

func (s *source) Close() error {
	return s.rc.Close()
}

// Reader reads records from a delimited text file.
//
// The file is not opened until the first call to ReadItem.
// Reader is not safe for concurrent use.
type Reader struct {
	log *slog.Logger
	cfg Config
	src *lazy.Resource[*source]
}

// New validates cfg and returns a Reader for it.
func New(cfg Config, opts ...Option) (*Reader, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
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
	r.src = lazy.New(func() (*source, error) {
		return r.open(o.fsys)
	})
	return r, nil
}

func (r *Reader) open(fsys fs.FS) (*source, error) {
	rc, err := opener.Open(fsys, r.cfg.FilePath, r.cfg.Compression)
	if err != nil {
		return nil, flatfile.IoError{Op: "open", Path: r.cfg.FilePath, Cause: err}
	}

	cr := enccsv.NewReader(rc)
	cr.Comma = r.cfg.Comma()
	cr.ReuseRecord = true
	// a quote inside an unquoted field is literal text
	cr.LazyQuotes = true
	if r.cfg.Flexible {
		cr.FieldsPerRecord = -1
	}

	header, err := cr.Read()
	if err != nil {
		rc.Close()

		var perr *enccsv.ParseError
		switch {
		case errors.Is(err, io.EOF):
			return nil, io.EOF
		case errors.As(err, &perr):
			return nil, flatfile.InitializationError{Reason: flatfile.ReasonHeaderUnreadable, Cause: err}
		default:
			return nil, flatfile.IoError{Op: "read", Path: r.cfg.FilePath, Cause: err}
		}
	}

	if !validUTF8(header) {
		rc.Close()
		return nil, flatfile.InitializationError{Reason: flatfile.ReasonHeaderUnreadable, Cause: ErrInvalidUTF8}
	}

	return &source{
		rc:     rc,
		csv:    cr,
		header: slices.Clone(header),
	}, nil
}

// ReadItem implements the [flatfile.Reader] interface.
//
// A malformed row is reported as a [flatfile.CsvError] and reading
// continues with the next row. A failure to open or read the file
// is reported exactly once, after which [io.EOF] is returned.
func (r *Reader) ReadItem(ctx context.Context) (flatfile.Value, error) {
	spanCtx, span := otel.Tracer("csv").Start(ctx, "Reader.ReadItem", trace.WithAttributes(
		attribute.String("file_path", r.cfg.FilePath),
	))
	defer span.End()

	initializing := r.src.Uninitialized()
	src, err := r.src.Acquire()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return flatfile.Value{}, io.EOF
		}
		if initializing {
			r.log.ErrorContext(
				spanCtx,
				"failed to initialize csv reader",
				slogfield.Error(err),
				slogfield.Config(r.cfg),
			)
		}
		return flatfile.Value{}, err
	}
	if initializing {
		r.log.DebugContext(spanCtx, "initialized csv reader", slogfield.Config(r.cfg))
	}

	record, err := src.csv.Read()
	if err == nil {
		if !validUTF8(record) {
			line, _ := src.csv.FieldPos(0)
			return flatfile.Value{}, r.malformed(spanCtx, line, ErrInvalidUTF8)
		}
		return r.object(src.header, record), nil
	}

	var perr *enccsv.ParseError
	switch {
	case errors.Is(err, io.EOF):
		r.src.Release()
		return flatfile.Value{}, io.EOF
	case errors.As(err, &perr):
		return flatfile.Value{}, r.malformed(spanCtx, perr.StartLine, perr.Err)
	default:
		r.src.Fail()
		err = flatfile.IoError{Op: "read", Path: r.cfg.FilePath, Cause: err}
		r.log.ErrorContext(spanCtx, "failed to read csv row", slogfield.Error(err), slogfield.FilePath(r.cfg.FilePath))
		return flatfile.Value{}, err
	}
}

func (r *Reader) malformed(ctx context.Context, line int, cause error) error {
	err := flatfile.CsvError{Line: line, Cause: cause}
	r.log.DebugContext(ctx, "malformed csv row", slogfield.Error(err), slogfield.Line(line), slogfield.FilePath(r.cfg.FilePath))
	return err
}

// ErrInvalidUTF8 occurs when a header or row contains a field which is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("field is not valid utf-8")

func validUTF8(fields []string) bool {
	for _, f := range fields {
		if !utf8.ValidString(f) {
			return false
		}
	}
	return true
}

func (r *Reader) object(header, record []string) flatfile.Value {
	m := make(map[string]flatfile.Value, len(header))
	for i, name := range header {
		if i >= len(record) {
			m[name] = flatfile.Null()
			continue
		}
		m[name] = Coerce(record[i])
	}
	return flatfile.Object(m)
}

// Close releases the underlying file. After Close, ReadItem returns [io.EOF].
func (r *Reader) Close() error {
	return r.src.Release()
}
