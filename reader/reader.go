// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package reader builds a flatfile.Reader from configuration.
//
// The "type" config value selects the reader variant and the remaining
// values are decoded into that variant's own config:
//
//	type: csv
//	file_path: cities.csv
//	delimiter: ";"
package reader

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/z5labs/flatfile"
	"github.com/z5labs/flatfile/config"
	"github.com/z5labs/flatfile/csv"
	"github.com/z5labs/flatfile/internal/noop"
	"github.com/z5labs/flatfile/internal/otelslog"
	"github.com/z5labs/flatfile/internal/slogfield"
	"github.com/z5labs/flatfile/jsonstream"
)

// Reader type tags accepted by the "type" config value.
const (
	TypeCsv        = "csv"
	TypeJsonStream = "jsonstream"
)

// Types returns every supported reader type tag.
func Types() []string {
	return []string{TypeCsv, TypeJsonStream}
}

// ReadCloser is a flatfile.Reader which holds an open file until closed.
type ReadCloser interface {
	flatfile.Reader
	io.Closer
}

type options struct {
	logHandler slog.Handler
	fsys       fs.FS
}

// Option configures the built Reader.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) {
	f(o)
}

// LogHandler configures the underlying slog.Handler used by the built Reader.
func LogHandler(h slog.Handler) Option {
	return optionFunc(func(o *options) {
		o.logHandler = otelslog.NewHandler(h)
	})
}

// FS configures the file system the built Reader opens its file from.
func FS(fsys fs.FS) Option {
	return optionFunc(func(o *options) {
		o.fsys = fsys
	})
}

// UnknownTypeError occurs when the "type" config value is
// missing or names an unsupported reader.
type UnknownTypeError struct {
	Type string
}

// Error implements the [builtin.error] interface.
func (e UnknownTypeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("missing reader type, expected one of %v", Types())
	}
	return fmt.Sprintf("unknown reader type %q, expected one of %v", e.Type, Types())
}

// ConfigUnmarshalError occurs when the config can not be decoded
// into the selected reader's config.
type ConfigUnmarshalError struct {
	Type  string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ConfigUnmarshalError) Error() string {
	return fmt.Sprintf("failed to unmarshal %s reader config: %s", e.Type, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConfigUnmarshalError) Unwrap() error {
	return e.Cause
}

type typeConfig struct {
	Type string `config:"type"`
}

// New builds the Reader selected by the "type" value of m.
// No file is opened until the Reader is first read from.
func New(m *config.Manager, opts ...Option) (ReadCloser, error) {
	o := &options{
		logHandler: noop.LogHandler{},
	}
	for _, opt := range opts {
		opt.apply(o)
	}
	log := slog.New(o.logHandler)

	var tc typeConfig
	err := m.Unmarshal(&tc)
	if err != nil {
		return nil, ConfigUnmarshalError{Cause: err}
	}

	switch tc.Type {
	case TypeCsv:
		var cfg csv.Config
		err = m.Unmarshal(&cfg)
		if err != nil {
			return nil, ConfigUnmarshalError{Type: tc.Type, Cause: err}
		}

		log.Debug("building reader", slogfield.ReaderType(tc.Type), slogfield.Config(cfg))
		r, err := csv.New(cfg, csv.LogHandler(o.logHandler), csv.FS(o.fsys))
		if err != nil {
			return nil, err
		}
		return r, nil
	case TypeJsonStream:
		var cfg jsonstream.Config
		err = m.Unmarshal(&cfg)
		if err != nil {
			return nil, ConfigUnmarshalError{Type: tc.Type, Cause: err}
		}

		log.Debug("building reader", slogfield.ReaderType(tc.Type), slogfield.Config(cfg))
		r, err := jsonstream.New(cfg, jsonstream.LogHandler(o.logHandler), jsonstream.FS(o.fsys))
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		err = UnknownTypeError{Type: tc.Type}
		log.Error("failed to build reader", slogfield.Error(err))
		return nil, err
	}
}

// Read reads srcs into a config.Manager and builds the Reader it selects.
func Read(srcs []config.Source, opts ...Option) (ReadCloser, error) {
	m, err := config.Read(srcs...)
	if err != nil {
		return nil, err
	}
	return New(m, opts...)
}
