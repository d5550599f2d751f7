// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package opener opens possibly compressed input files.
package opener

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/z5labs/flatfile"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Open opens the file at path and returns a reader of its decompressed bytes.
// If fsys is nil, the file is opened from the OS filesystem.
//
// Codecs which validate their header eagerly, like gzip, fail here.
// The others fail on the first read.
func Open(fsys fs.FS, path string, c flatfile.Compression) (_ io.ReadCloser, err error) {
	f, err := openFile(fsys, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			f.Close()
		}
	}()

	switch codec := c.Resolve(path); codec {
	case flatfile.CompressionNone:
		return f, nil
	case flatfile.CompressionGzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		return decompressed{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case flatfile.CompressionZstd:
		zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		zrc := zr.IOReadCloser()
		return decompressed{Reader: zrc, closers: []io.Closer{zrc, f}}, nil
	case flatfile.CompressionS2:
		return decompressed{Reader: s2.NewReader(f), closers: []io.Closer{f}}, nil
	case flatfile.CompressionLz4:
		return decompressed{Reader: lz4.NewReader(f), closers: []io.Closer{f}}, nil
	default:
		return nil, flatfile.UnknownCompressionError{Name: string(codec)}
	}
}

func openFile(fsys fs.FS, path string) (fs.File, error) {
	if fsys == nil {
		return os.Open(path)
	}
	return fsys.Open(path)
}

type decompressed struct {
	io.Reader
	closers []io.Closer
}

// Close closes the codec before the file it reads from.
func (d decompressed) Close() error {
	var errs []error
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
