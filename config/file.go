// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"io"
	"io/fs"
	"os"
	"sync"
)

// FileReader is an io.Reader that opens its file on the first Read.
type FileReader struct {
	path string
	fs   fs.FS

	openOnce sync.Once
	file     io.ReadCloser
	openErr  error
}

// NewFileReader configures a FileReader. If fsys is nil,
// the file is opened from the OS file system.
func NewFileReader(fsys fs.FS, path string) *FileReader {
	return &FileReader{
		path: path,
		fs:   fsys,
	}
}

// Path returns the path of the underlying file.
func (r *FileReader) Path() string {
	return r.path
}

// Read implements the [io.Reader] interface.
func (r *FileReader) Read(b []byte) (int, error) {
	r.openOnce.Do(func() {
		f, err := r.open()
		if err != nil {
			r.openErr = err
			return
		}
		r.file = f
	})
	if r.openErr != nil {
		return 0, r.openErr
	}
	if r.file == nil {
		return 0, fs.ErrClosed
	}
	return r.file.Read(b)
}

func (r *FileReader) open() (io.ReadCloser, error) {
	if r.fs == nil {
		return os.Open(r.path)
	}
	return r.fs.Open(r.path)
}

// Close implements the [io.Closer] interface.
func (r *FileReader) Close() error {
	if r.file == nil {
		return nil
	}

	err := r.file.Close()
	r.file = nil
	return err
}
