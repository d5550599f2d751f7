// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package slogfield provides the slog attributes shared by readers
// and runtimes so log keys stay consistent.
package slogfield

import "log/slog"

// Error returns an slog.Attr for an error.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// FilePath returns an slog.Attr for the file a reader consumes.
func FilePath(path string) slog.Attr {
	return slog.String("file_path", path)
}

// ReaderType returns an slog.Attr for a reader's type tag.
func ReaderType(typ string) slog.Attr {
	return slog.String("reader_type", typ)
}

// Line returns an slog.Attr for a line number within a file.
func Line(n int) slog.Attr {
	return slog.Int("line", n)
}

// Offset returns an slog.Attr for a byte offset within a file.
func Offset(n int64) slog.Attr {
	return slog.Int64("offset", n)
}

// Stack returns an slog.Attr for the stack of a recovered panic.
func Stack(stack []byte) slog.Attr {
	return slog.String("stack", string(stack))
}

// Config returns an slog.Attr for a reader's config.
func Config(cfg any) slog.Attr {
	return slog.Any("config", cfg)
}
