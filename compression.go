// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package flatfile

import (
	"path/filepath"
	"strings"
)

// Compression names the codec an input file is compressed with.
type Compression string

const (
	// CompressionAuto picks the codec from the file extension.
	// It is the default when no compression is configured.
	CompressionAuto Compression = "auto"
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionS2   Compression = "s2"
	CompressionLz4  Compression = "lz4"
)

// UnknownCompressionError occurs when a compression name is not supported.
type UnknownCompressionError struct {
	Name string
}

// Error implements the [builtin.error] interface.
func (e UnknownCompressionError) Error() string {
	return "unknown compression: " + e.Name
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (c *Compression) UnmarshalText(b []byte) error {
	name := Compression(strings.ToLower(strings.TrimSpace(string(b))))
	switch name {
	case "":
		*c = CompressionAuto
	case CompressionAuto, CompressionNone, CompressionGzip, CompressionZstd, CompressionS2, CompressionLz4:
		*c = name
	default:
		return UnknownCompressionError{Name: string(b)}
	}
	return nil
}

// Resolve returns the concrete codec for the file at path.
// Any explicit codec is returned as is.
func (c Compression) Resolve(path string) Compression {
	if c != "" && c != CompressionAuto {
		return c
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	case ".s2", ".sz":
		return CompressionS2
	case ".lz4":
		return CompressionLz4
	default:
		return CompressionNone
	}
}
