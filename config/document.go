// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format names the encoding of a config Document.
type Format string

const (
	FormatYaml Format = "yaml"
	FormatJson Format = "json"
)

// FormatOf picks the Format of a config file from its extension.
// Only ".json" selects JSON, every other file is read as YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJson
	}
	return FormatYaml
}

// Document is a Source which parses a single JSON or YAML mapping.
type Document struct {
	r      io.Reader
	format Format
}

// Parse returns a Document which reads its mapping from r in the given format.
// If r is an [io.Closer], it is closed once read.
func Parse(r io.Reader, format Format) Document {
	return Document{r: r, format: format}
}

// File returns a Document for the config file at path. The file is
// rendered as a text/template before being parsed, and its Format is
// chosen by FormatOf. If fsys is nil, the OS file system is used.
func File(fsys fs.FS, path string, opts ...RenderTextTemplateOption) Document {
	return Parse(RenderTextTemplate(NewFileReader(fsys, path), opts...), FormatOf(path))
}

// InvalidDocumentError occurs if a Document is not a valid mapping in its Format.
type InvalidDocumentError struct {
	Format Format
	Cause  error
}

// Error implements the [builtin.error] interface.
func (e InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid %s config: %s", e.Format, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidDocumentError) Unwrap() error {
	return e.Cause
}

// Apply implements the Source interface.
func (d Document) Apply(store Store) error {
	b, err := io.ReadAll(d.r)
	if c, ok := d.r.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	if err != nil {
		return err
	}

	// an empty file sets nothing
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}

	m, err := d.decode(b)
	if err != nil {
		return InvalidDocumentError{Format: d.format, Cause: err}
	}
	return Map(m).Apply(store)
}

func (d Document) decode(b []byte) (map[string]any, error) {
	m := make(map[string]any)
	switch d.format {
	case FormatJson:
		return m, json.Unmarshal(b, &m)
	case FormatYaml:
		return m, yaml.Unmarshal(b, &m)
	default:
		return nil, fmt.Errorf("unsupported format: %q", d.format)
	}
}
