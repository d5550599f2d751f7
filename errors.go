// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package flatfile

import (
	"errors"
	"fmt"
)

// Fixed reasons carried by InitializationError.
const (
	ReasonHeaderUnreadable = "unreadable header row"
	ReasonLockPoisoned     = "cursor lock poisoned"
)

// ReaderError is the closed set of errors a Reader surfaces. The only
// implementations are CsvError, JsonError, IoError and InitializationError.
type ReaderError interface {
	error
	readerError()
}

// CsvError occurs when a single delimited row is malformed.
// It is recoverable, the reader continues with the next row.
type CsvError struct {
	Line  int
	Cause error
}

// Error implements the [builtin.error] interface.
func (e CsvError) Error() string {
	return fmt.Sprintf("malformed csv row on line %d: %s", e.Line, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e CsvError) Unwrap() error {
	return e.Cause
}

func (CsvError) readerError() {}

// JsonError occurs when a single JSON value is malformed.
// It is recoverable, the reader continues with the next value.
type JsonError struct {
	// Offset is the byte offset of the malformed value
	// within the (decompressed) input.
	Offset int64
	Cause  error
}

// Error implements the [builtin.error] interface.
func (e JsonError) Error() string {
	return fmt.Sprintf("malformed json value at offset %d: %s", e.Offset, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e JsonError) Unwrap() error {
	return e.Cause
}

func (JsonError) readerError() {}

// IoError occurs when the underlying file can not be opened or read.
// It is fatal.
type IoError struct {
	Op    string
	Path  string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e IoError) Error() string {
	return fmt.Sprintf("failed to %s %s: %s", e.Op, e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e IoError) Unwrap() error {
	return e.Cause
}

func (IoError) readerError() {}

// InitializationError occurs when a reader can never produce records
// for a reason owned by the reader itself e.g. an unreadable header row.
// It is fatal.
type InitializationError struct {
	Reason string
	Cause  error
}

// Error implements the [builtin.error] interface.
func (e InitializationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("reader initialization failed: %s", e.Reason)
	}
	return fmt.Sprintf("reader initialization failed: %s: %s", e.Reason, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InitializationError) Unwrap() error {
	return e.Cause
}

func (InitializationError) readerError() {}

// IsFatal reports whether err means the reader will never produce
// another record. A fatal error is only ever returned once.
func IsFatal(err error) bool {
	var ioErr IoError
	if errors.As(err, &ioErr) {
		return true
	}
	var initErr InitializationError
	return errors.As(err, &initErr)
}

// IsRecoverable reports whether err only concerns a single malformed record.
func IsRecoverable(err error) bool {
	if err == nil || IsFatal(err) {
		return false
	}
	var csvErr CsvError
	if errors.As(err, &csvErr) {
		return true
	}
	var jsonErr JsonError
	return errors.As(err, &jsonErr)
}

// InvalidConfigError occurs when a reader is constructed from a config
// which can never work e.g. a missing file path.
type InvalidConfigError struct {
	Field  string
	Reason string
}

// Error implements the [builtin.error] interface.
func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid reader config: %s: %s", e.Field, e.Reason)
}
