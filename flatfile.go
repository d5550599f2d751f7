// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package flatfile

import "context"

// Reader represents a forward-only source of records.
//
// ReadItem returns one of:
//   - a record and a nil error
//   - a recoverable error (see [IsRecoverable]), the next call continues with the next record
//   - a fatal error (see [IsFatal]), which is only ever returned once
//   - [io.EOF], once the reader is exhausted
//
// The given context.Context is only used for trace and log correlation.
// It does not interrupt a blocking read.
type Reader interface {
	ReadItem(context.Context) (Value, error)
}

// ReaderFunc is a functional implementation of the Reader interface.
type ReaderFunc func(context.Context) (Value, error)

// ReadItem implements the Reader interface.
func (f ReaderFunc) ReadItem(ctx context.Context) (Value, error) {
	return f(ctx)
}
