// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package flatfile

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFatal(t *testing.T) {
	testCases := []struct {
		Name        string
		Err         error
		Fatal       bool
		Recoverable bool
	}{
		{Name: "CsvError", Err: CsvError{Line: 2, Cause: errors.New("bad quote")}, Recoverable: true},
		{Name: "JsonError", Err: JsonError{Offset: 10}, Recoverable: true},
		{Name: "IoError", Err: IoError{Op: "open", Cause: io.ErrUnexpectedEOF}, Fatal: true},
		{Name: "InitializationError", Err: InitializationError{Reason: ReasonHeaderUnreadable}, Fatal: true},
		{Name: "wrapped JsonError", Err: fmt.Errorf("stream: %w", JsonError{Offset: 1}), Recoverable: true},
		{Name: "wrapped IoError", Err: fmt.Errorf("stream: %w", IoError{Op: "read"}), Fatal: true},
		{Name: "io.EOF", Err: io.EOF},
		{Name: "nil", Err: nil},
	}

	for _, testCase := range testCases {
		t.Run("will classify "+testCase.Name, func(t *testing.T) {
			if !assert.Equal(t, testCase.Fatal, IsFatal(testCase.Err)) {
				return
			}
			if !assert.Equal(t, testCase.Recoverable, IsRecoverable(testCase.Err)) {
				return
			}
		})
	}
}

func TestReaderError(t *testing.T) {
	t.Run("will unwrap to the cause", func(t *testing.T) {
		t.Run("if the error wraps another", func(t *testing.T) {
			cause := errors.New("boom")
			errs := []ReaderError{
				CsvError{Cause: cause},
				JsonError{Cause: cause},
				IoError{Cause: cause},
				InitializationError{Reason: ReasonLockPoisoned, Cause: cause},
			}

			for _, err := range errs {
				if !assert.ErrorIs(t, err, cause) {
					return
				}
			}
		})
	})

	t.Run("will describe the failure", func(t *testing.T) {
		t.Run("if the error has context", func(t *testing.T) {
			if !assert.Equal(t, "malformed csv row on line 3: bad quote", CsvError{Line: 3, Cause: errors.New("bad quote")}.Error()) {
				return
			}
			if !assert.Equal(t, "failed to open data.csv: missing", IoError{Op: "open", Path: "data.csv", Cause: errors.New("missing")}.Error()) {
				return
			}
			if !assert.Equal(t, "reader initialization failed: unreadable header row", InitializationError{Reason: ReasonHeaderUnreadable}.Error()) {
				return
			}
		})
	})
}
