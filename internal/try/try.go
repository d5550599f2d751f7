// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package try turns panics raised by readers and processors into errors.
package try

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// PanicError is the error reported for a recovered panic.
type PanicError struct {
	Value any

	// Stack is the stack of the panicking goroutine.
	Stack []byte
}

// Error implements the [builtin.error] interface.
func (e PanicError) Error() string {
	return fmt.Sprintf("recovered from panic: %v", e.Value)
}

// Unwrap returns the panic value if it was an error.
func (e PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Recover must be deferred. It recovers from a panic and joins
// a PanicError onto the error ref.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}

	perr := PanicError{
		Value: r,
		Stack: debug.Stack(),
	}
	if *err == nil {
		*err = perr
		return
	}
	*err = errors.Join(*err, perr)
}

// AsPanic reports whether err, or any error it wraps, is a recovered panic.
func AsPanic(err error) (PanicError, bool) {
	var perr PanicError
	ok := errors.As(err, &perr)
	return perr, ok
}
