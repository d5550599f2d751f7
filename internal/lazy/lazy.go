// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package lazy manages resources which are acquired on first use and
// are never re-acquired once released or failed.
package lazy

import "io"

type stage uint8

const (
	uninitialized stage = iota
	active
	exhausted
	failed
)

// Resource moves through uninitialized -> active -> exhausted, or
// uninitialized -> failed. The held resource is only set while active.
//
// Resource is not safe for concurrent use.
type Resource[T io.Closer] struct {
	open  func() (T, error)
	stage stage
	res   T
}

// New returns an uninitialized Resource which will be opened by open.
func New[T io.Closer](open func() (T, error)) *Resource[T] {
	return &Resource[T]{open: open}
}

// Acquire returns the resource, opening it on the first call.
//
// If opening fails, the error is returned from that call only.
// Every later call, and every call after Release or Fail, returns io.EOF.
func (r *Resource[T]) Acquire() (T, error) {
	var zero T
	switch r.stage {
	case uninitialized:
		open := r.open
		r.open = nil

		res, err := open()
		if err != nil {
			r.stage = failed
			return zero, err
		}
		r.stage = active
		r.res = res
		return res, nil
	case active:
		return r.res, nil
	default:
		return zero, io.EOF
	}
}

// Release closes the resource, if active, and marks it exhausted.
// Releasing an uninitialized Resource prevents it from ever opening.
func (r *Resource[T]) Release() error {
	return r.end(exhausted)
}

// Fail closes the resource, if active, and marks it failed.
func (r *Resource[T]) Fail() error {
	return r.end(failed)
}

func (r *Resource[T]) end(to stage) error {
	switch r.stage {
	case uninitialized:
		r.open = nil
		r.stage = to
		return nil
	case active:
		res := r.res
		var zero T
		r.res = zero
		r.stage = to
		return res.Close()
	default:
		return nil
	}
}

// Uninitialized reports whether the resource has never been acquired or ended.
func (r *Resource[T]) Uninitialized() bool {
	return r.stage == uninitialized
}
