// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"io"
	"sync"

	"github.com/z5labs/flatfile"

	"github.com/goccy/go-json"
)

// jsonLines writes each record to w as one line of JSON.
type jsonLines struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *jsonLines) Process(ctx context.Context, v flatfile.Value) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = p.w.Write(b)
	return err
}
