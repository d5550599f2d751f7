// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package metric

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/z5labs/flatfile"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// sequence returns a Reader which yields the given results in order, then io.EOF.
func sequence(results ...error) flatfile.Reader {
	i := 0
	return flatfile.ReaderFunc(func(ctx context.Context) (flatfile.Value, error) {
		if i >= len(results) {
			return flatfile.Value{}, io.EOF
		}
		err := results[i]
		i++
		if err != nil {
			return flatfile.Value{}, err
		}
		return flatfile.Int(int64(i)), nil
	})
}

func drain(r flatfile.Reader) {
	for range_i := 0; range_i < 100; range_i++ {
		_, err := r.ReadItem(context.Background())
		if errors.Is(err, io.EOF) {
			return
		}
	}
}

func TestErrorKind(t *testing.T) {
	testCases := []struct {
		Name string
		Err  error
		Kind string
	}{
		{Name: "will return csv if the error is a CsvError", Err: flatfile.CsvError{Line: 2}, Kind: KindCsv},
		{Name: "will return json if the error is a JsonError", Err: flatfile.JsonError{Offset: 4}, Kind: KindJson},
		{Name: "will return io if the error is an IoError", Err: flatfile.IoError{Op: "open"}, Kind: KindIo},
		{Name: "will return initialization if the error is an InitializationError", Err: flatfile.InitializationError{Reason: flatfile.ReasonLockPoisoned}, Kind: KindInitialization},
		{Name: "will return other if the error is unknown", Err: errors.New("boom"), Kind: KindOther},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			if !assert.Equal(t, testCase.Kind, ErrorKind(testCase.Err)) {
				return
			}
		})
	}
}

func TestNewCollector(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the metrics are already registered", func(t *testing.T) {
			reg := prometheus.NewRegistry()

			_, err := NewCollector(reg)
			if !assert.Nil(t, err) {
				return
			}

			_, err = NewCollector(reg)

			var aerr prometheus.AlreadyRegisteredError
			if !assert.ErrorAs(t, err, &aerr) {
				return
			}
		})
	})
}

func TestCollector_Instrument(t *testing.T) {
	t.Run("will count records and errors by kind", func(t *testing.T) {
		t.Run("if the reader returns a mix of results", func(t *testing.T) {
			reg := prometheus.NewRegistry()
			c, err := NewCollector(reg)
			if !assert.Nil(t, err) {
				return
			}

			r := c.Instrument("products", sequence(
				nil,
				flatfile.JsonError{Offset: 10},
				nil,
				nil,
				flatfile.IoError{Op: "read"},
			))
			drain(r)

			if !assert.Equal(t, float64(3), testutil.ToFloat64(c.records.WithLabelValues("products"))) {
				return
			}
			if !assert.Equal(t, float64(1), testutil.ToFloat64(c.errors.WithLabelValues("products", KindJson))) {
				return
			}
			if !assert.Equal(t, float64(1), testutil.ToFloat64(c.errors.WithLabelValues("products", KindIo))) {
				return
			}
			if !assert.Equal(t, 1, testutil.CollectAndCount(c.duration)) {
				return
			}
		})
	})

	t.Run("will not count io.EOF", func(t *testing.T) {
		t.Run("if the reader is empty", func(t *testing.T) {
			reg := prometheus.NewRegistry()
			c, err := NewCollector(reg)
			if !assert.Nil(t, err) {
				return
			}

			drain(c.Instrument("empty", sequence()))

			if !assert.Equal(t, 0, testutil.CollectAndCount(c.records)) {
				return
			}
			if !assert.Equal(t, 0, testutil.CollectAndCount(c.errors)) {
				return
			}
		})
	})
}
