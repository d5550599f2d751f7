// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package metric provides Prometheus instrumentation for flatfile readers.
package metric

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/z5labs/flatfile"

	"github.com/prometheus/client_golang/prometheus"
)

// Error kinds used as the "kind" label of flatfile_errors_total.
const (
	KindCsv            = "csv"
	KindJson           = "json"
	KindIo             = "io"
	KindInitialization = "initialization"
	KindOther          = "other"
)

// ErrorKind classifies err into one of the error kind labels.
func ErrorKind(err error) string {
	var (
		csvErr  flatfile.CsvError
		jsonErr flatfile.JsonError
		ioErr   flatfile.IoError
		initErr flatfile.InitializationError
	)
	switch {
	case errors.As(err, &csvErr):
		return KindCsv
	case errors.As(err, &jsonErr):
		return KindJson
	case errors.As(err, &ioErr):
		return KindIo
	case errors.As(err, &initErr):
		return KindInitialization
	default:
		return KindOther
	}
}

// Collector holds the metrics shared by every instrumented Reader.
type Collector struct {
	records  *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector creates the reader metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flatfile",
			Name:      "records_total",
			Help:      "Total number of records read",
		}, []string{"reader"}),

		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flatfile",
			Name:      "errors_total",
			Help:      "Total number of errors returned by readers",
		}, []string{"reader", "kind"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flatfile",
			Name:      "read_duration_seconds",
			Help:      "Time taken by a single ReadItem call",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"reader"}),
	}

	for _, col := range []prometheus.Collector{c.records, c.errors, c.duration} {
		err := reg.Register(col)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Instrument wraps r so every record and error it returns is counted
// under the given reader name. io.EOF is not counted.
func (c *Collector) Instrument(name string, r flatfile.Reader) flatfile.Reader {
	return flatfile.ReaderFunc(func(ctx context.Context) (flatfile.Value, error) {
		start := time.Now()
		v, err := r.ReadItem(ctx)
		c.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())

		switch {
		case err == nil:
			c.records.WithLabelValues(name).Inc()
		case errors.Is(err, io.EOF):
		default:
			c.errors.WithLabelValues(name, ErrorKind(err)).Inc()
		}
		return v, err
	})
}
