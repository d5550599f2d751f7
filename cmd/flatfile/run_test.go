// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/z5labs/flatfile"
	"github.com/z5labs/flatfile/metric"
	"github.com/z5labs/flatfile/reader"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

const citiesCsv = `City,Population,Capital
Paris,2102650,true
Lyon,522250,false
Nice,342669,false
`

const productsStream = `{"id": 1, "name": "pen"}
{"id": 2, "name": "ink"} {"id": 3, "name": "pad"}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestReadCmd(t *testing.T) {
	t.Run("will write every record as a json line", func(t *testing.T) {
		t.Run("if the config selects a csv reader", func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "cities.csv", citiesCsv)
			cfgPath := writeFile(t, dir, "config.yaml", `
type: csv
file_path: {{ env "FLATFILE_TEST_DIR" }}/cities.csv
`)
			t.Setenv("FLATFILE_TEST_DIR", dir)

			stdout, _, err := execute("read", "--config", cfgPath)
			if !assert.Nil(t, err) {
				return
			}

			ls := lines(stdout)
			if !assert.Len(t, ls, 3) {
				return
			}
			if !assert.Equal(t, `{"Capital":true,"City":"Paris","Population":2102650}`, ls[0]) {
				return
			}
		})

		t.Run("if the config is json and the records are processed concurrently", func(t *testing.T) {
			dir := t.TempDir()
			streamPath := writeFile(t, dir, "products.json", productsStream)
			cfgPath := writeFile(t, dir, "config.json", `{"type": "jsonstream", "file_path": "`+filepath.ToSlash(streamPath)+`"}`)

			stdout, _, err := execute("read", "--config", cfgPath, "--concurrency", "4")
			if !assert.Nil(t, err) {
				return
			}

			ls := lines(stdout)
			if !assert.Len(t, ls, 3) {
				return
			}
			if !assert.Contains(t, ls, `{"id":2,"name":"ink"}`) {
				return
			}
		})

		t.Run("if an environment variable overrides the config file", func(t *testing.T) {
			dir := t.TempDir()
			streamPath := writeFile(t, dir, "products.json", productsStream)
			cfgPath := writeFile(t, dir, "config.yaml", `
type: jsonstream
file_path: does-not-exist.json
`)
			t.Setenv("FLATFILE_FILE_PATH", streamPath)

			stdout, _, err := execute("read", "--config", cfgPath)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Len(t, lines(stdout), 3) {
				return
			}
		})
	})

	t.Run("will log the error and write nothing", func(t *testing.T) {
		t.Run("if the data file does not exist", func(t *testing.T) {
			dir := t.TempDir()
			cfgPath := writeFile(t, dir, "config.yaml", `
type: csv
file_path: `+filepath.ToSlash(filepath.Join(dir, "missing.csv"))+`
`)

			stdout, stderr, err := execute("read", "--config", cfgPath)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Empty(t, stdout) {
				return
			}
			if !assert.Contains(t, stderr, "failed to initialize csv reader") {
				return
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the --config flag is missing", func(t *testing.T) {
			_, _, err := execute("read")
			if !assert.Error(t, err) {
				return
			}
		})

		t.Run("if the log level is unknown", func(t *testing.T) {
			_, _, err := execute("read", "--config", "config.yaml", "--log-level", "loud")
			if !assert.ErrorContains(t, err, "--log-level") {
				return
			}
		})

		t.Run("if the trace exporter is unknown", func(t *testing.T) {
			_, _, err := execute("read", "--config", "config.yaml", "--trace", "jaeger")
			if !assert.ErrorContains(t, err, "unknown --trace exporter") {
				return
			}
		})

		t.Run("if otlp tracing has no target", func(t *testing.T) {
			_, _, err := execute("read", "--config", "config.yaml", "--trace", "otlp")
			if !assert.ErrorContains(t, err, "--otlp-target") {
				return
			}
		})
	})
}

func TestRun(t *testing.T) {
	t.Run("will return a ConfigReadError", func(t *testing.T) {
		t.Run("if the config file does not exist", func(t *testing.T) {
			flags := readFlags{
				configPath: filepath.Join(t.TempDir(), "missing.yaml"),
				logLevel:   "info",
				trace:      traceNone,
			}

			err := run(context.Background(), flags, io.Discard, io.Discard)

			var cerr ConfigReadError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			if !assert.ErrorIs(t, err, fs.ErrNotExist) {
				return
			}
		})
	})

	t.Run("will return a ConfigUnmarshalError", func(t *testing.T) {
		t.Run("if the reader name is not a string", func(t *testing.T) {
			cfgPath := writeFile(t, t.TempDir(), "config.yaml", `
type: csv
file_path: cities.csv
name:
  first: cities
`)
			flags := readFlags{
				configPath: cfgPath,
				logLevel:   "info",
				trace:      traceNone,
			}

			err := run(context.Background(), flags, io.Discard, io.Discard)

			var uerr ConfigUnmarshalError
			if !assert.ErrorAs(t, err, &uerr) {
				return
			}
		})
	})

	t.Run("will return a ReaderBuildError", func(t *testing.T) {
		t.Run("if the reader type is unknown", func(t *testing.T) {
			cfgPath := writeFile(t, t.TempDir(), "config.yaml", `
type: parquet
file_path: cities.parquet
`)
			flags := readFlags{
				configPath: cfgPath,
				logLevel:   "info",
				trace:      traceNone,
			}

			err := run(context.Background(), flags, io.Discard, io.Discard)

			var berr ReaderBuildError
			if !assert.ErrorAs(t, err, &berr) {
				return
			}

			var terr reader.UnknownTypeError
			if !assert.ErrorAs(t, err, &terr) {
				return
			}
			if !assert.Equal(t, "parquet", terr.Type) {
				return
			}
		})
	})

	t.Run("will write spans to stderr", func(t *testing.T) {
		t.Run("if the stdout trace exporter is selected", func(t *testing.T) {
			dir := t.TempDir()
			csvPath := writeFile(t, dir, "cities.csv", citiesCsv)
			cfgPath := writeFile(t, dir, "config.yaml", "type: csv\nfile_path: "+filepath.ToSlash(csvPath)+"\n")

			flags := readFlags{
				configPath: cfgPath,
				logLevel:   "info",
				trace:      traceStdout,
			}

			var stdout, stderr bytes.Buffer
			err := run(context.Background(), flags, &stdout, &stderr)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Len(t, lines(stdout.String()), 3) {
				return
			}
			if !assert.Contains(t, stderr.String(), "Reader.ReadItem") {
				return
			}
		})
	})
}

func TestMetricsHandler(t *testing.T) {
	t.Run("will expose reader metrics", func(t *testing.T) {
		t.Run("if records were read", func(t *testing.T) {
			reg := prometheus.NewRegistry()
			c, err := metric.NewCollector(reg)
			if !assert.Nil(t, err) {
				return
			}

			n := 0
			r := c.Instrument("cities", flatfile.ReaderFunc(func(ctx context.Context) (flatfile.Value, error) {
				n++
				if n > 2 {
					return flatfile.Value{}, io.EOF
				}
				return flatfile.Int(int64(n)), nil
			}))
			for {
				_, err := r.ReadItem(context.Background())
				if errors.Is(err, io.EOF) {
					break
				}
			}

			w := httptest.NewRecorder()
			metricsHandler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			if !assert.Equal(t, http.StatusOK, w.Code) {
				return
			}
			if !assert.Contains(t, w.Body.String(), `flatfile_records_total{reader="cities"} 2`) {
				return
			}
		})
	})
}

func TestAppConfig_readerName(t *testing.T) {
	t.Run("will default to the base name of the file", func(t *testing.T) {
		t.Run("if no name is configured", func(t *testing.T) {
			cfg := appConfig{FilePath: "/data/cities.csv"}
			if !assert.Equal(t, "cities.csv", cfg.readerName()) {
				return
			}
		})
	})
}
