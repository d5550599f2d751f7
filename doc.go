// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package flatfile normalizes flat-file formats into a single, lazily produced
// stream of semi-structured records.
//
// The package is built around three core abstractions:
//
//   - Value: a semi-structured record (Null, Bool, Number, String, Array or Object)
//   - Reader: anything which produces Values one at a time via ReadItem
//   - ReaderError: the closed set of failures a Reader may surface
//
// Concrete readers live in subpackages: [github.com/z5labs/flatfile/csv] for
// delimited text and [github.com/z5labs/flatfile/jsonstream] for structure
// delimited JSON. The [github.com/z5labs/flatfile/reader] package selects one
// of them at runtime from a tagged configuration.
//
// # Reading records
//
// A Reader is pulled until it returns [io.EOF]:
//
//	for {
//	    v, err := r.ReadItem(ctx)
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if flatfile.IsRecoverable(err) {
//	        log.Println("skipping malformed record:", err)
//	        continue
//	    }
//	    if err != nil {
//	        // fatal errors are reported exactly once, the next
//	        // call will return io.EOF
//	        log.Println(err)
//	        continue
//	    }
//	    handle(v)
//	}
//
// # Failure-once policy
//
// Readers acquire their underlying file on the first call to ReadItem. If the
// file can not be opened, the error is returned exactly once and every later
// call returns io.EOF. A reader never re-opens its file.
package flatfile
