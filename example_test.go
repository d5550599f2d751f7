// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package flatfile_test

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/z5labs/flatfile"
)

func ExampleReaderFunc() {
	records := []flatfile.Value{
		flatfile.Object(map[string]flatfile.Value{"id": flatfile.Int(1)}),
		flatfile.Object(map[string]flatfile.Value{"id": flatfile.Int(2)}),
	}

	var r flatfile.Reader = flatfile.ReaderFunc(func(ctx context.Context) (flatfile.Value, error) {
		if len(records) == 0 {
			return flatfile.Value{}, io.EOF
		}
		v := records[0]
		records = records[1:]
		return v, nil
	})

	for {
		v, err := r.ReadItem(context.Background())
		if errors.Is(err, io.EOF) {
			return
		}
		if flatfile.IsRecoverable(err) {
			continue
		}
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(v)
	}
	// Output: {"id":1}
	// {"id":2}
}
