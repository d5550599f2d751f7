// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package csv

import (
	"testing"

	"github.com/z5labs/flatfile"

	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	testCases := []struct {
		Name  string
		Field string
		Value flatfile.Value
	}{
		{Name: "will return a number if the field is an integer", Field: "8419000", Value: flatfile.NumberValue("8419000")},
		{Name: "will return a number if the field is a negative integer", Field: "-12", Value: flatfile.NumberValue("-12")},
		{Name: "will return a number if the field is larger than int64", Field: "18446744073709551615", Value: flatfile.NumberValue("18446744073709551615")},
		{Name: "will return a number if the field is a decimal", Field: "65.2419444", Value: flatfile.NumberValue("65.2419444")},
		{Name: "will return a number if the field uses an exponent", Field: "1e5", Value: flatfile.NumberValue("1e5")},
		{Name: "will return a canonical number if the field has a leading plus", Field: "+7", Value: flatfile.NumberValue("7")},
		{Name: "will return a canonical number if the field has no leading digit", Field: ".5", Value: flatfile.NumberValue("0.5")},
		{Name: "will return a bool if the field is true", Field: "true", Value: flatfile.Bool(true)},
		{Name: "will return a bool if the field is false", Field: "false", Value: flatfile.Bool(false)},
		{Name: "will return a string if the field is empty", Field: "", Value: flatfile.String("")},
		{Name: "will return a string if the field is capitalized True", Field: "True", Value: flatfile.String("True")},
		{Name: "will return a string if the field is hex", Field: "0x1F", Value: flatfile.String("0x1F")},
		{Name: "will return a string if the field has underscores", Field: "1_000", Value: flatfile.String("1_000")},
		{Name: "will return a string if the field is inf", Field: "inf", Value: flatfile.String("inf")},
		{Name: "will return a string if the field is NaN", Field: "NaN", Value: flatfile.String("NaN")},
		{Name: "will return a string if the field overflows a float", Field: "1e500", Value: flatfile.String("1e500")},
		{Name: "will return a string if the field is only a sign", Field: "-", Value: flatfile.String("-")},
		{Name: "will return a string if the field has surrounding spaces", Field: " 42", Value: flatfile.String(" 42")},
		{Name: "will return a string if the field is text", Field: "New York", Value: flatfile.String("New York")},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			v := Coerce(testCase.Field)

			if !assert.Equal(t, testCase.Value.Kind(), v.Kind()) {
				return
			}
			if !assert.True(t, testCase.Value.Equal(v), "expected %s got %s", testCase.Value, v) {
				return
			}
		})
	}
}
