// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package csv

import (
	"math"
	"strconv"
	"strings"

	"github.com/z5labs/flatfile"
)

// Coerce converts a single raw field into its most specific Value.
// The first match wins:
//
//   - a base 10 integer or decimal numeral becomes a Number
//   - exactly "true" or "false" becomes a Bool
//   - anything else, including "", stays a String
func Coerce(field string) flatfile.Value {
	if n, ok := numeral(field); ok {
		return flatfile.NumberValue(n)
	}
	switch field {
	case "true":
		return flatfile.Bool(true)
	case "false":
		return flatfile.Bool(false)
	}
	return flatfile.String(field)
}

func isNumeralByte(r rune) bool {
	return strings.ContainsRune("0123456789+-.eE", r)
}

// numeral rejects hex, underscores, inf and nan before handing
// the field to strconv, which would otherwise accept them.
func numeral(s string) (flatfile.Number, bool) {
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return !isNumeralByte(r) }) >= 0 {
		return "", false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return flatfile.Number(strconv.FormatInt(i, 10)), true
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return flatfile.Number(strconv.FormatUint(u, 10)), true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}
	if n := flatfile.Number(s); n.IsValid() {
		return n, true
	}
	return flatfile.Number(strconv.FormatFloat(f, 'g', -1, 64)), true
}
