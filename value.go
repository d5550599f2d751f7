// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package flatfile

import (
	"math"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String implements the [fmt.Stringer] interface.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Number is a JSON number literal. It is kept as text so
// large integers never lose precision.
type Number string

// String returns the literal text of the number.
func (n Number) String() string {
	return string(n)
}

// Int64 returns the number as an int64.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// Float64 returns the number as a float64.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// IsValid reports whether n is a well formed JSON number literal.
func (n Number) IsValid() bool {
	s := string(n)
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	if i == len(s) {
		return false
	}

	switch {
	case s[i] == '0':
		i++
	case '1' <= s[i] && s[i] <= '9':
		i = skipDigits(s, i)
	default:
		return false
	}

	if i < len(s) && s[i] == '.' {
		i++
		if i == len(s) || !isDigit(s[i]) {
			return false
		}
		i = skipDigits(s, i)
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i == len(s) || !isDigit(s[i]) {
			return false
		}
		i = skipDigits(s, i)
	}
	return i == len(s)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func skipDigits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

// Value is a semi-structured value. The zero Value is Null.
//
// A Value returned by a Reader is freshly allocated for that
// call and is exclusively owned by the caller.
type Value struct {
	kind Kind
	b    bool

	// s holds the text of both strings and number literals
	s   string
	arr []Value
	obj map[string]Value
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

// Bool returns a Value for a bool.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// NumberValue returns a Value for a number literal.
func NumberValue(n Number) Value {
	return Value{kind: KindNumber, s: string(n)}
}

// Int returns a Value for an int64.
func Int(n int64) Value {
	return NumberValue(Number(strconv.FormatInt(n, 10)))
}

// Float returns a Value for a float64. NaN and infinities have
// no JSON representation, so they are returned as Null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return NumberValue(Number(strconv.FormatFloat(f, 'g', -1, 64)))
}

// String returns a Value for a string.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Array returns a Value for an ordered list of Values.
func Array(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindArray, arr: vs}
}

// Object returns a Value for a mapping of names to Values.
func Object(m map[string]Value) Value {
	if m == nil {
		m = make(map[string]Value)
	}
	return Value{kind: KindObject, obj: m}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is Null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the bool held by v, if v is a Bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsNumber returns the number held by v, if v is a Number.
func (v Value) AsNumber() (Number, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return Number(v.s), true
}

// AsString returns the string held by v, if v is a String.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsArray returns the elements held by v, if v is an Array.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// AsObject returns the members held by v, if v is an Object.
func (v Value) AsObject() (map[string]Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Get returns the member named key, if v is an Object containing it.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	x, ok := v.obj[key]
	return x, ok
}

// Index returns the i'th element, if v is an Array long enough.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// Len returns the number of elements or members of an Array
// or Object. It returns 0 for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	default:
		return 0
	}
}

// Equal reports whether v and other hold the same variant and content.
// Numbers compare equal if their literals match or they denote the
// same float64 e.g. 20 and 20.0.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindNumber:
		if v.s == other.s {
			return true
		}
		a, errA := Number(v.s).Float64()
		b, errB := Number(other.s).Float64()
		return errA == nil && errB == nil && a == b
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, x := range v.obj {
			y, ok := other.obj[k]
			if !ok || !x.Equal(y) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Interface converts v into plain Go values: nil, bool, Number,
// string, []any or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return Number(v.s)
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, x := range v.arr {
			out[i] = x.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, x := range v.obj {
			out[k] = x.Interface()
		}
		return out
	default:
		return nil
	}
}
