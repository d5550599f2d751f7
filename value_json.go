// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package flatfile

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// InvalidNumberError occurs when a number literal is not a
// well formed JSON number.
type InvalidNumberError struct {
	Literal string
}

// Error implements the [builtin.error] interface.
func (e InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid number literal: %q", e.Literal)
}

// UnsupportedTypeError occurs when converting a Go value whose type
// has no Value representation.
type UnsupportedTypeError struct {
	Type string
}

// Error implements the [builtin.error] interface.
func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported value type: %s", e.Type)
}

// MarshalJSON implements the [json.Marshaler] interface.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.IsValid() {
		return nil, InvalidNumberError{Literal: string(n)}
	}
	return []byte(n), nil
}

// MarshalJSON implements the [json.Marshaler] interface.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// Number literals are kept verbatim.
func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var x any
	err := dec.Decode(&x)
	if err != nil {
		return err
	}

	val, err := FromAny(x)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// String implements the [fmt.Stringer] interface by rendering v as JSON.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprint(v.Interface())
	}
	return string(b)
}

// FromAny converts a decoded JSON tree into a Value.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case Number:
		return numberValue(string(t))
	case json.Number:
		return numberValue(string(t))
	case float64:
		return Float(t), nil
	case float32:
		return Float(float64(t)), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint64:
		return NumberValue(Number(strconv.FormatUint(t, 10))), nil
	case string:
		return String(t), nil
	case []any:
		vs := make([]Value, len(t))
		for i, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			vs[i] = v
		}
		return Array(vs...), nil
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			m[k] = v
		}
		return Object(m), nil
	default:
		return Value{}, UnsupportedTypeError{Type: fmt.Sprintf("%T", x)}
	}
}

func numberValue(s string) (Value, error) {
	n := Number(s)
	if !n.IsValid() {
		return Value{}, InvalidNumberError{Literal: s}
	}
	return NumberValue(n), nil
}
