// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package jsonstream

import "bufio"

// splitter finds the boundaries of consecutive JSON values by tracking
// brackets, braces and strings. It does not validate the values.
type splitter struct {
	// consumed is the number of input bytes the scanner has advanced past.
	consumed int64

	// offset is the input offset of the most recent token.
	offset int64
}

var _ bufio.SplitFunc = (&splitter{}).split

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func (s *splitter) split(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && isSpace(data[start]) {
		start++
	}
	if start == len(data) {
		s.consumed += int64(start)
		return start, nil, nil
	}

	end, ok := valueEnd(data, start)
	if !ok {
		if !atEOF {
			return 0, nil, nil
		}
		// unterminated value, hand it over so it fails to decode
		end = len(data)
	}

	s.offset = s.consumed + int64(start)
	s.consumed += int64(end)
	return end, data[start:end], nil
}

// valueEnd returns the index just past the value starting at data[start].
func valueEnd(data []byte, start int) (int, bool) {
	switch data[start] {
	case '{', '[':
		return compositeEnd(data, start)
	case '"':
		return stringEnd(data, start)
	default:
		return scalarEnd(data, start)
	}
}

func compositeEnd(data []byte, start int) (int, bool) {
	depth := 0
	for i := start; i < len(data); i++ {
		switch data[i] {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		case '"':
			end, ok := stringEnd(data, i)
			if !ok {
				return 0, false
			}
			i = end - 1
		}
	}
	return 0, false
}

func stringEnd(data []byte, start int) (int, bool) {
	escaped := false
	for i := start + 1; i < len(data); i++ {
		switch {
		case escaped:
			escaped = false
		case data[i] == '\\':
			escaped = true
		case data[i] == '"':
			return i + 1, true
		}
	}
	return 0, false
}

// scalarEnd treats anything up to the next whitespace or value start
// as a single scalar e.g. a number, true, false or null.
func scalarEnd(data []byte, start int) (int, bool) {
	for i := start; i < len(data); i++ {
		c := data[i]
		if isSpace(c) || (i > start && (c == '{' || c == '[' || c == '"')) {
			return i, true
		}
	}
	return 0, false
}
