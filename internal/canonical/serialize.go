package canonical

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

const hex = "0123456789abcdef"

// Serialize returns the canonical encoding of v.
//
// Object keys are sorted by ordinal byte comparison and arrays keep their order.
// Strings escape only the quote, the backslash and control characters; any other
// character, ASCII or not, is written as UTF-8. Numbers are written as their
// source literal. The output holds no insignificant whitespace.
func Serialize(v Value) ([]byte, error) {
	return appendValue(make([]byte, 0, 256), v, 0)
}

func appendValue(dst []byte, v Value, depth int) ([]byte, error) {
	switch v.kind {
	case KindNull:
		return append(dst, "null"...), nil
	case KindBool:
		if v.boolean {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case KindNumber:
		if !validNumber(v.text) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, v.text)
		}
		return append(dst, v.text...), nil
	case KindString:
		return appendString(dst, v.text), nil
	case KindArray:
		if depth >= MaxDepth {
			return nil, ErrTooDeep
		}
		return appendArray(dst, v.items, depth+1)
	case KindObject:
		if depth >= MaxDepth {
			return nil, ErrTooDeep
		}
		return appendObject(dst, v.members, depth+1)
	default:
		return nil, fmt.Errorf("unknown json value kind %v", v.kind)
	}
}

func appendArray(dst []byte, items []Value, depth int) ([]byte, error) {
	var err error
	dst = append(dst, '[')
	for i, item := range items {
		if i > 0 {
			dst = append(dst, ',')
		}
		if dst, err = appendValue(dst, item, depth); err != nil {
			return nil, err
		}
	}
	return append(dst, ']'), nil
}

func appendObject(dst []byte, members []Member, depth int) ([]byte, error) {
	sorted := slices.Clone(members)
	slices.SortStableFunc(sorted, func(a, b Member) int {
		return strings.Compare(a.Key, b.Key)
	})

	var err error
	dst = append(dst, '{')
	for i, m := range sorted {
		if i > 0 {
			if m.Key == sorted[i-1].Key {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, m.Key)
			}
			dst = append(dst, ',')
		}
		dst = appendString(dst, m.Key)
		dst = append(dst, ':')
		if dst, err = appendValue(dst, m.Value, depth); err != nil {
			return nil, err
		}
	}
	return append(dst, '}'), nil
}

// appendString writes s as a JSON string literal. Invalid UTF-8 is replaced by U+FFFD.
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c >= 0x20 && c != '"' && c != '\\' {
				i++
				continue
			}
			dst = append(dst, s[start:i]...)
			switch c {
			case '"', '\\':
				dst = append(dst, '\\', c)
			case '\b':
				dst = append(dst, '\\', 'b')
			case '\f':
				dst = append(dst, '\\', 'f')
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			default:
				dst = append(dst, '\\', 'u', '0', '0', hex[c>>4], hex[c&0xF])
			}
			i++
			start = i
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = append(dst, s[start:i]...)
			dst = utf8.AppendRune(dst, utf8.RuneError)
			i += size
			start = i
			continue
		}
		i += size
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}
