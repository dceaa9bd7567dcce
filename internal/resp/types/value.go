// Package types defines the RESP value model shared by the decoder,
// encoder, command engine, and store.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which RESP data type a Value holds.
type Kind int

const (
	KindSimpleString Kind = iota
	KindBulkString
	KindArray
	KindInteger
	KindError
)

// Value is a tagged union over the RESP data types this implementation
// supports. Exactly one of the fields matching Kind is meaningful; the
// others are the zero value.
//
// A nil Str on KindBulkString represents a null bulk string ($-1\r\n); a nil
// Items on KindArray represents a null array (*-1\r\n). Go map keys must be
// comparable, and Items is a slice, so Value is not itself map-keyable —
// callers that need to key on a Value use Key() instead of the struct.
type Value struct {
	Kind  Kind
	Str   *string
	Items []Value
	Int   int64
	ErrMsg string
}

// SimpleString builds a KindSimpleString value.
func SimpleString(s string) Value {
	return Value{Kind: KindSimpleString, Str: &s}
}

// BulkString builds a KindBulkString value. Pass nil for the null bulk
// string reply a cache miss or expired key returns.
func BulkString(s *string) Value {
	return Value{Kind: KindBulkString, Str: s}
}

// Array builds a KindArray value. Pass nil for the null array.
func Array(items []Value) Value {
	return Value{Kind: KindArray, Items: items}
}

// Integer builds a KindInteger value.
func Integer(n int64) Value {
	return Value{Kind: KindInteger, Int: n}
}

// Error builds a KindError value.
func Error(msg string) Value {
	return Value{Kind: KindError, ErrMsg: msg}
}

// IsNull reports whether v is a null bulk string or null array.
func (v Value) IsNull() bool {
	return (v.Kind == KindBulkString && v.Str == nil) || (v.Kind == KindArray && v.Items == nil)
}

// Key returns a canonical byte-string encoding of v suitable for use as a
// map key. It is the wire encoding: two values that encode to the same
// bytes compare equal under Equal and collide under Key, which is exactly
// the property a command map key needs.
func (v Value) Key() string {
	return string(v.Encode())
}

// Encode renders v to its RESP wire representation.
func (v Value) Encode() []byte {
	var buf []byte
	return v.appendTo(buf)
}

func (v Value) appendTo(buf []byte) []byte {
	switch v.Kind {
	case KindSimpleString:
		buf = append(buf, '+')
		if v.Str != nil {
			buf = append(buf, *v.Str...)
		}
		return append(buf, '\r', '\n')

	case KindBulkString:
		if v.Str == nil {
			return append(buf, '$', '-', '1', '\r', '\n')
		}
		buf = append(buf, '$')
		buf = strconv.AppendInt(buf, int64(len(*v.Str)), 10)
		buf = append(buf, '\r', '\n')
		buf = append(buf, *v.Str...)
		return append(buf, '\r', '\n')

	case KindArray:
		if v.Items == nil {
			return append(buf, '*', '-', '1', '\r', '\n')
		}
		buf = append(buf, '*')
		buf = strconv.AppendInt(buf, int64(len(v.Items)), 10)
		buf = append(buf, '\r', '\n')
		for _, item := range v.Items {
			buf = item.appendTo(buf)
		}
		return buf

	case KindInteger:
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, v.Int, 10)
		return append(buf, '\r', '\n')

	case KindError:
		buf = append(buf, '-')
		buf = append(buf, v.ErrMsg...)
		return append(buf, '\r', '\n')

	default:
		return buf
	}
}

// Equal reports whether v and other are the same RESP value.
func (v Value) Equal(other Value) bool {
	return v.Key() == other.Key()
}

// Less gives Value a total lexicographic order over its wire encoding,
// useful where the original's derived Ord was relied on (test fixtures,
// stable iteration order).
func (v Value) Less(other Value) bool {
	return v.Key() < other.Key()
}

// String renders a human-readable form for logging, not the wire format.
func (v Value) String() string {
	switch v.Kind {
	case KindSimpleString:
		if v.Str == nil {
			return "SimpleString(nil)"
		}
		return fmt.Sprintf("SimpleString(%q)", *v.Str)
	case KindBulkString:
		if v.Str == nil {
			return "BulkString(nil)"
		}
		return fmt.Sprintf("BulkString(%q)", *v.Str)
	case KindArray:
		if v.Items == nil {
			return "Array(nil)"
		}
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = item.String()
		}
		return fmt.Sprintf("Array(%s)", strings.Join(parts, ", "))
	case KindInteger:
		return fmt.Sprintf("Integer(%d)", v.Int)
	case KindError:
		return fmt.Sprintf("Error(%q)", v.ErrMsg)
	default:
		return "Value(unknown)"
	}
}
