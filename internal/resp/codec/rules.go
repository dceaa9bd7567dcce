package codec

import (
	"fmt"
	"strconv"

	"github.com/vh012/wiredaemon/internal/errors"
	"github.com/vh012/wiredaemon/internal/resp/types"
)

// rule is one RESP type's incremental parse state. next is called every
// time more bytes are available; it reports done=false ("need more") until
// it has consumed a complete value, mirroring the teacher's own
// rule-object-over-interface style in internal/message's decoder helpers.
type rule interface {
	next(buf []byte) (value types.Value, consumed int, done bool, err error)
}

// ruleFor dispatches on the leading prefix byte, the RESP type tag.
func ruleFor(prefix byte) (rule, error) {
	switch prefix {
	case '+':
		return &simpleStringRule{}, nil
	case '$':
		return &bulkStringRule{}, nil
	case '*':
		return &arrayRule{}, nil
	case ':':
		return &integerRule{}, nil
	default:
		return nil, &errors.WireFormatError{
			Operation: "decode RESP value",
			Offset:    0,
			Message:   fmt.Sprintf("unsupported RESP type prefix %q", prefix),
		}
	}
}

// findCRLF returns the index of the first "\r\n" in buf at or after start.
func findCRLF(buf []byte, start int) (int, bool) {
	for i := start; i+1 < len(buf); i++ {
		if buf[i] == '\r' && buf[i+1] == '\n' {
			return i, true
		}
	}
	return 0, false
}

type simpleStringRule struct{}

func (r *simpleStringRule) next(buf []byte) (types.Value, int, bool, error) {
	if len(buf) < 4 {
		return types.Value{}, 0, false, nil
	}

	idx, found := findCRLF(buf, 1)
	if !found {
		return types.Value{}, 0, false, nil
	}

	s := string(buf[1:idx])
	return types.SimpleString(s), idx + 2, true, nil
}

type integerRule struct{}

func (r *integerRule) next(buf []byte) (types.Value, int, bool, error) {
	if len(buf) < 4 {
		return types.Value{}, 0, false, nil
	}

	idx, found := findCRLF(buf, 1)
	if !found {
		return types.Value{}, 0, false, nil
	}

	n, err := strconv.ParseInt(string(buf[1:idx]), 10, 64)
	if err != nil {
		return types.Value{}, 0, false, &errors.WireFormatError{
			Operation: "decode integer",
			Offset:    1,
			Message:   fmt.Sprintf("invalid integer %q", buf[1:idx]),
			Err:       err,
		}
	}

	return types.Integer(n), idx + 2, true, nil
}

// bulkStringRule parses the "$<len>\r\n<data>\r\n" form. A negative length
// is a null bulk string and carries no data section. Once the declared
// length is known, the data phase trusts it over any "\r\n" the payload
// bytes might happen to contain.
type bulkStringRule struct {
	size      *int
	headerLen int
}

func (r *bulkStringRule) next(buf []byte) (types.Value, int, bool, error) {
	if r.size == nil {
		if len(buf) < 4 {
			return types.Value{}, 0, false, nil
		}

		idx, found := findCRLF(buf, 1)
		if !found {
			return types.Value{}, 0, false, nil
		}

		n, err := strconv.Atoi(string(buf[1:idx]))
		if err != nil {
			return types.Value{}, 0, false, &errors.WireFormatError{
				Operation: "decode bulk string length",
				Offset:    1,
				Message:   fmt.Sprintf("invalid length %q", buf[1:idx]),
				Err:       err,
			}
		}

		r.size = &n
		r.headerLen = idx + 2

		if n < 0 {
			return types.BulkString(nil), r.headerLen, true, nil
		}
	}

	need := r.headerLen + *r.size + 2
	if len(buf) < need {
		return types.Value{}, 0, false, nil
	}

	if buf[r.headerLen+*r.size] != '\r' || buf[need-1] != '\n' {
		return types.Value{}, 0, false, &errors.WireFormatError{
			Operation: "decode bulk string",
			Offset:    r.headerLen + *r.size,
			Message:   "missing terminating CRLF after declared length",
		}
	}

	s := string(buf[r.headerLen : r.headerLen+*r.size])
	return types.BulkString(&s), need, true, nil
}

// arrayRule parses "*<count>\r\n" followed by count sub-values, each
// dispatched to its own rule and accumulated until count is reached. A
// negative count is a null array; zero is an empty array, both resolved
// without needing a child rule at all.
type arrayRule struct {
	size     *int
	consumed int
	items    []types.Value
	child    rule
}

func (r *arrayRule) next(buf []byte) (types.Value, int, bool, error) {
	if r.size == nil {
		if len(buf) < 4 {
			return types.Value{}, 0, false, nil
		}

		idx, found := findCRLF(buf, 1)
		if !found {
			return types.Value{}, 0, false, nil
		}

		n, err := strconv.Atoi(string(buf[1:idx]))
		if err != nil {
			return types.Value{}, 0, false, &errors.WireFormatError{
				Operation: "decode array length",
				Offset:    1,
				Message:   fmt.Sprintf("invalid count %q", buf[1:idx]),
				Err:       err,
			}
		}

		r.size = &n
		r.consumed = idx + 2

		if n < 0 {
			return types.Array(nil), r.consumed, true, nil
		}
		if n == 0 {
			return types.Array([]types.Value{}), r.consumed, true, nil
		}
		r.items = make([]types.Value, 0, n)
	}

	for len(r.items) < *r.size {
		remaining := buf[r.consumed:]

		if r.child == nil {
			if len(remaining) == 0 {
				return types.Value{}, 0, false, nil
			}
			child, err := ruleFor(remaining[0])
			if err != nil {
				return types.Value{}, 0, false, err
			}
			r.child = child
		}

		val, childConsumed, done, err := r.child.next(remaining)
		if err != nil {
			return types.Value{}, 0, false, err
		}
		if !done {
			return types.Value{}, 0, false, nil
		}

		r.items = append(r.items, val)
		r.consumed += childConsumed
		r.child = nil
	}

	return types.Array(r.items), r.consumed, true, nil
}
