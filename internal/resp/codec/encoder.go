package codec

import (
	"errors"

	"github.com/vh012/wiredaemon/internal/resp/types"
)

// ErrInvalidInput is returned when Encode is asked to render a value whose
// required text is absent (a SimpleString or Error with no content).
var ErrInvalidInput = errors.New("resp/codec: encoder received invalid input")

// Encode renders v to its RESP wire representation.
func Encode(v types.Value) ([]byte, error) {
	if v.Kind == types.KindSimpleString && v.Str == nil {
		return nil, ErrInvalidInput
	}
	if v.Kind == types.KindError && v.ErrMsg == "" {
		return nil, ErrInvalidInput
	}

	return v.Encode(), nil
}
