package codec

import (
	"testing"

	"github.com/vh012/wiredaemon/internal/resp/types"
)

func TestEncodeRoundTripsThroughDecoder(t *testing.T) {
	s := "value"
	cases := []types.Value{
		types.SimpleString("OK"),
		types.BulkString(&s),
		types.BulkString(nil),
		types.Integer(42),
		types.Array([]types.Value{types.Integer(1), types.BulkString(&s)}),
		types.Array(nil),
	}

	for _, want := range cases {
		out, err := Encode(want)
		if err != nil {
			t.Fatalf("Encode(%v) error = %v", want, err)
		}

		d := NewDecoder()
		d.Feed(out)
		got, ok, err := d.Decode()
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if !ok {
			t.Fatalf("Decode() did not complete for %v", want)
		}
		if !got.Equal(want) {
			t.Errorf("round trip mismatch: got %v, want %v", got, want)
		}
	}
}

func TestEncodeRejectsEmptySimpleString(t *testing.T) {
	bad := types.Value{Kind: types.KindSimpleString, Str: nil}
	if _, err := Encode(bad); err != ErrInvalidInput {
		t.Errorf("Encode() error = %v, want ErrInvalidInput", err)
	}
}

func TestEncodeErrorValue(t *testing.T) {
	out, err := Encode(types.Error("ERR bad command"))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(out) != "-ERR bad command\r\n" {
		t.Errorf("Encode() = %q, want %q", out, "-ERR bad command\r\n")
	}
}
