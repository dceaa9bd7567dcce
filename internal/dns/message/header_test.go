package message

import "testing"

func TestHeaderRoundTrip(t *testing.T) {
	cases := []Header{
		{ID: 0x1234, QR: false, Opcode: 0, RD: true, QDCount: 1},
		{ID: 0xFFFF, QR: true, Opcode: 2, AA: true, TC: true, RD: true, RA: true, Z: 0, Rcode: 3, QDCount: 1, ANCount: 2, NSCount: 0, ARCount: 0},
		{ID: 0, QR: true, Opcode: 0, Rcode: 4},
	}

	for _, want := range cases {
		encoded := want.Encode()
		if len(encoded) != 12 {
			t.Fatalf("Encode() length = %d, want 12", len(encoded))
		}

		got, err := DecodeHeader(encoded)
		if err != nil {
			t.Fatalf("DecodeHeader() error = %v", err)
		}
		if got != want {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
		}
	}
}

func TestDecodeHeaderTooShort(t *testing.T) {
	_, err := DecodeHeader(make([]byte, 11))
	if err == nil {
		t.Fatal("expected error decoding truncated header, got nil")
	}
}

func TestDecodeHeaderFlagBits(t *testing.T) {
	// A standard query with RD set: ID=0x0001, flags=0x0100, remaining zero.
	raw := []byte{0x00, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

	h, err := DecodeHeader(raw)
	if err != nil {
		t.Fatalf("DecodeHeader() error = %v", err)
	}
	if h.ID != 1 || h.RD != true || h.QR != false || h.QDCount != 1 {
		t.Errorf("unexpected decode: %+v", h)
	}
}
