package message

import (
	"bytes"
	"testing"

	"github.com/vh012/wiredaemon/internal/dns/protocol"
)

func TestNewARecordEncodeDecodeRoundTrip(t *testing.T) {
	rr, err := NewARecord("example.test", 60, "8.8.8.8")
	if err != nil {
		t.Fatalf("NewARecord() error = %v", err)
	}
	if !bytes.Equal(rr.RData, []byte{8, 8, 8, 8}) {
		t.Errorf("RData = %v, want [8 8 8 8]", rr.RData)
	}

	encoded, err := rr.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, offset, err := DecodeRRs(encoded, 0, 1)
	if err != nil {
		t.Fatalf("DecodeRRs() error = %v", err)
	}
	if offset != len(encoded) {
		t.Errorf("offset = %d, want %d", offset, len(encoded))
	}
	if len(got) != 1 || got[0].Name != rr.Name || got[0].Type != rr.Type || got[0].TTL != rr.TTL || !bytes.Equal(got[0].RData, rr.RData) {
		t.Errorf("decoded RR = %+v, want %+v", got, rr)
	}
}

func TestNewARecordRejectsInvalidAddress(t *testing.T) {
	cases := []string{"not-an-ip", "::1", "2001:db8::1"}
	for _, ip := range cases {
		if _, err := NewARecord("example.test", 60, ip); err == nil {
			t.Errorf("NewARecord(%q) expected error, got nil", ip)
		}
	}
}

func TestDecodeRRsRejectsWrongARecordLength(t *testing.T) {
	// An A-type RR (TYPE=1) with RDLENGTH=6, which must be rejected since an
	// A record's RDATA is always exactly 4 bytes.
	msg := []byte{
		0, // root name
		0, 1, // TYPE=A
		0, 1, // CLASS=IN
		0, 0, 0, 60, // TTL
		0, 6, // RDLENGTH=6
		1, 2, 3, 4, 5, 6,
	}

	if _, _, err := DecodeRRs(msg, 0, 1); err == nil {
		t.Error("expected error for mismatched A-record RDLENGTH, got nil")
	}
}

func TestDecodeRRsFollowsCompressionPointerInOwnerName(t *testing.T) {
	msg := []byte{
		3, 'f', 'o', 'o', 0, // offset 0: "foo"
		0xC0, 0x00, // offset 5: pointer to offset 0
		0, 1, // TYPE=A
		0, 1, // CLASS=IN
		0, 0, 0, 60, // TTL
		0, 4, // RDLENGTH
		1, 2, 3, 4,
	}

	rrs, _, err := DecodeRRs(msg, 5, 1)
	if err != nil {
		t.Fatalf("DecodeRRs() error = %v", err)
	}
	if rrs[0].Name != "foo" {
		t.Errorf("Name = %q, want %q", rrs[0].Name, "foo")
	}
	if rrs[0].Type != protocol.QTypeA {
		t.Errorf("Type = %v, want A", rrs[0].Type)
	}
}
