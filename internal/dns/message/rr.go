package message

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"strings"

	"github.com/vh012/wiredaemon/internal/dns/protocol"
	"github.com/vh012/wiredaemon/internal/errors"
)

// RR represents a DNS resource record per RFC 1035 §4.1.3: an answer,
// authority, or additional record.
type RR struct {
	Name  string
	Type  protocol.QType
	Class protocol.Class
	TTL   uint32
	RData []byte
}

// NewARecord builds an A-type RR for name with the given ttl, whose RDATA
// is the 4-byte encoding of the IPv4 address ip. Leading and trailing
// whitespace is trimmed from name; an empty name or one with a byte outside
// printable ASCII is rejected.
func NewARecord(name string, ttl uint32, ip string) (RR, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return RR{}, &errors.ValidationError{Field: "name", Value: name, Message: "name must not be empty"}
	}
	for i := 0; i < len(name); i++ {
		if name[i] < 0x20 || name[i] > 0x7E {
			return RR{}, &errors.ValidationError{Field: "name", Value: name, Message: "name must be printable ASCII"}
		}
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() {
		return RR{}, &errors.ValidationError{
			Field:   "rdata",
			Value:   ip,
			Message: "address must be a valid IPv4 address",
		}
	}

	octets := addr.As4()

	return RR{
		Name:  name,
		Type:  protocol.QTypeA,
		Class: protocol.ClassIN,
		TTL:   ttl,
		RData: octets[:],
	}, nil
}

// DecodeRRs decodes count resource records starting at offset. Owner names
// are decoded through ParseName, so a pointer into an earlier question or
// record resolves correctly here exactly as it does for questions — unlike
// a decoder that only follows compression pointers in the question section
// and reads RR names as if compression never occurs there.
func DecodeRRs(msg []byte, offset int, count uint16) ([]RR, int, error) {
	rrs := make([]RR, 0, count)

	for i := uint16(0); i < count; i++ {
		name, newOffset, err := ParseName(msg, offset)
		if err != nil {
			return nil, offset, err
		}

		if newOffset+10 > len(msg) {
			return nil, offset, &errors.WireFormatError{
				Operation: "decode resource record",
				Offset:    newOffset,
				Message:   "truncated record: not enough bytes for fixed fields",
			}
		}

		rtype := protocol.QType(binary.BigEndian.Uint16(msg[newOffset : newOffset+2]))
		class := protocol.Class(binary.BigEndian.Uint16(msg[newOffset+2 : newOffset+4]))
		ttl := binary.BigEndian.Uint32(msg[newOffset+4 : newOffset+8])
		rdlength := binary.BigEndian.Uint16(msg[newOffset+8 : newOffset+10])

		newOffset += 10

		if newOffset+int(rdlength) > len(msg) {
			return nil, offset, &errors.WireFormatError{
				Operation: "decode resource record",
				Offset:    newOffset,
				Message:   fmt.Sprintf("truncated RDATA: expected %d bytes, only %d available", rdlength, len(msg)-newOffset),
			}
		}

		if rtype == protocol.QTypeA && rdlength != 4 {
			return nil, offset, &errors.WireFormatError{
				Operation: "decode resource record",
				Offset:    newOffset,
				Message:   fmt.Sprintf("unexpected RDLENGTH for A record: %d, expected 4", rdlength),
			}
		}

		rdata := make([]byte, rdlength)
		copy(rdata, msg[newOffset:newOffset+int(rdlength)])

		rrs = append(rrs, RR{Name: name, Type: rtype, Class: class, TTL: ttl, RData: rdata})
		newOffset += int(rdlength)
		offset = newOffset
	}

	return rrs, offset, nil
}

// Encode serializes rr to wire format: name, TYPE, CLASS, TTL, RDLENGTH,
// RDATA.
func (rr RR) Encode() ([]byte, error) {
	encodedName, err := EncodeName(rr.Name)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, len(encodedName)+10+len(rr.RData))
	buf = append(buf, encodedName...)

	typeBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(typeBytes, uint16(rr.Type))
	buf = append(buf, typeBytes...)

	classBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(classBytes, uint16(rr.Class))
	buf = append(buf, classBytes...)

	ttlBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(ttlBytes, rr.TTL)
	buf = append(buf, ttlBytes...)

	rdlengthBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(rdlengthBytes, uint16(len(rr.RData)))
	buf = append(buf, rdlengthBytes...)

	buf = append(buf, rr.RData...)

	return buf, nil
}
