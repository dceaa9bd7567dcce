package message

import (
	"encoding/binary"
	"fmt"

	"github.com/vh012/wiredaemon/internal/dns/protocol"
	"github.com/vh012/wiredaemon/internal/errors"
)

// Question represents a DNS question section entry per RFC 1035 §4.1.2.
type Question struct {
	Name  string
	Type  protocol.QType
	Class protocol.Class
}

// DecodeQuestions decodes question entries starting at offset.
//
// When expectedCount is non-nil, it decodes exactly that many records (an
// empty name before the count is satisfied is malformed input). When nil,
// it decodes records until it sees an empty name, ignoring whatever count
// the caller's header might claim — the mode used when only the question
// section is present and the header's QDCount is not to be trusted.
func DecodeQuestions(msg []byte, offset int, expectedCount *uint16) ([]Question, int, error) {
	var questions []Question

	if expectedCount != nil {
		questions = make([]Question, 0, *expectedCount)

		for i := uint16(0); i < *expectedCount; i++ {
			name, newOffset, err := ParseName(msg, offset)
			if err != nil {
				return nil, offset, err
			}
			if name == "" {
				return nil, offset, &errors.WireFormatError{
					Operation: "decode question",
					Offset:    offset,
					Message:   "question name is empty",
				}
			}

			q, nextOffset, err := decodeQuestionTail(msg, name, newOffset)
			if err != nil {
				return nil, offset, err
			}

			questions = append(questions, q)
			offset = nextOffset
		}

		return questions, offset, nil
	}

	for offset < len(msg) && msg[offset] != 0 {
		name, newOffset, err := ParseName(msg, offset)
		if err != nil {
			return nil, offset, err
		}
		if name == "" {
			break
		}

		q, nextOffset, err := decodeQuestionTail(msg, name, newOffset)
		if err != nil {
			return nil, offset, err
		}

		questions = append(questions, q)
		offset = nextOffset
	}

	if offset < len(msg) && msg[offset] == 0 {
		offset++
	}

	return questions, offset, nil
}

// decodeQuestionTail reads the QTYPE and QCLASS following a question name
// already decoded at position tailOffset, and returns the assembled
// Question plus the offset just past it.
func decodeQuestionTail(msg []byte, name string, tailOffset int) (Question, int, error) {
	if tailOffset+4 > len(msg) {
		return Question{}, tailOffset, &errors.WireFormatError{
			Operation: "decode question",
			Offset:    tailOffset,
			Message:   "truncated question: not enough bytes for QTYPE and QCLASS",
		}
	}

	qtype := protocol.QType(binary.BigEndian.Uint16(msg[tailOffset : tailOffset+2]))
	qclass := protocol.Class(binary.BigEndian.Uint16(msg[tailOffset+2 : tailOffset+4]))

	if !qtype.IsValid() || !qclass.IsValid() {
		return Question{}, tailOffset, &errors.WireFormatError{
			Operation: "decode question",
			Offset:    tailOffset,
			Message:   fmt.Sprintf("invalid QTYPE %d or CLASS %d", qtype, qclass),
		}
	}

	return Question{Name: name, Type: qtype, Class: qclass}, tailOffset + 4, nil
}

// EncodeQuestions serializes qs into wire format: each name, followed by a
// 2-byte QTYPE and a 2-byte QCLASS. Both are written at the full wire width
// the decoder reads, unlike an encoder that writes QTYPE/CLASS in a single
// byte while the decoder reads two — symmetric here by construction.
func EncodeQuestions(qs []Question) ([]byte, error) {
	var buf []byte

	for _, q := range qs {
		encodedName, err := EncodeName(q.Name)
		if err != nil {
			return nil, err
		}

		buf = append(buf, encodedName...)

		typeBytes := make([]byte, 2)
		binary.BigEndian.PutUint16(typeBytes, uint16(q.Type))
		buf = append(buf, typeBytes...)

		classBytes := make([]byte, 2)
		binary.BigEndian.PutUint16(classBytes, uint16(q.Class))
		buf = append(buf, classBytes...)
	}

	return buf, nil
}
