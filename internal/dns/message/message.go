// Package message defines DNS message wire-format structures per RFC 1035
// and the codec operations (DecodeRequest/DecodeResponse/Encode) built on
// top of header.go, name.go, question.go, and rr.go.
package message

// Message represents a complete DNS message: header, question section, and
// answer section. Authority and additional records have no field here:
// DecodeResponse does not decode them, and Encode never writes them.
type Message struct {
	Header    Header
	Questions []Question
	Answers   []RR
}

// DecodeRequest decodes a client query: header plus the question section. A
// well-formed query carries no answers, so the answer section is not
// parsed. The question section is decoded until an empty name is seen,
// rather than trusting the header's QDCount, since only the question
// section is present here — mirroring the original's request-path parse,
// which never trusts QDCount either.
func DecodeRequest(msg []byte) (*Message, error) {
	header, err := DecodeHeader(msg)
	if err != nil {
		return nil, err
	}

	questions, _, err := DecodeQuestions(msg, HeaderSizeOffset, nil)
	if err != nil {
		return nil, err
	}

	return &Message{Header: header, Questions: questions}, nil
}

// DecodeResponse decodes a full message: header, questions, and answers.
// Authority and additional records are skipped: counting past them would
// require parsing record types this forwarder never uses. The question
// section is decoded for exactly header.QDCount entries, since an answer
// section follows and there is no empty-name terminator to stop on.
func DecodeResponse(msg []byte) (*Message, error) {
	header, err := DecodeHeader(msg)
	if err != nil {
		return nil, err
	}

	questions, offset, err := DecodeQuestions(msg, HeaderSizeOffset, &header.QDCount)
	if err != nil {
		return nil, err
	}

	answers, _, err := DecodeRRs(msg, offset, header.ANCount)
	if err != nil {
		return nil, err
	}

	return &Message{Header: header, Questions: questions, Answers: answers}, nil
}

// HeaderSizeOffset is the byte offset where the question section begins:
// immediately after the fixed 12-byte header.
const HeaderSizeOffset = 12

// Encode serializes m to wire format: header, question section, answer
// section.
func (m *Message) Encode() ([]byte, error) {
	buf := make([]byte, 0, 512)
	buf = append(buf, m.Header.Encode()...)

	qbuf, err := EncodeQuestions(m.Questions)
	if err != nil {
		return nil, err
	}
	buf = append(buf, qbuf...)

	for _, rr := range m.Answers {
		rrBuf, err := rr.Encode()
		if err != nil {
			return nil, err
		}
		buf = append(buf, rrBuf...)
	}

	return buf, nil
}
