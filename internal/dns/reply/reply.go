// Package reply builds the local stub resolver's answer: a canned A
// record for every question in an inbound query, used when no upstream
// resolver has been configured.
package reply

import (
	"github.com/vh012/wiredaemon/internal/dns/message"
	"github.com/vh012/wiredaemon/internal/dns/protocol"
)

// Build constructs a response to query without contacting any upstream: it
// echoes the header and question section, sets QR=1 and the other response
// flags to zero, and attaches one A-record answer per question (TTL 60,
// address 8.8.8.8) so a client always gets a well-formed reply to probe
// against. RCODE is NotImplemented (4) for any OPCODE other than a
// standard query (0).
func Build(query *message.Message) *message.Message {
	rcode := protocol.RCodeNoError
	if query.Header.Opcode != protocol.OpcodeQuery {
		rcode = protocol.RCodeNotImplemented
	}

	header := message.Header{
		ID:      query.Header.ID,
		QR:      true,
		Opcode:  query.Header.Opcode,
		AA:      false,
		TC:      false,
		RD:      query.Header.RD,
		RA:      false,
		Z:       0,
		Rcode:   rcode,
		QDCount: uint16(len(query.Questions)),
	}

	answers := make([]message.RR, 0, len(query.Questions))
	for _, q := range query.Questions {
		rr, err := message.NewARecord(q.Name, protocol.StubAnswerTTL, protocol.StubAnswerAddress)
		if err != nil {
			continue
		}
		answers = append(answers, rr)
	}
	header.ANCount = uint16(len(answers))

	return &message.Message{
		Header:    header,
		Questions: query.Questions,
		Answers:   answers,
	}
}
