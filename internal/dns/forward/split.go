package forward

import "github.com/vh012/wiredaemon/internal/dns/message"

// Split breaks a multi-question query into one single-question query per
// entry in the Question section, each keeping the original transaction ID
// so replies can be correlated back to this request.
func Split(query *message.Message) []*message.Message {
	subQueries := make([]*message.Message, 0, len(query.Questions))

	for _, q := range query.Questions {
		header := query.Header
		header.QDCount = 1

		subQueries = append(subQueries, &message.Message{
			Header:    header,
			Questions: []message.Question{q},
		})
	}

	return subQueries
}
