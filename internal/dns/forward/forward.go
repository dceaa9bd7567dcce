// Package forward implements the fan-out/fan-in resolver: a multi-question
// query is split into single-question sub-queries sharing one transaction
// ID, sent serially to an upstream resolver, and the matching replies are
// merged back into a single response.
package forward

import (
	"context"
	"net"
	"time"

	"github.com/vh012/wiredaemon/internal/dns/message"
	"github.com/vh012/wiredaemon/internal/errors"
	"github.com/vh012/wiredaemon/internal/transport"
)

// DefaultUpstreamTimeout bounds how long Dispatcher waits for an upstream
// reply before giving up on the remaining sub-requests. The original
// forwarder this is modeled on had no such bound on its resolver socket
// read, which meant a silent upstream leaked a goroutine per query
// forever; a deadline here turns that into a bounded wait instead.
const DefaultUpstreamTimeout = 2 * time.Second

// Dispatcher forwards queries to a single upstream resolver over a shared
// socket.
type Dispatcher struct {
	conn    *transport.UDPTransport
	mu      chan struct{} // 1-buffered mutex: serializes upstream sends/receives
	timeout time.Duration
}

// NewDispatcher wraps conn, a socket already bound for talking to the
// upstream resolver, as a Dispatcher. timeout bounds each Forward call's
// wait for upstream replies; DefaultUpstreamTimeout is used if timeout <= 0.
func NewDispatcher(conn *transport.UDPTransport, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultUpstreamTimeout
	}

	mu := make(chan struct{}, 1)
	mu <- struct{}{}

	return &Dispatcher{conn: conn, mu: mu, timeout: timeout}
}

// Forward splits query into one sub-query per question, sends each to
// upstream over the dispatcher's socket, and waits for a reply to each
// (matched by the shared transaction ID; replies with a different ID are
// skipped, not counted against the wait) until all have answered or the
// dispatcher's timeout elapses. It then merges the first response's header
// with the concatenated question and answer sections from every response
// received, and returns the merged message.
func (d *Dispatcher) Forward(ctx context.Context, query *message.Message, upstream net.Addr) (*message.Message, error) {
	select {
	case <-d.mu:
		defer func() { d.mu <- struct{}{} }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	subQueries := Split(query)
	if len(subQueries) == 0 {
		return nil, &errors.ValidationError{
			Field:   "query",
			Message: "no questions to forward",
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	for _, sub := range subQueries {
		buf, err := sub.Encode()
		if err != nil {
			return nil, err
		}
		if err := d.conn.Send(sendCtx, buf, upstream); err != nil {
			return nil, err
		}
	}

	var responses []*message.Message
	deadline := time.Now().Add(d.timeout)

	for len(responses) < len(subQueries) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}

		recvCtx, recvCancel := context.WithTimeout(ctx, remaining)
		buf, _, err := d.conn.Receive(recvCtx)
		recvCancel()
		if err != nil {
			break
		}

		resp, err := message.DecodeResponse(buf)
		if err != nil {
			continue
		}
		if resp.Header.ID != query.Header.ID {
			continue
		}

		responses = append(responses, resp)
	}

	if len(responses) == 0 {
		return nil, &errors.NetworkError{
			Operation: "forward query",
			Err:       context.DeadlineExceeded,
			Details:   "no upstream reply received before timeout",
		}
	}

	return merge(responses), nil
}

// merge combines responses (one per forwarded sub-question) into a single
// message: the first response's header with recomputed counts, followed by
// every response's questions and then every response's answers.
func merge(responses []*message.Message) *message.Message {
	first := responses[0].Header

	var questions []message.Question
	var answers []message.RR

	for _, r := range responses {
		questions = append(questions, r.Questions...)
		answers = append(answers, r.Answers...)
	}

	header := first
	header.QDCount = uint16(len(questions))
	header.ANCount = uint16(len(answers))
	header.NSCount = 0
	header.ARCount = 0

	return &message.Message{Header: header, Questions: questions, Answers: answers}
}
