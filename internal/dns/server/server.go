// Package server runs the DNS UDP listener: one goroutine per inbound
// datagram, dispatching to either the local stub reply builder or the
// upstream forwarder depending on configuration.
package server

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/vh012/wiredaemon/internal/dns/forward"
	"github.com/vh012/wiredaemon/internal/dns/message"
	"github.com/vh012/wiredaemon/internal/dns/reply"
	"github.com/vh012/wiredaemon/internal/transport"
)

// writeDeadline bounds how long a reply write to a client may block.
const writeDeadline = 1 * time.Second

// Server is the DNS UDP listener.
type Server struct {
	conn       *transport.UDPTransport
	dispatcher *forward.Dispatcher
	upstream   net.Addr
	logger     *slog.Logger
}

// New binds a UDP listener at listenAddr. If dispatcher and upstream are
// both non-nil, every query is forwarded there instead of being answered
// locally.
func New(ctx context.Context, listenAddr string, dispatcher *forward.Dispatcher, upstream net.Addr, logger *slog.Logger) (*Server, error) {
	conn, err := transport.ListenUDP(ctx, listenAddr)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Server{conn: conn, dispatcher: dispatcher, upstream: upstream, logger: logger}, nil
}

// Serve reads datagrams until ctx is canceled, handling each in its own
// goroutine so a slow upstream or a malformed packet never blocks the
// listener.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		buf, peer, err := s.conn.Receive(ctx)
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			s.logger.Warn("receive failed", "error", err)
			continue
		}

		go s.handle(ctx, buf, peer)
	}
}

// Close releases the listening socket.
func (s *Server) Close() error {
	return s.conn.Close()
}

func (s *Server) handle(ctx context.Context, buf []byte, peer net.Addr) {
	query, err := message.DecodeRequest(buf)
	if err != nil {
		s.logger.Warn("discarding malformed query", "peer", peer, "error", err)
		return
	}

	var response *message.Message
	if s.dispatcher != nil && s.upstream != nil {
		response, err = s.dispatcher.Forward(ctx, query, s.upstream)
		if err != nil {
			s.logger.Warn("forward failed", "peer", peer, "error", err)
			return
		}
	} else {
		response = reply.Build(query)
	}

	out, err := response.Encode()
	if err != nil {
		s.logger.Warn("encode reply failed", "peer", peer, "error", err)
		return
	}

	if len(out) > 512 {
		out = out[:512]
	} else if len(out) < 512 {
		padded := make([]byte, 512)
		copy(padded, out)
		out = padded
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeDeadline)
	defer cancel()

	if err := s.conn.Send(writeCtx, out, peer); err != nil {
		s.logger.Warn("send reply failed", "peer", peer, "error", err)
	}
}
