// Package server runs the RESP TCP listener: one goroutine per connection,
// decoding pipelined requests and writing replies back in order.
package server

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"

	"github.com/vh012/wiredaemon/internal/resp/codec"
	"github.com/vh012/wiredaemon/internal/resp/command"
	"github.com/vh012/wiredaemon/internal/resp/store"
	"github.com/vh012/wiredaemon/internal/resp/types"
	"github.com/vh012/wiredaemon/internal/transport"
)

const readChunkSize = 4096

// Server is the RESP TCP listener.
type Server struct {
	listener net.Listener
	store    *store.Store
	logger   *slog.Logger
}

// New binds a TCP listener at addr, serving commands against store.
func New(ctx context.Context, addr string, st *store.Store, logger *slog.Logger) (*Server, error) {
	listener, err := transport.ListenTCP(ctx, addr)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}
	if st == nil {
		st = store.New()
	}

	return &Server{listener: listener, store: st, logger: logger}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	return s.listener.Close()
}

// Serve accepts connections until ctx is canceled or the listener is
// closed. Each connection is handled on its own goroutine; a malformed
// frame or client disconnect on one connection never affects the others.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.logger.Warn("accept failed", "error", err)
			continue
		}

		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	peer := conn.RemoteAddr()
	s.logger.Info("connection accepted", "peer", peer)
	defer s.logger.Info("connection closed", "peer", peer)

	reader := bufio.NewReader(conn)
	decoder := codec.NewDecoder()
	buf := make([]byte, readChunkSize)

	for {
		value, ok, err := decoder.Decode()
		if err != nil {
			s.logger.Warn("malformed request, discarding buffered input", "peer", peer, "error", err)
			decoder = codec.NewDecoder()
			if _, werr := conn.Write(types.Error("ERR " + err.Error()).Encode()); werr != nil {
				s.logger.Warn("failed to write reply", "peer", peer, "error", werr)
				return
			}
			continue
		}
		if !ok {
			n, err := reader.Read(buf)
			if n > 0 {
				decoder.Feed(buf[:n])
			}
			if err != nil {
				return
			}
			continue
		}

		reply := command.Dispatch(s.store, value)

		out, err := codec.Encode(reply)
		if err != nil {
			s.logger.Warn("failed to encode reply", "peer", peer, "error", err)
			return
		}

		if _, err := conn.Write(out); err != nil {
			s.logger.Warn("failed to write reply", "peer", peer, "error", err)
			return
		}
	}
}
