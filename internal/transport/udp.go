// Package transport provides socket bring-up shared by the DNS and RESP
// servers: platform socket options, buffer pooling, and context-aware
// send/receive wrappers around the standard library's net package.
package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/vh012/wiredaemon/internal/errors"
)

// UDPTransport wraps a unicast UDP socket with context-aware Send/Receive.
//
// Unlike a multicast responder, a DNS forwarder and its resolver socket are
// point-to-point: one listener per address, no group join.
type UDPTransport struct {
	conn net.PacketConn
}

// ListenUDP binds a unicast UDP socket at addr (e.g. "127.0.0.1:2053"),
// applying SO_REUSEADDR via PlatformControl so a restarted server can
// rebind a recently-closed port without waiting out TIME_WAIT.
func ListenUDP(ctx context.Context, addr string) (*UDPTransport, error) {
	lc := net.ListenConfig{Control: PlatformControl}

	conn, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		return nil, &errors.NetworkError{
			Operation: "bind UDP socket",
			Err:       err,
			Details:   fmt.Sprintf("failed to bind %s", addr),
		}
	}

	return &UDPTransport{conn: conn}, nil
}

// Send transmits a packet to dest, respecting context cancellation.
func (t *UDPTransport) Send(ctx context.Context, packet []byte, dest net.Addr) error {
	select {
	case <-ctx.Done():
		return &errors.NetworkError{
			Operation: "send datagram",
			Err:       ctx.Err(),
			Details:   "context canceled before send",
		}
	default:
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := t.conn.SetWriteDeadline(deadline); err != nil {
			return &errors.NetworkError{
				Operation: "set write deadline",
				Err:       err,
				Details:   fmt.Sprintf("failed to set deadline %v", deadline),
			}
		}
	}

	n, err := t.conn.WriteTo(packet, dest)
	if err != nil {
		return &errors.NetworkError{
			Operation: "send datagram",
			Err:       err,
			Details:   fmt.Sprintf("failed to send %d bytes to %s", len(packet), dest),
		}
	}

	if n != len(packet) {
		return &errors.NetworkError{
			Operation: "send datagram",
			Err:       fmt.Errorf("partial write: %d/%d bytes", n, len(packet)),
			Details:   "incomplete transmission",
		}
	}

	return nil
}

// Receive waits for an incoming packet, respecting context cancellation and
// deadline. A deadline on ctx bounds how long Receive will block, which is
// what lets a forwarding dispatcher give up on a silent upstream instead of
// leaking a goroutine per unanswered sub-request.
func (t *UDPTransport) Receive(ctx context.Context) ([]byte, net.Addr, error) {
	select {
	case <-ctx.Done():
		return nil, nil, &errors.NetworkError{
			Operation: "receive datagram",
			Err:       ctx.Err(),
			Details:   "context canceled before receive",
		}
	default:
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := t.conn.SetReadDeadline(deadline); err != nil {
			return nil, nil, &errors.NetworkError{
				Operation: "set read deadline",
				Err:       err,
				Details:   fmt.Sprintf("failed to set deadline %v", deadline),
			}
		}
	} else {
		// Clear any deadline left over from a previous call.
		_ = t.conn.SetReadDeadline(time.Time{})
	}

	bufPtr := GetBuffer()
	defer PutBuffer(bufPtr)

	buffer := *bufPtr

	n, srcAddr, err := t.conn.ReadFrom(buffer)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, nil, &errors.NetworkError{
				Operation: "receive datagram",
				Err:       err,
				Details:   "timeout",
			}
		}

		return nil, nil, &errors.NetworkError{
			Operation: "receive datagram",
			Err:       err,
			Details:   "failed to read from socket",
		}
	}

	result := make([]byte, n)
	copy(result, buffer[:n])
	return result, srcAddr, nil
}

// LocalAddr returns the address the socket is bound to.
func (t *UDPTransport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

// Close releases the socket.
func (t *UDPTransport) Close() error {
	if t.conn == nil {
		return nil
	}

	if err := t.conn.Close(); err != nil {
		return &errors.NetworkError{
			Operation: "close socket",
			Err:       err,
			Details:   "failed to close UDP connection",
		}
	}

	return nil
}
