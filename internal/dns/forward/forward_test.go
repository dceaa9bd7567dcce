package forward

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/vh012/wiredaemon/internal/dns/message"
	"github.com/vh012/wiredaemon/internal/dns/protocol"
	"github.com/vh012/wiredaemon/internal/transport"
)

// fakeUpstream answers every question it receives with a single A record,
// standing in for a real resolver.
func fakeUpstream(t *testing.T) (net.PacketConn, net.Addr) {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 512)
		for {
			n, addr, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}

			req, err := message.DecodeRequest(buf[:n])
			if err != nil {
				continue
			}

			rr, err := message.NewARecord(req.Questions[0].Name, 60, "9.9.9.9")
			if err != nil {
				continue
			}

			resp := &message.Message{
				Header: message.Header{
					ID:      req.Header.ID,
					QR:      true,
					QDCount: 1,
					ANCount: 1,
				},
				Questions: req.Questions,
				Answers:   []message.RR{rr},
			}

			out, err := resp.Encode()
			if err != nil {
				continue
			}
			conn.WriteTo(out, addr)
		}
	}()

	return conn, conn.LocalAddr()
}

func TestForwardMergesRepliesForEachSubQuery(t *testing.T) {
	_, upstreamAddr := fakeUpstream(t)

	ctx := context.Background()
	conn, err := transport.ListenUDP(ctx, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenUDP() error = %v", err)
	}
	defer conn.Close()

	dispatcher := NewDispatcher(conn, 2*time.Second)

	query := &message.Message{
		Header: message.Header{ID: 321, Opcode: protocol.OpcodeQuery, RD: true, QDCount: 2},
		Questions: []message.Question{
			{Name: "one.test", Type: protocol.QTypeA, Class: protocol.ClassIN},
			{Name: "two.test", Type: protocol.QTypeA, Class: protocol.ClassIN},
		},
	}

	resp, err := dispatcher.Forward(ctx, query, upstreamAddr)
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}

	if len(resp.Answers) != 2 {
		t.Fatalf("len(Answers) = %d, want 2", len(resp.Answers))
	}
	if resp.Header.ID != query.Header.ID {
		t.Errorf("Header.ID = %d, want %d", resp.Header.ID, query.Header.ID)
	}
	names := map[string]bool{}
	for _, ans := range resp.Answers {
		names[ans.Name] = true
	}
	if !names["one.test"] || !names["two.test"] {
		t.Errorf("Answers = %+v, missing expected names", resp.Answers)
	}
}

func TestForwardTimesOutWithNoUpstream(t *testing.T) {
	ctx := context.Background()
	conn, err := transport.ListenUDP(ctx, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenUDP() error = %v", err)
	}
	defer conn.Close()

	// Nothing is listening on this address: upstream never replies.
	deadConn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket() error = %v", err)
	}
	deadAddr := deadConn.LocalAddr()
	deadConn.Close()

	dispatcher := NewDispatcher(conn, 100*time.Millisecond)

	query := &message.Message{
		Header:    message.Header{ID: 1, Opcode: protocol.OpcodeQuery, QDCount: 1},
		Questions: []message.Question{{Name: "timeout.test", Type: protocol.QTypeA, Class: protocol.ClassIN}},
	}

	_, err = dispatcher.Forward(ctx, query, deadAddr)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

func TestForwardSkipsMismatchedTransactionID(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 512)
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			return
		}

		req, err := message.DecodeRequest(buf[:n])
		if err != nil {
			return
		}

		// First reply with a stray, mismatched ID that must be skipped.
		wrongID := &message.Message{
			Header:    message.Header{ID: req.Header.ID + 1, QR: true, QDCount: 1},
			Questions: req.Questions,
		}
		out, _ := wrongID.Encode()
		conn.WriteTo(out, addr)

		rr, _ := message.NewARecord(req.Questions[0].Name, 60, "1.1.1.1")
		right := &message.Message{
			Header:    message.Header{ID: req.Header.ID, QR: true, QDCount: 1, ANCount: 1},
			Questions: req.Questions,
			Answers:   []message.RR{rr},
		}
		out, _ = right.Encode()
		conn.WriteTo(out, addr)
	}()

	ctx := context.Background()
	dispatcherConn, err := transport.ListenUDP(ctx, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenUDP() error = %v", err)
	}
	defer dispatcherConn.Close()

	dispatcher := NewDispatcher(dispatcherConn, 2*time.Second)

	query := &message.Message{
		Header:    message.Header{ID: 7, Opcode: protocol.OpcodeQuery, QDCount: 1},
		Questions: []message.Question{{Name: "skip.test", Type: protocol.QTypeA, Class: protocol.ClassIN}},
	}

	resp, err := dispatcher.Forward(ctx, query, conn.LocalAddr())
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if len(resp.Answers) != 1 || resp.Answers[0].Name != "skip.test" {
		t.Errorf("Answers = %+v, want one answer for skip.test", resp.Answers)
	}
}
