package transport

import (
	"context"
	"fmt"
	"net"

	"github.com/vh012/wiredaemon/internal/errors"
)

// ListenTCP binds a TCP listener at addr, applying the same
// PlatformControl socket options as ListenUDP so the RESP server can
// rebind immediately after a restart.
func ListenTCP(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{Control: PlatformControl}

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, &errors.NetworkError{
			Operation: "bind TCP socket",
			Err:       err,
			Details:   fmt.Sprintf("failed to bind %s", addr),
		}
	}

	return ln, nil
}
