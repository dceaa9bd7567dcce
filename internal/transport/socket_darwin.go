//go:build darwin

package transport

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// setSocketOptions configures platform-specific socket options for macOS.
// Sets SO_REUSEADDR so a restarted server can rebind a recently-closed
// 127.0.0.1 port without waiting out TIME_WAIT.
func setSocketOptions(fd uintptr) error {
	if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fmt.Errorf("failed to set SO_REUSEADDR: %w", err)
	}

	return nil
}

// getKernelVersion returns empty string on macOS (not applicable).
func getKernelVersion() string {
	return ""
}

// PlatformInfo returns a short platform description for a one-time
// startup log line.
func PlatformInfo() string {
	return "darwin"
}

// platformControl is the macOS net.ListenConfig.Control hook.
func platformControl(_, _ string, c syscall.RawConn) error {
	var sockoptErr error
	err := c.Control(func(fd uintptr) {
		sockoptErr = setSocketOptions(fd)
	})
	if err != nil {
		return fmt.Errorf("raw conn control failed: %w", err)
	}
	return sockoptErr
}

// PlatformControl is the public net.ListenConfig.Control hook used by both
// ListenUDP and ListenTCP.
func PlatformControl(network, address string, c syscall.RawConn) error {
	return platformControl(network, address, c)
}
