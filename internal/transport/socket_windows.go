//go:build windows

package transport

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/windows"
)

// setSocketOptions configures platform-specific socket options for Windows.
// Windows SO_REUSEADDR semantics differ from POSIX (it permits rebinding a
// recently-closed port across processes), but it is the only lever
// available here.
func setSocketOptions(fd uintptr) error {
	if err := windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1); err != nil {
		return fmt.Errorf("failed to set SO_REUSEADDR: %w", err)
	}

	return nil
}

// getKernelVersion returns empty string on Windows (not applicable).
func getKernelVersion() string {
	return ""
}

// PlatformInfo returns a short platform description for a one-time
// startup log line.
func PlatformInfo() string {
	return "windows"
}

// platformControl is the Windows net.ListenConfig.Control hook.
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
