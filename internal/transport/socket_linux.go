//go:build linux

package transport

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// setSocketOptions configures platform-specific socket options for Linux.
// Sets SO_REUSEADDR so a restarted server can rebind a recently-closed
// 127.0.0.1 port without waiting out TIME_WAIT.
func setSocketOptions(fd uintptr) error {
	if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fmt.Errorf("failed to set SO_REUSEADDR: %w", err)
	}

	return nil
}

// getKernelVersion returns the Linux kernel version string for logging.
// Format: "6.1.0-1160.el7.x86_64"
func getKernelVersion() string {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return "unknown"
	}

	release := make([]byte, 0, 65)
	for _, b := range uname.Release {
		if b == 0 {
			break
		}
		release = append(release, byte(b))
	}

	return string(release)
}

// PlatformInfo returns a short platform description for a one-time
// startup log line: "linux <kernel version>".
func PlatformInfo() string {
	return "linux " + getKernelVersion()
}

// platformControl is the Linux net.ListenConfig.Control hook.
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
