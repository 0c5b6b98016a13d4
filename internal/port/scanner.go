// Package port implements the pre-flight port availability check used
// before binding the dashboard server or publishing a container port.
//
// Failing fast with a dedicated exit code beats letting the bind (or the
// container start) fail later with a less actionable error.
package port

import (
	"fmt"
	"net"
)

// Scanner checks whether TCP ports are available on the host machine.
//
// It asks the operating system directly via net.Listen, which is more
// reliable than parsing /proc/net/* and needs no elevated permissions.
// The struct is stateless; it exists so a bind address option can be
// added later and so callers can inject it in tests.
type Scanner struct{}

// NewScanner creates a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsAvailable reports whether a TCP port is free.
//
// It binds to all interfaces (":port" rather than "127.0.0.1:port")
// because both the dashboard server and Docker publish on 0.0.0.0, so
// the check must cover the same address space.
func (s *Scanner) IsAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	_ = listener.Close()
	return true
}

// Check returns a descriptive error when the port is taken or out of
// range, and nil when it is free.
func (s *Scanner) Check(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range (1-65535)", port)
	}
	if !s.IsAvailable(port) {
		return fmt.Errorf("port %d is already in use", port)
	}
	return nil
}
