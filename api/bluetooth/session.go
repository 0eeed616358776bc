package bluetooth

import (
	"context"
	"time"
)

// Shell describes a line-oriented Bluetooth control service.
// Implementations never fail on a command: whatever the service printed is returned,
// and an empty string is returned if nothing could be captured.
type Shell interface {
	// Run issues a single command and returns its captured output.
	Run(ctx context.Context, args ...string) string

	// ScanSession listens for advertising devices for the given duration, then
	// stops scanning and returns all output accumulated during the session.
	// A session that does not terminate in time is forcibly ended, and the
	// output captured until then is returned.
	ScanSession(ctx context.Context, duration time.Duration) string
}

// Service describes the host's Bluetooth daemon.
type Service interface {
	// EnsureRunning brings the daemon into the requested state.
	// It does nothing if the daemon is already in that state.
	EnsureRunning(ctx context.Context, active bool) error
}

// PrivilegeGate checks whether the process holds the rights required to
// change the state of the host's Bluetooth stack.
type PrivilegeGate interface {
	Require() error
}
