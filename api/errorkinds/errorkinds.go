// Package errorkinds holds the sentinel errors shared by every bluectl package.
// Errors returned by the other packages wrap one of these, so callers classify
// them with errors.Is.
package errorkinds

import "errors"

var (
	ErrPrivilege          = errors.New("root privileges are required")
	ErrServiceUnavailable = errors.New("bluetooth service is unavailable")
	ErrNotSupported       = errors.New("not supported on this platform")

	ErrProfileNotFound    = errors.New("profile does not exist")
	ErrProfileCorrupted   = errors.New("profile is corrupted")
	ErrProfileExists      = errors.New("profile already exists")
	ErrInvalidProfileName = errors.New("invalid profile name")
	ErrInvalidAddress     = errors.New("invalid bluetooth address")

	ErrPairingFailed    = errors.New("pairing failed")
	ErrConnectFailed    = errors.New("connection failed")
	ErrDisconnectFailed = errors.New("disconnection failed")

	ErrCancelled = errors.New("operation cancelled by user")
)
