//go:build !linux

package platform

import (
	"context"

	"github.com/bluetuith-org/bluectl/api/bluetooth"
	"github.com/bluetuith-org/bluectl/api/config"
	"github.com/bluetuith-org/bluectl/api/errorkinds"
	"github.com/rs/zerolog"
)

type unsupportedService struct{}

// EnsureRunning always fails, since bluetoothctl is only available on Linux.
func (unsupportedService) EnsureRunning(context.Context, bool) error {
	return errorkinds.ErrNotSupported
}

// Session returns the platform-specific daemon service handler.
func Session(cfg config.Configuration, _ bluetooth.PrivilegeGate, _ zerolog.Logger) (bluetooth.Service, PlatformInfo) {
	return unsupportedService{}, NewPlatformInfo(NoStack, NoManager, cfg.ServiceUnit)
}
