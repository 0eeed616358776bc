//go:build linux

package platform

import (
	"github.com/bluetuith-org/bluectl/api/bluetooth"
	"github.com/bluetuith-org/bluectl/api/config"
	"github.com/rs/zerolog"
)

// Session returns the platform-specific daemon service handler.
// The service is managed over D-Bus when the system bus is reachable,
// and through systemctl otherwise.
func Session(cfg config.Configuration, gate bluetooth.PrivilegeGate, log zerolog.Logger) (bluetooth.Service, PlatformInfo) {
	var units unitManager

	manager := SystemdBus
	if systemd, err := newSystemdUnits(); err == nil {
		units = systemd
	} else {
		log.Debug().Err(err).Msg("system bus unavailable, falling back to systemctl")

		units = &systemctlUnits{path: "systemctl"}
		manager = Systemctl
	}

	return &DaemonService{
		unit:  cfg.ServiceUnit,
		units: units,
		gate:  gate,
		log:   log,
	}, NewPlatformInfo(BluezStack, manager, cfg.ServiceUnit)
}
