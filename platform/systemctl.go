package platform

import (
	"context"
	"os/exec"
	"strings"
)

// systemctlUnits manages units by running systemctl and scraping its output.
// It is used when the system bus cannot be reached.
type systemctlUnits struct {
	path string
}

// State returns the unit's state as printed by "systemctl status".
func (s *systemctlUnits) State(ctx context.Context, unit string) (unitState, error) {
	// systemctl exits with a non-zero status for inactive units,
	// so only a failure to start the process is an error.
	out, err := exec.CommandContext(ctx, s.path, "status", unit).Output()
	if err != nil && len(out) == 0 {
		if _, ok := err.(*exec.ExitError); !ok {
			return unitUnknown, err
		}
	}

	return parseSystemctlStatus(string(out)), nil
}

// Start runs "systemctl start" for the unit.
func (s *systemctlUnits) Start(ctx context.Context, unit string) error {
	return exec.CommandContext(ctx, s.path, "start", unit).Run()
}

// Stop runs "systemctl stop" for the unit.
func (s *systemctlUnits) Stop(ctx context.Context, unit string) error {
	return exec.CommandContext(ctx, s.path, "stop", unit).Run()
}

func parseSystemctlStatus(out string) unitState {
	switch {
	case strings.Contains(out, unitRunning.String()):
		return unitRunning

	case strings.Contains(out, unitDead.String()):
		return unitDead
	}

	return unitUnknown
}
