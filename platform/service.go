package platform

import (
	"context"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/bluetuith-org/bluectl/api/bluetooth"
	"github.com/bluetuith-org/bluectl/api/errorkinds"
	"github.com/rs/zerolog"
)

// unitState is the reduced state of a service unit.
type unitState int

const (
	unitUnknown unitState = iota
	unitRunning
	unitDead
)

func (u unitState) String() string {
	switch u {
	case unitRunning:
		return "active (running)"
	case unitDead:
		return "inactive (dead)"
	}

	return "unknown"
}

// unitManager queries and changes the state of a service unit.
type unitManager interface {
	State(ctx context.Context, unit string) (unitState, error)
	Start(ctx context.Context, unit string) error
	Stop(ctx context.Context, unit string) error
}

// DaemonService manages the Bluetooth daemon's service unit.
type DaemonService struct {
	unit  string
	units unitManager
	gate  bluetooth.PrivilegeGate
	log   zerolog.Logger
}

var _ bluetooth.Service = (*DaemonService)(nil)

// EnsureRunning brings the daemon into the requested state. Privileges are only
// required when the state has to change.
func (d *DaemonService) EnsureRunning(ctx context.Context, active bool) error {
	state, err := d.units.State(ctx, d.unit)
	if err != nil {
		return fault.Wrap(err,
			fctx.With(ctx, "error_at", "service-state", "unit", d.unit),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot query the bluetooth service state"),
		)
	}

	if active && state == unitRunning {
		return nil
	}
	if !active && state == unitDead {
		return nil
	}

	d.log.Debug().
		Str("unit", d.unit).
		Stringer("state", state).
		Bool("active", active).
		Msg("changing bluetooth service state")

	if err := d.gate.Require(); err != nil {
		return err
	}

	change, errorAt, verb := d.units.Start, "service-start", "started"
	if !active {
		change, errorAt, verb = d.units.Stop, "service-stop", "stopped"
	}

	if err := change(ctx, d.unit); err != nil {
		return fault.Wrap(errorkinds.ErrServiceUnavailable,
			fctx.With(ctx, "error_at", errorAt, "unit", d.unit, "cause", err.Error()),
			ftag.With(ftag.Internal),
			fmsg.WithDesc("Cannot change the bluetooth service state",
				"The bluetooth service could not be "+verb+"."),
		)
	}

	return nil
}

// waitForState polls the unit until it reaches the wanted state or the
// timeout expires.
func waitForState(ctx context.Context, units unitManager, unit string, want unitState, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		state, err := units.State(ctx, unit)
		if err == nil && state == want {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
		}
	}
}

// Close releases the connection used to manage the unit, if any.
func (d *DaemonService) Close() error {
	if c, ok := d.units.(interface{ Close() error }); ok {
		return c.Close()
	}

	return nil
}
