//go:build linux

package platform

import (
	"context"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	systemdBusName     = "org.freedesktop.systemd1"
	systemdPath        = "/org/freedesktop/systemd1"
	systemdManager     = "org.freedesktop.systemd1.Manager"
	systemdUnitIface   = "org.freedesktop.systemd1.Unit"
	systemdJobMode     = "replace"
	systemdStateSettle = 5 * time.Second
)

// systemdUnits manages units through systemd's D-Bus API.
type systemdUnits struct {
	conn *dbus.Conn
}

// newSystemdUnits connects to the system bus.
func newSystemdUnits() (*systemdUnits, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, err
	}

	return &systemdUnits{conn: conn}, nil
}

// State returns the unit's state, reduced to running, dead or unknown.
func (s *systemdUnits) State(ctx context.Context, unit string) (unitState, error) {
	var unitPath dbus.ObjectPath

	manager := s.conn.Object(systemdBusName, systemdPath)
	if err := manager.CallWithContext(ctx, systemdManager+".LoadUnit", 0, unit).Store(&unitPath); err != nil {
		return unitUnknown, err
	}

	obj := s.conn.Object(systemdBusName, unitPath)

	active, err := obj.GetProperty(systemdUnitIface + ".ActiveState")
	if err != nil {
		return unitUnknown, err
	}
	sub, err := obj.GetProperty(systemdUnitIface + ".SubState")
	if err != nil {
		return unitUnknown, err
	}

	activeState, _ := active.Value().(string)
	subState, _ := sub.Value().(string)

	switch {
	case activeState == "active" && subState == "running":
		return unitRunning, nil

	case activeState == "inactive" && subState == "dead":
		return unitDead, nil
	}

	return unitUnknown, nil
}

// Start queues a start job for the unit and waits for it to be running.
func (s *systemdUnits) Start(ctx context.Context, unit string) error {
	if err := s.call(ctx, "StartUnit", unit); err != nil {
		return err
	}

	return waitForState(ctx, s, unit, unitRunning, systemdStateSettle)
}

// Stop queues a stop job for the unit and waits for it to be dead.
func (s *systemdUnits) Stop(ctx context.Context, unit string) error {
	if err := s.call(ctx, "StopUnit", unit); err != nil {
		return err
	}

	return waitForState(ctx, s, unit, unitDead, systemdStateSettle)
}

func (s *systemdUnits) call(ctx context.Context, method, unit string) error {
	var job dbus.ObjectPath

	manager := s.conn.Object(systemdBusName, systemdPath)
	return manager.CallWithContext(ctx, systemdManager+"."+method, 0, unit, systemdJobMode).Store(&job)
}

// Close closes the bus connection.
func (s *systemdUnits) Close() error {
	return s.conn.Close()
}
