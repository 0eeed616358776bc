package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bluetuith-org/bluectl/api/errorkinds"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUnits struct {
	state    unitState
	stateErr error
	startErr error
	stopErr  error

	started, stopped int
}

func (f *fakeUnits) State(context.Context, string) (unitState, error) {
	return f.state, f.stateErr
}

func (f *fakeUnits) Start(context.Context, string) error {
	f.started++
	if f.startErr == nil {
		f.state = unitRunning
	}

	return f.startErr
}

func (f *fakeUnits) Stop(context.Context, string) error {
	f.stopped++
	if f.stopErr == nil {
		f.state = unitDead
	}

	return f.stopErr
}

func newTestService(units *fakeUnits, euid int) *DaemonService {
	return &DaemonService{
		unit:  "bluetooth.service",
		units: units,
		gate:  &RootGate{euid: func() int { return euid }},
		log:   zerolog.Nop(),
	}
}

func TestEnsureRunningAlreadyInState(t *testing.T) {
	units := &fakeUnits{state: unitRunning}

	// No privileges are needed when nothing changes.
	require.NoError(t, newTestService(units, 1000).EnsureRunning(context.Background(), true))
	assert.Zero(t, units.started)

	units.state = unitDead
	require.NoError(t, newTestService(units, 1000).EnsureRunning(context.Background(), false))
	assert.Zero(t, units.stopped)
}

func TestEnsureRunningStartsService(t *testing.T) {
	for _, state := range []unitState{unitDead, unitUnknown} {
		units := &fakeUnits{state: state}

		require.NoError(t, newTestService(units, 0).EnsureRunning(context.Background(), true))
		assert.Equal(t, 1, units.started)
		assert.Equal(t, unitRunning, units.state)
	}
}

func TestEnsureRunningStopsService(t *testing.T) {
	units := &fakeUnits{state: unitRunning}

	require.NoError(t, newTestService(units, 0).EnsureRunning(context.Background(), false))
	assert.Equal(t, 1, units.stopped)
}

func TestEnsureRunningRequiresPrivilegeToChange(t *testing.T) {
	units := &fakeUnits{state: unitDead}

	err := newTestService(units, 1000).EnsureRunning(context.Background(), true)
	assert.ErrorIs(t, err, errorkinds.ErrPrivilege)
	assert.Zero(t, units.started)
}

func TestEnsureRunningFailures(t *testing.T) {
	units := &fakeUnits{state: unitDead, startErr: errors.New("unit not found")}

	err := newTestService(units, 0).EnsureRunning(context.Background(), true)
	assert.ErrorIs(t, err, errorkinds.ErrServiceUnavailable)

	queryErr := errors.New("bus closed")
	units = &fakeUnits{stateErr: queryErr}

	err = newTestService(units, 0).EnsureRunning(context.Background(), true)
	assert.ErrorIs(t, err, queryErr)
	assert.Zero(t, units.started)
}

func TestWaitForState(t *testing.T) {
	units := &fakeUnits{state: unitRunning}
	require.NoError(t, waitForState(context.Background(), units, "bluetooth.service", unitRunning, time.Second))

	units.state = unitDead
	err := waitForState(context.Background(), units, "bluetooth.service", unitRunning, 150*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParseSystemctlStatus(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want unitState
	}{
		{
			name: "running",
			out: "● bluetooth.service - Bluetooth service\n" +
				"     Loaded: loaded (/lib/systemd/system/bluetooth.service; enabled)\n" +
				"     Active: active (running) since Mon 2024-01-01 10:00:00 UTC; 1h ago\n",
			want: unitRunning,
		},
		{
			name: "dead",
			out: "○ bluetooth.service - Bluetooth service\n" +
				"     Active: inactive (dead)\n",
			want: unitDead,
		},
		{
			name: "unknown",
			out:  "Unit bluetooth.service could not be found.\n",
			want: unitUnknown,
		},
		{
			name: "empty",
			want: unitUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSystemctlStatus(tt.out))
		})
	}
}

func TestRootGate(t *testing.T) {
	assert.NoError(t, (&RootGate{euid: func() int { return 0 }}).Require())

	err := (&RootGate{euid: func() int { return 1000 }}).Require()
	assert.ErrorIs(t, err, errorkinds.ErrPrivilege)
}

func TestCloseWithoutConnection(t *testing.T) {
	assert.NoError(t, newTestService(&fakeUnits{}, 0).Close())
}
