// Package bluetoothctl drives the bluetoothctl control shell. Commands are run
// as separate processes, and their output is returned as raw text for the
// output package to interpret.
package bluetoothctl

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/bluetuith-org/bluectl/api/bluetooth"
	"github.com/bluetuith-org/bluectl/api/config"
	"github.com/bluetuith-org/bluectl/api/eventbus"
	"github.com/bluetuith-org/bluectl/bluetoothctl/commands"
	"github.com/rs/zerolog"
)

// Shell runs bluetoothctl commands.
type Shell struct {
	path           string
	commandTimeout time.Duration
	gracePeriod    time.Duration

	log zerolog.Logger
}

var _ bluetooth.Shell = (*Shell)(nil)

// NewShell returns a shell running the bluetoothctl executable named in the configuration.
func NewShell(cfg config.Configuration, log zerolog.Logger) *Shell {
	return &Shell{
		path:           cfg.ControlPath,
		commandTimeout: cfg.CommandTimeout.Duration,
		gracePeriod:    cfg.ScanGracePeriod.Duration,
		log:            log.With().Str("component", "bluetoothctl").Logger(),
	}
}

// Run issues a single command and returns its standard output.
// A command which exits with a non-zero status, or is killed after the command
// timeout, still returns whatever it printed.
func (s *Shell) Run(ctx context.Context, args ...string) string {
	ctx, cancel := context.WithTimeout(ctx, s.commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.path, args...)
	cmd.WaitDelay = s.gracePeriod

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			err = fault.Wrap(err,
				fctx.With(ctx, "error_at", "run-command", "command", strings.Join(args, " ")),
				ftag.With(ftag.Internal),
				fmsg.With("Cannot run bluetoothctl"),
			)
		}

		s.log.Debug().Err(err).Strs("args", args).Msg("command did not complete successfully")
	}

	s.log.Debug().Strs("args", args).Int("bytes", len(out)).Msg("command finished")

	return string(out)
}

// ScanSession starts scanning for devices, waits for the given duration while
// the discovered devices are reported, then stops scanning. If bluetoothctl does
// not exit within the grace period afterwards, it is killed. The output captured
// until then is returned in either case.
func (s *Shell) ScanSession(ctx context.Context, duration time.Duration) string {
	cmd := exec.Command(s.path, commands.StartDiscovery().Slice()...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		s.logScanError(ctx, err, "scan-stdin")
		return ""
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.logScanError(ctx, err, "scan-stdout")
		return ""
	}

	if err := cmd.Start(); err != nil {
		s.logScanError(ctx, err, "scan-start")
		return ""
	}

	reader := newScanReader(stdout)
	go reader.drain()

	eventbus.Publish(eventbus.ScanStarted, eventbus.ScanStartedEvent{Duration: duration.String()})

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	case <-reader.done:
		s.log.Debug().Msg("scan session exited before the scan duration elapsed")
	}

	_, _ = io.WriteString(stdin, commands.StopDiscovery().String()+"\n")
	_ = stdin.Close()

	// Wait only after the output was drained, and bound both by the grace period.
	exited := make(chan struct{})
	go func() {
		defer close(exited)

		<-reader.done
		_ = cmd.Wait()
	}()

	grace := time.NewTimer(s.gracePeriod)
	defer grace.Stop()

	select {
	case <-exited:
	case <-grace.C:
		s.log.Debug().Dur("grace_period", s.gracePeriod).Msg("scan session did not exit, killing it")

		_ = cmd.Process.Kill()
		<-exited
	}

	s.log.Debug().
		Int64("events", reader.events.Value()).
		Int("devices", reader.seen.Size()).
		Msg("scan session finished")

	return reader.String()
}

func (s *Shell) logScanError(ctx context.Context, err error, errorAt string) {
	s.log.Warn().Err(fault.Wrap(err,
		fctx.With(ctx, "error_at", errorAt),
		ftag.With(ftag.Internal),
		fmsg.With("Cannot start a scan session"),
	)).Msg("scan session failed")
}
