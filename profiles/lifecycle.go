package profiles

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/bluetuith-org/bluectl/api/bluetooth"
	"github.com/bluetuith-org/bluectl/api/errorkinds"
	"github.com/bluetuith-org/bluectl/api/eventbus"
	"github.com/bluetuith-org/bluectl/bluetoothctl/commands"
	"github.com/bluetuith-org/bluectl/bluetoothctl/output"
	"github.com/bluetuith-org/bluectl/prompt"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	controllersTitle = "***Available bluetooth controllers***"
	devicesTitle     = "***Available bluetooth devices***"
	scanningMessage  = "Scanning for bluetooth devices..."

	connectHint    = "Is the device powered on and in range?"
	disconnectHint = "Is the device connected?"
)

// Dependencies holds the collaborators of a Lifecycle.
type Dependencies struct {
	Shell     bluetooth.Shell
	Service   bluetooth.Service
	Privilege bluetooth.PrivilegeGate
	Store     *Store
	Prompter  *prompt.Prompter

	// Out receives the messages meant for the operator.
	Out io.Writer

	ScanDuration time.Duration
	Log          zerolog.Logger
}

// Lifecycle creates profiles and connects or disconnects their devices.
type Lifecycle struct {
	shell     bluetooth.Shell
	service   bluetooth.Service
	privilege bluetooth.PrivilegeGate
	store     *Store
	prompt    *prompt.Prompter
	out       io.Writer

	scanDuration time.Duration
	log          zerolog.Logger
}

// DisconnectResult is the outcome of disconnecting one device.
type DisconnectResult struct {
	Device bluetooth.DeviceEntry `json:"device"`
	Output string                `json:"output,omitempty"`
	Err    error                 `json:"-"`
}

// StatusReport lists the devices known to the host that are paired or connected.
type StatusReport struct {
	Paired    []bluetooth.DeviceEntry `json:"paired"`
	Connected []bluetooth.DeviceEntry `json:"connected"`
}

// NewLifecycle returns a Lifecycle using the provided dependencies.
func NewLifecycle(deps Dependencies) *Lifecycle {
	return &Lifecycle{
		shell:        deps.Shell,
		service:      deps.Service,
		privilege:    deps.Privilege,
		store:        deps.Store,
		prompt:       deps.Prompter,
		out:          deps.Out,
		scanDuration: deps.ScanDuration,
		log:          deps.Log,
	}
}

// Create interactively pairs a device with a controller and stores the binding
// as a new profile. If the operator quits at any point, nothing is written and
// an error wrapping errorkinds.ErrCancelled is returned.
func (l *Lifecycle) Create(ctx context.Context) (Profile, error) {
	log := l.operationLog("create")

	if err := l.privilege.Require(); err != nil {
		return Profile{}, err
	}

	l.printf("Creating new bluetooth profile\n\n")

	if err := l.service.EnsureRunning(ctx, true); err != nil {
		return Profile{}, err
	}

	controller, ok := prompt.ConfirmWithRetry(ctx, l.prompt, func() []bluetooth.ControllerEntry {
		return output.ParseControllerList(commands.ListControllers().ExecuteWith(ctx, l.shell))
	}, controllersTitle, "")
	if !ok {
		return Profile{}, cancelled(ctx, "select-controller")
	}

	log.Debug().Stringer("controller", controller).Msg("controller selected")

	commands.SelectController(controller).ExecuteWith(ctx, l.shell)
	commands.SetPoweredState(true).ExecuteWith(ctx, l.shell)
	commands.SetAgentState(true).ExecuteWith(ctx, l.shell)
	commands.DefaultAgent().ExecuteWith(ctx, l.shell)

	device, ok := prompt.ConfirmWithRetry(ctx, l.prompt, func() []bluetooth.DeviceEntry {
		return output.ParseScanEvents(l.shell.ScanSession(ctx, l.scanDuration))
	}, devicesTitle, scanningMessage)
	if !ok {
		return Profile{}, cancelled(ctx, "select-device")
	}

	log.Debug().Stringer("device", device).Msg("device selected")

	if err := l.pair(ctx, device, log); err != nil {
		return Profile{}, err
	}

	name, err := l.askName(ctx)
	if err != nil {
		return Profile{}, err
	}

	profile := Profile{
		Name:       name,
		Controller: controller,
		Device:     device,
	}
	if err := l.store.Save(profile); err != nil {
		return Profile{}, err
	}

	eventbus.Publish(eventbus.ProfileSaved, eventbus.ProfileSavedEvent{
		Name: profile.Name,
		Path: l.store.Path(profile.Name),
	})

	l.printf("\nProfile was successfully created\n\n")

	return profile, nil
}

// pair pairs the device, letting the operator retry for as long as pairing fails.
func (l *Lifecycle) pair(ctx context.Context, device bluetooth.MacAddress, log zerolog.Logger) error {
	for attempt := 1; ; attempt++ {
		l.printf("\nPairing...\n\n")

		out := commands.Pair(device).ExecuteWith(ctx, l.shell)
		succeeded := output.PairingSucceeded(out)

		eventbus.Publish(eventbus.PairAttempt, eventbus.PairingEvent{
			Address:    device,
			Attempt:    attempt,
			Successful: succeeded,
		})

		if succeeded {
			break
		}

		log.Debug().Int("attempt", attempt).Msg("pairing failed")
		l.printf("%s\n", strings.TrimRight(out, "\n"))

		if l.prompt.RetryOrQuit(ctx).Kind == prompt.Quit {
			return fault.Wrap(errorkinds.ErrCancelled,
				fctx.With(ctx, "error_at", "pair", "device", device.String()),
				ftag.With(ftag.Cancelled),
				fmsg.WithDesc(errorkinds.ErrPairingFailed.Error(), "Pairing was not completed, no profile was created."),
			)
		}
	}

	l.printf("%s\n", output.PairingSuccessMarker)

	return nil
}

// askName asks for the name of the new profile until an unused, valid name is given.
func (l *Lifecycle) askName(ctx context.Context) (string, error) {
	l.printf("\n***Create name of new profile***\n")

	for {
		name, ok := l.prompt.Ask(ctx, "Profile name: ")
		if !ok {
			return "", cancelled(ctx, "profile-name")
		}

		if err := ValidateName(name); err != nil {
			l.printf("%s\n", fmsg.GetIssue(err))
			continue
		}

		if l.store.Exists(name) {
			l.printf("Profile '%s' already exists, please choose another name.\n", name)
			continue
		}

		return name, nil
	}
}

// Start connects the device bound by the profile. A failed connection is
// reported to the operator and returned as an error wrapping
// errorkinds.ErrConnectFailed.
func (l *Lifecycle) Start(ctx context.Context, name string) error {
	return l.apply(ctx, name, applyAction{
		operation: "start",
		banner:    "\nStarting bluetooth profile\n\n",
		command:   commands.Connect,
		succeeded: output.ConnectSucceeded,
		failure:   errorkinds.ErrConnectFailed,
		hint:      connectHint,
		success:   "Profile was successfully started\n",
	})
}

// Stop disconnects the device bound by the profile. A failed disconnection is
// reported to the operator and returned as an error wrapping
// errorkinds.ErrDisconnectFailed.
func (l *Lifecycle) Stop(ctx context.Context, name string) error {
	return l.apply(ctx, name, applyAction{
		operation: "stop",
		banner:    "\nStopping bluetooth profile\n\n",
		command:   commands.Disconnect,
		succeeded: output.DisconnectSucceeded,
		failure:   errorkinds.ErrDisconnectFailed,
		hint:      disconnectHint,
		success:   "Profile was successfully stopped\n",
	})
}

// applyAction describes how a profile is applied to its device.
type applyAction struct {
	operation string
	banner    string
	command   func(bluetooth.MacAddress) *commands.Command
	succeeded func(string) bool
	failure   error
	hint      string
	success   string
}

func (l *Lifecycle) apply(ctx context.Context, name string, action applyAction) error {
	log := l.operationLog(action.operation).With().Str("profile", name).Logger()

	if err := l.privilege.Require(); err != nil {
		return err
	}

	if err := l.service.EnsureRunning(ctx, true); err != nil {
		return err
	}

	profile, err := l.store.Load(name)
	if err != nil {
		return err
	}

	l.printf("%s", action.banner)

	commands.SelectController(profile.Controller).ExecuteWith(ctx, l.shell)
	commands.SetPoweredState(true).ExecuteWith(ctx, l.shell)

	out := action.command(profile.Device).ExecuteWith(ctx, l.shell)
	if !action.succeeded(out) {
		log.Debug().Stringer("device", profile.Device).Msg("device did not respond with the success marker")

		l.printf("%s\n%s\n\n", out, action.hint)

		return fault.Wrap(action.failure,
			fctx.With(ctx, "error_at", action.operation, "profile", name, "device", profile.Device.String()),
			ftag.With(ftag.Internal),
			fmsg.WithDesc(action.failure.Error(), action.hint),
		)
	}

	l.printf("%s\n", action.success)

	return nil
}

// StopAll disconnects every connected device. A device which fails to
// disconnect is reported, and the remaining devices are still disconnected.
func (l *Lifecycle) StopAll(ctx context.Context) ([]DisconnectResult, error) {
	log := l.operationLog("stop-all")

	if err := l.privilege.Require(); err != nil {
		return nil, err
	}

	report, err := l.Status(ctx)
	if err != nil {
		return nil, err
	}

	l.printf("\nStopping bluetooth profiles\n\n")

	if len(report.Connected) == 0 {
		return nil, nil
	}

	commands.SetPoweredState(true).ExecuteWith(ctx, l.shell)

	results := make([]DisconnectResult, 0, len(report.Connected))
	for _, device := range report.Connected {
		result := DisconnectResult{Device: device}

		result.Output = commands.Disconnect(device.Address).ExecuteWith(ctx, l.shell)
		if output.DisconnectSucceeded(result.Output) {
			l.printf("Device %s was successfully stopped\n\n", device.Label)
		} else {
			log.Debug().Stringer("device", device.Address).Msg("device did not disconnect")

			l.printf("%s\n%s\n\n", result.Output, disconnectHint)
			result.Err = fault.Wrap(errorkinds.ErrDisconnectFailed,
				fctx.With(ctx, "error_at", "stop-all", "device", device.Address.String()),
				ftag.With(ftag.Internal),
				fmsg.WithDesc(errorkinds.ErrDisconnectFailed.Error(), disconnectHint),
			)
		}

		results = append(results, result)
	}

	return results, nil
}

// Status returns the devices known to the host which are paired or connected.
// It does not change any state, other than starting the bluetooth service if needed.
func (l *Lifecycle) Status(ctx context.Context) (StatusReport, error) {
	var report StatusReport

	if err := l.service.EnsureRunning(ctx, true); err != nil {
		return report, err
	}

	devices := output.ParseDeviceList(commands.ListDevices().ExecuteWith(ctx, l.shell))
	for _, device := range devices {
		info := commands.DeviceInfo(device.Address).ExecuteWith(ctx, l.shell)

		if output.StatusFlag(info, output.PairedFlag) {
			report.Paired = append(report.Paired, device)
		}
		if output.StatusFlag(info, output.ConnectedFlag) {
			report.Connected = append(report.Connected, device)
		}
	}

	return report, nil
}

// List returns every stored profile.
func (l *Lifecycle) List() ([]Listing, error) {
	return l.store.List()
}

// Summary formats the report as it is shown to the operator.
func (r StatusReport) Summary() string {
	return fmt.Sprintf("\nConnected devices: %s \n\nPaired devices: %s \n\n",
		summarize(r.Connected), summarize(r.Paired),
	)
}

func summarize(devices []bluetooth.DeviceEntry) string {
	if len(devices) == 0 {
		return "None"
	}

	names := make([]string, 0, len(devices))
	for _, device := range devices {
		names = append(names, device.Label+" ("+device.Address.String()+")")
	}

	return strings.Join(names, ", ")
}

func (l *Lifecycle) operationLog(operation string) zerolog.Logger {
	return l.log.With().
		Str("operation", operation).
		Str("operation_id", uuid.NewString()).
		Logger()
}

func (l *Lifecycle) printf(format string, a ...any) {
	fmt.Fprintf(l.out, format, a...)
}

func cancelled(ctx context.Context, errorAt string) error {
	return fault.Wrap(errorkinds.ErrCancelled,
		fctx.With(ctx, "error_at", errorAt),
		ftag.With(ftag.Cancelled),
		fmsg.WithDesc("cancelled", "No profile was created."),
	)
}
