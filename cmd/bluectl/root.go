package main

import (
	"io"
	"time"

	"github.com/bluetuith-org/bluectl/api/bluetooth"
	"github.com/bluetuith-org/bluectl/api/config"
	"github.com/bluetuith-org/bluectl/bluetoothctl"
	"github.com/bluetuith-org/bluectl/platform"
	"github.com/bluetuith-org/bluectl/profiles"
	"github.com/bluetuith-org/bluectl/prompt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds the state shared by all subcommands.
type app struct {
	configPath   string
	profileDir   string
	controlPath  string
	scanDuration time.Duration
	verbose      bool

	cfg       config.Configuration
	log       zerolog.Logger
	info      platform.PlatformInfo
	service   bluetooth.Service
	lifecycle *profiles.Lifecycle
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "bluectl",
		Short: "Manage profiles of bluetooth devices",
		Long: "This utility allows managing profiles of bluetooth devices as well as connecting them\n" +
			"to a bluetooth adapter. Functionality is based on the bluetoothctl tool.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a TOML configuration file")
	flags.StringVar(&a.profileDir, "profile-dir", config.DefaultProfileDir, "directory holding the profiles")
	flags.StringVar(&a.controlPath, "bluetoothctl", config.DefaultControlPath, "path to the bluetoothctl executable")
	flags.DurationVar(&a.scanDuration, "scan-duration", config.DefaultScanDuration, "how long to scan for devices")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.createCommand(),
		a.startCommand(),
		a.stopCommand(),
		a.stopAllCommand(),
		a.statusCommand(),
		a.listCommand(),
		a.versionCommand(),
	)

	return root
}

// setup loads the configuration and builds the lifecycle.
// Flags given on the command line take precedence over the configuration file
// and the environment.
func (a *app) setup(cmd *cobra.Command) error {
	a.log = newLogger(cmd.ErrOrStderr(), a.verbose)

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("profile-dir") {
		cfg.ProfileDir = a.profileDir
	}
	if flags.Changed("bluetoothctl") {
		cfg.ControlPath = a.controlPath
	}
	if flags.Changed("scan-duration") {
		cfg.ScanDuration.Duration = a.scanDuration
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg

	gate := platform.NewRootGate()
	a.service, a.info = platform.Session(cfg, gate, a.log)

	a.lifecycle = profiles.NewLifecycle(profiles.Dependencies{
		Shell:        bluetoothctl.NewShell(cfg, a.log),
		Service:      a.service,
		Privilege:    gate,
		Store:        profiles.NewStore(cfg.ProfileDir, a.log),
		Prompter:     prompt.New(cmd.InOrStdin(), cmd.OutOrStdout()),
		Out:          cmd.OutOrStdout(),
		ScanDuration: cfg.ScanDuration.Duration,
		Log:          a.log,
	})

	a.log.Debug().
		Str("profile_dir", cfg.ProfileDir).
		Str("bluetoothctl", cfg.ControlPath).
		Dur("scan_duration", cfg.ScanDuration.Duration).
		Msg("configuration loaded")

	return nil
}

func (a *app) close() {
	if c, ok := a.service.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.log.Debug().Err(err).Msg("cannot close the service connection")
		}
	}
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
