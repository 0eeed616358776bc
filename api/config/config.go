package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
)

const (
	// The default directory holding profile files.
	DefaultProfileDir = "/etc/bluectl"

	// The default control service executable.
	DefaultControlPath = "bluetoothctl"

	// The default systemd unit of the Bluetooth daemon.
	DefaultServiceUnit = "bluetooth.service"

	// The default duration of a scan session.
	DefaultScanDuration = 10 * time.Second

	// The default time a scan session is given to exit after scanning is stopped.
	DefaultScanGracePeriod = 3 * time.Second

	// The default timeout for a single control service command.
	DefaultCommandTimeout = 60 * time.Second
)

// Environment variables that override the defaults.
const (
	EnvProfileDir  = "BLUECTL_PROFILE_DIR"
	EnvControlPath = "BLUECTL_BLUETOOTHCTL"
)

// Configuration describes a general configuration.
type Configuration struct {
	// ProfileDir holds the directory where profiles are stored, one file per profile.
	ProfileDir string `toml:"profile_dir"`

	// ControlPath holds the path to the control service executable.
	ControlPath string `toml:"bluetoothctl"`

	// ServiceUnit holds the name of the Bluetooth daemon's unit.
	ServiceUnit string `toml:"service_unit"`

	// ScanDuration holds how long a scan session listens for devices.
	ScanDuration Duration `toml:"scan_duration"`

	// ScanGracePeriod holds how long a stopped scan session may take to exit
	// before it is killed.
	ScanGracePeriod Duration `toml:"scan_grace_period"`

	// CommandTimeout holds the timeout for a single command.
	CommandTimeout Duration `toml:"command_timeout"`
}

// Duration is a time.Duration which is decoded from strings like "10s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = v

	return nil
}

// MarshalText formats a duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// New returns a new configuration with the default values.
func New() Configuration {
	return Configuration{
		ProfileDir:      DefaultProfileDir,
		ControlPath:     DefaultControlPath,
		ServiceUnit:     DefaultServiceUnit,
		ScanDuration:    Duration{DefaultScanDuration},
		ScanGracePeriod: Duration{DefaultScanGracePeriod},
		CommandTimeout:  Duration{DefaultCommandTimeout},
	}
}

// Load returns the default configuration, overlaid with the values from the
// TOML file at path (if path is not empty) and then with the environment.
func Load(path string) (Configuration, error) {
	cfg := New()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fault.Wrap(err, fmsg.With("Cannot read configuration file "+path))
		}
	}

	cfg.applyEnv()

	err := cfg.Validate()

	return cfg, err
}

// Validate checks that the configuration can be used.
func (c *Configuration) Validate() error {
	switch {
	case c.ProfileDir == "":
		return fault.New("profile directory is not set", fmsg.With("The profile directory must not be empty"))

	case c.ControlPath == "":
		return fault.New("control path is not set", fmsg.With("The bluetoothctl path must not be empty"))

	case c.ScanDuration.Duration <= 0:
		return fault.New("scan duration is not positive", fmsg.With("The scan duration must be positive"))
	}

	if c.ServiceUnit == "" {
		c.ServiceUnit = DefaultServiceUnit
	}
	if c.ScanGracePeriod.Duration <= 0 {
		c.ScanGracePeriod.Duration = DefaultScanGracePeriod
	}
	if c.CommandTimeout.Duration <= 0 {
		c.CommandTimeout.Duration = DefaultCommandTimeout
	}

	return nil
}

func (c *Configuration) applyEnv() {
	if dir := os.Getenv(EnvProfileDir); dir != "" {
		c.ProfileDir = dir
	}
	if path := os.Getenv(EnvControlPath); path != "" {
		c.ControlPath = path
	}
}
