// Package profiles stores named bindings of a controller to a device, and
// implements the operations that create and apply them.
package profiles

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/bluetuith-org/bluectl/api/bluetooth"
	"github.com/bluetuith-org/bluectl/api/errorkinds"
)

// Keys of a profile record.
const (
	controllerKey = "Controller="
	deviceKey     = "Device="
	nameKey       = "Name="
)

// Profile binds a local controller to a remote device under a name.
type Profile struct {
	Name       string               `json:"name"`
	Controller bluetooth.MacAddress `json:"controller"`
	Device     bluetooth.MacAddress `json:"device"`
}

// Validate checks the profile's name and both of its addresses.
func (p Profile) Validate() error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}

	for _, addr := range []bluetooth.MacAddress{p.Controller, p.Device} {
		if !addr.IsValid() {
			return fault.Wrap(errorkinds.ErrInvalidAddress,
				ftag.With(ftag.InvalidArgument),
				fmsg.WithDesc("invalid address "+addr.String(),
					"'"+addr.String()+"' is not a valid bluetooth address."),
			)
		}
	}

	return nil
}

// MarshalText encodes the profile as newline-terminated key=value lines.
func (p Profile) MarshalText() ([]byte, error) {
	var b bytes.Buffer

	b.WriteString(controllerKey + p.Controller.String() + "\n")
	b.WriteString(deviceKey + p.Device.String() + "\n")
	b.WriteString(nameKey + p.Name + "\n")

	return b.Bytes(), nil
}

// parseProfile decodes a profile record. The record is rejected as a whole
// if either address is missing or malformed.
func parseProfile(name string, data []byte) (Profile, error) {
	var controller, device bluetooth.MacAddress

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if v, ok := strings.CutPrefix(line, controllerKey); ok {
			controller = bluetooth.MacAddress(v)
			continue
		}
		if v, ok := strings.CutPrefix(line, deviceKey); ok {
			device = bluetooth.MacAddress(v)
		}
	}

	if err := scanner.Err(); err != nil || !controller.IsValid() || !device.IsValid() {
		return Profile{}, fault.Wrap(errorkinds.ErrProfileCorrupted,
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc("profile "+name+" has malformed addresses",
				"Profile file is corrupted. Please remove and create this profile again."),
		)
	}

	return Profile{
		Name:       name,
		Controller: controller,
		Device:     device,
	}, nil
}

// ValidateName checks that a profile name can be used as a file name within
// the profile directory.
func ValidateName(name string) error {
	switch {
	case name == "",
		strings.HasPrefix(name, "."),
		strings.ContainsAny(name, "/\\\x00"),
		strings.TrimSpace(name) != name:
		return fault.Wrap(errorkinds.ErrInvalidProfileName,
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc("invalid profile name "+name,
				"Profile names must not be empty, start with a dot, contain slashes or surrounding spaces."),
		)
	}

	return nil
}
