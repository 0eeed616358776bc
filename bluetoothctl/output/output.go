// Package output extracts structured records from bluetoothctl's textual output.
//
// The parsers are pinned to one known output format: records are located by
// literal markers and sliced at fixed offsets from those markers. A change in
// bluetoothctl's formatting should only require changes in this package.
package output

import (
	"regexp"
	"strings"

	"github.com/bluetuith-org/bluectl/api/bluetooth"
)

// Literal markers printed by bluetoothctl.
const (
	NewDeviceMarker = "[NEW] Device "
	DeviceMarker    = "Device "

	PairingSuccessMarker    = "Pairing successful"
	ConnectionSuccessMarker = "Connection successful"
	DisconnectSuccessMarker = "Successful disconnected"

	PairedFlag    = "Paired"
	ConnectedFlag = "Connected"
)

// addressWidth is the width of a textual MAC address ("AA:BB:CC:DD:EE:FF").
const addressWidth = 17

var controlSequence = regexp.MustCompile(`\x1B[@-_][0-?]*[ -/]*[@-~]`)

// StripControlSequences removes ANSI terminal escape sequences and carriage
// returns from text. Stripping is repeated until nothing matches, so that
// sequences formed by joining the remains of removed ones are also dropped.
func StripControlSequences(text string) string {
	text = strings.ReplaceAll(text, "\r", "")

	for {
		stripped := controlSequence.ReplaceAllString(text, "")
		if stripped == text {
			return stripped
		}

		text = stripped
	}
}

// ParseControllerList parses the output of "bluetoothctl list".
// For every line, the leading type marker ("Controller") and the trailing
// status marker ("[default]") are discarded. The first remaining word is the
// address and the rest is the label.
func ParseControllerList(text string) []bluetooth.ControllerEntry {
	var controllers []bluetooth.ControllerEntry

	for _, line := range lines(text) {
		fields := strings.Fields(line)
		if len(fields) <= 2 {
			continue
		}

		fields = fields[1 : len(fields)-1]
		controllers = append(controllers, bluetooth.ControllerEntry{
			Address: bluetooth.MacAddress(fields[0]),
			Label:   strings.Join(fields[1:], " "),
		})
	}

	return controllers
}

// ParseScanEvents parses the output of a scan session. Only lines announcing a
// newly found device are considered. Devices are returned in the order they were
// announced, and a device announced more than once appears more than once.
func ParseScanEvents(text string) []bluetooth.DeviceEntry {
	return parseRecords(text, NewDeviceMarker)
}

// ParseDeviceList parses the output of "bluetoothctl devices".
func ParseDeviceList(text string) []bluetooth.DeviceEntry {
	return parseRecords(text, DeviceMarker)
}

// ParseScanLine parses a single line of a scan session.
// It reports false if the line does not announce a new device.
func ParseScanLine(line string) (bluetooth.DeviceEntry, bool) {
	return sliceRecord(StripControlSequences(line), NewDeviceMarker)
}

// StatusFlag reports whether the flag is set to "yes" in the output of
// "bluetoothctl info".
func StatusFlag(info, flag string) bool {
	return strings.Contains(info, flag+": yes")
}

// PairingSucceeded reports whether the output of "bluetoothctl pair" contains
// the pairing success marker.
func PairingSucceeded(text string) bool {
	return strings.Contains(text, PairingSuccessMarker)
}

// ConnectSucceeded reports whether the output of "bluetoothctl connect"
// contains the connection success marker.
func ConnectSucceeded(text string) bool {
	return strings.Contains(text, ConnectionSuccessMarker)
}

// DisconnectSucceeded reports whether the output of "bluetoothctl disconnect"
// contains the disconnection success marker.
func DisconnectSucceeded(text string) bool {
	return strings.Contains(text, DisconnectSuccessMarker)
}

func parseRecords(text, marker string) []bluetooth.DeviceEntry {
	var devices []bluetooth.DeviceEntry

	for _, line := range lines(text) {
		if device, ok := sliceRecord(line, marker); ok {
			devices = append(devices, device)
		}
	}

	return devices
}

// sliceRecord extracts the address that immediately follows the marker, and
// the label that follows the address.
func sliceRecord(line, marker string) (bluetooth.DeviceEntry, bool) {
	pos := strings.Index(line, marker)
	if pos < 0 {
		return bluetooth.DeviceEntry{}, false
	}

	start := pos + len(marker)
	end := start + addressWidth
	if len(line) < end {
		return bluetooth.DeviceEntry{}, false
	}

	return bluetooth.DeviceEntry{
		Address: bluetooth.MacAddress(line[start:end]),
		Label:   strings.TrimSpace(line[end:]),
	}, true
}

func lines(text string) []string {
	return strings.Split(StripControlSequences(text), "\n")
}
