package output

import (
	"testing"

	"github.com/bluetuith-org/bluectl/api/bluetooth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripControlSequences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text",
			input:    "Pairing successful",
			expected: "Pairing successful",
		},
		{
			name:     "color codes",
			input:    "[\x1b[0;92mNEW\x1b[0m] Device AA:BB:CC:DD:EE:FF Phone",
			expected: "[NEW] Device AA:BB:CC:DD:EE:FF Phone",
		},
		{
			name:     "erase line",
			input:    "\x1b[K[bluetooth]# ",
			expected: "[bluetooth]# ",
		},
		{
			name:     "reset",
			input:    "\x1b[0mtext",
			expected: "text",
		},
		{
			name:     "sequence formed by removal",
			input:    "\x1b\x1b[A[B",
			expected: "",
		},
		{
			name:     "carriage returns",
			input:    "\r\x1b[KDiscovery started\r",
			expected: "Discovery started",
		},
		{
			name:     "intermediate bytes",
			input:    "x\x1b[1 qy",
			expected: "xy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripControlSequences(tt.input))
		})
	}
}

func TestStripControlSequencesIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"no escapes here",
		"\x1b[0;94m[bluetooth]\x1b[0m# scan on",
		"\x1b\x1b[A[B",
		"\x1b\x1b\x1b[A[B[C",
		"\x1b",
		"\x1b[",
		"trailing \x1b[0",
		"\r\x1b[K[\x1b[0;93mCHG\x1b[0m] Device 11:22:33:44:55:66 RSSI: -60",
	}

	for _, input := range inputs {
		once := StripControlSequences(input)
		assert.Equal(t, once, StripControlSequences(once), "input %q", input)
	}
}

func TestParseControllerList(t *testing.T) {
	text := "Controller 00:1A:7D:DA:71:13 myhost [default]\n" +
		"Controller 5C:F3:70:6B:2F:10 usb dongle [secondary]\n" +
		"\n" +
		"Agent registered\n"

	controllers := ParseControllerList(text)

	require.Len(t, controllers, 2)
	assert.Equal(t, bluetooth.ControllerEntry{Address: "00:1A:7D:DA:71:13", Label: "myhost"}, controllers[0])
	assert.Equal(t, bluetooth.ControllerEntry{Address: "5C:F3:70:6B:2F:10", Label: "usb dongle"}, controllers[1])
}

func TestParseControllerListEmpty(t *testing.T) {
	assert.Empty(t, ParseControllerList(""))
	assert.Empty(t, ParseControllerList("\n\n"))
}

func TestParseScanEvents(t *testing.T) {
	text := "Discovery started\n" +
		"[\x1b[0;93mCHG\x1b[0m] Controller 00:1A:7D:DA:71:13 Discovering: yes\n" +
		"[\x1b[0;92mNEW\x1b[0m] Device 11:22:33:44:55:66 Speaker\n" +
		"\r\x1b[K[\x1b[0;92mNEW\x1b[0m] Device AA:BB:CC:DD:EE:01 My Phone\r\n" +
		"[\x1b[0;93mCHG\x1b[0m] Device 11:22:33:44:55:66 RSSI: -60\n" +
		"[NEW] Device 11:22:33:44:55:66 Speaker\n" +
		"[NEW] Device 22:33\n"

	devices := ParseScanEvents(text)

	assert.Equal(t, []bluetooth.DeviceEntry{
		{Address: "11:22:33:44:55:66", Label: "Speaker"},
		{Address: "AA:BB:CC:DD:EE:01", Label: "My Phone"},
		{Address: "11:22:33:44:55:66", Label: "Speaker"},
	}, devices)
}

func TestParseScanLine(t *testing.T) {
	device, ok := ParseScanLine("[\x1b[0;92mNEW\x1b[0m] Device 11:22:33:44:55:66 Speaker")
	require.True(t, ok)
	assert.Equal(t, bluetooth.DeviceEntry{Address: "11:22:33:44:55:66", Label: "Speaker"}, device)

	_, ok = ParseScanLine("[CHG] Device 11:22:33:44:55:66 RSSI: -60")
	assert.False(t, ok)
}

func TestParseDeviceList(t *testing.T) {
	text := "Device 11:22:33:44:55:66 Speaker\n" +
		"Device AA:BB:CC:DD:EE:01 My Phone\n" +
		"Device AA:BB:CC:DD:EE:02\n" +
		"No default controller available\n"

	devices := ParseDeviceList(text)

	assert.Equal(t, []bluetooth.DeviceEntry{
		{Address: "11:22:33:44:55:66", Label: "Speaker"},
		{Address: "AA:BB:CC:DD:EE:01", Label: "My Phone"},
		{Address: "AA:BB:CC:DD:EE:02", Label: ""},
	}, devices)
}

func TestStatusFlag(t *testing.T) {
	info := "Device 11:22:33:44:55:66 (public)\n" +
		"\tName: Speaker\n" +
		"\tPaired: yes\n" +
		"\tTrusted: no\n" +
		"\tConnected: no\n"

	assert.True(t, StatusFlag(info, PairedFlag))
	assert.False(t, StatusFlag(info, ConnectedFlag))
	assert.False(t, StatusFlag(info, "Trusted"))
	assert.False(t, StatusFlag("", PairedFlag))
}

func TestSuccessMarkers(t *testing.T) {
	assert.True(t, PairingSucceeded("Attempting to pair with 11:22:33:44:55:66\nPairing successful\n"))
	assert.False(t, PairingSucceeded("Failed to pair: org.bluez.Error.AuthenticationFailed\n"))

	assert.True(t, ConnectSucceeded("Attempting to connect to 11:22:33:44:55:66\nConnection successful\n"))
	assert.False(t, ConnectSucceeded("Failed to connect: org.bluez.Error.Failed\n"))

	assert.True(t, DisconnectSucceeded("Attempting to disconnect from 11:22:33:44:55:66\nSuccessful disconnected\n"))
	assert.False(t, DisconnectSucceeded(""))
}
