package bluetooth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMacAddressIsValid(t *testing.T) {
	valid := []MacAddress{
		"AA:BB:CC:DD:EE:FF",
		"aa:bb:cc:dd:ee:ff",
		"00:1a:7D:da:71:13",
		"11:22:33:44:55:66",
	}
	for _, addr := range valid {
		assert.True(t, addr.IsValid(), "%q should be valid", addr)
	}

	invalid := []MacAddress{
		"",
		"notamac",
		"AA:BB:CC:DD:EE",
		"AA:BB:CC:DD:EE:FF:00",
		"AA-BB-CC-DD-EE-FF",
		"AA:BB:CC:DD:EE:FG",
		"AABBCCDDEEFF",
		"A:BB:CC:DD:EE:FFF",
		" AA:BB:CC:DD:EE:FF",
		"AA:BB:CC:DD:EE:FF ",
		"AA:BB:CC:DD:EE:FF\n",
	}
	for _, addr := range invalid {
		assert.False(t, addr.IsValid(), "%q should be invalid", addr)
	}
}

func TestMacAddressIsValidForAllHexOctets(t *testing.T) {
	const hex = "0123456789abcdefABCDEF"

	for _, hi := range hex {
		for _, lo := range hex {
			octet := string(hi) + string(lo)
			addr := MacAddress(strings.Repeat(octet+":", 5) + octet)
			assert.True(t, addr.IsValid(), "%q should be valid", addr)

			// Changing the separator or an octet's length must be rejected.
			assert.False(t, MacAddress(strings.ReplaceAll(string(addr), ":", ".")).IsValid())
			assert.False(t, MacAddress(string(addr)+"0").IsValid())
		}
	}

	for _, c := range "gGzZ:-_ x" {
		addr := MacAddress("AA:BB:CC:DD:EE:F" + string(c))
		assert.False(t, addr.IsValid(), "%q should be invalid", addr)
	}
}

func TestEntryFields(t *testing.T) {
	controller := ControllerEntry{Address: "AA:BB:CC:DD:EE:FF", Label: "myhost"}
	assert.Equal(t, MacAddress("AA:BB:CC:DD:EE:FF"), controller.Key())
	assert.Equal(t, []string{"myhost"}, controller.Fields())

	device := DeviceEntry{Address: "11:22:33:44:55:66", Label: "Speaker"}
	assert.Equal(t, MacAddress("11:22:33:44:55:66"), device.Key())
	assert.Equal(t, []string{"Speaker", "11:22:33:44:55:66"}, device.Fields())
}
