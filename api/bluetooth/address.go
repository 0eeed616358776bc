package bluetooth

import "regexp"

// MacAddress holds a Bluetooth address in its textual form ("AA:BB:CC:DD:EE:FF").
// The address is kept exactly as it was reported or stored, its case is never changed.
type MacAddress string

var macPattern = regexp.MustCompile(`^[0-9A-Fa-f]{2}(:[0-9A-Fa-f]{2}){5}$`)

// IsValid reports whether the address consists of six colon-separated
// two-digit hexadecimal octets.
func (m MacAddress) IsValid() bool {
	return macPattern.MatchString(string(m))
}

// String converts a MacAddress to a string.
func (m MacAddress) String() string {
	return string(m)
}
