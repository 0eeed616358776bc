package bluetooth

// ControllerEntry describes a local Bluetooth controller (adapter) as reported
// by the control service's controller list.
type ControllerEntry struct {
	Address MacAddress `json:"address"`
	Label   string     `json:"label,omitempty"`
}

// DeviceEntry describes a remote Bluetooth device, either discovered during a
// scan session or known to the host.
type DeviceEntry struct {
	Address MacAddress `json:"address"`
	Label   string     `json:"label,omitempty"`
}

// Key returns the address that identifies the controller.
func (c ControllerEntry) Key() MacAddress {
	return c.Address
}

// Fields returns the values rendered when the controller is listed for selection.
func (c ControllerEntry) Fields() []string {
	return []string{c.Label}
}

// Key returns the address that identifies the device.
func (d DeviceEntry) Key() MacAddress {
	return d.Address
}

// Fields returns the values rendered when the device is listed for selection.
func (d DeviceEntry) Fields() []string {
	return []string{d.Label, d.Address.String()}
}
