// Package platform manages the host side of bluectl: the Bluetooth daemon's
// service unit and the privileges needed to change it.
package platform

import "runtime"

// BluetoothStack names the Bluetooth stack driven on this platform.
type BluetoothStack string

const (
	BluezStack BluetoothStack = "BlueZ (bluetoothctl)"
	NoStack    BluetoothStack = "Unsupported"
)

// ServiceManager names the way the daemon's unit is managed.
type ServiceManager string

const (
	SystemdBus ServiceManager = "systemd (D-Bus)"
	Systemctl  ServiceManager = "systemctl"
	NoManager  ServiceManager = "none"
)

// PlatformInfo describes how bluectl talks to the host.
type PlatformInfo struct {
	OS      string         `json:"os,omitempty"`
	Stack   BluetoothStack `json:"bluetooth_stack,omitempty"`
	Manager ServiceManager `json:"service_manager,omitempty"`
	Unit    string         `json:"service_unit,omitempty"`
}

// NewPlatformInfo returns the information for the running OS.
func NewPlatformInfo(stack BluetoothStack, manager ServiceManager, unit string) PlatformInfo {
	return PlatformInfo{
		OS:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		Stack:   stack,
		Manager: manager,
		Unit:    unit,
	}
}

func (b BluetoothStack) String() string {
	return string(b)
}

func (s ServiceManager) String() string {
	return string(s)
}
