package commands

import (
	"github.com/bluetuith-org/bluectl/api/bluetooth"
)

// Controller commands.
func ListControllers() *Command {
	return &Command{cmd: "list"}
}
func SelectController(address bluetooth.MacAddress) *Command {
	return (&Command{cmd: "select"}).WithArgument(address.String())
}
func SetPoweredState(state bool) *Command {
	return (&Command{cmd: PowerArgument.String()}).WithArgument(StateArgumentValue(state))
}
func SetAgentState(state bool) *Command {
	return (&Command{cmd: AgentArgument.String()}).WithArgument(StateArgumentValue(state))
}
func DefaultAgent() *Command {
	return &Command{cmd: "default-agent"}
}

// Discovery commands.
func StartDiscovery() *Command {
	return (&Command{cmd: ScanArgument.String()}).WithArgument(StateArgumentValue(true))
}
func StopDiscovery() *Command {
	return (&Command{cmd: ScanArgument.String()}).WithArgument(StateArgumentValue(false))
}

// Device commands.
func ListDevices() *Command {
	return &Command{cmd: "devices"}
}
func DeviceInfo(address bluetooth.MacAddress) *Command {
	return (&Command{cmd: "info"}).WithArgument(address.String())
}
func Pair(address bluetooth.MacAddress) *Command {
	return (&Command{cmd: "pair"}).WithArgument(address.String())
}
func Connect(address bluetooth.MacAddress) *Command {
	return (&Command{cmd: "connect"}).WithArgument(address.String())
}
func Disconnect(address bluetooth.MacAddress) *Command {
	return (&Command{cmd: "disconnect"}).WithArgument(address.String())
}
