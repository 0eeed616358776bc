package commands

// Argument is a positional keyword understood by bluetoothctl.
type Argument string

const (
	ScanArgument  Argument = "scan"
	PowerArgument Argument = "power"
	AgentArgument Argument = "agent"
)

func (a Argument) String() string {
	return string(a)
}

// StateArgumentValue converts a boolean state into bluetoothctl's on/off keywords.
func StateArgumentValue(enable bool) string {
	if !enable {
		return "off"
	}

	return "on"
}
