package commands

import (
	"context"
	"strings"

	"github.com/bluetuith-org/bluectl/api/bluetooth"
)

// Command is a single bluetoothctl command line.
type Command struct {
	cmd  string
	args []string
}

func (c *Command) String() string {
	sb := strings.Builder{}

	sb.WriteString(c.cmd)
	for _, arg := range c.args {
		sb.WriteString(" ")
		sb.WriteString(arg)
	}

	return sb.String()
}

// Slice returns the command and its arguments as separate words.
func (c *Command) Slice() []string {
	return append([]string{c.cmd}, c.args...)
}

// WithArgument appends a positional argument.
func (c *Command) WithArgument(value string) *Command {
	c.args = append(c.args, value)

	return c
}

// ExecuteWith runs the command on the provided shell and returns its raw output.
func (c *Command) ExecuteWith(ctx context.Context, sh bluetooth.Shell) string {
	return sh.Run(ctx, c.Slice()...)
}
