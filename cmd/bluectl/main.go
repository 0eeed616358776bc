// Command bluectl manages profiles of bluetooth devices and connects them to
// a bluetooth controller. It is based on the bluetoothctl tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Southclaws/fault/fmsg"
	"github.com/bluetuith-org/bluectl/api/errorkinds"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// The first signal cancels the operation, a second one kills the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if len(args) == 0 {
		root.SetOut(stderr)
		_ = root.Help()

		return 1
	}

	return exitCode(root.ExecuteContext(ctx), stdout, stderr)
}

// exitCode reports an error to the operator and returns the process exit code.
// Only errors which prevent bluectl from running at all exit with a non-zero code,
// the outcome of an operation is reported on standard output.
func exitCode(err error, stdout, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0

	case errors.Is(err, errorkinds.ErrCancelled):
		return 0

	case errors.Is(err, errorkinds.ErrConnectFailed),
		errors.Is(err, errorkinds.ErrDisconnectFailed):
		// Already reported along with the control service's output.
		return 0

	case errors.Is(err, errorkinds.ErrProfileNotFound),
		errors.Is(err, errorkinds.ErrProfileCorrupted),
		errors.Is(err, errorkinds.ErrInvalidProfileName):
		fmt.Fprintln(stdout, issue(err))
		return 0
	}

	fmt.Fprintln(stderr, issue(err))

	return 1
}

func issue(err error) string {
	if msg := fmsg.GetIssue(err); msg != "" {
		return msg
	}

	return "error: " + err.Error()
}
