package platform

import (
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/bluetuith-org/bluectl/api/errorkinds"
)

// RootGate allows an operation only when the process runs as root.
type RootGate struct {
	euid func() int
}

// NewRootGate returns a gate checking the effective user ID of the process.
func NewRootGate() *RootGate {
	return &RootGate{euid: os.Geteuid}
}

// Require returns errorkinds.ErrPrivilege if the process is not running as root.
func (r *RootGate) Require() error {
	if r.euid() == 0 {
		return nil
	}

	return fault.Wrap(errorkinds.ErrPrivilege,
		ftag.With(ftag.PermissionDenied),
		fmsg.WithDesc("not running as root",
			"You must be root to run this command, please use sudo and try again."),
	)
}
