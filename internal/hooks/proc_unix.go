//go:build unix

package hooks

import (
	"os/exec"
	"syscall"
)

// startGroup puts the hook in its own process group and kills the whole
// group on cancel, so children of a shell hook die with it.
func startGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
