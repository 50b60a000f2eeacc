//go:build unix

package process

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup puts the child in a new process group led by itself, so
// signals reach anything it forks.
func setProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// signalGroup signals the process group led by proc, falling back to proc
// alone when the group is gone.
func signalGroup(proc *os.Process, sig os.Signal) error {
	if s, ok := sig.(syscall.Signal); ok {
		if err := syscall.Kill(-proc.Pid, s); err == nil {
			return nil
		}
	}
	return proc.Signal(sig)
}
