//go:build !unix

package process

import (
	"os"
	"os/exec"
)

func setProcessGroup(cmd *exec.Cmd) {}

func signalGroup(proc *os.Process, sig os.Signal) error {
	return proc.Signal(sig)
}
