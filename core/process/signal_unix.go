//go:build unix

package process

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcAttrs puts a shell-spawned child in its own process group so a
// later signal can be delivered to the whole group (spec.md §4.D.4: "the
// child's process group if shell=true").
func setProcAttrs(cmd *exec.Cmd, shell bool) {
	if !shell {
		return
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// sendSignal delivers signalNumber to pid directly, or to -pid (the process
// group) when shell is true.
func sendSignal(pid, signalNumber int, shell bool) error {
	target := pid
	if shell {
		target = -pid
	}
	return unix.Kill(target, unix.Signal(signalNumber))
}

func shellCommand(script string) *exec.Cmd {
	return exec.Command("/bin/sh", "-c", script)
}

// exitCode translates an os/exec Wait() error into the spec.md §8 return
// code convention: the process's exit status, or the negative signal number
// when the child died from a signal.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				return -int(status.Signal())
			}
			return status.ExitStatus()
		}
		return exitErr.ExitCode()
	}
	return -1
}
