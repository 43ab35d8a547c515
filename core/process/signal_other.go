//go:build !unix

package process

import (
	"os"
	"os/exec"
)

// setProcAttrs is a no-op on non-Unix platforms; process groups aren't part
// of this build's signal model.
func setProcAttrs(cmd *exec.Cmd, shell bool) {}

// sendSignal ignores signalNumber and shell on non-Unix builds and kills the
// process via os.Process.Kill.
func sendSignal(pid, signalNumber int, shell bool) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}

func shellCommand(script string) *exec.Cmd {
	return exec.Command("cmd", "/C", script)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}
