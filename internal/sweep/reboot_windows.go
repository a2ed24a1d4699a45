//go:build windows

package sweep

import "os/exec"

type shutdownRebooter struct{}

func newRebooter() Rebooter {
	return shutdownRebooter{}
}

// Restart requests an immediate restart via the system shutdown command.
// Reason code: planned, operating system reconfiguration.
func (shutdownRebooter) Restart() error {
	return exec.Command("shutdown", "/r", "/t", "0", "/d", "p:2:17").Run()
}
