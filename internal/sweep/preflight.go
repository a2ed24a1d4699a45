package sweep

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/lanternops/avsweep/internal/match"
)

// Preflight verifies the run preconditions before any action is taken: a
// usable pattern, the target OS family, and administrative rights. It is
// called before New so a failure leaves the host untouched.
func Preflight(opts Options) error {
	if _, err := match.Compile(opts.Pattern); err != nil {
		return err
	}
	if runtime.GOOS != "windows" {
		return fmt.Errorf("this tool manages Windows hosts only (running on %s)", runtime.GOOS)
	}
	if !isElevated() {
		return errors.New("administrative rights are required")
	}
	return nil
}

// HostSummary returns a short identification of the host for diagnostics.
func HostSummary() string {
	info, err := host.Info()
	if err != nil {
		return runtime.GOOS
	}
	return fmt.Sprintf("%s (%s %s, %s)", info.Hostname, info.Platform, info.PlatformVersion, info.KernelArch)
}
