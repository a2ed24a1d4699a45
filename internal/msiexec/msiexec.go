// Package msiexec runs the standard Windows installer to remove products and
// classifies its exit codes.
package msiexec

import (
	"context"
	"fmt"

	"github.com/lanternops/avsweep/internal/products"
)

// Well-known msiexec exit codes.
const (
	exitSuccess         = 0
	exitRebootInitiated = 1641 // ERROR_SUCCESS_REBOOT_INITIATED
	exitRebootRequired  = 3010 // ERROR_SUCCESS_REBOOT_REQUIRED
)

// ExitCodeClass classifies an msiexec process exit code.
type ExitCodeClass int

const (
	Success ExitCodeClass = iota
	SuccessRebootInitiated
	SuccessRebootRequired
	Failure
)

// Classify maps an msiexec exit code to its class.
func Classify(code int) ExitCodeClass {
	switch code {
	case exitSuccess:
		return Success
	case exitRebootInitiated:
		return SuccessRebootInitiated
	case exitRebootRequired:
		return SuccessRebootRequired
	default:
		return Failure
	}
}

// Succeeded reports whether the class counts as a successful uninstall.
func (c ExitCodeClass) Succeeded() bool {
	return c != Failure
}

// RebootNeeded reports whether the class implies a pending reboot.
func (c ExitCodeClass) RebootNeeded() bool {
	return c == SuccessRebootInitiated || c == SuccessRebootRequired
}

func (c ExitCodeClass) String() string {
	switch c {
	case Success:
		return "success"
	case SuccessRebootInitiated:
		return "success-reboot-initiated"
	case SuccessRebootRequired:
		return "success-reboot-required"
	default:
		return "failure"
	}
}

// symantecProduct gets its proprietary reboot-suppression property appended
// on top of the standard flag set. Exact display-name equality only.
const symantecProduct = "Symantec Endpoint Protection"

// Args builds the fixed msiexec uninstall argument set for a candidate:
// quiet with basic UI, no automatic restart, and reboot prompts suppressed
// both via the generic REBOOT property and the restart-manager property.
func Args(c products.Candidate) []string {
	args := []string{
		"/x", c.ProductCode,
		"/qb!",
		"/norestart",
		"REBOOT=ReallySuppress",
		"MSIRESTARTMANAGERCONTROL=Disable",
	}
	if c.DisplayName == symantecProduct {
		args = append(args, "SYMREBOOT=Never")
	}
	return args
}

// Runner invokes the platform uninstaller for one candidate and returns its
// exit code. The call blocks until the uninstaller exits; there is no
// timeout, matching the installer's own contract.
type Runner interface {
	Uninstall(ctx context.Context, c products.Candidate) (int, error)
}

type execRunner struct{}

// NewRunner returns the Runner that shells out to msiexec.
func NewRunner() Runner {
	return execRunner{}
}

func (execRunner) Uninstall(ctx context.Context, c products.Candidate) (int, error) {
	code, err := runMsiexec(ctx, Args(c))
	if err != nil {
		return code, fmt.Errorf("msiexec /x %s: %w", c.ProductCode, err)
	}
	return code, nil
}
