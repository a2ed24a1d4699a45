//go:build !windows

package sweep

import "errors"

type unsupportedRebooter struct{}

func newRebooter() Rebooter {
	return unsupportedRebooter{}
}

func (unsupportedRebooter) Restart() error {
	return errors.New("host restart is only available on Windows")
}
