//go:build !windows

package sweep

import "os"

func isElevated() bool {
	return os.Geteuid() == 0
}
