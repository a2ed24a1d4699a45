// Package products locates MSI-installed products in the Windows uninstall
// registry hives.
package products

import (
	"errors"
	"strings"

	"github.com/lanternops/avsweep/internal/match"
)

// ErrNotSupported is returned when the installed-product store is queried on
// a non-Windows host.
var ErrNotSupported = errors.New("installed-product store is only available on Windows")

// Candidate is one installed-product record from an uninstall hive.
type Candidate struct {
	DisplayName     string
	ProductCode     string // registry subkey name; the installer product code GUID
	UninstallString string
}

// Store enumerates installed-product records. The snapshot is taken once per
// phase; entries appearing mid-run are not picked up.
type Store interface {
	Enumerate() ([]Candidate, error)
}

// msiexecToken marks an uninstall mechanism handled by the standard
// installer. UninstallString values look like `MsiExec.exe /X{GUID}`.
const msiexecToken = "msiexec"

// Filter selects candidates whose uninstall mechanism is msiexec and whose
// display name the matcher accepts. Store order is preserved; duplicate
// entries across hives are kept, each representing its own installed
// instance.
func Filter(all []Candidate, m *match.Matcher) []Candidate {
	var selected []Candidate
	for _, c := range all {
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(c.UninstallString)), msiexecToken) {
			continue
		}
		if !m.Selects(c.DisplayName) {
			continue
		}
		selected = append(selected, c)
	}
	return selected
}
