//go:build windows

package products

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/windows/registry"
)

// Uninstall hives to enumerate. The WOW6432Node hive holds 32-bit products on
// 64-bit Windows and does not exist on 32-bit hosts.
var uninstallHives = []struct {
	path     string
	optional bool
}{
	{`SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`, false},
	{`SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`, true},
}

type registryStore struct{}

// NewStore returns the registry-backed installed-product store.
func NewStore() Store {
	return registryStore{}
}

func (registryStore) Enumerate() ([]Candidate, error) {
	var all []Candidate

	for _, hive := range uninstallHives {
		items, err := readHive(hive.path)
		if err != nil {
			if hive.optional && errors.Is(err, registry.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("enumerate HKLM\\%s: %w", hive.path, err)
		}
		all = append(all, items...)
	}

	return all, nil
}

func readHive(path string) ([]Candidate, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.READ)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	subkeys, err := key.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("read subkeys: %w", err)
	}

	var items []Candidate
	for _, name := range subkeys {
		subkey, err := registry.OpenKey(key, name, registry.READ)
		if err != nil {
			continue
		}

		display, _, _ := subkey.GetStringValue("DisplayName")
		uninstall, _, _ := subkey.GetStringValue("UninstallString")
		subkey.Close()

		display = strings.TrimSpace(display)
		if display == "" {
			continue
		}

		items = append(items, Candidate{
			DisplayName:     display,
			ProductCode:     name,
			UninstallString: uninstall,
		})
	}

	return items, nil
}
