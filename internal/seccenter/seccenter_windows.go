//go:build windows

package seccenter

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

const wscNamespace = `root\SecurityCenter2`

type wmiStore struct{}

// NewStore returns the WMI-backed Security Center store.
func NewStore() Store {
	return wmiStore{}
}

// withServices runs action against an SWbemServices connection bound to the
// Security Center namespace. Each call sets up its own COM apartment on a
// locked OS thread; WMI connections are not shareable across goroutines.
func withServices(action func(services *ole.IDispatch) error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		return fmt.Errorf("failed to initialize COM: %w", err)
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		return fmt.Errorf("failed to create WMI locator: %w", err)
	}
	defer unknown.Release()

	locator, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("failed to query WMI locator: %w", err)
	}
	defer locator.Release()

	servicesVar, err := oleutil.CallMethod(locator, "ConnectServer", ".", wscNamespace)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", wscNamespace, err)
	}
	services := servicesVar.ToIDispatch()
	defer services.Release()

	return action(services)
}

func (wmiStore) Enumerate() ([]Registration, error) {
	var regs []Registration

	err := withServices(func(services *ole.IDispatch) error {
		resultVar, err := oleutil.CallMethod(services, "ExecQuery", "SELECT * FROM AntiVirusProduct")
		if err != nil {
			return fmt.Errorf("AntiVirusProduct query failed: %w", err)
		}
		result := resultVar.ToIDispatch()
		defer result.Release()

		return oleutil.ForEach(result, func(v *ole.VARIANT) error {
			item := v.ToIDispatch()
			defer item.Release()

			name, err := stringProp(item, "displayName")
			if err != nil {
				return err
			}
			guid, err := stringProp(item, "instanceGuid")
			if err != nil {
				return err
			}

			regs = append(regs, Registration{
				DisplayName:  strings.TrimSpace(name),
				InstanceGUID: strings.TrimSpace(guid),
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return regs, nil
}

// RemoveAsync issues the removal on its own COM apartment and resolves the
// returned job when the store call reaches a terminal state.
func (wmiStore) RemoveAsync(instanceGUID string) *Job {
	job := NewJob()

	go func() {
		path := fmt.Sprintf(`AntiVirusProduct.instanceGuid="%s"`, instanceGUID)
		err := withServices(func(services *ole.IDispatch) error {
			if _, err := oleutil.CallMethod(services, "Delete", path); err != nil {
				return fmt.Errorf("delete %s: %w", path, err)
			}
			return nil
		})
		if err != nil {
			job.Finish(JobFailed, err)
			return
		}
		job.Finish(JobCompleted, nil)
	}()

	return job
}

func stringProp(item *ole.IDispatch, name string) (string, error) {
	prop, err := oleutil.GetProperty(item, name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	defer prop.Clear()

	if prop.VT == ole.VT_NULL {
		return "", nil
	}
	return prop.ToString(), nil
}
