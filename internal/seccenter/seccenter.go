// Package seccenter lists and removes antivirus-product registrations in the
// Windows Security Center store (root\SecurityCenter2). Stale registrations
// left behind by a removed product block other security tooling from
// registering cleanly.
package seccenter

import (
	"errors"

	"github.com/lanternops/avsweep/internal/match"
)

// ErrNotSupported is returned when the registration store is used on a
// non-Windows host.
var ErrNotSupported = errors.New("security center store is only available on Windows")

// Registration is one AntiVirusProduct record in the Security Center store.
type Registration struct {
	DisplayName  string
	InstanceGUID string
}

// JobState is the terminal state of a removal job.
type JobState int

const (
	JobCompleted JobState = iota
	JobFailed
	JobStopped
)

func (s JobState) String() string {
	switch s {
	case JobCompleted:
		return "completed"
	case JobFailed:
		return "failed"
	case JobStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Job is the handle to an in-flight removal request.
type Job struct {
	done  chan struct{}
	state JobState
	err   error
}

// NewJob returns an unresolved job. Store implementations resolve it with
// Finish once the removal reaches a terminal state.
func NewJob() *Job {
	return &Job{done: make(chan struct{})}
}

// Finish resolves the job. Calling Finish twice panics, as would resolving a
// removal twice.
func (j *Job) Finish(state JobState, err error) {
	j.state = state
	j.err = err
	close(j.done)
}

// Wait blocks until the removal reaches a terminal state and returns it.
// There is no timeout; a hung removal blocks the caller.
func (j *Job) Wait() JobState {
	<-j.done
	return j.state
}

// Err returns the failure detail after Wait. Nil when the job completed.
func (j *Job) Err() error {
	<-j.done
	return j.err
}

// Store lists and removes Security Center AV registrations. Removal is
// asynchronous: RemoveAsync returns immediately and the job is waited on
// separately, matching the store's own API shape.
type Store interface {
	Enumerate() ([]Registration, error)
	RemoveAsync(instanceGUID string) *Job
}

// Filter selects registrations the matcher accepts, preserving store order.
func Filter(all []Registration, m *match.Matcher) []Registration {
	var selected []Registration
	for _, r := range all {
		if !m.Selects(r.DisplayName) {
			continue
		}
		selected = append(selected, r)
	}
	return selected
}
