//go:build !windows

package seccenter

type unsupportedStore struct{}

// NewStore returns a store that fails every call with ErrNotSupported.
func NewStore() Store {
	return unsupportedStore{}
}

func (unsupportedStore) Enumerate() ([]Registration, error) {
	return nil, ErrNotSupported
}

func (unsupportedStore) RemoveAsync(instanceGUID string) *Job {
	job := NewJob()
	job.Finish(JobFailed, ErrNotSupported)
	return job
}
