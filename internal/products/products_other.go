//go:build !windows

package products

type unsupportedStore struct{}

// NewStore returns a store whose Enumerate fails with ErrNotSupported.
func NewStore() Store {
	return unsupportedStore{}
}

func (unsupportedStore) Enumerate() ([]Candidate, error) {
	return nil, ErrNotSupported
}
