package cloud

import (
	"fmt"
)

// Local is the provider for trees with no remote storage tier. Every entry
// reports as not remote-backed, so the snapshot engine copies files directly
// and the eviction walker never releases anything.
type Local struct{}

// NewLocal returns a Local provider.
func NewLocal() *Local {
	return &Local{}
}

// Query reports every entry as purely local.
func (l *Local) Query(path string) (Status, error) {
	return Status{RemoteBacked: false}, nil
}

// Materialize always fails: there is no remote tier to fetch from. The
// engine never calls it for entries that aren't remote-backed, so reaching
// this is a bug in the caller.
func (l *Local) Materialize(path string) error {
	return fmt.Errorf("%q is not remote-backed", path)
}

// Release always fails, for the same reason as Materialize.
func (l *Local) Release(path string) error {
	return fmt.Errorf("%q is not remote-backed", path)
}
