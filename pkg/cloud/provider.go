package cloud

// DownloadState describes how much of a remote-backed file's content is
// present on the local disk.
type DownloadState int

const (
	// NotDownloaded means only the placeholder exists locally.
	NotDownloaded DownloadState = iota

	// Downloading means the provider is currently fetching the content.
	Downloading

	// Current means the content is fully present on the local disk.
	Current
)

func (state DownloadState) String() string {
	switch state {
	case NotDownloaded:
		return "not-downloaded"
	case Downloading:
		return "downloading"
	case Current:
		return "current"
	}
	return "unknown"
}

// Status is a point-in-time snapshot of a filesystem entry's relationship
// with the remote storage tier. It must never be cached across polls: the
// provider can change the state behind our back at any time, so callers
// re-query by path every time they need a decision.
type Status struct {
	// RemoteBacked reports whether the entry's authoritative content lives
	// in the remote tier.
	RemoteBacked bool

	// State is only meaningful when RemoteBacked is true.
	State DownloadState
}

// A StatusProvider reports the remote status of filesystem entries. It's an
// injected capability: the snapshot engine never assumes anything about the
// remote tier beyond this interface.
type StatusProvider interface {
	// Query returns the current status of the entry at `path`. It must be
	// safe to call repeatedly on the same path and must reflect the state at
	// call time, not a memoized value.
	Query(path string) (Status, error)
}

// A Materializer fetches remote-backed content to local storage and releases
// it back to the remote tier.
type Materializer interface {
	// Materialize asks the provider to fetch the content for the entry at
	// `path`. The request is asynchronous: returning nil does not mean the
	// content is present yet, only that the fetch was requested.
	Materialize(path string) error

	// Release drops the local copy of a materialized entry, reverting it to
	// a placeholder. Releasing an entry that isn't materialized is undefined
	// on the provider side and must be avoided by callers.
	Release(path string) error
}

// Provider is the full capability set the snapshot engine needs from the
// remote storage tier.
type Provider interface {
	StatusProvider
	Materializer
}
