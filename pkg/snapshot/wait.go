package snapshot

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/icesnap/icesnap/pkg/cloud"
	"github.com/icesnap/icesnap/pkg/errors"
)

// ErrWaitTimeout is returned when a file fails to materialize within the
// configured wait timeout.
var ErrWaitTimeout = errors.New("timed out waiting for materialization")

// waitForDownload blocks until the provider reports the entry at `path` as
// fully downloaded. Query failures are treated as transient: the provider
// may briefly not know about the path while the placeholder is being
// swapped for real content, so we log and keep polling. With no wait
// timeout configured the loop only ends on success or ctx cancellation.
func (s *Snapshotter) waitForDownload(ctx context.Context, path string) error {
	var deadline <-chan time.Time
	if s.waitTimeout > 0 {
		deadline = s.clock.After(s.waitTimeout)
	}

	for {
		// Re-query by path on every pass. The provider can return stale
		// values for a handle resolved in an earlier iteration, so nothing
		// from a previous pass is reused.
		status, err := s.provider.Query(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Error(
				"Failed to query download status. Will retry.")
		} else if status.State == cloud.Current {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return ErrWaitTimeout
		case <-s.clock.After(s.pollInterval):
		}
	}
}
