package snapshot

import (
	"context"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/icesnap/icesnap/pkg/cloud"
	"github.com/icesnap/icesnap/pkg/errors"
)

// An Evictor walks a tree and releases every materialized remote-backed
// file back to the remote tier, reclaiming local disk space.
type Evictor struct {
	provider     cloud.StatusProvider
	materializer cloud.Materializer
}

// NewEvictor creates an eviction walker.
func NewEvictor(provider cloud.StatusProvider, materializer cloud.Materializer) *Evictor {
	return &Evictor{provider: provider, materializer: materializer}
}

// Evict recursively releases the local copies under `dir`. Only entries the
// provider reports as both remote-backed and fully downloaded are released:
// releasing anything else is undefined on the provider side. Per-entry
// failures are logged and skipped; only a failed directory listing aborts
// a subtree.
func (e *Evictor) Evict(ctx context.Context, dir string) error {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return errors.WithContext(err, "list directory")
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := e.Evict(ctx, path); err != nil {
				if ctx.Err() != nil {
					return err
				}
				log.WithError(err).WithField("path", path).Error(
					"Failed to evict subtree")
			}
			continue
		}

		if !entry.Mode().IsRegular() {
			log.WithField("path", path).Debug("Skipping irregular file")
			continue
		}

		status, err := e.provider.Query(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Error(
				"Failed to query remote status")
			continue
		}

		if !status.RemoteBacked {
			log.WithField("path", path).Debug("Not remote-backed. Skipping.")
			continue
		}
		if status.State != cloud.Current {
			log.WithFields(log.Fields{"path": path, "state": status.State}).
				Debug("Not downloaded. Nothing to release.")
			continue
		}

		if err := e.materializer.Release(path); err != nil {
			log.WithError(err).WithField("path", path).Error(
				"Failed to release local copy")
			continue
		}
		log.WithField("path", path).Info("Released local copy")
	}
	return nil
}
