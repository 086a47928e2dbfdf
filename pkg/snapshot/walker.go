package snapshot

import (
	"context"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/icesnap/icesnap/pkg/cloud"
	"github.com/icesnap/icesnap/pkg/errors"
)

// DefaultPollInterval is how long the materialization wait sleeps between
// status queries when no interval is configured.
const DefaultPollInterval = 500 * time.Millisecond

// A Snapshotter mirrors a source tree into a destination tree,
// materializing remote-backed files on the way and releasing the fetched
// copies once they've been snapshotted.
type Snapshotter struct {
	provider     cloud.StatusProvider
	materializer cloud.Materializer
	convention   cloud.Convention
	copier       *Copier
	clock        clockwork.Clock
	pollInterval time.Duration
	waitTimeout  time.Duration
}

// SnapshotterOptions configures a Snapshotter.
type SnapshotterOptions struct {
	Provider     cloud.StatusProvider
	Materializer cloud.Materializer

	// Convention is the provider's placeholder naming convention. The zero
	// value means cloud.DefaultConvention.
	Convention cloud.Convention

	Copier *Copier

	// Clock defaults to the real clock.
	Clock clockwork.Clock

	// PollInterval defaults to DefaultPollInterval.
	PollInterval time.Duration

	// WaitTimeout bounds the per-file materialization wait. Zero means no
	// bound.
	WaitTimeout time.Duration
}

// NewSnapshotter creates a snapshot walker.
func NewSnapshotter(opts SnapshotterOptions) *Snapshotter {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Convention == (cloud.Convention{}) {
		opts.Convention = cloud.DefaultConvention
	}
	return &Snapshotter{
		provider:     opts.Provider,
		materializer: opts.Materializer,
		convention:   opts.Convention,
		copier:       opts.Copier,
		clock:        opts.Clock,
		pollInterval: opts.PollInterval,
		waitTimeout:  opts.WaitTimeout,
	}
}

// Snapshot mirrors `srcDir` into `dstDir`. Failures on individual entries
// are logged and skipped so that one bad file can't abort the run; only
// failing to create the destination directory or list the source directory
// aborts this subtree. Sibling subtrees are unaffected either way.
func (s *Snapshotter) Snapshot(ctx context.Context, srcDir, dstDir string) error {
	if err := fs.MkdirAll(dstDir, 0755); err != nil {
		return errors.WithContext(err, "create destination directory")
	}

	entries, err := afero.ReadDir(fs, srcDir)
	if err != nil {
		return errors.WithContext(err, "list source directory")
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		srcPath := filepath.Join(srcDir, entry.Name())
		if entry.IsDir() {
			err := s.Snapshot(ctx, srcPath, filepath.Join(dstDir, entry.Name()))
			if err != nil {
				if ctx.Err() != nil {
					return err
				}
				log.WithError(err).WithField("path", srcPath).Error(
					"Failed to snapshot subtree")
			}
			continue
		}

		if !entry.Mode().IsRegular() {
			log.WithField("path", srcPath).Debug("Skipping irregular file")
			continue
		}

		if err := s.snapshotFile(ctx, srcPath, dstDir); err != nil {
			if ctx.Err() != nil {
				return err
			}
			log.WithError(err).WithField("path", srcPath).Error(
				"Failed to snapshot file")
		}
	}
	return nil
}

// snapshotFile decides how a single regular file gets into the destination:
// already-local content is copied directly, while stale remote-backed
// content goes through the materialization wait first.
func (s *Snapshotter) snapshotFile(ctx context.Context, srcPath, dstDir string) error {
	status, err := s.provider.Query(srcPath)
	if err != nil {
		// A file the provider doesn't know about is treated as local.
		log.WithError(err).WithField("path", srcPath).Warn(
			"Failed to query remote status. Treating file as local.")
		status = cloud.Status{}
	}

	if !status.RemoteBacked || status.State == cloud.Current {
		return s.copy(srcPath, filepath.Join(dstDir, filepath.Base(srcPath)))
	}

	return s.materializeAndCopy(ctx, srcPath, dstDir)
}

// materializeAndCopy runs the wait protocol for a stale remote-backed
// entry: request the fetch once, poll the derived local path until the
// content is current, copy it out, then release the fetched copy.
func (s *Snapshotter) materializeAndCopy(ctx context.Context, srcPath, dstDir string) error {
	name := filepath.Base(srcPath)

	localName := name
	if s.convention.IsPlaceholder(name) {
		var err error
		localName, err = s.convention.LocalName(name)
		if err != nil {
			return errors.WithContext(err, "derive local name")
		}
	}

	// If the snapshot already exists under the final name there's nothing
	// to do, and in particular no reason to pull the content down.
	dst := filepath.Join(dstDir, localName)
	if !s.copier.overwrite {
		if exists, err := afero.Exists(fs, dst); err == nil && exists {
			log.WithField("path", dst).Info(
				"Destination already exists. Skipping materialization.")
			return nil
		}
	}

	if err := s.materializer.Materialize(srcPath); err != nil {
		return errors.WithContext(err, "request materialization")
	}

	localPath := filepath.Join(filepath.Dir(srcPath), localName)
	if err := s.waitForDownload(ctx, localPath); err != nil {
		return errors.WithContext(err, "wait for download")
	}

	copyErr := s.copy(localPath, dst)

	// The fetched copy is released no matter how the copy went, so that a
	// copy failure doesn't leave materialized content eating local space.
	if err := s.materializer.Release(localPath); err != nil {
		log.WithError(err).WithField("path", localPath).Warn(
			"Failed to release local copy")
	}
	return copyErr
}

func (s *Snapshotter) copy(src, dst string) error {
	outcome, err := s.copier.Copy(src, dst)
	switch outcome {
	case OutcomeCopied:
		log.WithFields(log.Fields{"src": src, "dst": dst}).Info("Copied file")
	case OutcomeSkipped:
		log.WithField("path", dst).Info("Destination already exists. Skipping.")
	case OutcomeFailed:
		return err
	}
	return nil
}
