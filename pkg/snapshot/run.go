package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"

	"github.com/icesnap/icesnap/pkg/cloud"
	"github.com/icesnap/icesnap/pkg/errors"
)

// timecodeLayout names timestamped snapshot directories, e.g.
// "26-08-2026_14_03_59".
const timecodeLayout = "02-01-2006_15_04_05"

// Options configures a full snapshot run.
type Options struct {
	// Source and Dest are the tree roots. A leading ~ is expanded.
	Source string
	Dest   string

	// TimecodeSnapshot places the snapshot in a timestamped subdirectory of
	// Dest, computed once at the start of the run.
	TimecodeSnapshot bool

	// Overwrite replaces destination files that already exist.
	Overwrite bool

	// EvictFiles runs a full eviction pass over the source tree before any
	// copying begins, so eviction can't race with files the snapshot phase
	// is about to fetch.
	EvictFiles bool

	// SkipSnapshot skips the snapshot phase entirely (useful for
	// eviction-only runs).
	SkipSnapshot bool

	Provider   cloud.Provider
	Convention cloud.Convention

	PollInterval time.Duration
	WaitTimeout  time.Duration

	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

// Run executes the requested phases in order: resolve the destination,
// evict, snapshot, report. It returns the run's totals; per-file errors are
// logged along the way and don't fail the run.
func Run(ctx context.Context, opts Options) (*Totals, error) {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	source, err := homedir.Expand(opts.Source)
	if err != nil {
		return nil, errors.WithContext(err, "expand source path")
	}
	dest, err := homedir.Expand(opts.Dest)
	if err != nil {
		return nil, errors.WithContext(err, "expand destination path")
	}
	if opts.TimecodeSnapshot {
		dest = filepath.Join(dest, clock.Now().Format(timecodeLayout))
	}

	if _, err := fs.Stat(source); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound{Path: source}
		}
		return nil, errors.WithContext(err, "read source directory")
	}

	start := clock.Now()
	totals := &Totals{}

	if opts.EvictFiles {
		log.WithField("dir", source).Info("Evicting local copies")
		evictor := NewEvictor(opts.Provider, opts.Provider)
		if err := evictor.Evict(ctx, source); err != nil {
			return nil, errors.WithContext(err, "evict")
		}
	}

	if !opts.SkipSnapshot {
		log.WithFields(log.Fields{"source": source, "dest": dest}).
			Info("Snapshotting")
		snapshotter := NewSnapshotter(SnapshotterOptions{
			Provider:     opts.Provider,
			Materializer: opts.Provider,
			Convention:   opts.Convention,
			Copier:       NewCopier(opts.Overwrite, totals),
			Clock:        clock,
			PollInterval: opts.PollInterval,
			WaitTimeout:  opts.WaitTimeout,
		})
		if err := snapshotter.Snapshot(ctx, source, dest); err != nil {
			return nil, errors.WithContext(err, "snapshot")
		}
	}

	log.WithFields(log.Fields{
		"elapsed": clock.Now().Sub(start).Round(time.Millisecond).String(),
		"copied":  humanize.Bytes(uint64(totals.BytesCopied)),
		"files":   totals.FilesCopied,
		"skipped": totals.FilesSkipped,
		"failed":  totals.FilesFailed,
	}).Info("Run complete")
	return totals, nil
}
