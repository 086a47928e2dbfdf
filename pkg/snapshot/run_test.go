package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/icesnap/icesnap/pkg/cloud"
	"github.com/icesnap/icesnap/pkg/errors"
)

func TestRunTimecodeSnapshot(t *testing.T) {
	fs = afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("aaaa"), 0644))

	provider := newFakeCloud()
	provider.setStatus("/src/a.txt", cloud.Status{RemoteBacked: false})

	clock := clockwork.NewFakeClockAt(
		time.Date(2026, time.August, 26, 14, 3, 59, 0, time.UTC))

	totals, err := Run(context.Background(), Options{
		Source:           "/src",
		Dest:             "/dst",
		TimecodeSnapshot: true,
		Provider:         provider,
		Clock:            clock,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(4), totals.BytesCopied)

	contents, err := afero.ReadFile(fs, "/dst/26-08-2026_14_03_59/a.txt")
	assert.NoError(t, err)
	assert.Equal(t, []byte("aaaa"), contents)
}

func TestRunEvictOnly(t *testing.T) {
	fs = afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("aaaa"), 0644))

	provider := newFakeCloud()
	provider.setStatus("/src/a.txt",
		cloud.Status{RemoteBacked: true, State: cloud.Current})

	totals, err := Run(context.Background(), Options{
		Source:       "/src",
		Dest:         "/dst",
		EvictFiles:   true,
		SkipSnapshot: true,
		Provider:     provider,
	})
	assert.NoError(t, err)
	assert.Equal(t, &Totals{}, totals)
	assert.Equal(t, []string{"/src/a.txt"}, provider.released)

	exists, err := afero.Exists(fs, "/dst/a.txt")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestRunEvictsBeforeSnapshotting(t *testing.T) {
	fs = afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("aaaa"), 0644))

	provider := newFakeCloud()
	provider.setStatus("/src/a.txt",
		cloud.Status{RemoteBacked: true, State: cloud.Current})

	totals, err := Run(context.Background(), Options{
		Source:     "/src",
		Dest:       "/dst",
		EvictFiles: true,
		Provider:   provider,
	})
	assert.NoError(t, err)

	// The eviction pass ran, and the snapshot pass then copied the (still
	// current) file.
	assert.Equal(t, []string{"/src/a.txt"}, provider.released)
	assert.Equal(t, 1, totals.FilesCopied)
}

func TestRunMissingSource(t *testing.T) {
	fs = afero.NewMemMapFs()

	provider := newFakeCloud()
	_, err := Run(context.Background(), Options{
		Source:   "/nope",
		Dest:     "/dst",
		Provider: provider,
	})
	assert.Error(t, err)
	_, isNotFound := errors.RootCause(err).(errors.FileNotFound)
	assert.True(t, isNotFound)
}
