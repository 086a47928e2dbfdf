package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"github.com/icesnap/icesnap/pkg/cloud"
	"github.com/icesnap/icesnap/pkg/errors"
)

func newWaitSnapshotter(provider *fakeCloud, clock clockwork.Clock,
	waitTimeout time.Duration) *Snapshotter {
	return NewSnapshotter(SnapshotterOptions{
		Provider:     provider,
		Materializer: provider,
		Copier:       NewCopier(false, &Totals{}),
		Clock:        clock,
		PollInterval: time.Second,
		WaitTimeout:  waitTimeout,
	})
}

func TestWaitForDownloadPollsUntilCurrent(t *testing.T) {
	provider := newFakeCloud()
	provider.setStatus("/drive/file.txt",
		cloud.Status{RemoteBacked: true, State: cloud.Downloading})

	clock := clockwork.NewFakeClock()
	snapshotter := newWaitSnapshotter(provider, clock, 0)

	done := make(chan error, 1)
	go func() {
		done <- snapshotter.waitForDownload(context.Background(), "/drive/file.txt")
	}()

	// Let the walker reach its first sleep, then complete the download and
	// advance past the poll interval.
	clock.BlockUntil(1)
	provider.setStatus("/drive/file.txt",
		cloud.Status{RemoteBacked: true, State: cloud.Current})
	clock.Advance(time.Second)

	assert.NoError(t, <-done)
}

func TestWaitForDownloadRetriesQueryFailures(t *testing.T) {
	provider := newFakeCloud()
	provider.setQueryErr("/drive/file.txt", errors.New("status service down"))

	clock := clockwork.NewFakeClock()
	snapshotter := newWaitSnapshotter(provider, clock, 0)

	done := make(chan error, 1)
	go func() {
		done <- snapshotter.waitForDownload(context.Background(), "/drive/file.txt")
	}()

	// The first query fails; the loop must keep going rather than bail.
	clock.BlockUntil(1)
	provider.setQueryErr("/drive/file.txt", nil)
	provider.setStatus("/drive/file.txt",
		cloud.Status{RemoteBacked: true, State: cloud.Current})
	clock.Advance(time.Second)

	assert.NoError(t, <-done)
}

func TestWaitForDownloadTimesOut(t *testing.T) {
	provider := newFakeCloud()
	provider.setStatus("/drive/file.txt",
		cloud.Status{RemoteBacked: true, State: cloud.Downloading})

	clock := clockwork.NewFakeClock()
	snapshotter := newWaitSnapshotter(provider, clock, 3*time.Second)

	done := make(chan error, 1)
	go func() {
		done <- snapshotter.waitForDownload(context.Background(), "/drive/file.txt")
	}()

	// Two sleepers are registered: the deadline and the poll interval.
	clock.BlockUntil(2)
	clock.Advance(5 * time.Second)

	assert.Equal(t, ErrWaitTimeout, <-done)
}

func TestWaitForDownloadHonorsCancellation(t *testing.T) {
	provider := newFakeCloud()
	provider.setStatus("/drive/file.txt",
		cloud.Status{RemoteBacked: true, State: cloud.Downloading})

	clock := clockwork.NewFakeClock()
	snapshotter := newWaitSnapshotter(provider, clock, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- snapshotter.waitForDownload(ctx, "/drive/file.txt")
	}()

	clock.BlockUntil(1)
	cancel()

	assert.Equal(t, context.Canceled, <-done)
}
