package snapshot

import (
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/icesnap/icesnap/pkg/errors"
)

// Outcome is the result of a single copy decision.
type Outcome int

const (
	// OutcomeCopied means the destination now holds a byte-faithful copy.
	OutcomeCopied Outcome = iota

	// OutcomeSkipped means the destination already existed and overwriting
	// is disabled. Nothing was touched.
	OutcomeSkipped

	// OutcomeFailed means an I/O error occurred. The destination may be
	// partial or absent; the copy makes no rollback guarantee.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCopied:
		return "copied"
	case OutcomeSkipped:
		return "skipped-exists"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Totals accumulates run-wide statistics. It's owned by the orchestrator
// for the duration of a run and handed to the copy engine by pointer.
// Only the single walk goroutine mutates it, so it needs no locking.
type Totals struct {
	BytesCopied  int64
	FilesCopied  int
	FilesSkipped int
	FilesFailed  int
}

// Copier copies ready (local) files into the destination tree under an
// overwrite policy.
type Copier struct {
	overwrite bool
	totals    *Totals
}

// NewCopier creates a copy engine. `totals` may not be nil.
func NewCopier(overwrite bool, totals *Totals) *Copier {
	return &Copier{overwrite: overwrite, totals: totals}
}

// Copy copies the file at `src` to `dst`. When `dst` exists and overwriting
// is disabled, the copy is skipped with no side effects.
func (c *Copier) Copy(src, dst string) (Outcome, error) {
	if !c.overwrite {
		exists, err := afero.Exists(fs, dst)
		if err != nil {
			c.totals.FilesFailed++
			return OutcomeFailed, errors.WithContext(err, "check destination")
		}
		if exists {
			c.totals.FilesSkipped++
			return OutcomeSkipped, nil
		}
	}

	copied, err := c.copyContents(src, dst)
	if err != nil {
		c.totals.FilesFailed++
		return OutcomeFailed, err
	}

	c.totals.BytesCopied += copied
	c.totals.FilesCopied++
	return OutcomeCopied, nil
}

func (c *Copier) copyContents(src, dst string) (int64, error) {
	srcInfo, err := fs.Stat(src)
	if err != nil {
		return 0, errors.WithContext(err, "stat source")
	}

	srcFile, err := fs.Open(src)
	if err != nil {
		return 0, errors.WithContext(err, "open source")
	}
	defer srcFile.Close()

	dstFile, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
		srcInfo.Mode())
	if err != nil {
		return 0, errors.WithContext(err, "create destination")
	}

	copied, err := io.Copy(dstFile, srcFile)
	if err != nil {
		dstFile.Close()
		return 0, errors.WithContext(err, "copy contents")
	}

	if err := dstFile.Close(); err != nil {
		return 0, errors.WithContext(err, "close destination")
	}
	return copied, nil
}
