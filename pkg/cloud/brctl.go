package cloud

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/icesnap/icesnap/pkg/errors"
)

// Brctl is the iCloud Drive provider for macOS. It drives materialization
// through the `brctl` command line tool that ships with the OS, and infers
// download status from the placeholder naming convention on disk.
//
// It assumes the queried tree lives under an iCloud-managed directory:
// a plain file is reported as (remote-backed, current) because iCloud keeps
// every file in such a directory in the remote tier.
type Brctl struct {
	Convention Convention
}

// NewBrctl returns a Brctl provider using the iCloud naming convention.
func NewBrctl() *Brctl {
	return &Brctl{Convention: DefaultConvention}
}

// Query infers the entry's status from what's on disk. A decorated
// placeholder means the content hasn't been fetched; the plain file means
// it's current. When neither exists under the plain name, we also check for
// the placeholder sibling so that querying a derived local path mid-fetch
// reports not-downloaded rather than an error.
func (b *Brctl) Query(path string) (Status, error) {
	name := filepath.Base(path)
	if b.Convention.IsPlaceholder(name) {
		if _, err := fs.Stat(path); err != nil {
			return Status{}, queryError(path, err)
		}
		return Status{RemoteBacked: true, State: NotDownloaded}, nil
	}

	if _, err := fs.Stat(path); err == nil {
		return Status{RemoteBacked: true, State: Current}, nil
	} else if !os.IsNotExist(err) {
		return Status{}, queryError(path, err)
	}

	placeholder := filepath.Join(filepath.Dir(path),
		b.Convention.PlaceholderName(name))
	if _, err := fs.Stat(placeholder); err != nil {
		return Status{}, queryError(path, err)
	}
	return Status{RemoteBacked: true, State: NotDownloaded}, nil
}

// Materialize requests a download of the entry's content. brctl resolves
// placeholders itself, so the request is issued against the plain name.
func (b *Brctl) Materialize(path string) error {
	return b.run("download", path)
}

// Release evicts the local copy, reverting the entry to a placeholder.
func (b *Brctl) Release(path string) error {
	return b.run("evict", path)
}

func (b *Brctl) run(subcommand, path string) error {
	out, err := exec.Command("brctl", subcommand, path).CombinedOutput()
	if err != nil {
		return errors.WithContext(err,
			fmt.Sprintf("brctl %s %q: %s", subcommand, path, out))
	}
	return nil
}

func queryError(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.FileNotFound{Path: path}
	}
	return errors.WithContext(err, "stat")
}
