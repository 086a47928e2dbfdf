package cloud

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/icesnap/icesnap/pkg/errors"
)

func TestBrctlQuery(t *testing.T) {
	fs = afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, "/drive/.a.txt.icloud", []byte("stub"), 0644))
	assert.NoError(t, afero.WriteFile(fs, "/drive/b.txt", []byte("contents"), 0644))
	assert.NoError(t, afero.WriteFile(fs, "/drive/.c.txt.icloud", []byte("stub"), 0644))

	provider := NewBrctl()

	// A placeholder queried by its decorated name.
	status, err := provider.Query("/drive/.a.txt.icloud")
	assert.NoError(t, err)
	assert.Equal(t, Status{RemoteBacked: true, State: NotDownloaded}, status)

	// A fully downloaded file.
	status, err = provider.Query("/drive/b.txt")
	assert.NoError(t, err)
	assert.Equal(t, Status{RemoteBacked: true, State: Current}, status)

	// A derived local path whose content hasn't landed yet: the placeholder
	// sibling still exists, so the file counts as not downloaded rather
	// than missing.
	status, err = provider.Query("/drive/c.txt")
	assert.NoError(t, err)
	assert.Equal(t, Status{RemoteBacked: true, State: NotDownloaded}, status)

	// Nothing on disk at all.
	_, err = provider.Query("/drive/missing.txt")
	assert.Error(t, err)
	_, isNotFound := errors.RootCause(err).(errors.FileNotFound)
	assert.True(t, isNotFound)
}
