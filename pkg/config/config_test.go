package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/icesnap/icesnap/pkg/cloud"
)

func TestParse(t *testing.T) {
	fs = afero.NewMemMapFs()
	configYAML := `version: v1alpha1
pollInterval: 2s
waitTimeout: 10m
provider: local
markerPrefix: "~"
markerSuffix: .stub
`
	assert.NoError(t, afero.WriteFile(fs, "/config.yaml", []byte(configYAML), 0644))

	config, err := Parse("/config.yaml")
	assert.NoError(t, err)

	interval, err := config.GetPollInterval()
	assert.NoError(t, err)
	assert.Equal(t, 2*time.Second, interval)

	timeout, err := config.GetWaitTimeout()
	assert.NoError(t, err)
	assert.Equal(t, 10*time.Minute, timeout)

	assert.Equal(t, "local", config.Provider)
	assert.Equal(t, cloud.Convention{Prefix: "~", Suffix: ".stub"},
		config.GetConvention())
}

func TestParseMissingFileUsesDefaults(t *testing.T) {
	fs = afero.NewMemMapFs()

	config, err := Parse("/missing.yaml")
	assert.NoError(t, err)

	interval, err := config.GetPollInterval()
	assert.NoError(t, err)
	assert.Equal(t, time.Duration(0), interval)

	timeout, err := config.GetWaitTimeout()
	assert.NoError(t, err)
	assert.Equal(t, time.Duration(0), timeout)

	assert.Equal(t, cloud.DefaultConvention, config.GetConvention())
}

func TestParseVersionMismatch(t *testing.T) {
	fs = afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, "/config.yaml",
		[]byte("version: v9\n"), 0644))

	_, err := Parse("/config.yaml")
	assert.Error(t, err)
}

func TestParseUnknownField(t *testing.T) {
	fs = afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, "/config.yaml",
		[]byte("version: v1alpha1\nnotAField: true\n"), 0644))

	_, err := Parse("/config.yaml")
	assert.Error(t, err)
}

func TestParseBadDuration(t *testing.T) {
	fs = afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, "/config.yaml",
		[]byte("version: v1alpha1\npollInterval: quickly\n"), 0644))

	config, err := Parse("/config.yaml")
	assert.NoError(t, err)

	_, err = config.GetPollInterval()
	assert.Error(t, err)
}
