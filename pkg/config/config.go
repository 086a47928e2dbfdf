package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/icesnap/icesnap/pkg/cloud"
	"github.com/icesnap/icesnap/pkg/errors"
)

// DefaultPath is the config file location consulted when the user doesn't
// pass --config.
const DefaultPath = "~/.icesnap.yaml"

// InitialConfigVersion is the first version of the icesnap config. Config
// files that do not specify a version will default to this version.
const InitialConfigVersion = "v1alpha1"

// SupportedConfigVersion is the config version supported by the current
// icesnap binary.
const SupportedConfigVersion = "v1alpha1"

// Config contains the tunables for a snapshot run. Everything is optional;
// zero values fall back to the defaults below.
type Config struct {
	Version string `json:"version,omitempty"`

	// PollInterval is how long the materialization wait sleeps between
	// status queries. Parsed as a Go duration string ("500ms", "2s").
	PollInterval string `json:"pollInterval,omitempty"`

	// WaitTimeout bounds how long a single file may spend waiting to
	// materialize. Empty or "0" means wait forever.
	WaitTimeout string `json:"waitTimeout,omitempty"`

	// Provider selects the remote storage provider: auto, brctl, or local.
	Provider string `json:"provider,omitempty"`

	// MarkerPrefix and MarkerSuffix override the placeholder naming
	// convention. Both default to the iCloud convention.
	MarkerPrefix string `json:"markerPrefix,omitempty"`
	MarkerSuffix string `json:"markerSuffix,omitempty"`
}

func (c Config) getVersion() string {
	return c.Version
}

// GetConvention returns the placeholder naming convention, falling back to
// the iCloud convention for any marker that isn't overridden.
func (c Config) GetConvention() cloud.Convention {
	convention := cloud.DefaultConvention
	if c.MarkerPrefix != "" {
		convention.Prefix = c.MarkerPrefix
	}
	if c.MarkerSuffix != "" {
		convention.Suffix = c.MarkerSuffix
	}
	return convention
}

// GetPollInterval returns the configured poll interval. Zero means the
// engine's default.
func (c Config) GetPollInterval() (time.Duration, error) {
	if c.PollInterval == "" {
		return 0, nil
	}
	interval, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return 0, errors.NewFriendlyError(
			"The pollInterval %q in the icesnap config is not a valid "+
				"duration. Durations look like \"500ms\" or \"2s\".", c.PollInterval)
	}
	return interval, nil
}

// GetWaitTimeout returns the configured materialization timeout. Zero means
// no timeout.
func (c Config) GetWaitTimeout() (time.Duration, error) {
	if c.WaitTimeout == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(c.WaitTimeout)
	if err != nil {
		return 0, errors.NewFriendlyError(
			"The waitTimeout %q in the icesnap config is not a valid "+
				"duration. Durations look like \"10m\" or \"1h\".", c.WaitTimeout)
	}
	return timeout, nil
}

// Parse reads the config file at `path`. A missing file isn't an error:
// the zero Config (i.e. all defaults) is returned instead, since the config
// file is entirely optional.
func Parse(path string) (Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Config{}, errors.WithContext(err, "expand homedir")
	}

	config := Config{Version: InitialConfigVersion}
	if err := parseConfig(expanded, &config, SupportedConfigVersion); err != nil {
		if _, ok := errors.RootCause(err).(errors.FileNotFound); ok {
			return Config{Version: InitialConfigVersion}, nil
		}
		return Config{}, errors.WithContext(err, "parse config")
	}
	return config, nil
}

// parseConfigErrTemplate is a template for when the CLI fails to parse yaml
// configuration files. This can happen for a multitude of reasons, including
// extraneous fields and incorrect field types. However, the yaml library
// constructs errors in a way that loses context, and so we can only pass the
// error message on.
const parseConfigErrTemplate = "Configuration file could not be parsed. " +
	"Please review %q.\n" +
	"Common pitfalls include:\n" +
	" - Using the wrong types for fields\n" +
	" - Having extra fields inside the config file\n\n" +
	"For reference, here is the error from the parser:\n" +
	"%s"

type configInterface interface {
	getVersion() string
}

type incompatibleVersionError struct {
	path, exp, actual string
}

func (err incompatibleVersionError) Error() string {
	return err.FriendlyMessage()
}

func (err incompatibleVersionError) FriendlyMessage() string {
	return fmt.Sprintf("The configuration file %q is incompatible "+
		"with this version of icesnap.\n"+
		"Expected version %q, but got %q.", err.path, err.exp, err.actual)
}

func parseConfig(path string, config configInterface, expVersion string) error {
	configBytes, err := afero.ReadFile(fs, path)
	if err != nil {
		if isPathNotFoundError(err) {
			return errors.FileNotFound{Path: path}
		}
		return errors.WithContext(err, "read file")
	}

	err = yaml.Unmarshal(configBytes, config)
	if err != nil {
		return errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}

	if config.getVersion() != expVersion {
		return incompatibleVersionError{path, expVersion, config.getVersion()}
	}

	// Do a strict unmarshal to check for any extra fields. We do a non-strict
	// unmarshal first so that we can catch version errors before erroring on
	// extra fields.
	err = yaml.UnmarshalStrict(configBytes, config, yaml.DisallowUnknownFields)
	if err != nil {
		return errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}
	return nil
}

func isPathNotFoundError(err error) bool {
	if fileErr, ok := err.(*os.PathError); ok {
		return os.IsNotExist(fileErr.Err)
	}
	return false
}
