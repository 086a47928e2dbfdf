package cloud

import (
	"runtime"

	"github.com/icesnap/icesnap/pkg/errors"
)

// Select returns the provider for the given configuration value.
// "auto" picks the iCloud provider on macOS and the local provider
// everywhere else.
func Select(name string, convention Convention) (Provider, error) {
	switch name {
	case "", "auto":
		if runtime.GOOS == "darwin" {
			return &Brctl{Convention: convention}, nil
		}
		return NewLocal(), nil
	case "brctl":
		return &Brctl{Convention: convention}, nil
	case "local":
		return NewLocal(), nil
	}
	return nil, errors.NewFriendlyError(
		"Unknown provider %q. Valid providers are auto, brctl, and local.", name)
}
