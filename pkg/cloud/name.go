package cloud

import (
	"fmt"
	"strings"
)

// Convention describes how the remote storage provider decorates the
// on-disk name of a not-yet-materialized entry. A placeholder for
// `photo.jpg` with the default convention is named `.photo.jpg.icloud`.
type Convention struct {
	// Prefix is prepended to the file name. Exactly one instance.
	Prefix string

	// Suffix is appended to the file name. Exactly one instance.
	Suffix string
}

// DefaultConvention is the naming convention used by iCloud Drive.
var DefaultConvention = Convention{Prefix: ".", Suffix: ".icloud"}

// AmbiguousNameError is returned when a placeholder name still starts with
// the marker prefix after the decoration has been stripped. Files whose real
// names begin with the prefix character trip up the provider's own APIs, so
// we refuse to guess and report the entry instead.
type AmbiguousNameError struct {
	Name string
}

func (err AmbiguousNameError) Error() string {
	return fmt.Sprintf("placeholder %q has a second leading marker, "+
		"so its local name can't be derived safely", err.Name)
}

// IsPlaceholder reports whether `name` carries the placeholder decoration.
func (c Convention) IsPlaceholder(name string) bool {
	return strings.HasPrefix(name, c.Prefix) &&
		strings.HasSuffix(name, c.Suffix) &&
		len(name) > len(c.Prefix)+len(c.Suffix)
}

// LocalName derives the materialized file name from a placeholder name by
// stripping exactly one leading prefix and one trailing suffix.
// LocalName(PlaceholderName(x)) == x for any well-formed x.
func (c Convention) LocalName(name string) (string, error) {
	if !c.IsPlaceholder(name) {
		return "", fmt.Errorf("%q is not a placeholder name", name)
	}

	stripped := strings.TrimPrefix(name, c.Prefix)
	stripped = strings.TrimSuffix(stripped, c.Suffix)
	if stripped == "" {
		return "", fmt.Errorf("%q is nothing but markers", name)
	}

	if strings.HasPrefix(stripped, c.Prefix) {
		return "", AmbiguousNameError{Name: name}
	}
	return stripped, nil
}

// PlaceholderName returns the decorated name the provider would use for a
// not-yet-materialized file named `name`.
func (c Convention) PlaceholderName(name string) string {
	return c.Prefix + name + c.Suffix
}
