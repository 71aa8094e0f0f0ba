package siteconfig

import (
	"errors"
	"strings"
)

// ErrDescriptionUnavailable is returned by a DescriptionSource that has no value to offer.
var ErrDescriptionUnavailable = errors.New("description unavailable")

// DescriptionSource supplies the fallback description for locales that omit one.
// Resolve calls it once per such locale. A blank value counts as not supplied,
// whichever source returns it.
type DescriptionSource interface {
	Description() (string, error)
}

// DescriptionFunc adapts an ordinary function to a DescriptionSource.
type DescriptionFunc func() (string, error)

// Description calls f.
func (f DescriptionFunc) Description() (string, error) { return f() }

// StaticDescription is a DescriptionSource for a value the caller already holds.
type StaticDescription string

// Description returns s, or ErrDescriptionUnavailable when s is blank.
func (s StaticDescription) Description() (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrDescriptionUnavailable
	}
	return string(s), nil
}
