// Package pkgmeta reads project metadata from a package.json manifest.
package pkgmeta

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/siteconfig"
)

// Manifest is the subset of package.json docsite cares about.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// File is a siteconfig.DescriptionSource backed by a package.json file.
// The file is read at most once; later calls return the memoized result.
type File struct {
	path string

	once     sync.Once
	manifest Manifest
	err      error
}

// NewFile returns a lazily read manifest at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the manifest location.
func (f *File) Path() string { return f.path }

// Manifest reads and decodes the file.
func (f *File) Manifest() (Manifest, error) {
	f.once.Do(func() {
		f.manifest, f.err = readManifest(f.path)
	})
	return f.manifest, f.err
}

// Description implements siteconfig.DescriptionSource. A missing file or an
// empty description field reports siteconfig.ErrDescriptionUnavailable.
func (f *File) Description() (string, error) {
	m, err := f.Manifest()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(m.Description) == "" {
		return "", fmt.Errorf("%s has no description: %w", f.path, siteconfig.ErrDescriptionUnavailable)
	}
	return m.Description, nil
}

func readManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return m, fmt.Errorf("%s not found: %w", path, siteconfig.ErrDescriptionUnavailable)
		}
		return m, errors.WrapError(err, errors.CategoryFileSystem, "failed to read package manifest").
			Retryable().
			WithContext("path", path).
			Build()
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, errors.WrapError(err, errors.CategoryConfig, "failed to parse package manifest").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return m, nil
}
