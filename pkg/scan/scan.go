// SPDX-License-Identifier: MPL-2.0

// Package scan finds configuration files below a base directory using
// doublestar glob patterns ("**/*.gopipeline.json").
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is returned for patterns doublestar cannot parse.
var ErrInvalidPattern = errors.New("invalid file pattern")

// Scanner lists files matching a pattern relative to a base directory.
type Scanner struct {
	dirFS func(dir string) fs.FS
}

// New creates a Scanner over the operating system file system.
func New() *Scanner {
	return &Scanner{dirFS: os.DirFS}
}

// NewFS creates a Scanner that resolves base directories inside fsys.
// It is mainly used by tests with fstest.MapFS.
func NewFS(fsys fs.FS) *Scanner {
	return &Scanner{dirFS: func(dir string) fs.FS {
		if dir == "" || dir == "." {
			return fsys
		}
		sub, err := fs.Sub(fsys, dir)
		if err != nil {
			return fsys
		}
		return sub
	}}
}

// FilesMatchingPattern returns the slash-separated paths of regular files
// under baseDir that match pattern, relative to baseDir and sorted.
func (s *Scanner) FilesMatchingPattern(baseDir, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	fsys := s.dirFS(baseDir)
	if _, err := fs.Stat(fsys, "."); err != nil {
		return nil, fmt.Errorf("scan %s: %w", baseDir, err)
	}

	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scan %s for %q: %w", baseDir, pattern, err)
	}
	slices.Sort(matches)
	return matches, nil
}
