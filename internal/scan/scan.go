// Package scan discovers NFO metadata files beneath a directory tree.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtension is the literal suffix recognised when Options.Extension is empty.
const DefaultExtension = ".nfo"

// ErrNotDirectory is returned when the scan root exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Options tunes discovery.
type Options struct {
	// Extension is matched as a case-sensitive filename suffix.
	Extension string
	// Exclude holds doublestar patterns matched against the slash-separated
	// path relative to the root. Matching directories are not descended into.
	Exclude []string
}

// Find validates root and returns a single-use sequence of every file under it
// whose name ends with the configured extension, in WalkDir order. An empty
// root means the current working directory. Walk errors are yielded with an
// empty path; the consumer decides whether to keep iterating.
func Find(root string, opts Options) (iter.Seq2[string, error], error) {
	root, err := ResolveRoot(root)
	if err != nil {
		return nil, err
	}

	ext := opts.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	consumed := false
	return func(yield func(string, error) bool) {
		if consumed {
			return
		}
		consumed = true

		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				if !yield("", walkErr) {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if path != root && isExcluded(root, path, opts.Exclude) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
				return nil
			}
			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}, nil
}

// ResolveRoot cleans root, defaulting to the working directory, and checks
// that it names an existing directory.
func ResolveRoot(root string) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("scan root %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("scan root %q: %w", root, ErrNotDirectory)
	}
	return root, nil
}

// Collect drains a sequence into a slice, stopping at the first error.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var paths []string
	for path, err := range seq {
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func isExcluded(root, path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
