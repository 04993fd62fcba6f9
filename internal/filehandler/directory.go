package filehandler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ScanOptions configures directory scanning behavior.
type ScanOptions struct {
	// MaxDepth limits recursion depth. 0 = unlimited, 1 = top-level only.
	MaxDepth int

	// Limit caps the number of files returned. 0 = unlimited.
	Limit int

	// Match selects the files to return. nil accepts every supported file.
	Match func(path string) bool
}

// ScanDirectory walks dirPath for supported media files and returns their
// absolute paths sorted alphabetically. Unreadable entries are skipped.
func ScanDirectory(fsys afero.Fs, dirPath string, opts ScanOptions) ([]string, error) {
	log.Debug().
		Str("path", dirPath).
		Int("max_depth", opts.MaxDepth).
		Int("limit", opts.Limit).
		Msg("Scanning directory for media")

	info, err := fsys.Stat(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory not found: %w", err)
		}
		return nil, fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s: %w", dirPath, fs.ErrNotExist)
	}

	// Absolute path for consistent depth calculation
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	baseDepth := strings.Count(absPath, string(os.PathSeparator))

	match := opts.Match
	if match == nil {
		match = func(path string) bool { return IsSupported(filepath.Ext(path)) }
	}

	var paths []string
	limitReached := false

	err = afero.Walk(fsys, absPath, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error accessing path, skipping")
			return nil
		}

		if info.IsDir() {
			if opts.MaxDepth > 0 && path != absPath {
				depth := strings.Count(path, string(os.PathSeparator)) - baseDepth
				if depth >= opts.MaxDepth {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if opts.Limit > 0 && len(paths) >= opts.Limit {
			limitReached = true
			return filepath.SkipAll
		}

		if !info.Mode().IsRegular() || !match(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil && !errors.Is(err, filepath.SkipAll) {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(paths)

	evt := log.Debug().Int("files", len(paths)).Str("directory", absPath)
	if limitReached {
		evt = evt.Bool("limit_reached", true)
	}
	evt.Msg("Directory scan complete")

	return paths, nil
}
