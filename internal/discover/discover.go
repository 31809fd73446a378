// Package discover walks a local project tree and reports every regular
// file as a path relative to the root. It applies no policy of its own;
// ignore rules and type classification happen in the sync engine.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Walk returns the relative paths of all regular files under root, sorted
// for deterministic planning. Symlinks and other non-regular entries are
// skipped.
//
// Returns an error if root does not exist or is not a directory.
func Walk(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("project root does not exist: %s", root)
		}
		return nil, fmt.Errorf("accessing project root %s: %w", root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("project root is not a directory: %s", root)
	}

	var files []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("computing relative path for %s: %w", path, err)
		}

		files = append(files, relPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", root, err)
	}

	// Sort by path for deterministic output
	sort.Strings(files)

	return files, nil
}
