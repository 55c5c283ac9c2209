// Package filewalker enumerates the files a run will process: every
// file under the root whose extension has a scanner rule, excluding
// hidden directories, common tooling directories, vendored paths, and
// binary content.
package filewalker

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/rs/zerolog/log"

	"github.com/djairjr/translate-folder/internal/scanner"
)

// deniedDirs are never descended into.
var deniedDirs = map[string]bool{
	"node_modules": true,
	"venv":         true,
	"__pycache__":  true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
}

// sniffLen is how much of a file is read to decide whether it is binary.
const sniffLen = 8192

// Walk discovers all supported files under root, in traversal order.
// It fails only on an invalid root; unreadable entries below it are
// logged and skipped.
func Walk(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var paths []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = d.Name()
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || deniedDirs[d.Name()] || enry.IsVendor(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := scanner.RuleFor(ext); !ok {
			return nil
		}

		if isBinary(path) {
			log.Debug().Str("path", path).Msg("Skipping binary file")
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(paths)).Str("root", root).Msg("Discovered files")
	return paths, nil
}

// isBinary sniffs the head of the file. Files that cannot be read here
// are left in the run so the pipeline can report the failure properly.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return false
	}
	return enry.IsBinary(head[:n])
}
