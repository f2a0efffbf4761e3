package compressor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SupportedExtensions lists the image extensions picked up by a run,
// without the leading dot. Matching is case-sensitive.
var SupportedExtensions = []string{"png", "jpeg", "jpg", "webp"}

// SkipFunc is told about entries below the root that could not be read.
type SkipFunc func(path string, err error)

// Discover walks root recursively and returns every regular file (or
// symlink to one) whose extension is one of exts, sorted lexicographically.
// A root that is a file yields no images. An empty result is not an error.
func Discover(root string, exts []string) ([]string, error) {
	return DiscoverFunc(root, exts, nil)
}

// DiscoverFunc is Discover that skips unreadable entries below root and
// reports them to skipped, which may be nil. Only a failure to read root
// itself is returned.
func DiscoverFunc(root string, exts []string, skipped SkipFunc) ([]string, error) {
	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		wanted[strings.TrimPrefix(ext, ".")] = true
	}

	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if skipped != nil {
				skipped(path, err)
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if path == root {
			return nil
		}

		if wanted[extension(path)] && isRegular(path, d) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error while exploring directory: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// isRegular follows symlinks; broken links and links to directories are not
// images.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// extension returns the literal text after the final dot of the base name.
func extension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}
