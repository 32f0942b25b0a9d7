// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindFilesByExtensions recursively searches the given root path for all files
// whose extension matches one of extensions, ignoring case. The result is
// sorted lexicographically so callers see a stable order on every platform.
func FindFilesByExtensions(rootPath string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("at least one extension must be given")
	}

	want := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		if ext == "" {
			panic("extension must not be empty")
		}
		want[strings.ToLower(ext)] = struct{}{}
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := want[strings.ToLower(filepath.Ext(d.Name()))]; ok {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ResolveFold joins rel onto dir, matching each path element against the
// directory entries without regard to case. Vehicle files written on
// case-insensitive systems name their shapes loosely. It returns the real
// path and whether every element was found.
func ResolveFold(dir, rel string) (string, bool) {
	rel = strings.ReplaceAll(rel, "\\", "/")
	current := dir
	for _, part := range strings.Split(rel, "/") {
		if part == "" || part == "." {
			continue
		}
		if part == ".." {
			current = filepath.Dir(current)
			continue
		}
		candidate := filepath.Join(current, part)
		if _, err := os.Stat(candidate); err == nil {
			current = candidate
			continue
		}
		entries, err := os.ReadDir(current)
		if err != nil {
			return filepath.Join(dir, rel), false
		}
		found := false
		for _, e := range entries {
			if strings.EqualFold(e.Name(), part) {
				current = filepath.Join(current, e.Name())
				found = true
				break
			}
		}
		if !found {
			return filepath.Join(dir, filepath.FromSlash(rel)), false
		}
	}
	return current, true
}
