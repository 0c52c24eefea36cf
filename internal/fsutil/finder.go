// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FindFirst returns the first existing regular file base.<ext>, probing the
// extensions in order. It returns fs.ErrNotExist when none exists.
func FindFirst(base string, extensions []string) (string, error) {
	if len(extensions) == 0 {
		panic("extensions must not be empty")
	}
	for _, ext := range extensions {
		path := base + "." + ext
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("%s.{%v}: %w", base, extensions, fs.ErrNotExist)
}

// ListFiles returns the names of the regular files directly inside dir,
// sorted. A missing directory yields no names.
func ListFiles(dir string) ([]string, error) {
	return list(dir, func(d fs.DirEntry) bool { return d.Type().IsRegular() })
}

// ListDirs returns the names of the directories directly inside dir, sorted.
func ListDirs(dir string) ([]string, error) {
	return list(dir, func(d fs.DirEntry) bool { return d.IsDir() })
}

func list(dir string, keep func(fs.DirEntry) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if keep(e) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// CopyFile copies src to dst, creating dst's directory when needed.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
