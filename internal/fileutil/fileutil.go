// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDirectory is returned by CopyDir when the source is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CopyDir copies the tree rooted at src into dst, creating dst.
// Symbolic links in src are rejected.
func CopyDir(src, dst string) error {
	if !DirExists(src) {
		return fmt.Errorf("%w: %s", ErrNotDirectory, src)
	}
	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return nil
}

// FileURL converts a local path to a file:// URL as office suites expect
// in -env:UserInstallation, e.g. "file:///tmp/profile" or "file:///C:/tmp".
func FileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "pool" -> false (name)
//   - "./pool.yaml" -> true (relative path)
//   - "/etc/officepool/pool.yaml" -> true (absolute)
//   - "C:\officepool\pool.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
