// Package fileutil provides path-safe output writing for site builds.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrEmptyPath     = errors.New("path cannot be empty")
	ErrAbsolutePath  = errors.New("path must be relative to the output directory")
	ErrPathTraversal = errors.New("path escapes the output directory")
)

// ValidateRelPath checks that rel is safe to join under an output directory:
// non-empty, relative, free of null bytes, and unable to climb out via "..".
func ValidateRelPath(rel string) error {
	if rel == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(rel, '\x00') {
		return fmt.Errorf("%w: null byte", ErrPathTraversal)
	}
	if filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %q", ErrAbsolutePath, rel)
	}
	clean := filepath.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %q", ErrPathTraversal, rel)
	}
	return nil
}

// WriteFile writes data to dir/rel, creating parent directories as needed.
func WriteFile(dir, rel string, data []byte) error {
	if err := ValidateRelPath(rel); err != nil {
		return err
	}
	full := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
