// Package ioutils provides file system helpers for the downloader.
package ioutils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// CopyFile copies a file from source to destination, truncating an
// existing destination.
func CopyFile(ctx context.Context, src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	return err
}

// WriteFile writes data to a file with mode 0644, creating or
// truncating it.
func WriteFile(ctx context.Context, path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names, with Windows as the most restrictive target.
//
// Transformations:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Lecture 3: Limits 1/2") // "Lecture 3_ Limits 1_2"
func SanitizeFileName(name string) string {
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")
	name = strings.TrimRight(name, " ")

	return name
}

// EnsureDir creates a directory and all parents with mode 0755. An
// existing directory is not an error.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// NonEmptyFile reports whether path exists as a regular file with
// non-zero size.
func NonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// MergeDir moves the contents of src into dst, recursing into
// subdirectories. A file that already exists at the destination is
// never overwritten; it stays behind in src and its path is returned
// as a conflict. Directories emptied by the merge are removed, so a
// conflict-free merge leaves no src directory behind.
func MergeDir(src, dst string) (conflicts []string, err error) {
	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, err
	}
	if err := EnsureDir(dst); err != nil {
		return nil, err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			sub, err := MergeDir(srcPath, dstPath)
			if err != nil {
				return conflicts, err
			}
			conflicts = append(conflicts, sub...)
			continue
		}

		if _, err := os.Stat(dstPath); err == nil {
			conflicts = append(conflicts, srcPath)
			continue
		}
		if err := os.Rename(srcPath, dstPath); err != nil {
			return conflicts, fmt.Errorf("merge %s into %s: %w", srcPath, dstPath, err)
		}
	}

	// Drop src if the merge emptied it; a leftover conflict keeps it.
	if remaining, err := os.ReadDir(src); err == nil && len(remaining) == 0 {
		if err := os.Remove(src); err != nil {
			return conflicts, err
		}
	}
	return conflicts, nil
}
