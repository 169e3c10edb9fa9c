// Package fileutil provides atomic output-file helpers.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AtomicFile is an in-progress atomic write: content goes to a temp file
// next to the destination and only lands there on Commit.
type AtomicFile struct {
	// SrcInfo is the stat result of the source file.
	SrcInfo os.FileInfo

	// IsExec reports whether the source file had any executable bit set.
	IsExec bool

	// File is the temp file to write to.
	File *os.File

	name      string
	committed bool
}

const (
	ownerReadWrite = os.FileMode(0o600)
	executableBits = os.FileMode(0o111)
)

// BeginAtomic stats the source file and opens a temp file in the
// destination directory. Callers must defer Abort.
func BeginAtomic(src, dst string) (*AtomicFile, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", src, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &AtomicFile{
		SrcInfo: info,
		IsExec:  info.Mode()&executableBits != 0,
		File:    tmp,
		name:    tmp.Name(),
	}, nil
}

// Commit sets the final permissions, closes the temp file and renames it
// over dst. The executable bits are restored when exec is true.
func (a *AtomicFile) Commit(dst string, exec bool) error {
	perm := ownerReadWrite
	if exec {
		perm |= executableBits
	}

	if err := os.Chmod(a.name, perm); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := a.File.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(a.name, dst); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	a.committed = true

	return nil
}

// Abort closes and removes the temp file unless Commit already ran.
func (a *AtomicFile) Abort() {
	if a.committed {
		return
	}

	_ = a.File.Close()
	_ = os.Remove(a.name)
}

// FinalizeOutput optionally preserves timestamps and returns the output
// file size.
func FinalizeOutput(outPath string, preserveTimestamps bool, modTime time.Time) (int64, error) {
	if preserveTimestamps {
		if err := os.Chtimes(outPath, modTime, modTime); err != nil {
			return 0, fmt.Errorf("preserving timestamps: %w", err)
		}
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", outPath, err)
	}

	return info.Size(), nil
}
