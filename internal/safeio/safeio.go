// Package safeio writes output files atomically. Reports and the analysis
// cache land via a temp file plus rename so a crashed run never leaves a
// half-written file behind.
package safeio

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to path through a temporary file in the same
// directory, then renames it into place. With safeMode set, a symlink at the
// destination is refused (both before writing and again before the rename)
// so the write cannot be redirected outside the output directory.
func WriteFileAtomic(path string, data []byte, safeMode bool) error {
	dir := filepath.Dir(path)

	if safeMode {
		if err := rejectSymlink(path); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, ".audioquality_tmp_*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}

	if safeMode {
		if err := rejectSymlink(path); err != nil {
			return err
		}
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("atomic rename to %s: %w", path, err)
	}
	return nil
}

func rejectSymlink(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		// Destination does not exist yet, nothing to refuse.
		return nil
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("refusing to write through symlink: %s", path)
	}
	return nil
}
