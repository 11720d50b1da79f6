// Package platform provides cross-platform permission handling for the
// files the updater swaps around. On Unix it uses chmod directly; Windows
// has no Unix-style permission bits, so the operations degrade to no-ops.
package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// CopyMode applies src's permission bits to dst. Used after promoting a
// staging file so the live script keeps the mode the user gave it.
func CopyMode(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	return Chmod(dst, info.Mode().Perm())
}
