//go:build unix

package fileutil

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FreeSpace reports the available bytes on the filesystem holding dir.
func FreeSpace(dir string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0, fmt.Errorf("statfs %q: %w", dir, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
