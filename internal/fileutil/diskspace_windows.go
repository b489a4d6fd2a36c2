//go:build windows

package fileutil

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// FreeSpace reports the available bytes on the filesystem holding dir.
func FreeSpace(dir string) (uint64, error) {
	path, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return 0, fmt.Errorf("encode path %q: %w", dir, err)
	}
	var available, total, free uint64
	if err := windows.GetDiskFreeSpaceEx(path, &available, &total, &free); err != nil {
		return 0, fmt.Errorf("disk free space for %q: %w", dir, err)
	}
	return available, nil
}
