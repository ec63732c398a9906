//go:build windows

package model

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

func platformDiskUsage(path string) (DiskUsage, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return DiskUsage{}, err
	}
	var freeAvail, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(p, &freeAvail, &total, &totalFree); err != nil {
		return DiskUsage{}, err
	}
	return DiskUsage{Total: int64(total), Free: int64(freeAvail)}, nil
}

func platformIsMountRoot(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	vol := filepath.VolumeName(abs)
	return vol != "" && strings.EqualFold(filepath.Clean(abs), vol+`\`)
}
