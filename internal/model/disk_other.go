//go:build !linux && !darwin && !freebsd && !windows

package model

import (
	"errors"
	"path/filepath"
)

func platformDiskUsage(path string) (DiskUsage, error) {
	return DiskUsage{}, errors.New("disk usage not supported on this platform")
}

func platformIsMountRoot(path string) bool {
	abs, err := filepath.Abs(path)
	return err == nil && filepath.Clean(abs) == "/"
}
