//go:build linux || darwin || freebsd

package model

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

func platformDiskUsage(path string) (DiskUsage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return DiskUsage{}, err
	}
	bsize := int64(st.Bsize)
	return DiskUsage{
		Total: int64(st.Blocks) * bsize,
		Free:  int64(st.Bavail) * bsize,
	}, nil
}

func platformIsMountRoot(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	abs = filepath.Clean(abs)
	if abs == "/" {
		return true
	}

	// A mount point lives on a different device than its parent directory
	var self, parent unix.Stat_t
	if err := unix.Stat(abs, &self); err != nil {
		return false
	}
	if err := unix.Stat(filepath.Dir(abs), &parent); err != nil {
		return false
	}
	return self.Dev != parent.Dev
}
