//go:build !windows

package scanner

import (
	"io/fs"
	"sync"
	"syscall"
)

// rootDevice identifies the filesystem the scan started on
type rootDevice struct {
	dev uint64
	ok  bool
}

func getPlatformRootInfo(path string) rootDevice {
	var st syscall.Stat_t
	if err := syscall.Stat(path, &st); err != nil {
		return rootDevice{}
	}
	return rootDevice{dev: uint64(st.Dev), ok: true}
}

// shouldSkipDir stops the walk at other filesystems and at directories
// reached twice through firmlinks
func shouldSkipDir(path string, d fs.DirEntry, root rootDevice, seen *sync.Map) bool {
	info, err := d.Info()
	if err != nil {
		return false
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	if root.ok && uint64(st.Dev) != root.dev {
		return true
	}
	_, dup := seen.LoadOrStore(inodeKey{dev: uint64(st.Dev), ino: uint64(st.Ino)}, struct{}{})
	return dup
}

type inodeKey struct {
	dev, ino uint64
}

// getFileSize returns the allocated size, or -1 for a hard link already counted
func getFileSize(info fs.FileInfo, seen *sync.Map) int64 {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.Size()
	}
	if st.Nlink > 1 {
		if _, dup := seen.LoadOrStore(inodeKey{dev: uint64(st.Dev), ino: uint64(st.Ino)}, struct{}{}); dup {
			return -1
		}
	}
	// Blocks is in 512-byte units, which accounts for sparse files
	return int64(st.Blocks) * 512
}
