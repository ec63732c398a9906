//go:build windows

package scanner

import (
	"io/fs"
	"sync"
)

// rootDevice is empty on Windows where each drive is scanned separately
type rootDevice struct{}

func getPlatformRootInfo(path string) rootDevice {
	return rootDevice{}
}

func shouldSkipDir(path string, d fs.DirEntry, root rootDevice, seen *sync.Map) bool {
	return false
}

// getFileSize returns the logical size; allocation size is not exposed by FileInfo here
func getFileSize(info fs.FileInfo, seen *sync.Map) int64 {
	return info.Size()
}
