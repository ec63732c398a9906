//go:build !windows && !darwin

package provider

import (
	"os"
	"os/exec"
	"path/filepath"
)

// openInFileManager opens the folder holding path with xdg-open.
// Folders are opened directly.
func openInFileManager(path string) error {
	target := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		target = filepath.Dir(path)
	}
	return exec.Command("xdg-open", target).Start()
}
