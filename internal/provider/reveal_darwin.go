//go:build darwin

package provider

import "os/exec"

// openInFileManager reveals path in Finder with the item selected
func openInFileManager(path string) error {
	return exec.Command("open", "-R", path).Start()
}
