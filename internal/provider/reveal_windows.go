//go:build windows

package provider

import "os/exec"

// openInFileManager opens Explorer with path selected
func openInFileManager(path string) error {
	return exec.Command("explorer.exe", "/select,", path).Start()
}
