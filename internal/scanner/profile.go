package scanner

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultMinFileSize is the smallest file kept as a node by default
const DefaultMinFileSize = 1024

// Profile controls which entries a scan keeps
type Profile struct {
	ExcludedPaths []string
	SkipHidden    bool
	MinFileSize   int64 // files with a smaller allocated size are skipped
}

// DefaultProfile returns the per-OS default profile
func DefaultProfile() Profile {
	p := Profile{MinFileSize: DefaultMinFileSize}
	switch runtime.GOOS {
	case "linux":
		p.ExcludedPaths = []string{"/proc", "/sys", "/dev", "/run", "/snap"}
	case "darwin":
		p.ExcludedPaths = []string{"/System/Volumes", "/private/var/vm", "/Volumes"}
	case "windows":
		p.ExcludedPaths = []string{`C:\$Recycle.Bin`, `C:\System Volume Information`}
	}
	return p
}

// excluded reports whether path equals or lives under an excluded path
func (p Profile) excluded(path string) bool {
	fold := func(s string) string {
		if runtime.GOOS == "windows" {
			return strings.ToLower(s)
		}
		return s
	}
	ap := fold(path)
	for _, ex := range p.ExcludedPaths {
		ex = fold(filepath.Clean(ex))
		if ap == ex || strings.HasPrefix(ap, ex+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

// hidden reports whether the entry should be skipped as hidden
func (p Profile) hidden(name string) bool {
	return p.SkipHidden && strings.HasPrefix(name, ".")
}
