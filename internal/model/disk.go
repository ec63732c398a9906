package model

// DiskUsage holds capacity information for the volume containing a path
type DiskUsage struct {
	Total int64
	Free  int64
}

// Used returns bytes in use on the volume
func (d DiskUsage) Used() int64 {
	return d.Total - d.Free
}

// UsedPercent returns percentage of the volume in use
func (d DiskUsage) UsedPercent() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Used()) / float64(d.Total) * 100
}

// GetDiskUsage returns capacity information for the volume holding path
func GetDiskUsage(path string) (DiskUsage, error) {
	return platformDiskUsage(path)
}

// IsMountRoot reports whether path is the root of a mounted volume
func IsMountRoot(path string) bool {
	return platformIsMountRoot(path)
}
