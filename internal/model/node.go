package model

import "time"

// NoID marks the absence of a node, e.g. the parent of the root
const NoID = -1

// FreeSpaceName is the display name of the synthetic free space node
const FreeSpaceName = "[Free Disk Space]"

// Node represents a file, folder or free space entry in a scanned tree
type Node struct {
	ID          int
	Name        string
	Path        string
	Size        int64 // bytes (total for folders, allocated size for files)
	IsFolder    bool
	IsFreeSpace bool
	ModTime     time.Time

	// Set on a mount root only
	DiskTotal int64
	DiskFree  int64

	Children []*Node
}

// TotalSize returns the cached total size (call ComputeSizes first)
func (n *Node) TotalSize() int64 {
	return n.Size
}

// ComputeSizes calculates and caches folder sizes for the entire tree.
// Free space children are not part of a folder's used size.
func (n *Node) ComputeSizes() int64 {
	if !n.IsFolder {
		return n.Size
	}
	var total int64
	for _, child := range n.Children {
		if child.IsFreeSpace {
			child.ComputeSizes()
			continue
		}
		total += child.ComputeSizes()
	}
	n.Size = total
	return total
}

// IsContainer reports whether the node can become a navigation focus
func (n *Node) IsContainer() bool {
	return n != nil && n.IsFolder && !n.IsFreeSpace
}

// UsedBytes returns the used capacity of the disk the node is the root of
func (n *Node) UsedBytes() int64 {
	return n.DiskTotal - n.DiskFree
}

// HasDiskInfo reports whether disk capacity was recorded on the node
func (n *Node) HasDiskInfo() bool {
	return n.DiskTotal > 0
}
