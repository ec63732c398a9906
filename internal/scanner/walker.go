package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/lumipallolabs/spacemap/internal/logging"
	"github.com/lumipallolabs/spacemap/internal/model"
)

// progressInterval is how often progress snapshots are published
const progressInterval = 200 * time.Millisecond

// Walker implements parallel filesystem scanning.
// A Walker performs a single scan; its progress channel closes when it ends.
type Walker struct {
	workers    int
	profile    Profile
	progressCh chan Progress

	files atomic.Int64
	dirs  atomic.Int64
	bytes atomic.Int64
}

// NewWalker creates a new parallel filesystem walker
func NewWalker(workers int, profile Profile) *Walker {
	if workers < 1 {
		workers = 8
	}
	return &Walker{
		workers:    workers,
		profile:    profile,
		progressCh: make(chan Progress, 100),
	}
}

// Progress returns the progress channel
func (w *Walker) Progress() <-chan Progress {
	return w.progressCh
}

func (w *Walker) snapshot() Progress {
	return Progress{
		FilesScanned: w.files.Load(),
		DirsScanned:  w.dirs.Load(),
		BytesFound:   w.bytes.Load(),
	}
}

// publish sends a snapshot without blocking the walk
func (w *Walker) publish() {
	select {
	case w.progressCh <- w.snapshot():
	default:
	}
}

// nodeEntry is a temporary structure for building the tree
type nodeEntry struct {
	path    string
	name    string
	size    int64
	isDir   bool
	modTime time.Time
}

// Scan scans the filesystem starting at root using fastwalk.
// The returned tree has folder sizes computed, children sorted by size and,
// when root is a mount root, a free space child appended.
func (w *Walker) Scan(ctx context.Context, root string) (*model.Node, error) {
	defer close(w.progressCh)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "scan", Path: absRoot, Err: errors.New("not a directory")}
	}

	// Get platform-specific root info for mount point detection
	rootInfo := getPlatformRootInfo(absRoot)

	// Use channels for lock-free entry collection
	entryChan := make(chan nodeEntry, 50000)
	var entries []nodeEntry
	var entriesWg sync.WaitGroup

	// Collect entries in background without blocking
	entriesWg.Add(1)
	go func() {
		defer entriesWg.Done()
		collected := make([]nodeEntry, 0, 4096)
		for e := range entryChan {
			collected = append(collected, e)
		}
		entries = collected
	}()

	stopTicker := make(chan struct{})
	tickerDone := make(chan struct{})
	go func() {
		defer close(tickerDone)
		t := time.NewTicker(progressInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				w.publish()
			case <-stopTicker:
				return
			}
		}
	}()

	// Track seen paths/inodes for deduplication
	var seenItems sync.Map

	conf := &fastwalk.Config{
		Follow:     false, // Don't follow symlinks
		NumWorkers: w.workers,
	}

	walkErr := fastwalk.Walk(conf, absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return nil // Skip entries with errors
		}
		if path == absRoot {
			return nil
		}

		if w.profile.excluded(path) || w.profile.hidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		entry := nodeEntry{path: path, name: d.Name(), isDir: d.IsDir()}
		if d.IsDir() {
			// Platform-specific directory checks (mount points, firmlinks)
			if shouldSkipDir(path, d, rootInfo, &seenItems) {
				return fs.SkipDir
			}
			w.dirs.Add(1)
		} else {
			info, err := d.Info()
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}

			// Get file size (platform-specific for accurate disk usage)
			size := getFileSize(info, &seenItems)
			if size < 0 {
				// Negative means skip (e.g., already counted hard link)
				return nil
			}
			if w.profile.MinFileSize > 0 && size < w.profile.MinFileSize {
				return nil
			}
			entry.size = size
			entry.modTime = info.ModTime()
			w.files.Add(1)
			w.bytes.Add(size)
		}

		entryChan <- entry
		return nil
	})

	close(entryChan)
	entriesWg.Wait()
	close(stopTicker)
	<-tickerDone

	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, walkErr
	}

	rootNode := buildTree(absRoot, info.ModTime(), entries)
	rootNode.ComputeSizes()
	model.SortTree(rootNode)
	addFreeSpace(rootNode)

	w.publish()
	p := w.snapshot()
	logging.Scanner.Debug("scan finished", "root", absRoot, "files", p.FilesScanned, "dirs", p.DirsScanned, "bytes", p.BytesFound)
	return rootNode, nil
}

// buildTree constructs the tree structure from flat entries
func buildTree(rootPath string, modTime time.Time, entries []nodeEntry) *model.Node {
	nodes := make(map[string]*model.Node, len(entries)+1)

	rootNode := &model.Node{
		Path:     rootPath,
		Name:     displayName(rootPath),
		IsFolder: true,
		ModTime:  modTime,
	}
	nodes[rootPath] = rootNode

	// First pass: create nodes
	for i := range entries {
		e := &entries[i]
		nodes[e.path] = &model.Node{
			Path:     e.path,
			Name:     e.name,
			Size:     e.size,
			IsFolder: e.isDir,
			ModTime:  e.modTime,
		}
	}

	// Second pass: link parent/child relationships
	for i := range entries {
		e := &entries[i]
		if parent, ok := nodes[filepath.Dir(e.path)]; ok {
			parent.Children = append(parent.Children, nodes[e.path])
		}
	}

	return rootNode
}

// addFreeSpace appends a free space child when root is a volume root
func addFreeSpace(root *model.Node) {
	if !model.IsMountRoot(root.Path) {
		return
	}
	usage, err := model.GetDiskUsage(root.Path)
	if err != nil {
		logging.Scanner.Debug("disk usage unavailable", "path", root.Path, "err", err)
		return
	}
	root.DiskTotal = usage.Total
	root.DiskFree = usage.Free
	root.Children = append(root.Children, &model.Node{
		Name:        model.FreeSpaceName,
		Size:        usage.Free,
		IsFreeSpace: true,
	})
	model.SortBySize(root.Children)
}

// displayName returns the base name, keeping volume roots readable
func displayName(path string) string {
	base := filepath.Base(path)
	if base == string(filepath.Separator) || base == "." || base == "" {
		if vol := filepath.VolumeName(path); vol != "" {
			return vol + string(filepath.Separator)
		}
		return string(filepath.Separator)
	}
	return base
}

// Ensure Walker implements Scanner
var _ Scanner = (*Walker)(nil)
