package provider

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gabriel-vasile/mimetype"

	"github.com/lumipallolabs/spacemap/internal/geom"
	"github.com/lumipallolabs/spacemap/internal/logging"
	"github.com/lumipallolabs/spacemap/internal/metrics"
	"github.com/lumipallolabs/spacemap/internal/model"
	"github.com/lumipallolabs/spacemap/internal/scanner"
	"github.com/lumipallolabs/spacemap/internal/treemap"
)

// LocalOptions configures a Local provider
type LocalOptions struct {
	Profile scanner.Profile
	Workers int
	// Layout holds the padding, header and threshold constants. Scale and
	// HideFreeSpace are taken from each request.
	Layout treemap.Options
	Logger *log.Logger

	// Reveal replaces the platform file manager call, mainly for tests
	Reveal func(path string) error
}

// Local scans the filesystem in process and lays out with the treemap engine
type Local struct {
	opts LocalOptions
	log  *log.Logger

	mu    sync.RWMutex
	store *model.Store
}

// NewLocal creates a provider with no tree loaded
func NewLocal(opts LocalOptions) *Local {
	if opts.Reveal == nil {
		opts.Reveal = openInFileManager
	}
	if opts.Layout == (treemap.Options{}) {
		opts.Layout = treemap.DefaultOptions()
	}
	return &Local{
		opts:  opts,
		log:   logging.OrDiscard(opts.Logger),
		store: model.NewStore(nil),
	}
}

// Scan walks path and replaces the loaded tree. On failure the previous
// tree stays loaded.
func (l *Local) Scan(ctx context.Context, path string) (TreeInfo, error) {
	start := time.Now()
	w := scanner.NewWalker(l.opts.Workers, l.opts.Profile)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range w.Progress() {
			l.log.Debug("scanning", "files", p.FilesScanned, "dirs", p.DirsScanned, "bytes", p.BytesFound)
		}
	}()

	root, err := w.Scan(ctx, path)
	<-done
	if err != nil {
		return TreeInfo{}, fmt.Errorf("scan %s: %w", path, err)
	}
	return l.Load(root, time.Since(start))
}

// Load installs an already built tree, as Scan does after walking
func (l *Local) Load(root *model.Node, took time.Duration) (TreeInfo, error) {
	if root == nil {
		return TreeInfo{}, ErrNoRoot
	}
	store := model.NewStore(root)
	files, dirs := store.Counts()
	metrics.RecordScan(took, store.Len())

	l.mu.Lock()
	l.store = store
	l.mu.Unlock()

	l.log.Info("tree loaded", "path", root.Path, "files", files, "dirs", dirs, "size", root.Size, "took", took.Round(time.Millisecond))
	return TreeInfo{RootID: root.ID, Path: root.Path, FileCount: files, DirCount: dirs}, nil
}

// Node returns a loaded node by id
func (l *Local) Node(id int) (*model.Node, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Get(id)
}

// Root returns the loaded root, or nil
func (l *Local) Root() *model.Node {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Root()
}

// Layout lays out the requested node. The root rect's ParentID is the
// node's parent in the loaded tree.
func (l *Local) Layout(ctx context.Context, req LayoutRequest) ([]geom.Rect, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	store := l.store
	l.mu.RUnlock()

	if store.Root() == nil {
		return nil, ErrNoRoot
	}
	node, ok := store.Get(req.NodeID)
	if !ok {
		return nil, fmt.Errorf("layout %d: %w", req.NodeID, ErrUnknownNode)
	}

	opts := l.opts.Layout
	opts.Scale = req.Scale
	opts.HideFreeSpace = req.HideFreeSpace
	engine := treemap.New(opts)

	start := time.Now()
	rects := geom.Compact(engine.Layout(node, store.Parent(node.ID), 0, 0, req.Width, req.Height), engine.MinSide())
	metrics.RecordLayout(time.Since(start), len(rects))
	return rects, nil
}

// Reveal opens path in the platform file manager
func (l *Local) Reveal(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("reveal: %w", ErrBadRequest)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("reveal: %w", err)
	}
	if err := l.opts.Reveal(path); err != nil {
		return fmt.Errorf("reveal %s: %w", path, err)
	}
	return nil
}

// Mime detects the content type of the file at path from its first bytes
func (l *Local) Mime(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("mime: %w", ErrBadRequest)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("mime %s: %w", path, err)
	}
	return mt.String(), nil
}

var _ Provider = (*Local)(nil)
