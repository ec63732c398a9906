// Package core holds the viewer session: the one owned state object behind
// every host.
//
// A Session is driven from a single goroutine (the UI thread). Provider
// calls run on their own goroutines and post results back; hosts apply
// them by calling Poll every frame, or Settle when running headless.
package core

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lumipallolabs/spacemap/internal/compositor"
	"github.com/lumipallolabs/spacemap/internal/debounce"
	"github.com/lumipallolabs/spacemap/internal/geom"
	"github.com/lumipallolabs/spacemap/internal/logging"
	"github.com/lumipallolabs/spacemap/internal/metrics"
	"github.com/lumipallolabs/spacemap/internal/nav"
	"github.com/lumipallolabs/spacemap/internal/picking"
	"github.com/lumipallolabs/spacemap/internal/provider"
	"github.com/lumipallolabs/spacemap/internal/render"
)

// DefaultResizeDebounce is the quiet period before a resize relayouts
const DefaultResizeDebounce = 150 * time.Millisecond

// ErrClosed is returned by Settle after Close
var ErrClosed = errors.New("session closed")

// Options configures a Session
type Options struct {
	Provider provider.Provider
	Style    render.Style

	// Width and Height are the logical canvas size; Scale is the device
	// pixel ratio
	Width, Height, Scale float64

	// LayoutScale multiplies the provider's padding and header
	LayoutScale float64

	ShowFreeSpace  bool
	ResizeDebounce time.Duration
	Logger         *log.Logger
}

// result is posted by provider goroutines and applied on the UI thread
type result interface {
	apply(s *Session)
}

// Session owns the surfaces, the current rects and the navigation state
type Session struct {
	prov        provider.Provider
	log         *log.Logger
	layoutScale float64
	hideFree    bool

	renderer *render.Renderer
	comp     *compositor.Compositor
	nav      *nav.State

	tree       provider.TreeInfo
	rects      []geom.Rect
	containers map[int]bool
	menu       Menu

	ctx     context.Context
	cancel  context.CancelFunc
	results chan result
	pending int
	scanGen uint64
	gen     uint64

	resize     *debounce.Timer
	nextW      float64
	nextH      float64
	nextScale  float64
	phase      Phase
	lastErr    error
	lastRedraw time.Duration
	dirty      image.Rectangle

	// content types by path, filled in off the UI thread; an entry exists
	// once a request was issued
	mimes     map[string]string
	listeners []func(Event)
}

// New creates a session with an empty canvas and no tree loaded
func New(opts Options) *Session {
	if opts.Style.Palette == nil {
		opts.Style = render.DefaultStyle()
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.LayoutScale <= 0 {
		opts.LayoutScale = 1
	}
	if opts.ResizeDebounce <= 0 {
		opts.ResizeDebounce = DefaultResizeDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := render.New(opts.Width, opts.Height, opts.Scale, opts.Style)
	s := &Session{
		prov:        opts.Provider,
		log:         logging.OrDiscard(opts.Logger),
		layoutScale: opts.LayoutScale,
		hideFree:    !opts.ShowFreeSpace,
		renderer:    r,
		comp:        compositor.New(r),
		nav:         nav.New(),
		containers:  make(map[int]bool),
		ctx:         ctx,
		cancel:      cancel,
		results:     make(chan result, 16),
		resize:      debounce.New(opts.ResizeDebounce),
		nextW:       opts.Width,
		nextH:       opts.Height,
		nextScale:   opts.Scale,
		mimes:       make(map[string]string),
	}
	s.redraw()
	return s
}

// Subscribe registers fn for every event. Events are delivered on the
// goroutine driving the session.
func (s *Session) Subscribe(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

// emit sends an event to all listeners
func (s *Session) emit(e Event) {
	for _, fn := range s.listeners {
		fn(e)
	}
}

// Close cancels in-flight provider calls and the resize timer
func (s *Session) Close() {
	s.cancel()
	s.resize.Cancel()
}

// Renderer exposes the surfaces, mainly for hosts that blit them
func (s *Session) Renderer() *render.Renderer {
	return s.renderer
}

// Image returns the visible surface
func (s *Session) Image() *image.RGBA {
	return s.renderer.VisibleImage()
}

// PickingImage returns the picking surface
func (s *Session) PickingImage() *image.RGBA {
	return s.renderer.PickingBuffer().Image()
}

// Rects returns the current layout. Callers must not modify it.
func (s *Session) Rects() []geom.Rect {
	return s.rects
}

// TakeDirty returns the pixel area changed since the last call
func (s *Session) TakeDirty() (image.Rectangle, bool) {
	d := s.dirty
	s.dirty = image.Rectangle{}
	return d, !d.Empty()
}

func (s *Session) markDirty(r image.Rectangle) {
	s.dirty = s.dirty.Union(r)
}

// Busy reports whether provider calls are in flight
func (s *Session) Busy() bool {
	return s.pending > 0
}

// Poll applies every result and timer that is ready without blocking.
// Returns true when anything was applied.
func (s *Session) Poll() bool {
	applied := false
	for {
		select {
		case r := <-s.results:
			s.pending--
			r.apply(s)
			applied = true
		case <-s.resize.C():
			s.applyResize()
			applied = true
		default:
			return applied
		}
	}
}

// Settle blocks until no provider call or resize is outstanding
func (s *Session) Settle(ctx context.Context) error {
	for s.pending > 0 || s.resize.Pending() || len(s.resize.C()) > 0 {
		select {
		case r := <-s.results:
			s.pending--
			r.apply(s)
		case <-s.resize.C():
			s.applyResize()
		case <-ctx.Done():
			return ctx.Err()
		case <-s.ctx.Done():
			return ErrClosed
		}
	}
	return nil
}

// post hands a result to the UI thread unless the session was closed
func (s *Session) post(r result) {
	select {
	case s.results <- r:
	case <-s.ctx.Done():
	}
}

// Analyze scans path. The current tree stays on screen until the scan
// succeeds; a failed scan changes nothing but LastError.
func (s *Session) Analyze(path string) {
	s.scanGen++
	gen := s.scanGen
	s.pending++
	s.phase = PhaseScanning
	s.log.Info("scan started", "path", path)
	s.emit(ScanStartedEvent{Path: path})

	go func() {
		info, err := s.prov.Scan(s.ctx, path)
		s.post(scanResult{gen: gen, path: path, info: info, err: err})
	}()
}

type scanResult struct {
	gen  uint64
	path string
	info provider.TreeInfo
	err  error
}

func (r scanResult) apply(s *Session) {
	if r.gen != s.scanGen {
		metrics.RecordStaleResponse()
		s.log.Debug("dropping stale scan", "path", r.path)
		return
	}
	if r.err == nil && r.info.RootID < 0 {
		r.err = provider.ErrNoRoot
	}
	if r.err != nil {
		s.lastErr = r.err
		s.settlePhase()
		s.log.Error("scan failed", "path", r.path, "err", r.err)
		s.emit(ScanCompletedEvent{Err: r.err})
		return
	}

	s.tree = r.info
	s.lastErr = nil
	s.mimes = make(map[string]string)
	s.containers = map[int]bool{r.info.RootID: true}
	s.closeMenu()
	s.emit(ScanCompletedEvent{Info: r.info})
	s.apply(s.nav.Load(r.info.RootID))
}

// settlePhase picks the resting phase once nothing is outstanding
func (s *Session) settlePhase() {
	switch {
	case s.pending > 0:
	case s.nav.Loaded():
		s.phase = PhaseReady
	default:
		s.phase = PhaseIdle
	}
}

// apply carries out a navigation effect
func (s *Session) apply(e nav.Effect) {
	if e.Relayout {
		s.closeMenu()
		s.requestLayout()
		return
	}
	for _, idx := range e.Repaint {
		s.repaint(idx)
	}
	if len(e.Repaint) > 0 {
		sel := s.nav.Selected()
		id := nodeAt(sel, s.rects)
		s.requestMime(sel)
		s.emit(SelectionChangedEvent{Index: sel, NodeID: id})
	}
}

// requestMime asks the provider for the content type of the file behind
// rect idx, once per path
func (s *Session) requestMime(idx int) {
	if idx < 0 || idx >= len(s.rects) {
		return
	}
	rc := s.rects[idx]
	if rc.IsFolder || rc.IsFreeSpace || rc.FullPath == "" {
		return
	}
	if _, ok := s.mimes[rc.FullPath]; ok {
		return
	}
	s.mimes[rc.FullPath] = ""
	s.pending++
	go func() {
		m, err := s.prov.Mime(s.ctx, rc.FullPath)
		s.post(mimeResult{path: rc.FullPath, mime: m, err: err})
	}()
}

type mimeResult struct {
	path string
	mime string
	err  error
}

func (r mimeResult) apply(s *Session) {
	if r.err != nil {
		s.log.Debug("no content type", "path", r.path, "err", r.err)
		return
	}
	if _, ok := s.mimes[r.path]; !ok {
		// a rescan replaced the tree meanwhile
		return
	}
	s.mimes[r.path] = r.mime
}

// nodeAt returns the node id behind rect idx, or -1
func nodeAt(idx int, rects []geom.Rect) int {
	if idx < 0 || idx >= len(rects) {
		return -1
	}
	return rects[idx].NodeID
}

// requestLayout asks the provider for the focused node at the current size
func (s *Session) requestLayout() {
	focus, ok := s.nav.Focus()
	if !ok {
		return
	}
	w, h, _ := s.renderer.Size()
	req := provider.LayoutRequest{
		NodeID:        focus,
		Width:         w,
		Height:        h,
		Scale:         s.layoutScale,
		HideFreeSpace: s.hideFree,
	}

	s.gen++
	gen := s.gen
	s.pending++
	s.phase = PhaseLayout

	go func() {
		rects, err := s.prov.Layout(s.ctx, req)
		s.post(layoutResult{gen: gen, req: req, rects: rects, err: err})
	}()
}

type layoutResult struct {
	gen   uint64
	req   provider.LayoutRequest
	rects []geom.Rect
	err   error
}

func (r layoutResult) apply(s *Session) {
	focus, _ := s.nav.Focus()
	if r.gen != s.gen || r.req.NodeID != focus {
		metrics.RecordStaleResponse()
		s.log.Debug("dropping stale layout", "node", r.req.NodeID, "focus", focus)
		return
	}
	s.settlePhase()

	if r.err != nil {
		s.lastErr = r.err
		s.log.Warn("layout failed", "node", r.req.NodeID, "err", r.err)
		s.emit(LayoutCompletedEvent{FocusID: focus, Err: r.err})
		return
	}

	rects := geom.Compact(r.rects, 1)
	if rects == nil {
		s.log.Warn("layout returned nothing to draw", "node", r.req.NodeID, "width", r.req.Width, "height", r.req.Height)
	}

	s.rects = rects
	s.nav.ClearSelection()
	for _, rc := range rects {
		if rc.IsFolder && !rc.IsFreeSpace {
			s.containers[rc.NodeID] = true
		}
		if rc.HasParent() {
			s.containers[rc.ParentID] = true
		}
	}
	s.redraw()
	s.emit(LayoutCompletedEvent{FocusID: focus, Rects: len(rects)})
}

// isContainer reports whether id was ever laid out as a navigable folder
func (s *Session) isContainer(id int) bool {
	return s.containers[id]
}

// redraw repaints the visible surface and the picking buffer from rects
func (s *Session) redraw() {
	start := time.Now()
	r := s.renderer
	r.Clear(render.Visible)
	r.Clear(render.Picking)

	sel := s.nav.Selected()
	for i, rc := range s.rects {
		r.Render(render.Request{Target: render.Visible, Rect: rc, Selected: i == sel})
	}
	r.PickingBuffer().Rasterize(s.rects)

	s.finishRedraw(metrics.RedrawFull, r.VisibleImage().Bounds(), time.Since(start))
}

// repaint redraws one rect in place through the compositor
func (s *Session) repaint(idx int) {
	start := time.Now()
	dirty := s.comp.Repaint(s.rects, idx, idx == s.nav.Selected())
	s.finishRedraw(metrics.RedrawPartial, dirty, time.Since(start))
}

func (s *Session) finishRedraw(kind string, dirty image.Rectangle, took time.Duration) {
	s.lastRedraw = took
	s.markDirty(dirty)
	metrics.RecordRedraw(kind, took)
	s.emit(RedrawEvent{Kind: kind, Dirty: dirty, Took: took})
}

// Resize schedules a resize. Bursts collapse into one relayout after the
// debounce period.
func (s *Session) Resize(w, h, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	s.nextW, s.nextH, s.nextScale = w, h, scale
	s.resize.Trigger()
}

// applyResize reallocates the surfaces and relayouts the focus
func (s *Session) applyResize() {
	w, h, scale := s.renderer.Size()
	if w == s.nextW && h == s.nextH && scale == s.nextScale {
		return
	}
	s.log.Debug("resize", "width", s.nextW, "height", s.nextH, "scale", s.nextScale)
	s.renderer.Resize(s.nextW, s.nextH, s.nextScale)
	s.closeMenu()
	// the old rects stay pickable until the new layout lands
	s.redraw()
	s.requestLayout()
}

// Pick resolves a logical point to a rect index or picking.None
func (s *Session) Pick(x, y float64) int {
	idx := s.renderer.PickingBuffer().IndexAt(x, y)
	if idx >= len(s.rects) {
		idx = picking.None
	}
	metrics.RecordPick(idx != picking.None)
	return idx
}

// Click toggles the selection of the rect under the point
func (s *Session) Click(x, y float64) {
	s.closeMenu()
	if !s.nav.Loaded() {
		return
	}
	s.apply(s.nav.Select(s.Pick(x, y), s.rects, false))
}

// DoubleClick selects the rect under the point and focuses it
func (s *Session) DoubleClick(x, y float64) {
	s.closeMenu()
	idx := s.Pick(x, y)
	if idx == picking.None {
		return
	}
	s.apply(s.nav.Select(idx, s.rects, true))
	s.apply(s.nav.Visit(s.rects[idx].NodeID, s.isContainer))
}

// RightClick selects the rect under the point and opens the context menu
// for folders
func (s *Session) RightClick(x, y float64) {
	s.closeMenu()
	idx := s.Pick(x, y)
	if idx == picking.None {
		return
	}
	s.apply(s.nav.Select(idx, s.rects, true))

	rc := s.rects[idx]
	if !rc.IsFolder || rc.IsFreeSpace || rc.FullPath == "" {
		return
	}
	s.menu = Menu{Open: true, X: x, Y: y, Index: idx, Path: rc.FullPath}
	s.emit(MenuEvent{Menu: s.menu})
}

// CloseMenu dismisses the context menu
func (s *Session) CloseMenu() {
	s.closeMenu()
}

func (s *Session) closeMenu() {
	if !s.menu.Open {
		return
	}
	s.menu = Menu{}
	s.emit(MenuEvent{Menu: s.menu})
}

// ChooseMenu runs the menu action and dismisses the menu either way
func (s *Session) ChooseMenu(item string) {
	m := s.menu
	s.closeMenu()
	if !m.Open || item != MenuReveal {
		return
	}
	s.reveal(m.Path)
}

// RevealSelected opens the selected rect in the file manager
func (s *Session) RevealSelected() {
	idx := s.nav.Selected()
	if idx < 0 || idx >= len(s.rects) || s.rects[idx].FullPath == "" {
		return
	}
	s.reveal(s.rects[idx].FullPath)
}

func (s *Session) reveal(path string) {
	s.pending++
	go func() {
		err := s.prov.Reveal(s.ctx, path)
		s.post(revealResult{path: path, err: err})
	}()
}

type revealResult struct {
	path string
	err  error
}

func (r revealResult) apply(s *Session) {
	if r.err == nil {
		s.log.Debug("revealed", "path", r.path)
		return
	}
	s.log.Warn("reveal failed", "path", r.path, "err", r.err)
	s.emit(ErrorEvent{Err: fmt.Errorf("reveal %s: %w", r.path, r.err)})
}

// Visit focuses a folder node
func (s *Session) Visit(id int) {
	s.apply(s.nav.Visit(id, s.isContainer))
}

// Back returns to the previous focus
func (s *Session) Back() {
	s.apply(s.nav.Back())
}

// Forward undoes a Back
func (s *Session) Forward() {
	s.apply(s.nav.Forward())
}

// GoToRoot focuses the scanned root
func (s *Session) GoToRoot() {
	s.apply(s.nav.GoToRoot(s.isContainer))
}

// GoToParent focuses the parent of the current focus
func (s *Session) GoToParent() {
	s.apply(s.nav.GoToParent(s.rects, s.isContainer))
}

// SetShowFreeSpace toggles free space rects and relayouts
func (s *Session) SetShowFreeSpace(show bool) {
	if s.hideFree == !show {
		return
	}
	s.hideFree = !show
	if s.nav.Loaded() {
		s.closeMenu()
		s.requestLayout()
	}
}

// ShowFreeSpace reports whether free space rects are laid out
func (s *Session) ShowFreeSpace() bool {
	return !s.hideFree
}

// Status returns a snapshot for hosts
func (s *Session) Status() Status {
	st := Status{
		Phase:         s.phase,
		Busy:          s.Busy(),
		Tree:          s.tree,
		Loaded:        s.nav.Loaded(),
		FocusID:       -1,
		Controls:      s.nav.Controls(s.rects),
		Menu:          s.menu,
		ShowFreeSpace: !s.hideFree,
		Rects:         len(s.rects),
		LastError:     s.lastErr,
		LastRedraw:    s.lastRedraw,
	}
	if id, ok := s.nav.Focus(); ok {
		st.FocusID = id
		if len(s.rects) > 0 && s.rects[0].NodeID == id {
			st.FocusName = s.rects[0].Name
			st.FocusPath = s.rects[0].FullPath
		}
	}
	if idx := s.nav.Selected(); idx >= 0 && idx < len(s.rects) {
		rc := s.rects[idx]
		st.Selection = &Selection{
			Index:    idx,
			NodeID:   rc.NodeID,
			Name:     rc.Name,
			Path:     rc.FullPath,
			Size:     rc.Size,
			IsFolder: rc.IsFolder,
		}
		if !rc.IsFolder {
			st.Selection.Mime = s.mimes[rc.FullPath]
		}
	}
	return st
}
