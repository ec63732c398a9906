package core

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipallolabs/spacemap/internal/geom"
	"github.com/lumipallolabs/spacemap/internal/metrics"
	"github.com/lumipallolabs/spacemap/internal/model"
	"github.com/lumipallolabs/spacemap/internal/provider"
	"github.com/lumipallolabs/spacemap/internal/server"
)

// fakeProvider serves a fixed tree through a real Local provider and lets
// tests hold back individual layouts
type fakeProvider struct {
	*provider.Local
	root     *model.Node
	scanErr  error
	nilRects bool
	layouts  atomic.Int32
	revealed chan string

	mu    sync.Mutex
	gates map[int]chan struct{}
}

func newFake(root *model.Node) *fakeProvider {
	root.ComputeSizes()
	return &fakeProvider{
		Local:    provider.NewLocal(provider.LocalOptions{}),
		root:     root,
		revealed: make(chan string, 4),
		gates:    make(map[int]chan struct{}),
	}
}

func (f *fakeProvider) Scan(ctx context.Context, path string) (provider.TreeInfo, error) {
	if f.scanErr != nil {
		return provider.TreeInfo{}, f.scanErr
	}
	return f.Local.Load(f.root, time.Millisecond)
}

func (f *fakeProvider) Layout(ctx context.Context, req provider.LayoutRequest) ([]geom.Rect, error) {
	f.layouts.Add(1)
	f.mu.Lock()
	gate := f.gates[req.NodeID]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.nilRects {
		return nil, nil
	}
	return f.Local.Layout(ctx, req)
}

func (f *fakeProvider) Reveal(ctx context.Context, path string) error {
	f.revealed <- path
	return errors.New("no file manager")
}

func (f *fakeProvider) hold(id int) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[id] = ch
	return ch
}

func dir(name string, kids ...*model.Node) *model.Node {
	return &model.Node{Name: name, Path: "/" + name, IsFolder: true, Children: kids}
}

func leaf(name string, size int64) *model.Node {
	return &model.Node{Name: name, Path: "/" + name, Size: size}
}

func settle(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Settle(ctx))
}

func loadedSession(t *testing.T, root *model.Node, w, h float64) (*Session, *fakeProvider) {
	t.Helper()
	p := newFake(root)
	s := New(Options{Provider: p, Width: w, Height: h, ShowFreeSpace: true, ResizeDebounce: 10 * time.Millisecond})
	t.Cleanup(s.Close)
	s.Analyze("/R")
	settle(t, s)
	require.True(t, s.Status().Loaded)
	return s, p
}

func rectNamed(t *testing.T, s *Session, name string) geom.Rect {
	t.Helper()
	for _, r := range s.Rects() {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no rect named %q", name)
	return geom.Rect{}
}

func center(r geom.Rect) (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// twoFolders is R{A{a:300}, B{b:700}, free:0}
func twoFolders() *model.Node {
	free := &model.Node{Name: model.FreeSpaceName, IsFreeSpace: true}
	return dir("R", dir("A", leaf("a", 300)), dir("B", leaf("b", 700)), free)
}

func threeFolders() *model.Node {
	return dir("R", dir("A", leaf("a", 300)), dir("B", leaf("b", 700)), dir("C", leaf("c", 200)))
}

func TestSessionEndToEnd(t *testing.T) {
	s, _ := loadedSession(t, twoFolders(), 1000, 100)

	st := s.Status()
	assert.Equal(t, PhaseReady, st.Phase)
	assert.False(t, st.Busy)
	assert.Equal(t, 0, st.FocusID)
	assert.Equal(t, "R", st.FocusName)

	a := rectNamed(t, s, "A")
	b := rectNamed(t, s, "B")
	assert.InDelta(t, 7.0/3.0, b.Area()/a.Area(), 1e-9)

	// the empty free space child gets no rect, so nothing picks as it
	for _, r := range s.Rects() {
		assert.False(t, r.IsFreeSpace, "rect %d", r.Index)
	}
	w, h, _ := s.Renderer().Size()
	for y := 0.0; y < h; y += 5 {
		for x := 0.0; x < w; x += 5 {
			if idx := s.Pick(x, y); idx >= 0 {
				assert.False(t, s.Rects()[idx].IsFreeSpace)
			}
		}
	}

	// B's header strip lies outside its child's rect
	x, _ := center(b)
	s.Click(x, b.Y+3)
	sel := s.Status().Selection
	require.NotNil(t, sel)
	assert.Equal(t, "B", sel.Name)
	assert.Equal(t, b.Index, sel.Index)
	assert.Nil(t, s.Status().LastError)
}

func TestSessionSelectToggleRepaintsOne(t *testing.T) {
	s, _ := loadedSession(t, twoFolders(), 1000, 100)
	b := rectNamed(t, s, "B")
	x, _ := center(b)

	var redraws []RedrawEvent
	s.Subscribe(func(e Event) {
		if r, ok := e.(RedrawEvent); ok {
			redraws = append(redraws, r)
		}
	})

	s.Click(x, b.Y+3)
	require.Len(t, redraws, 1)
	assert.Equal(t, metrics.RedrawPartial, redraws[0].Kind)

	redraws = nil
	s.Click(x, b.Y+3)
	assert.Nil(t, s.Status().Selection)
	require.Len(t, redraws, 1, "toggling off repaints only the old selection")
	assert.Equal(t, metrics.RedrawPartial, redraws[0].Kind)
	assert.Equal(t, b.Bounds(1), redraws[0].Dirty)
}

func TestSessionSelectionChangesPixels(t *testing.T) {
	s, _ := loadedSession(t, twoFolders(), 1000, 100)
	b := rectNamed(t, s, "B")
	bb := rectNamed(t, s, "b")
	x, _ := center(b)
	hx, hy := int(x), int(b.Y+3)
	cx, cy := center(bb)

	before := s.Image().RGBAAt(int(cx), int(cy))
	s.Click(x, b.Y+3)
	assert.Equal(t, s.Renderer().Style().Selected, s.Image().RGBAAt(hx, hy))
	assert.Equal(t, before, s.Image().RGBAAt(int(cx), int(cy)), "child pixels untouched")
}

func TestSessionNavigationHistory(t *testing.T) {
	s, _ := loadedSession(t, threeFolders(), 1000, 400)
	ida := rectNamed(t, s, "A").NodeID
	idb := rectNamed(t, s, "B").NodeID
	idc := rectNamed(t, s, "C").NodeID

	s.Visit(ida)
	settle(t, s)
	s.Visit(idb)
	settle(t, s)
	s.Back()
	settle(t, s)
	s.Visit(idc)
	settle(t, s)

	hist, idx := s.nav.History()
	assert.Equal(t, []int{0, ida, idc}, hist)
	assert.Equal(t, 2, idx)

	c := s.Status().Controls
	assert.False(t, c.Forward)
	assert.True(t, c.Back)
	assert.True(t, c.Root)
	assert.True(t, c.Parent)
	assert.Equal(t, "C", s.Status().FocusName)

	s.GoToParent()
	settle(t, s)
	assert.Equal(t, 0, s.Status().FocusID)
	assert.False(t, s.Status().Controls.Parent)
}

func TestSessionVisitRejectsFiles(t *testing.T) {
	s, p := loadedSession(t, twoFolders(), 1000, 100)
	before := p.layouts.Load()
	s.Visit(rectNamed(t, s, "b").NodeID)
	assert.False(t, s.Busy())
	assert.Equal(t, before, p.layouts.Load())
}

func TestSessionDoubleClickNavigates(t *testing.T) {
	s, _ := loadedSession(t, twoFolders(), 1000, 100)
	b := rectNamed(t, s, "B")
	x, _ := center(b)

	s.DoubleClick(x, b.Y+3)
	settle(t, s)
	assert.Equal(t, b.NodeID, s.Status().FocusID)
	assert.Nil(t, s.Status().Selection, "navigation clears the selection")
	assert.Equal(t, "B", s.Rects()[0].Name)
	assert.Equal(t, 0, s.Rects()[0].ParentID)
}

func TestSessionFailedScanKeepsState(t *testing.T) {
	s, p := loadedSession(t, twoFolders(), 1000, 100)
	rects := s.Rects()

	p.scanErr = errors.New("permission denied")
	s.Analyze("/elsewhere")
	settle(t, s)

	st := s.Status()
	assert.EqualError(t, st.LastError, "permission denied")
	assert.Equal(t, 0, st.FocusID)
	assert.Equal(t, PhaseReady, st.Phase)
	assert.Equal(t, rects, s.Rects())
}

func TestSessionFailedFirstScan(t *testing.T) {
	p := newFake(twoFolders())
	p.scanErr = provider.ErrNoRoot
	s := New(Options{Provider: p, Width: 100, Height: 100})
	defer s.Close()

	s.Analyze("/R")
	settle(t, s)
	st := s.Status()
	assert.False(t, st.Loaded)
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.ErrorIs(t, st.LastError, provider.ErrNoRoot)
	assert.Equal(t, -1, st.FocusID)
}

func TestSessionStaleLayoutDropped(t *testing.T) {
	s, p := loadedSession(t, threeFolders(), 1000, 400)
	ida := rectNamed(t, s, "A").NodeID
	idb := rectNamed(t, s, "B").NodeID
	gateA := p.hold(ida)
	gateB := p.hold(idb)

	s.Visit(ida)
	s.Visit(idb)
	close(gateB)
	for !s.Poll() {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, "B", s.Rects()[0].Name)

	close(gateA)
	settle(t, s)
	assert.Equal(t, "B", s.Rects()[0].Name, "late layout for A is discarded")
	assert.Equal(t, idb, s.Status().FocusID)
}

func TestSessionNilRects(t *testing.T) {
	s, p := loadedSession(t, twoFolders(), 1000, 100)
	p.nilRects = true

	s.Visit(rectNamed(t, s, "B").NodeID)
	settle(t, s)
	assert.Nil(t, s.Rects())
	assert.Equal(t, 3, s.Status().FocusID, "navigation state is kept")

	s.Click(500, 50)
	assert.Nil(t, s.Status().Selection)
}

func TestSessionResizeDebounced(t *testing.T) {
	s, p := loadedSession(t, twoFolders(), 1000, 100)
	before := p.layouts.Load()

	s.Resize(800, 200, 1)
	s.Resize(600, 300, 1)
	s.Resize(500, 400, 2)
	settle(t, s)

	assert.Equal(t, before+1, p.layouts.Load())
	assert.Equal(t, 1000, s.Image().Bounds().Dx())
	assert.Equal(t, 800, s.Image().Bounds().Dy())
	assert.InDelta(t, 500, s.Rects()[0].W, 1e-9)
}

func TestSessionRightClickMenu(t *testing.T) {
	s, p := loadedSession(t, twoFolders(), 1000, 100)
	b := rectNamed(t, s, "B")
	x, _ := center(b)

	var errs []error
	s.Subscribe(func(e Event) {
		if ev, ok := e.(ErrorEvent); ok {
			errs = append(errs, ev.Err)
		}
	})

	s.RightClick(x, b.Y+3)
	m := s.Status().Menu
	require.True(t, m.Open)
	assert.Equal(t, "/B", m.Path)
	assert.Equal(t, []string{MenuReveal}, m.Items())
	require.NotNil(t, s.Status().Selection)

	// a second right-click keeps the selection
	s.RightClick(x, b.Y+3)
	require.NotNil(t, s.Status().Selection)

	s.ChooseMenu(MenuReveal)
	assert.False(t, s.Status().Menu.Open)
	settle(t, s)
	assert.Equal(t, "/B", <-p.revealed)
	require.Len(t, errs, 1, "reveal failures are reported, not fatal")
	assert.Nil(t, s.Status().LastError)
}

func TestSessionRightClickFileHasNoMenu(t *testing.T) {
	s, _ := loadedSession(t, twoFolders(), 1000, 100)
	s.RightClick(center(rectNamed(t, s, "b")))
	assert.False(t, s.Status().Menu.Open)
	require.NotNil(t, s.Status().Selection)
	assert.Equal(t, "b", s.Status().Selection.Name)
}

func TestSessionFreeSpaceToggle(t *testing.T) {
	root := dir("R", dir("A", leaf("a", 300)), &model.Node{Name: model.FreeSpaceName, IsFreeSpace: true, Size: 500})
	s, _ := loadedSession(t, root, 600, 300)

	free := rectNamed(t, s, model.FreeSpaceName)
	s.Click(center(free))
	assert.Nil(t, s.Status().Selection, "free space is not selectable")

	s.SetShowFreeSpace(false)
	settle(t, s)
	assert.False(t, s.Status().ShowFreeSpace)
	for _, r := range s.Rects() {
		assert.False(t, r.IsFreeSpace)
	}
}

func TestSessionSelectionMime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world\n"), 0644))

	f := leaf("notes.txt", 1000)
	f.Path = path
	s, _ := loadedSession(t, dir("R", f), 400, 300)

	s.Click(center(rectNamed(t, s, "notes.txt")))
	settle(t, s)
	sel := s.Status().Selection
	require.NotNil(t, sel)
	assert.Equal(t, "text/plain; charset=utf-8", sel.Mime)
}

// serverTree answers like a remote machine: its paths do not exist here
type serverTree struct {
	*provider.Local
	asked chan string
}

func (p *serverTree) Scan(ctx context.Context, path string) (provider.TreeInfo, error) {
	root := dir("R", &model.Node{Name: "data.bin", Path: "/srv/R/data.bin", Size: 1000})
	root.ComputeSizes()
	return p.Local.Load(root, time.Millisecond)
}

func (p *serverTree) Mime(ctx context.Context, path string) (string, error) {
	p.asked <- path
	return "application/x-server-side", nil
}

func TestSessionSelectionMimeFromRemote(t *testing.T) {
	backend := &serverTree{Local: provider.NewLocal(provider.LocalOptions{}), asked: make(chan string, 4)}
	srv := httptest.NewServer(server.New(backend, nil).Handler())
	defer srv.Close()

	s := New(Options{Provider: provider.NewRemote(srv.URL, srv.Client()), Width: 400, Height: 300})
	defer s.Close()
	s.Analyze("/srv/R")
	settle(t, s)

	s.Click(center(rectNamed(t, s, "data.bin")))
	assert.Empty(t, s.Status().Selection.Mime, "Status never reads files itself")
	settle(t, s)
	assert.Equal(t, "application/x-server-side", s.Status().Selection.Mime)
	assert.Equal(t, "/srv/R/data.bin", <-backend.asked)

	// cached per path
	s.Click(center(rectNamed(t, s, "data.bin")))
	s.Click(center(rectNamed(t, s, "data.bin")))
	settle(t, s)
	assert.Len(t, backend.asked, 0)
}

func TestSessionCloseUnblocksSettle(t *testing.T) {
	s, p := loadedSession(t, twoFolders(), 1000, 100)
	gate := p.hold(rectNamed(t, s, "A").NodeID)
	defer close(gate)

	s.Visit(rectNamed(t, s, "A").NodeID)
	s.Close()
	assert.ErrorIs(t, s.Settle(context.Background()), ErrClosed)
}
