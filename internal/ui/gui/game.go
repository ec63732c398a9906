// Package gui is the desktop host: an ebiten window showing the session's
// visible surface under a navigation toolbar.
package gui

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lumipallolabs/spacemap/internal/core"
	"github.com/lumipallolabs/spacemap/internal/ui"
)

var (
	colorBackground = color.RGBA{0x1f, 0x1f, 0x23, 0xff}
	colorButton     = color.RGBA{0x3f, 0x3f, 0x46, 0xff}
	colorDisabled   = color.RGBA{0x27, 0x27, 0x2a, 0xff}
	colorActive     = color.RGBA{0x6d, 0x28, 0xd9, 0xff}
	colorBorder     = color.RGBA{0x71, 0x71, 0x7a, 0xff}
	colorMenu       = color.RGBA{0x18, 0x18, 0x1b, 0xf0}
)

// Game implements ebiten.Game around a session
type Game struct {
	sess    *core.Session
	path    string
	title   string
	toolbar *ui.Toolbar
	clicks  ui.Clicks
	now     func() time.Time

	canvas  *ebiten.Image
	outW    int
	outH    int
	scale   float64
	started bool
	quit    bool
	focus   string
	notice  error
}

// NewGame creates the game. The session should be sized with
// ui.WindowCanvas.
func NewGame(sess *core.Session, path, title string) *Game {
	g := &Game{
		sess:    sess,
		path:    path,
		title:   title,
		toolbar: ui.NewToolbar(),
		clicks:  ui.Clicks{Slop: 4},
		now:     time.Now,
		scale:   1,
	}
	sess.Subscribe(func(e core.Event) {
		switch e := e.(type) {
		case core.ErrorEvent:
			g.notice = e.Err
		case core.ScanStartedEvent, core.LayoutCompletedEvent:
			g.notice = nil
		}
	})
	return g
}

// Run opens a width x height window and blocks until it is closed. A
// non-empty path is scanned when the window opens.
func Run(sess *core.Session, path, title string, width, height int) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle(title)
	ebiten.SetVsyncEnabled(true)

	defer sess.Close()
	return ebiten.RunGame(NewGame(sess, path, title))
}

// Update implements ebiten.Game
func (g *Game) Update() error {
	if !g.started {
		g.started = true
		if g.path != "" {
			g.sess.Analyze(g.path)
		}
	}

	g.sess.Poll()
	g.handleKeys()
	g.handleMouse()

	st := g.sess.Status()
	g.toolbar.Update(st.Controls, st.ShowFreeSpace)
	if st.FocusPath != g.focus {
		g.focus = st.FocusPath
		ebiten.SetWindowTitle(g.title + " - " + st.FocusPath)
	}

	if g.quit {
		return ebiten.Termination
	}
	return nil
}

// Layout implements ebiten.Game. The screen is in device pixels; the
// session canvas is logical.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := ebiten.Monitor().DeviceScaleFactor()
	if s <= 0 {
		s = 1
	}
	if outsideWidth != g.outW || outsideHeight != g.outH || s != g.scale {
		g.outW, g.outH, g.scale = outsideWidth, outsideHeight, s
		w, h := ui.WindowCanvas(outsideWidth, outsideHeight)
		g.sess.Resize(w, h, s)
	}
	return int(float64(outsideWidth) * s), int(float64(outsideHeight) * s)
}

// cursor returns the cursor in logical window coordinates
func (g *Game) cursor() (float64, float64) {
	cx, cy := ebiten.CursorPosition()
	return float64(cx) / g.scale, float64(cy) / g.scale
}

func (g *Game) handleMouse() {
	left := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	right := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	if !left && !right {
		return
	}
	x, y := g.cursor()

	if y < ui.ToolbarHeight {
		g.sess.CloseMenu()
		g.clicks.Reset()
		if action, ok := g.toolbar.Hit(x, y); ok && left {
			g.do(action)
		}
		return
	}
	y -= ui.ToolbarHeight

	if st := g.sess.Status(); st.Menu.Open && left {
		w, h, _ := g.sess.Renderer().Size()
		if item, ok := ui.MenuHit(st.Menu, w, h, x, y); ok {
			g.sess.ChooseMenu(item)
			return
		}
	}

	if right {
		g.clicks.Reset()
		g.sess.RightClick(x, y)
		return
	}
	if g.clicks.Press(x, y, g.now()) {
		g.sess.DoubleClick(x, y)
		return
	}
	g.sess.Click(x, y)
}

func (g *Game) handleKeys() {
	alt := ebiten.IsKeyPressed(ebiten.KeyAlt)
	pressed := inpututil.IsKeyJustPressed

	switch {
	case pressed(ebiten.KeyEscape):
		if g.sess.Status().Menu.Open {
			g.sess.CloseMenu()
		} else {
			g.sess.Back()
		}
	case pressed(ebiten.KeyBackspace), alt && pressed(ebiten.KeyArrowLeft):
		g.do(ui.ActionBack)
	case alt && pressed(ebiten.KeyArrowRight):
		g.do(ui.ActionForward)
	case alt && pressed(ebiten.KeyArrowUp), pressed(ebiten.KeyU):
		g.do(ui.ActionParent)
	case pressed(ebiten.KeyHome), pressed(ebiten.KeyG):
		g.do(ui.ActionRoot)
	case pressed(ebiten.KeyF):
		g.do(ui.ActionFreeSpace)
	case pressed(ebiten.KeyEnter):
		if sel := g.sess.Status().Selection; sel != nil && sel.IsFolder {
			g.sess.Visit(sel.NodeID)
		}
	case pressed(ebiten.KeyO):
		g.sess.RevealSelected()
	case pressed(ebiten.KeyR):
		if g.path != "" && !g.sess.Busy() {
			g.sess.Analyze(g.path)
		}
	case pressed(ebiten.KeyQ):
		g.quit = true
	}
}

// do runs a toolbar action
func (g *Game) do(a ui.Action) {
	switch a {
	case ui.ActionRoot:
		g.sess.GoToRoot()
	case ui.ActionParent:
		g.sess.GoToParent()
	case ui.ActionBack:
		g.sess.Back()
	case ui.ActionForward:
		g.sess.Forward()
	case ui.ActionFreeSpace:
		g.sess.SetShowFreeSpace(!g.sess.ShowFreeSpace())
	}
}

// Draw implements ebiten.Game
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	g.syncCanvas()

	if g.canvas != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(0, ui.ToolbarHeight*g.scale)
		screen.DrawImage(g.canvas, op)
	}

	g.drawToolbar(screen)
	g.drawMenu(screen)
	g.drawStatus(screen)
}

// syncCanvas uploads what the session drew since the last frame
func (g *Game) syncCanvas() {
	img := g.sess.Image()
	b := img.Bounds()
	dirty, ok := g.sess.TakeDirty()
	if b.Empty() {
		return
	}

	if g.canvas == nil || g.canvas.Bounds().Size() != b.Size() {
		if g.canvas != nil {
			g.canvas.Deallocate()
		}
		g.canvas = ebiten.NewImage(b.Dx(), b.Dy())
		dirty, ok = b, true
	}
	dirty = dirty.Intersect(b)
	if !ok || dirty.Empty() {
		return
	}
	if dirty == b {
		g.canvas.WritePixels(img.Pix)
		return
	}
	g.canvas.SubImage(dirty).(*ebiten.Image).WritePixels(ui.PackedPixels(img, dirty))
}

func (g *Game) rect(screen *ebiten.Image, x, y, w, h float64, fill color.Color, border bool) {
	s := g.scale
	vector.DrawFilledRect(screen, float32(x*s), float32(y*s), float32(w*s), float32(h*s), fill, true)
	if border {
		vector.StrokeRect(screen, float32(x*s), float32(y*s), float32(w*s), float32(h*s), 1, colorBorder, true)
	}
}

func (g *Game) text(screen *ebiten.Image, s string, x, y float64) {
	ebitenutil.DebugPrintAt(screen, s, int(x*g.scale), int(y*g.scale))
}

func (g *Game) drawToolbar(screen *ebiten.Image) {
	for _, b := range g.toolbar.Buttons {
		fill := colorButton
		switch {
		case !b.Enabled:
			fill = colorDisabled
		case b.Active:
			fill = colorActive
		}
		g.rect(screen, b.X, b.Y, b.W, b.H, fill, b.Enabled)
		tx := b.X + (b.W-float64(len(b.Label)*ui.CharWidth))/2
		g.text(screen, b.Label, tx, b.Y+2)
	}
}

func (g *Game) drawMenu(screen *ebiten.Image) {
	st := g.sess.Status()
	w, h, _ := g.sess.Renderer().Size()
	for _, it := range ui.MenuItems(st.Menu, w, h) {
		y := it.Y + ui.ToolbarHeight
		g.rect(screen, it.X, y, it.W, it.H, colorMenu, true)
		g.text(screen, it.Label, it.X+6, y+2)
	}
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	_, h, _ := g.sess.Renderer().Size()
	g.text(screen, ui.StatusLine(g.sess.Status(), g.notice), 4, ui.ToolbarHeight+h+1)
}
