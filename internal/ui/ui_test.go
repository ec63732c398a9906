package ui

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipallolabs/spacemap/internal/core"
	"github.com/lumipallolabs/spacemap/internal/nav"
	"github.com/lumipallolabs/spacemap/internal/render"
)

func TestClicks(t *testing.T) {
	t0 := time.Unix(100, 0)

	tests := []struct {
		name   string
		slop   float64
		dx     float64
		gap    time.Duration
		double bool
	}{
		{"quick same point", 0, 0, 100 * time.Millisecond, true},
		{"at the window edge", 0, 0, DoubleClickWindow, true},
		{"too slow", 0, 0, DoubleClickWindow + time.Millisecond, false},
		{"moved", 0, 1, 100 * time.Millisecond, false},
		{"moved within slop", 4, 3, 100 * time.Millisecond, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Clicks{Slop: tt.slop}
			assert.False(t, c.Press(10, 10, t0))
			assert.Equal(t, tt.double, c.Press(10+tt.dx, 10, t0.Add(tt.gap)))
		})
	}
}

func TestClicksThirdPressStartsOver(t *testing.T) {
	t0 := time.Unix(100, 0)
	var c Clicks
	assert.False(t, c.Press(1, 1, t0))
	assert.True(t, c.Press(1, 1, t0.Add(10*time.Millisecond)))
	assert.False(t, c.Press(1, 1, t0.Add(20*time.Millisecond)))

	c.Reset()
	assert.False(t, c.Press(1, 1, t0.Add(30*time.Millisecond)))
}

func TestToolbar(t *testing.T) {
	tb := NewToolbar()
	require.Len(t, tb.Buttons, 5)
	for i := 1; i < len(tb.Buttons); i++ {
		prev, b := tb.Buttons[i-1], tb.Buttons[i]
		assert.Greater(t, b.X, prev.X+prev.W, "buttons do not overlap")
	}

	back := tb.Buttons[2]
	_, ok := tb.Hit(back.X+1, back.Y+1)
	assert.False(t, ok, "disabled buttons do not respond")

	tb.Update(nav.Controls{Back: true}, false)
	action, ok := tb.Hit(back.X+1, back.Y+1)
	require.True(t, ok)
	assert.Equal(t, ActionBack, action)

	free := tb.Buttons[4]
	assert.True(t, free.Enabled)
	assert.False(t, free.Active)

	_, ok = tb.Hit(-5, -5)
	assert.False(t, ok)
}

func TestMenuItems(t *testing.T) {
	assert.Nil(t, MenuItems(core.Menu{}, 100, 100), "closed menu has no items")

	m := core.Menu{Open: true, X: 10, Y: 10, Path: "/R/B"}
	items := MenuItems(m, 400, 300)
	require.Len(t, items, 1)
	assert.Equal(t, core.MenuReveal, items[0].Label)
	assert.Equal(t, 10.0, items[0].X)
	assert.Equal(t, 10.0, items[0].Y)

	label, ok := MenuHit(m, 400, 300, 12, 12)
	require.True(t, ok)
	assert.Equal(t, core.MenuReveal, label)

	_, ok = MenuHit(m, 400, 300, 5, 5)
	assert.False(t, ok)
}

func TestMenuItemsStayOnCanvas(t *testing.T) {
	m := core.Menu{Open: true, X: 390, Y: 295}
	items := MenuItems(m, 400, 300)
	require.Len(t, items, 1)
	it := items[0]
	assert.LessOrEqual(t, it.X+it.W, 400.0)
	assert.LessOrEqual(t, it.Y+it.H, 300.0)
	assert.GreaterOrEqual(t, it.X, 0.0)
}

func TestStatusLine(t *testing.T) {
	assert.Equal(t, "No tree loaded", StatusLine(core.Status{}, nil))
	assert.Equal(t, "Scanning files...", StatusLine(core.Status{Busy: true, Phase: core.PhaseScanning}, nil))

	loaded := core.Status{Loaded: true, FocusPath: "/R"}
	loaded.Tree.FileCount, loaded.Tree.DirCount = 2, 3
	assert.Equal(t, "/R  |  2 files, 3 folders", StatusLine(loaded, nil))

	loaded.LastError = errors.New("scan failed")
	assert.Equal(t, "Error: scan failed", StatusLine(loaded, nil))
	assert.Equal(t, "Error: no file manager", StatusLine(loaded, errors.New("no file manager")))

	sel := core.Status{Loaded: true, Selection: &core.Selection{Name: "a.txt", Size: 2048, Mime: "text/plain", Path: "/R/a.txt"}}
	assert.Equal(t, "a.txt  |  "+render.FormatSize(2048)+"  |  text/plain  |  /R/a.txt", StatusLine(sel, nil))
}

func TestPackedPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}

	buf := PackedPixels(img, image.Rect(1, 1, 3, 3))
	require.Len(t, buf, 2*2*4)
	assert.Equal(t, img.Pix[img.PixOffset(1, 1):img.PixOffset(3, 1)], buf[:8])
	assert.Equal(t, img.Pix[img.PixOffset(1, 2):img.PixOffset(3, 2)], buf[8:])

	assert.Len(t, PackedPixels(img, image.Rect(2, 2, 10, 10)), 2*1*4, "clipped to the image")
}
