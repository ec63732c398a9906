// Package tui is the terminal host: it draws the session's visible surface
// with half-block characters and feeds mouse and keyboard input back.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/spacemap/internal/core"
	"github.com/lumipallolabs/spacemap/internal/ui"
)

// Message types for Bubble Tea
type (
	scanStartMsg struct{}
	pollMsg      struct{}
)

const pollInterval = 50 * time.Millisecond

// helpBarHeight is the line below the canvas
const helpBarHeight = 1

// notices collects session events that outlive a single Update
type notices struct {
	err error
}

// App is the main TUI application model
type App struct {
	sess *core.Session
	path string

	header  Header
	help    HelpOverlay
	keys    KeyMap
	spinner spinner.Model

	canvas  string
	clicks  ui.Clicks
	notices *notices
	now     func() time.Time

	width  int
	height int
}

// NewApp creates the application around sess. A non-empty path is scanned
// on start.
func NewApp(sess *core.Session, version, path string) App {
	n := &notices{}
	sess.Subscribe(func(e core.Event) {
		switch e := e.(type) {
		case core.ErrorEvent:
			n.err = e.Err
		case core.ScanStartedEvent, core.LayoutCompletedEvent:
			n.err = nil
		}
	})
	return App{
		sess:    sess,
		path:    path,
		header:  NewHeader(version),
		help:    NewHelpOverlay(version),
		keys:    DefaultKeyMap(),
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(SpinnerStyle)),
		notices: n,
		now:     time.Now,
	}
}

// Run starts the program in the alternate screen with mouse reporting
func Run(app App) error {
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{pollTick(), a.spinner.Tick}
	if a.path != "" {
		cmds = append(cmds, func() tea.Msg { return scanStartMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.header.SetWidth(a.width)
		a.help.SetSize(a.width, a.height)
		w, h := CanvasSize(a.width, a.canvasRows())
		a.sess.Resize(w, h, 1)
		return a, nil

	case scanStartMsg:
		a.sess.Analyze(a.path)
		return a, nil

	case pollMsg:
		a.sess.Poll()
		a.refresh()
		return a, pollTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		a.handleMouse(msg)
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		cmd := a.handleKey(msg)
		a.refresh()
		return a, cmd
	}
	return a, nil
}

// refresh rebuilds the cached canvas when the session drew since last time
func (a *App) refresh() {
	if _, ok := a.sess.TakeDirty(); ok || a.canvas == "" {
		a.canvas = HalfBlocks(a.sess.Image())
	}
}

func (a App) canvasRows() int {
	return max(a.height-headerHeight-helpBarHeight, 1)
}

// handleMouse maps a press on the canvas to session clicks
func (a *App) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || a.help.IsVisible() {
		return
	}
	row := msg.Y - headerHeight
	if row < 0 || row >= a.canvasRows() {
		a.sess.CloseMenu()
		return
	}
	x, y := CellToPoint(msg.X, row, false)

	switch msg.Button {
	case tea.MouseButtonLeft:
		if a.clicks.Press(float64(msg.X), float64(row), a.now()) {
			a.sess.DoubleClick(x, y)
			return
		}
		a.sess.Click(x, y)
	case tea.MouseButtonRight:
		a.clicks.Reset()
		a.sess.RightClick(x, y)
	}
}

// handleKey handles keyboard input
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.help.IsVisible() {
		a.help.SetVisible(false)
		return nil
	}

	if st := a.sess.Status(); st.Menu.Open {
		switch {
		case key.Matches(msg, a.keys.Enter), key.Matches(msg, a.keys.Open):
			a.sess.ChooseMenu(core.MenuReveal)
		case key.Matches(msg, a.keys.Quit):
			a.sess.Close()
			return tea.Quit
		default:
			a.sess.CloseMenu()
		}
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.sess.Close()
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.Toggle()

	case key.Matches(msg, a.keys.Enter):
		if sel := a.sess.Status().Selection; sel != nil && sel.IsFolder {
			a.sess.Visit(sel.NodeID)
		}

	case key.Matches(msg, a.keys.Back):
		a.sess.Back()

	case key.Matches(msg, a.keys.Forward):
		a.sess.Forward()

	case key.Matches(msg, a.keys.Parent):
		a.sess.GoToParent()

	case key.Matches(msg, a.keys.Root):
		a.sess.GoToRoot()

	case key.Matches(msg, a.keys.Open):
		a.sess.RevealSelected()

	case key.Matches(msg, a.keys.FreeSpace):
		a.sess.SetShowFreeSpace(!a.sess.ShowFreeSpace())

	case key.Matches(msg, a.keys.Rescan):
		if a.path != "" && !a.sess.Busy() {
			a.sess.Analyze(a.path)
		}
	}
	return nil
}

// View implements tea.Model
func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	st := a.sess.Status()
	a.header.SetStatus(st, a.spinner.View())
	a.header.SetError(a.notices.err)

	canvas := a.canvas
	if st.Menu.Open {
		canvas = a.menuView(st.Menu)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		a.header.View(),
		lipgloss.NewStyle().MaxHeight(a.canvasRows()).Render(canvas),
		HelpBar(a.width),
	)

	if a.help.IsVisible() {
		return lipgloss.Place(
			a.width, a.height,
			lipgloss.Center, lipgloss.Center,
			a.help.View(),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(ColorBackground),
		)
	}
	return content
}

// menuView renders the context menu centred in the canvas area. The
// treemap is hidden while the menu is open.
func (a App) menuView(m core.Menu) string {
	menu := MenuStyle.Render(HelpOverlayKey.Render("o") + core.MenuReveal + "\n" + LabelStyle.Render(m.Path))
	return lipgloss.Place(a.width, a.canvasRows(), lipgloss.Center, lipgloss.Center, menu)
}
