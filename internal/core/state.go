package core

import (
	"time"

	"github.com/lumipallolabs/spacemap/internal/nav"
	"github.com/lumipallolabs/spacemap/internal/provider"
)

// Phase is what the session is waiting for
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScanning
	PhaseLayout
	PhaseReady
)

// String returns a human-readable phase name
func (p Phase) String() string {
	switch p {
	case PhaseScanning:
		return "Scanning files"
	case PhaseLayout:
		return "Laying out"
	case PhaseReady:
		return "Ready"
	default:
		return ""
	}
}

// MenuReveal is the label of the context menu's only action
const MenuReveal = "Open in file manager"

// Menu is the context menu state. X and Y are where it was opened.
type Menu struct {
	Open  bool
	X, Y  float64
	Index int
	Path  string
}

// Items returns the menu entries
func (m Menu) Items() []string {
	if !m.Open {
		return nil
	}
	return []string{MenuReveal}
}

// Selection describes the selected rect
type Selection struct {
	Index    int
	NodeID   int
	Name     string
	Path     string
	Size     int64
	IsFolder bool
	Mime     string // empty until the provider answers
}

// Status is a read-only snapshot for hosts
type Status struct {
	Phase Phase
	Busy  bool
	Tree  provider.TreeInfo

	Loaded    bool
	FocusID   int
	FocusName string
	FocusPath string

	Selection *Selection
	Controls  nav.Controls
	Menu      Menu

	ShowFreeSpace bool
	Rects         int
	LastError     error
	LastRedraw    time.Duration
}
