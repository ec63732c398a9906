package core

import (
	"image"
	"time"

	"github.com/lumipallolabs/spacemap/internal/provider"
)

// Event represents a state change reported by the session
type Event interface {
	isEvent()
}

// ScanStartedEvent is emitted when a scan is issued
type ScanStartedEvent struct {
	Path string
}

func (ScanStartedEvent) isEvent() {}

// ScanCompletedEvent is emitted when the latest scan finishes
type ScanCompletedEvent struct {
	Info provider.TreeInfo
	Err  error
}

func (ScanCompletedEvent) isEvent() {}

// LayoutCompletedEvent is emitted when the latest layout is applied
type LayoutCompletedEvent struct {
	FocusID int
	Rects   int
	Err     error
}

func (LayoutCompletedEvent) isEvent() {}

// SelectionChangedEvent is emitted when the selected rect changes.
// Index is -1 when the selection was cleared.
type SelectionChangedEvent struct {
	Index  int
	NodeID int
}

func (SelectionChangedEvent) isEvent() {}

// RedrawEvent is emitted after every full or partial redraw
type RedrawEvent struct {
	Kind  string
	Dirty image.Rectangle
	Took  time.Duration
}

func (RedrawEvent) isEvent() {}

// MenuEvent is emitted when the context menu opens or closes
type MenuEvent struct {
	Menu Menu
}

func (MenuEvent) isEvent() {}

// ErrorEvent is emitted for failures that do not change any state, such as
// a failed reveal
type ErrorEvent struct {
	Err error
}

func (ErrorEvent) isEvent() {}
