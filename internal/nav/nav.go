// Package nav holds the focus history and selection of the viewer.
//
// State changes are reported as an Effect telling the caller what to redo:
// a new layout when the focus moved, or targeted repaints when only the
// selection changed.
package nav

import "github.com/lumipallolabs/spacemap/internal/geom"

// NoSelection is the selected index when nothing is selected
const NoSelection = -1

// Effect describes the redraw work a transition requires
type Effect struct {
	// Relayout is set when the focus changed and a full layout is needed
	Relayout bool
	// Repaint lists rect indices to repaint in place
	Repaint []int
}

// Changed reports whether the transition did anything visible
func (e Effect) Changed() bool {
	return e.Relayout || len(e.Repaint) > 0
}

// Controls is the enabled state of the navigation buttons
type Controls struct {
	Root    bool
	Parent  bool
	Back    bool
	Forward bool
}

// Container reports whether a node id can become the focus
type Container func(id int) bool

// State is the navigation and selection state machine.
// The zero value is the no-tree-loaded state.
type State struct {
	history  []int
	index    int
	selected int
	loaded   bool
}

// New returns a state with no tree loaded
func New() *State {
	return &State{selected: NoSelection}
}

// Loaded reports whether a tree has been loaded
func (s *State) Loaded() bool {
	return s.loaded
}

// Focus returns the focused node id
func (s *State) Focus() (id int, ok bool) {
	if !s.loaded {
		return 0, false
	}
	return s.history[s.index], true
}

// History returns a copy of the visited ids and the cursor into them
func (s *State) History() ([]int, int) {
	out := make([]int, len(s.history))
	copy(out, s.history)
	return out, s.index
}

// Selected returns the selected rect index or NoSelection
func (s *State) Selected() int {
	if !s.loaded {
		return NoSelection
	}
	return s.selected
}

// Load resets history to the new root and focuses it
func (s *State) Load(rootID int) Effect {
	s.history = []int{rootID}
	s.index = 0
	s.selected = NoSelection
	s.loaded = true
	return Effect{Relayout: true}
}

// Visit focuses id, dropping any forward history. It does nothing when id is
// the current focus or isContainer rejects it.
func (s *State) Visit(id int, isContainer Container) Effect {
	if !s.loaded || id < 0 {
		return Effect{}
	}
	if id == s.history[s.index] {
		return Effect{}
	}
	if isContainer != nil && !isContainer(id) {
		return Effect{}
	}

	s.history = append(s.history[:s.index+1], id)
	s.index = len(s.history) - 1
	s.selected = NoSelection
	return Effect{Relayout: true}
}

// Back moves to the previous history entry
func (s *State) Back() Effect {
	if !s.loaded || s.index == 0 {
		return Effect{}
	}
	s.index--
	s.selected = NoSelection
	return Effect{Relayout: true}
}

// Forward moves to the next history entry
func (s *State) Forward() Effect {
	if !s.loaded || s.index >= len(s.history)-1 {
		return Effect{}
	}
	s.index++
	s.selected = NoSelection
	return Effect{Relayout: true}
}

// GoToRoot visits the first history entry
func (s *State) GoToRoot(isContainer Container) Effect {
	if !s.loaded {
		return Effect{}
	}
	return s.Visit(s.history[0], isContainer)
}

// GoToParent visits the parent of the current root rect, if it has one
func (s *State) GoToParent(rects []geom.Rect, isContainer Container) Effect {
	if !s.loaded || len(rects) == 0 || !rects[0].HasParent() {
		return Effect{}
	}
	return s.Visit(rects[0].ParentID, isContainer)
}

// Select toggles the selection of rects[idx]. Selecting the selected rect
// clears it, unless keep is set. Free space and out of range indices are
// ignored. Returns the rects to repaint: the old selection and the new one.
func (s *State) Select(idx int, rects []geom.Rect, keep bool) Effect {
	if !s.loaded {
		return Effect{}
	}
	prev := s.selected

	if idx < 0 || idx >= len(rects) {
		if keep || prev == NoSelection {
			return Effect{}
		}
		s.selected = NoSelection
		return Effect{Repaint: []int{prev}}
	}

	if idx == prev {
		if keep {
			return Effect{}
		}
		s.selected = NoSelection
		return Effect{Repaint: []int{prev}}
	}

	if rects[idx].IsFreeSpace {
		return Effect{}
	}

	s.selected = idx
	if prev == NoSelection {
		return Effect{Repaint: []int{idx}}
	}
	return Effect{Repaint: []int{prev, idx}}
}

// ClearSelection drops the selection without asking for a repaint; used when
// the rects it referred to are being replaced
func (s *State) ClearSelection() {
	s.selected = NoSelection
}

// Controls derives the enabled navigation buttons
func (s *State) Controls(rects []geom.Rect) Controls {
	if !s.loaded {
		return Controls{}
	}
	return Controls{
		Root:    s.history[s.index] != s.history[0],
		Parent:  len(rects) > 0 && rects[0].HasParent(),
		Back:    s.index > 0,
		Forward: s.index < len(s.history)-1,
	}
}
