package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/spacemap/internal/core"
	"github.com/lumipallolabs/spacemap/internal/render"
)

// headerHeight is the number of lines Header.View renders
const headerHeight = 2

// Header displays the focus path, tree stats and the selection (2 lines)
type Header struct {
	version string
	width   int
	status  core.Status
	spinner string
	err     error
}

// NewHeader creates a new header component
func NewHeader(version string) Header {
	return Header{version: version}
}

// SetWidth sets the header width
func (h *Header) SetWidth(w int) {
	h.width = w
}

// SetStatus updates the session snapshot and the current spinner frame
func (h *Header) SetStatus(st core.Status, spinner string) {
	h.status = st
	h.spinner = spinner
}

// SetError shows err on the second line until the next SetError
func (h *Header) SetError(err error) {
	h.err = err
}

// View renders the header
// Line 1: spacemap 0.1.0 /home/me/src          1234 files, 56 folders
// Line 2: report.pdf │ 3.2 MB │ application/pdf
func (h Header) View() string {
	st := h.status
	dimStyle := lipgloss.NewStyle().Foreground(ColorDim)
	sep := dimStyle.Render(" │ ")

	left := NameStyle.Render("spacemap")
	if h.version != "" {
		left += dimStyle.Render(" " + h.version)
	}
	if st.FocusPath != "" {
		left += " " + PathStyle.Render(st.FocusPath)
	} else if st.FocusName != "" {
		left += " " + PathStyle.Render(st.FocusName)
	}

	var right string
	if st.Tree.RootID >= 0 && (st.Tree.FileCount > 0 || st.Tree.DirCount > 0) {
		right = LabelStyle.Render(fmt.Sprintf("%d files, %d folders", st.Tree.FileCount, st.Tree.DirCount))
	}
	if !st.ShowFreeSpace {
		if right != "" {
			right += sep
		}
		right += LabelStyle.Render("free space hidden")
	}
	line1 := spread(left, right, h.width)

	var line2 string
	err := h.err
	if err == nil {
		err = st.LastError
	}
	switch {
	case st.Busy:
		line2 = SpinnerStyle.Render(h.spinner) + " " + SpinnerStyle.Render(st.Phase.String())
	case err != nil:
		line2 = ErrorStyle.Render(fmt.Sprintf("Error: %v", err))
	case st.Selection != nil:
		line2 = selectionInfo(*st.Selection, sep)
	case !st.Loaded:
		line2 = dimStyle.Render("No tree loaded")
	default:
		line2 = dimStyle.Render("Click a block to select it")
	}

	return lipgloss.JoinVertical(lipgloss.Left, line1, lipgloss.NewStyle().MaxWidth(max(h.width, 1)).Render(line2))
}

func selectionInfo(sel core.Selection, sep string) string {
	parts := []string{ValueStyle.Render(sel.Name), ValueStyle.Render(render.FormatSize(sel.Size))}
	switch {
	case sel.IsFolder:
		parts = append(parts, LabelStyle.Render("folder"))
	case sel.Mime != "":
		parts = append(parts, LabelStyle.Render(sel.Mime))
	}
	return strings.Join(parts, sep)
}

// spread pads between left and right so the line fills width
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}
