package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpKeyColumnWidth = 14 // Width for key column in help text (includes padding)

// HelpOverlay displays keyboard shortcuts in a centered overlay
type HelpOverlay struct {
	visible bool
	width   int
	height  int
	version string
}

// NewHelpOverlay creates a new help overlay component
func NewHelpOverlay(version string) HelpOverlay {
	return HelpOverlay{version: version}
}

// Toggle toggles the visibility of the help overlay
func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
}

// SetVisible sets the visibility of the help overlay
func (h *HelpOverlay) SetVisible(visible bool) {
	h.visible = visible
}

// IsVisible returns whether the help overlay is visible
func (h HelpOverlay) IsVisible() bool {
	return h.visible
}

// SetSize sets the dimensions of the help overlay
func (ho *HelpOverlay) SetSize(w, h int) {
	ho.width = w
	ho.height = h
}

// View renders the help overlay
func (h HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 3)

	sectionStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	keyStyle := HelpOverlayKey
	descStyle := lipgloss.NewStyle().Foreground(ColorText)
	dimStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var content strings.Builder

	content.WriteString(NameStyle.Render("spacemap"))
	if h.version != "" {
		content.WriteString(dimStyle.Render(" " + h.version))
	}
	content.WriteString("\n")

	content.WriteString(sectionStyle.Render("Mouse"))
	content.WriteString("\n")
	content.WriteString(formatHelpLine(keyStyle, descStyle, "Click", "Select / deselect"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "Double-click", "Zoom into folder"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "Right-click", "Folder menu"))

	content.WriteString(sectionStyle.Render("Navigation"))
	content.WriteString("\n")
	content.WriteString(formatHelpLine(keyStyle, descStyle, "Enter", "Zoom into selection"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "Esc / ⌫ / ←", "Back"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "→", "Forward"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "u / ↑", "Parent folder"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "g", "Root"))

	content.WriteString(sectionStyle.Render("Actions"))
	content.WriteString("\n")
	content.WriteString(formatHelpLine(keyStyle, descStyle, "o", "Open in file manager"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "f", "Toggle free space"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "r", "Rescan"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "q", "Quit"))

	content.WriteString("\n")
	content.WriteString(dimStyle.Render("Press any key to close"))

	box := boxStyle.Render(content.String())
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}

// formatHelpLine formats a single help line with key and description
func formatHelpLine(keyStyle, descStyle lipgloss.Style, key, desc string) string {
	return keyStyle.Width(helpKeyColumnWidth).Render(key) + descStyle.Render(desc) + "\n"
}

// HelpBar renders a bottom help bar with key hints
func HelpBar(width int) string {
	descStyle := lipgloss.NewStyle().Foreground(ColorDim)

	type hint struct {
		key  string
		desc string
	}

	fullHints := []hint{
		{"Enter", "zoom in"},
		{"Esc", "back"},
		{"u", "parent"},
		{"g", "root"},
		{"o", "open"},
		{"f", "free space"},
		{"?", "help"},
		{"q", "quit"},
	}

	compactHints := []hint{
		{"Enter", "in"},
		{"Esc", "out"},
		{"?", "help"},
		{"q", "quit"},
	}

	minimalHints := []hint{
		{"?", "help"},
		{"q", "quit"},
	}

	var hints []hint
	switch {
	case width >= 100:
		hints = fullHints
	case width >= 60:
		hints = compactHints
	default:
		hints = minimalHints
	}

	var parts []string
	for _, h := range hints {
		parts = append(parts, HelpKey.Render(h.key)+" "+descStyle.Render(h.desc))
	}

	separator := "   "
	if width < 80 {
		separator = "  "
	}

	return HelpStyle.Width(width).MaxHeight(1).Render(strings.Join(parts, separator))
}
