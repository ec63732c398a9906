// Package ui holds the host-independent parts of the viewers: the toolbar
// model, double-click detection and context menu geometry. The tui and gui
// packages draw them.
package ui
