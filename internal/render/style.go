package render

import (
	"image/color"
)

// Folder colors, cycled by depth
var Palette = []color.RGBA{
	hex(0xff9b85),
	hex(0xffbe76),
	hex(0xffe066),
	hex(0x7bed9f),
	hex(0x70d6ff),
	hex(0xa29bfe),
	hex(0xdfe4ea),
}

func hex(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// Style holds the drawing constants, in logical units
type Style struct {
	Palette      []color.RGBA
	FreeSpace    color.RGBA
	Selected     color.RGBA
	SelectedText color.RGBA
	Text         color.RGBA
	Border       color.RGBA
	Background   color.RGBA

	BorderWidth  float64
	CornerRadius float64
	FontSize     float64

	// Labels turns text drawing on; rects smaller than MinLabelW x MinLabelH
	// never get text and folder headers need more than HeaderMinW x HeaderMinH
	Labels     bool
	MinLabelW  float64
	MinLabelH  float64
	HeaderMinW float64
	HeaderMinH float64
}

// DefaultStyle returns the standard look
func DefaultStyle() Style {
	const fontSize = 10
	return Style{
		Palette:      Palette,
		FreeSpace:    hex(0xffffff),
		Selected:     hex(0x000000),
		SelectedText: hex(0xffffff),
		Text:         hex(0x000000),
		Border:       hex(0x222222),
		Background:   hex(0xf4f4f4),
		BorderWidth:  1,
		CornerRadius: 3,
		FontSize:     fontSize,
		Labels:       true,
		MinLabelW:    40,
		MinLabelH:    fontSize + 4,
		HeaderMinW:   60,
		HeaderMinH:   15,
	}
}

// Fill returns the fill color for a rect at depth
func (s Style) Fill(depth int, freeSpace, selected bool) color.RGBA {
	switch {
	case selected:
		return s.Selected
	case freeSpace:
		return s.FreeSpace
	case len(s.Palette) == 0:
		return s.FreeSpace
	}
	return s.Palette[((depth%len(s.Palette))+len(s.Palette))%len(s.Palette)]
}

// TextColor returns the label color
func (s Style) TextColor(selected bool) color.RGBA {
	if selected {
		return s.SelectedText
	}
	return s.Text
}
