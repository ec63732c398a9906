package render

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/lumipallolabs/spacemap/internal/label"
)

var regular *truetype.Font

func init() {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf("parse embedded font: %v", err))
	}
	regular = f
}

// typeface is a font face at device resolution measured in logical units
type typeface struct {
	face    font.Face
	scale   float64
	metrics label.Metrics
}

func newTypeface(size, scale float64) *typeface {
	if !(size > 0) {
		size = 10
	}
	face := truetype.NewFace(regular, &truetype.Options{
		Size:    size * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	m := face.Metrics()
	ascent := float64(m.Ascent) / 64 / scale
	descent := float64(m.Descent) / 64 / scale
	return &typeface{
		face:    face,
		scale:   scale,
		metrics: label.NewMetrics(ascent, descent),
	}
}

// Measure implements label.Measurer in logical units
func (t *typeface) Measure(s string) float64 {
	return float64(font.MeasureString(t.face, s)) / 64 / t.scale
}
