package graphics

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Overlay draws stat lines in the top-left corner of a CPU image before upload
type Overlay struct {
	face       font.Face
	lineHeight int
	padding    int
	textColor  color.RGBA
	background color.RGBA
}

// NewOverlay parses the bundled monospace font at the given pixel size.
func NewOverlay(fontPixels int) (*Overlay, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(fontPixels), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}

	m := face.Metrics()
	return &Overlay{
		face:       face,
		lineHeight: m.Height.Ceil(),
		padding:    4,
		textColor:  color.RGBA{255, 255, 255, 255},
		background: color.RGBA{0, 0, 0, 160},
	}, nil
}

// Measure returns the pixel size of the block that Draw would cover.
func (o *Overlay) Measure(lines []string) (int, int) {
	w := 0
	for _, line := range lines {
		w = max(w, font.MeasureString(o.face, line).Ceil())
	}
	return w + 2*o.padding, len(lines)*o.lineHeight + 2*o.padding
}

// Draw blends a translucent panel into dst and writes lines on top of it.
func (o *Overlay) Draw(dst *image.RGBA, lines []string) {
	if len(lines) == 0 {
		return
	}

	w, h := o.Measure(lines)
	panel := image.Rect(0, 0, w, h).Intersect(dst.Bounds())
	draw.Draw(dst, panel, image.NewUniform(o.background), image.Point{}, draw.Over)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(o.textColor),
		Face: o.face,
	}
	ascent := o.face.Metrics().Ascent.Ceil()
	for i, line := range lines {
		d.Dot = fixed.P(o.padding, o.padding+ascent+i*o.lineHeight)
		d.DrawString(line)
	}
}

// Close releases the font face.
func (o *Overlay) Close() error {
	return o.face.Close()
}
