package graphics

import (
	"image"
	"image/color"
	"testing"
)

func TestPixelsToRGBAFlipsRows(t *testing.T) {
	// bottom row red, top row blue
	pixels := []uint32{
		0xFF0000FF, 0xFF0000FF,
		0xFFFF0000, 0x80FF0000,
	}
	img := PixelsToRGBA(pixels, 2, 2, nil)

	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("top-left = %v, want blue", got)
	}
	if got := img.RGBAAt(1, 0); got.A != 0x80 {
		t.Errorf("top-right alpha = %#x, want 0x80", got.A)
	}
	if got := img.RGBAAt(0, 1); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("bottom-left = %v, want red", got)
	}
}

func TestPixelsToRGBAReusesDestination(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 3, 2))
	pixels := make([]uint32, 6)

	if got := PixelsToRGBA(pixels, 3, 2, dst); got != dst {
		t.Errorf("same-size destination was not reused")
	}
	if got := PixelsToRGBA(pixels, 2, 3, dst); got == dst || got.Rect.Dx() != 2 {
		t.Errorf("resized destination = %v", got.Rect)
	}
}

func TestOverlayDrawsInsidePanel(t *testing.T) {
	o, err := NewOverlay(13)
	if err != nil {
		t.Fatal(err)
	}
	defer o.Close()

	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	lines := []string{"frame 12", "bounces 5"}
	o.Draw(img, lines)

	w, h := o.Measure(lines)
	if w <= 8 || h <= 8 {
		t.Fatalf("Measure = %dx%d", w, h)
	}

	bright := 0
	for y := range h {
		for x := range w {
			if img.RGBAAt(x, y).R > 128 {
				bright++
			}
		}
	}
	if bright == 0 {
		t.Errorf("no text pixels inside the panel")
	}
	if got := img.RGBAAt(199, 99); got != (color.RGBA{}) {
		t.Errorf("pixel outside the panel changed: %v", got)
	}
}

func TestOverlayNoLines(t *testing.T) {
	o, err := NewOverlay(13)
	if err != nil {
		t.Fatal(err)
	}
	defer o.Close()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	o.Draw(img, nil)
	if got := img.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("empty overlay drew %v", got)
	}
}
