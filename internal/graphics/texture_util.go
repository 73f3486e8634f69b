package graphics

import (
	"encoding/binary"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// PixelsToRGBA copies packed A<<24|B<<16|G<<8|R pixels into an RGBA image.
// The source rows run bottom to top and the image rows top to bottom.
// dst is reused when it already has the right size.
func PixelsToRGBA(pixels []uint32, width, height int, dst *image.RGBA) *image.RGBA {
	if dst == nil || dst.Rect.Dx() != width || dst.Rect.Dy() != height {
		dst = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	if len(pixels) < width*height {
		return dst
	}

	for y := range height {
		src := pixels[(height-1-y)*width : (height-y)*width]
		row := dst.Pix[y*dst.Stride : y*dst.Stride+width*4]
		for x, p := range src {
			binary.LittleEndian.PutUint32(row[x*4:], p)
		}
	}
	return dst
}

// NewTexture creates an empty RGBA8 texture with nearest filtering
func NewTexture(width, height int) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(width),
		int32(height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		nil,
	)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture
}

// UploadTexture replaces the contents of texture with img.
// The texture must already have img's size.
func UploadTexture(texture uint32, img *image.RGBA) {
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexSubImage2D(
		gl.TEXTURE_2D,
		0,
		0,
		0,
		int32(img.Rect.Dx()),
		int32(img.Rect.Dy()),
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix),
	)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}
