package graphics

import (
	"image"

	"lumitracer/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ShadersDir holds present.vert and present.frag
const ShadersDir = "assets/shaders/present"

// Fullscreen quad as two triangles: position xy, uv
var quadVertices = []float32{
	-1, -1, 0, 0,
	1, -1, 1, 0,
	1, 1, 1, 1,
	-1, -1, 0, 0,
	1, 1, 1, 1,
	-1, 1, 0, 1,
}

// Presenter blits a finished CPU image to the default framebuffer.
// It needs a current GL context for every call.
type Presenter struct {
	shader  *Shader
	vao     uint32
	vbo     uint32
	texture uint32

	texWidth, texHeight int
	staging             *image.RGBA
}

// NewPresenter compiles the blit shader and sets up the quad.
func NewPresenter() (*Presenter, error) {
	shader, err := LoadShader(ShadersDir, "present")
	if err != nil {
		return nil, err
	}

	p := &Presenter{shader: shader}
	p.setupQuadVAO()

	shader.Use()
	shader.SetInt("screen", 0)
	return p, nil
}

func (p *Presenter) setupQuadVAO() {
	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)

	gl.GenBuffers(1, &p.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)

	gl.BindVertexArray(0)
}

// Staging converts pixels into the reusable staging image and returns it.
// The image stays valid until the next call.
func (p *Presenter) Staging(pixels []uint32, width, height int) *image.RGBA {
	p.staging = PixelsToRGBA(pixels, width, height, p.staging)
	return p.staging
}

// Present uploads img and draws it over the whole viewport.
func (p *Presenter) Present(img *image.RGBA, viewportWidth, viewportHeight int) {
	defer profiling.Track("graphics.Present")()

	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}
	if w != p.texWidth || h != p.texHeight {
		if p.texture != 0 {
			gl.DeleteTextures(1, &p.texture)
		}
		p.texture = NewTexture(w, h)
		p.texWidth, p.texHeight = w, h
	}
	UploadTexture(p.texture, img)

	gl.Viewport(0, 0, int32(viewportWidth), int32(viewportHeight))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	p.shader.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

// Dispose cleans up OpenGL resources
func (p *Presenter) Dispose() {
	if p.texture != 0 {
		gl.DeleteTextures(1, &p.texture)
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
	}
	if p.vbo != 0 {
		gl.DeleteBuffers(1, &p.vbo)
	}
	p.shader.Delete()
}
