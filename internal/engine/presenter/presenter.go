// Package presenter puts software-rendered layers on screen. Each layer is a
// premultiplied RGBA pixel buffer that is uploaded to a texture and drawn as
// a viewport-sized quad, back to front.
package presenter

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/spacejourney/internal/logger"
	mathx "github.com/Faultbox/spacejourney/pkg/math"
)

// floats per vertex: pos(2) + uv(2)
const vertexFloats = 4

// Color is a clear colour with straight alpha.
type Color struct {
	R, G, B, A float32
}

// Texture is a GPU copy of one layer.
type Texture struct {
	id            uint32
	width, height int32
}

// Size returns the texture size in pixels.
func (t *Texture) Size() (int, int) { return int(t.width), int(t.height) }

// Presenter owns the GL objects for compositing layers.
type Presenter struct {
	log  *zap.Logger
	prog *program
	vao  uint32
	vbo  uint32

	width, height int32
	vertices      [6 * vertexFloats]float32
}

// New initialises OpenGL and builds the quad pipeline.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(log *zap.Logger) (*Presenter, error) {
	if log == nil {
		log = logger.Named("presenter")
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	prog, err := newProgram(quadVertexShader, quadFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create quad program: %w", err)
	}
	p := &Presenter{log: log, prog: prog}

	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)
	gl.GenBuffers(1, &p.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(p.vertices)*4, nil, gl.DYNAMIC_DRAW)

	stride := int32(vertexFloats * 4)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	log.Debug("quad pipeline created", zap.Uint32("vao", p.vao), zap.Uint32("vbo", p.vbo))
	return p, nil
}

// Close releases GL objects owned by the presenter. Textures are released
// with DeleteTexture.
func (p *Presenter) Close() {
	p.log.Info("closing presenter")
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
	}
	if p.vbo != 0 {
		gl.DeleteBuffers(1, &p.vbo)
	}
	p.prog.delete()
}

// Begin clears the drawable and sets the viewport for a new frame. width
// and height are drawable pixels.
func (p *Presenter) Begin(width, height int, bg Color) {
	p.width, p.height = int32(width), int32(height)
	gl.Viewport(0, 0, p.width, p.height)
	gl.ClearColor(bg.R, bg.G, bg.B, bg.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// NewTexture allocates an empty texture.
func (p *Presenter) NewTexture() *Texture {
	t := &Texture{}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

// DeleteTexture releases t.
func (p *Presenter) DeleteTexture(t *Texture) {
	if t != nil && t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// Upload copies width x height RGBA pixels into t, reallocating storage when
// the size changed.
func (p *Presenter) Upload(t *Texture, pixels []uint8, width, height int) error {
	if len(pixels) != width*height*4 || len(pixels) == 0 {
		return fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	if int32(width) != t.width || int32(height) != t.height {
		t.width, t.height = int32(width), int32(height)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, t.width, t.height, 0,
			gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, t.width, t.height,
			gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// Draw composites t over the whole viewport at the given opacity.
func (p *Presenter) Draw(t *Texture, opacity float32) {
	if t == nil || t.id == 0 || t.width == 0 || p.width == 0 {
		return
	}
	fillQuad(p.vertices[:], float32(p.width), float32(p.height))
	proj := mathx.PixelOrtho(float32(p.width), float32(p.height))

	gl.UseProgram(p.prog.id)
	gl.UniformMatrix4fv(p.prog.projection, 1, false, proj.Ptr())
	gl.Uniform1i(p.prog.texture, 0)
	gl.Uniform1f(p.prog.opacity, opacity)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.id)

	gl.BindVertexArray(p.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(p.vertices)*4, unsafe.Pointer(&p.vertices[0]))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

// ReadPixels returns the current drawable as bottom-up RGBA rows.
func (p *Presenter) ReadPixels() ([]uint8, int, int) {
	w, h := int(p.width), int(p.height)
	if w == 0 || h == 0 {
		return nil, 0, 0
	}
	buf := make([]uint8, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 4)
	gl.ReadPixels(0, 0, p.width, p.height, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&buf[0]))
	return buf, w, h
}

// fillQuad writes two triangles covering a w x h pixel viewport. Texture row
// 0 is the top of the layer, matching the y-down projection.
func fillQuad(dst []float32, w, h float32) {
	copy(dst, []float32{
		0, 0, 0, 0,
		w, 0, 1, 0,
		w, h, 1, 1,

		0, 0, 0, 0,
		w, h, 1, 1,
		0, h, 0, 1,
	})
}
