package presenter

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const quadVertexShader = `
	#version 410 core

	layout (location = 0) in vec2 aPos;
	layout (location = 1) in vec2 aTexCoord;

	uniform mat4 uProjection;

	out vec2 vTexCoord;

	void main() {
		gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
		vTexCoord = aTexCoord;
	}
`

// Layers hold premultiplied colour, so the sample is passed through and the
// blend state does the compositing.
const quadFragmentShader = `
	#version 410 core

	uniform sampler2D uTexture;
	uniform float uOpacity;

	in vec2 vTexCoord;
	out vec4 FragColor;

	void main() {
		FragColor = texture(uTexture, vTexCoord) * uOpacity;
	}
`

// program is a linked shader program with the uniforms the quad pass uses.
type program struct {
	id         uint32
	projection int32
	texture    int32
	opacity    int32
}

func newProgram(vertexSrc, fragmentSrc string) (*program, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(id, logLen, nil, &log[0])
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("link: %s", gl.GoStr(&log[0]))
	}

	return &program{
		id:         id,
		projection: uniform(id, "uProjection"),
		texture:    uniform(id, "uTexture"),
		opacity:    uniform(id, "uOpacity"),
	}, nil
}

func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile: %s", gl.GoStr(&log[0]))
	}
	return shader, nil
}

// uniform returns the location of name, or -1 if the linker dropped it.
func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

func (p *program) delete() {
	if p != nil && p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
