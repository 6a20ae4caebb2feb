package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"soft-render/core"
	"soft-render/tga"
)

// presentVertSrc draws a fullscreen triangle via gl_VertexID (no VBO needed).
const presentVertSrc = `
#version 410 core
out vec2 fragUV;
void main() {
    const vec2 pos[3] = vec2[3](
        vec2(-1.0, -1.0),
        vec2( 3.0, -1.0),
        vec2(-1.0,  3.0)
    );
    gl_Position = vec4(pos[gl_VertexID], 0.0, 1.0);
    fragUV      = pos[gl_VertexID] * 0.5 + 0.5;
}
` + "\x00"

const presentFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;
uniform sampler2D frame;
void main() {
    outColor = texture(frame, fragUV);
}
` + "\x00"

// Presenter shows software-rendered frames in the current GL context.
type Presenter struct {
	program  uint32
	vao      uint32 // empty VAO for the fullscreen triangle
	texture  uint32
	frameLoc int32
	scratch  []byte
}

// NewPresenter loads GL entry points and builds the blit program. The
// window's context must be current.
func NewPresenter() (*Presenter, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	core.Logger().Info("opengl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(presentVertSrc, presentFragSrc)
	if err != nil {
		return nil, fmt.Errorf("present shader compile: %w", err)
	}
	p := &Presenter{
		program:  prog,
		texture:  newFrameTexture(),
		frameLoc: gl.GetUniformLocation(prog, gl.Str("frame\x00")),
	}
	gl.GenVertexArrays(1, &p.vao)
	return p, nil
}

// Present uploads img and draws it over a width x height framebuffer.
func (p *Presenter) Present(img *tga.Image, width, height int) error {
	var err error
	if p.scratch, err = uploadFrame(p.texture, img, p.scratch); err != nil {
		return err
	}
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(p.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.Uniform1i(p.frameLoc, 0)
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	return nil
}

func (p *Presenter) Destroy() {
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	if p.texture != 0 {
		gl.DeleteTextures(1, &p.texture)
		p.texture = 0
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}
