package gltex

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const previewVertex = `
#version 410 core

uniform vec4 uRect;
out vec2 vUV;

void main() {
	vec2 corner = vec2(gl_VertexID & 1, gl_VertexID >> 1);
	vUV = vec2(corner.x, 1.0 - corner.y);
	gl_Position = vec4(mix(uRect.xy, uRect.zw, corner), 0.0, 1.0);
}
`

const previewFragment = `
#version 410 core

in vec2 vUV;
uniform sampler2D uMap;
uniform vec4 uColor;
uniform float uRoughness;
uniform float uMetalness;
out vec4 FragColor;

void main() {
	vec4 c = texture(uMap, vUV) * uColor;
	float sheen = uMetalness * (1.0 - uRoughness);
	FragColor = vec4(mix(c.rgb, c.rgb * 0.6 + 0.4, sheen), 1.0);
}
`

// Tile is one material drawn into a window rectangle with a top-left origin.
type Tile struct {
	Rect     image.Rectangle
	Material *Material
}

// Preview draws materials as flat textured tiles.
type Preview struct {
	program uint32
	vao     uint32
	white   uint32

	uRect, uMap, uColor, uRough, uMetal int32
}

// NewPreview compiles the tile program.
func NewPreview() (*Preview, error) {
	program, err := compileProgram(previewVertex, previewFragment)
	if err != nil {
		return nil, fmt.Errorf("preview program: %w", err)
	}
	p := &Preview{
		program: program,
		uRect:   uniform(program, "uRect"),
		uMap:    uniform(program, "uMap"),
		uColor:  uniform(program, "uColor"),
		uRough:  uniform(program, "uRoughness"),
		uMetal:  uniform(program, "uMetalness"),
	}
	gl.GenVertexArrays(1, &p.vao)

	// Untextured materials sample opaque white.
	px := []uint8{0xff, 0xff, 0xff, 0xff}
	gl.GenTextures(1, &p.white)
	gl.BindTexture(gl.TEXTURE_2D, p.white)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.SRGB8_ALPHA8, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(px))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := glError(); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

// Draw renders tiles into a window of the given drawable size. Color maps
// are looked up in u; textures without a GPU copy yet draw untextured.
func (p *Preview) Draw(tiles []Tile, u *Uploader, windowW, windowH int) {
	gl.Viewport(0, 0, int32(windowW), int32(windowH))
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.FRAMEBUFFER_SRGB)
	gl.UseProgram(p.program)
	gl.BindVertexArray(p.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(p.uMap, 0)

	ndc := func(x, y int) (float32, float32) {
		return float32(x)/float32(windowW)*2 - 1, 1 - float32(y)/float32(windowH)*2
	}

	for _, t := range tiles {
		m := t.Material
		tex := p.white
		if id, ok := u.Handle(m.ColorMap()); ok {
			tex = id
		}
		gl.BindTexture(gl.TEXTURE_2D, tex)

		x0, y0 := ndc(t.Rect.Min.X, t.Rect.Max.Y)
		x1, y1 := ndc(t.Rect.Max.X, t.Rect.Min.Y)
		gl.Uniform4f(p.uRect, x0, y0, x1, y1)

		c := m.BaseColor()
		gl.Uniform4f(p.uColor, float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
		gl.Uniform1f(p.uRough, float32(m.Roughness()))
		gl.Uniform1f(p.uMetal, float32(m.Metalness()))
		gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	gl.Disable(gl.FRAMEBUFFER_SRGB)
}

// Destroy releases the GL objects.
func (p *Preview) Destroy() {
	if p.white != 0 {
		gl.DeleteTextures(1, &p.white)
		p.white = 0
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}
