package texbank

import (
	"image"

	"github.com/Faultbox/texpaint/internal/texture"
	"github.com/Faultbox/texpaint/pkg/history"
)

// Default PBR scalars of a new layer.
const (
	DefaultRoughness = 0.5
	DefaultMetalness = 0.0
)

// Prop names a scalar material property stored on a layer.
type Prop int

const (
	PropRoughness Prop = iota
	PropMetalness
)

func (p Prop) String() string {
	if p == PropMetalness {
		return "metalness"
	}
	return "roughness"
}

// Layer is one paintable texture of a target: a canvas, the texture that
// mirrors it and its undo history.
type Layer struct {
	name        string
	displayName string
	custom      bool

	canvas  *image.NRGBA
	tex     *texture.Texture
	history *history.Stack

	roughness float64
	metalness float64
}

// Name returns the layer key.
func (l *Layer) Name() string { return l.name }

// DisplayName returns the label shown in the layer dropdown.
func (l *Layer) DisplayName() string { return l.displayName }

// IsCustom reports whether the user created the layer. Only custom layers
// can be reset.
func (l *Layer) IsCustom() bool { return l.custom }

// Canvas returns the pixel buffer. It is replaced on resolution changes.
func (l *Layer) Canvas() *image.NRGBA { return l.canvas }

// Texture returns the bound texture.
func (l *Layer) Texture() *texture.Texture { return l.tex }

// History returns the layer's undo stack.
func (l *Layer) History() *history.Stack { return l.history }

// Roughness returns the stored roughness.
func (l *Layer) Roughness() float64 { return l.roughness }

// Metalness returns the stored metalness.
func (l *Layer) Metalness() float64 { return l.metalness }

// Property returns the value of p.
func (l *Layer) Property(p Prop) float64 {
	if p == PropMetalness {
		return l.metalness
	}
	return l.roughness
}

func (l *Layer) setProperty(p Prop, v float64) {
	if p == PropMetalness {
		l.metalness = v
	} else {
		l.roughness = v
	}
}
