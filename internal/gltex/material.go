package gltex

import (
	"image/color"

	"github.com/Faultbox/texpaint/internal/material"
	"github.com/Faultbox/texpaint/internal/texture"
)

// Material is the preview renderer's surface description. It implements
// material.PaintableMaterial.
type Material struct {
	colorMap  *texture.Texture
	baseColor color.NRGBA
	roughness float64
	metalness float64
	version   uint64
}

// NewMaterial returns an untextured white material.
func NewMaterial() *Material {
	return &Material{
		baseColor: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		roughness: 0.5,
	}
}

func (m *Material) ColorMap() *texture.Texture       { return m.colorMap }
func (m *Material) SetColorMap(tex *texture.Texture) { m.colorMap = tex }
func (m *Material) BaseColor() color.NRGBA           { return m.baseColor }
func (m *Material) SetBaseColor(c color.NRGBA)       { m.baseColor = c }
func (m *Material) Roughness() float64               { return m.roughness }
func (m *Material) SetRoughness(v float64)           { m.roughness = v }
func (m *Material) Metalness() float64               { return m.metalness }
func (m *Material) SetMetalness(v float64)           { m.metalness = v }

// MarkDirty bumps the material version.
func (m *Material) MarkDirty() { m.version++ }

// Version counts MarkDirty calls.
func (m *Material) Version() uint64 { return m.version }

// Mesh is a named group of materials drawn as one preview tile.
type Mesh struct {
	name string
	mats []*Material
}

// NewMesh returns a mesh with one fresh material.
func NewMesh(name string) *Mesh {
	return &Mesh{name: name, mats: []*Material{NewMaterial()}}
}

// Name implements material.MeshHandle.
func (m *Mesh) Name() string { return m.name }

// Materials implements material.MeshHandle.
func (m *Mesh) Materials() []material.PaintableMaterial {
	out := make([]material.PaintableMaterial, len(m.mats))
	for i, mat := range m.mats {
		out[i] = mat
	}
	return out
}

// Primary returns the first material.
func (m *Mesh) Primary() *Material { return m.mats[0] }
