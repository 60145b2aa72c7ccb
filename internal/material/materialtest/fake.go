// Package materialtest provides in-memory materials and meshes for tests.
package materialtest

import (
	"image/color"

	"github.com/Faultbox/texpaint/internal/material"
	"github.com/Faultbox/texpaint/internal/texture"
)

// Material records every assignment made by the painting core.
type Material struct {
	Map        *texture.Texture
	Color      color.NRGBA
	Rough      float64
	Metal      float64
	DirtyCount int
}

// NewMaterial returns a white material with default PBR scalars.
func NewMaterial() *Material {
	return &Material{Color: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, Rough: 0.5}
}

func (m *Material) ColorMap() *texture.Texture       { return m.Map }
func (m *Material) SetColorMap(tex *texture.Texture) { m.Map = tex }
func (m *Material) BaseColor() color.NRGBA           { return m.Color }
func (m *Material) SetBaseColor(c color.NRGBA)       { m.Color = c }
func (m *Material) Roughness() float64               { return m.Rough }
func (m *Material) SetRoughness(v float64)           { m.Rough = v }
func (m *Material) Metalness() float64               { return m.Metal }
func (m *Material) SetMetalness(v float64)           { m.Metal = v }
func (m *Material) MarkDirty()                       { m.DirtyCount++ }

// Mesh is a named mesh holding materials.
type Mesh struct {
	MeshName string
	Mats     []*Material
}

// NewMesh returns a mesh with n fresh materials.
func NewMesh(name string, n int) *Mesh {
	m := &Mesh{MeshName: name}
	for i := 0; i < n; i++ {
		m.Mats = append(m.Mats, NewMaterial())
	}
	return m
}

func (m *Mesh) Name() string { return m.MeshName }

func (m *Mesh) Materials() []material.PaintableMaterial {
	out := make([]material.PaintableMaterial, len(m.Mats))
	for i, mat := range m.Mats {
		out[i] = mat
	}
	return out
}

// Handles converts meshes to handles.
func Handles(meshes ...*Mesh) []material.MeshHandle {
	out := make([]material.MeshHandle, len(meshes))
	for i, m := range meshes {
		out[i] = m
	}
	return out
}
