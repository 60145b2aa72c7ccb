// Package material tracks the paintable surfaces of the current model: the
// base mesh skin and every equipped clothing item.
package material

import (
	"fmt"
	"image/color"

	"github.com/Faultbox/texpaint/internal/texture"
)

// Domain is a material category used to filter texture presets.
type Domain string

const (
	DomainSkin    Domain = "skin"
	DomainFabric  Domain = "fabric"
	DomainLeather Domain = "leather"
	DomainMetal   Domain = "metal"
	DomainHair    Domain = "hair"
)

// Domains lists every known domain.
var Domains = []Domain{DomainSkin, DomainFabric, DomainLeather, DomainMetal, DomainHair}

// Valid reports whether d is a known domain.
func (d Domain) Valid() bool {
	for _, k := range Domains {
		if d == k {
			return true
		}
	}
	return false
}

// ParseDomain converts a name to a Domain. The empty string yields fabric.
func ParseDomain(s string) (Domain, error) {
	if s == "" {
		return DomainFabric, nil
	}
	d := Domain(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown material domain %q", s)
	}
	return d, nil
}

// PaintableMaterial is the capability the renderer's materials expose to the
// painting core.
type PaintableMaterial interface {
	ColorMap() *texture.Texture
	SetColorMap(tex *texture.Texture)
	BaseColor() color.NRGBA
	SetBaseColor(c color.NRGBA)
	Roughness() float64
	SetRoughness(v float64)
	Metalness() float64
	SetMetalness(v float64)
	MarkDirty()
}

// MeshHandle references a mesh owned by the scene graph.
type MeshHandle interface {
	Name() string
	Materials() []PaintableMaterial
}

// Kind distinguishes the base mesh target from clothing targets.
type Kind int

const (
	KindBase Kind = iota
	KindClothing
)

// Target is one paintable surface group.
type Target struct {
	ID     string
	Label  string
	Domain Domain
	Kind   Kind
	Meshes []MeshHandle
	Color  color.NRGBA

	// ActiveTextureID is the preset or layer currently shown.
	ActiveTextureID string
	// UVMap is the overlay asset filename; empty when none exists.
	UVMap string
}

// Materials returns every non-nil material on the target's meshes.
func (t *Target) Materials() []PaintableMaterial {
	var mats []PaintableMaterial
	for _, m := range t.Meshes {
		if m == nil {
			continue
		}
		for _, mat := range m.Materials() {
			if mat != nil {
				mats = append(mats, mat)
			}
		}
	}
	return mats
}

// ApplyColorMap assigns tex to every material.
func (t *Target) ApplyColorMap(tex *texture.Texture) {
	t.each(func(m PaintableMaterial) { m.SetColorMap(tex) })
}

// ApplyBaseColor assigns c to every material.
func (t *Target) ApplyBaseColor(c color.NRGBA) {
	t.each(func(m PaintableMaterial) { m.SetBaseColor(c) })
}

// ApplyRoughness assigns v to every material.
func (t *Target) ApplyRoughness(v float64) {
	t.each(func(m PaintableMaterial) { m.SetRoughness(v) })
}

// ApplyMetalness assigns v to every material.
func (t *Target) ApplyMetalness(v float64) {
	t.each(func(m PaintableMaterial) { m.SetMetalness(v) })
}

func (t *Target) each(fn func(PaintableMaterial)) {
	for _, m := range t.Materials() {
		fn(m)
		m.MarkDirty()
	}
}
