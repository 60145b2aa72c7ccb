// Package texture provides the bound texture handle that mirrors a paint
// canvas on the GPU, and image decoding for overlays and presets.
package texture

import (
	"image"
	"sync/atomic"
)

// ColorSpace tells the uploader how texel values are to be decoded.
type ColorSpace int

const (
	// SRGB textures are color managed and decoded to linear on sampling.
	SRGB ColorSpace = iota
	// Linear textures are sampled as stored.
	Linear
)

var nextID atomic.Uint64

// Texture is a GPU-visible view of an image. The painting core only flips
// its dirty flag; the render loop uploads and clears it.
type Texture struct {
	id         uint64
	source     *image.NRGBA
	flipY      bool
	colorSpace ColorSpace

	version     uint64
	needsUpdate bool
	released    bool
}

// New returns a texture bound to src with Y-flip disabled and sRGB decoding,
// flagged for its first upload.
func New(src *image.NRGBA) *Texture {
	return &Texture{
		id:          nextID.Add(1),
		source:      src,
		colorSpace:  SRGB,
		needsUpdate: true,
	}
}

// ID returns a process-unique identifier.
func (t *Texture) ID() uint64 { return t.id }

// Source returns the backing image.
func (t *Texture) Source() *image.NRGBA { return t.source }

// Size returns the texture dimensions.
func (t *Texture) Size() (width, height int) {
	b := t.source.Bounds()
	return b.Dx(), b.Dy()
}

// FlipY reports whether rows are flipped on upload.
func (t *Texture) FlipY() bool { return t.flipY }

// ColorSpace returns how texels are decoded.
func (t *Texture) ColorSpace() ColorSpace { return t.colorSpace }

// MarkDirty flags the texture for re-upload on the next frame.
func (t *Texture) MarkDirty() {
	if t.released {
		return
	}
	t.version++
	t.needsUpdate = true
}

// NeedsUpdate reports whether the texture changed since the last upload.
func (t *Texture) NeedsUpdate() bool { return t.needsUpdate }

// Consume clears the dirty flag and reports whether it was set.
func (t *Texture) Consume() bool {
	dirty := t.needsUpdate
	t.needsUpdate = false
	return dirty
}

// Version counts MarkDirty calls.
func (t *Texture) Version() uint64 { return t.version }

// Release marks the texture as discarded. Released textures ignore MarkDirty.
func (t *Texture) Release() {
	t.released = true
	t.needsUpdate = false
}

// Released reports whether Release was called.
func (t *Texture) Released() bool { return t.released }
