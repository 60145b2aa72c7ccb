// Package viewport maps between screen pixels and texture pixels for the
// pan/zoom texture editor, and composes the editor frame.
package viewport

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	pmath "github.com/Faultbox/texpaint/pkg/math"
)

// Zoom limits.
const (
	MinZoom = 0.25
	MaxZoom = 8.0
)

// Defaults.
const (
	DefaultZoomSensitivity = 0.001
	DefaultOverlayOpacity  = 0.25
)

// Background fills the frame outside the texture.
var Background = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff}

// Transform holds the pan/zoom state of the editor view.
//
// A texture point t maps to the screen as
//
//	offset + viewSize/2 + pan + zoom*(t - texSize/2)
//
// and ScreenToTexture is its exact inverse.
type Transform struct {
	offset   pmath.Vec2
	viewSize pmath.Vec2
	texSize  pmath.Vec2

	pan  pmath.Vec2
	zoom float64

	sensitivity float64

	panning bool
	panLast pmath.Vec2

	overlayVisible bool
	overlayOpacity float64
}

// New returns an identity transform over a view of the given size.
func New(viewW, viewH, texW, texH int) *Transform {
	return &Transform{
		viewSize:       pmath.V(float64(viewW), float64(viewH)),
		texSize:        pmath.V(float64(texW), float64(texH)),
		zoom:           1,
		sensitivity:    DefaultZoomSensitivity,
		overlayVisible: true,
		overlayOpacity: DefaultOverlayOpacity,
	}
}

// SetViewSize updates the editor element size.
func (t *Transform) SetViewSize(w, h int) {
	t.viewSize = pmath.V(float64(w), float64(h))
}

// ViewSize returns the editor element size.
func (t *Transform) ViewSize() (w, h int) {
	return int(t.viewSize.X), int(t.viewSize.Y)
}

// SetOffset sets the screen position of the editor element's top-left corner.
func (t *Transform) SetOffset(x, y float64) {
	t.offset = pmath.V(x, y)
}

// SetTextureSize updates the canvas dimensions.
func (t *Transform) SetTextureSize(w, h int) {
	t.texSize = pmath.V(float64(w), float64(h))
}

// SetZoomSensitivity sets the wheel-delta scale.
func (t *Transform) SetZoomSensitivity(s float64) {
	if s > 0 {
		t.sensitivity = s
	}
}

// Reset returns to zero pan and unit zoom and ends any pan drag.
func (t *Transform) Reset() {
	t.pan = pmath.Vec2{}
	t.zoom = 1
	t.panning = false
}

// Zoom returns the zoom factor.
func (t *Transform) Zoom() float64 { return t.zoom }

// Pan returns the pan offset in screen pixels.
func (t *Transform) Pan() pmath.Vec2 { return t.pan }

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (t *Transform) SetZoom(z float64) {
	t.zoom = min(max(z, MinZoom), MaxZoom)
}

// Wheel applies a scroll delta. Negative deltas (scroll up) zoom in.
func (t *Transform) Wheel(deltaY float64) {
	t.SetZoom(t.zoom * math.Exp(-deltaY*t.sensitivity))
}

// BeginPan starts a pan drag at screen point (x, y).
func (t *Transform) BeginPan(x, y float64) {
	t.panning = true
	t.panLast = pmath.V(x, y)
}

// DragPan moves the pan offset by the screen distance since the last call.
// The delta is not scaled by zoom.
func (t *Transform) DragPan(x, y float64) {
	if !t.panning {
		return
	}
	p := pmath.V(x, y)
	t.pan = t.pan.Add(p.Sub(t.panLast))
	t.panLast = p
}

// EndPan finishes a pan drag.
func (t *Transform) EndPan() {
	t.panning = false
}

// Panning reports whether a pan drag is active.
func (t *Transform) Panning() bool { return t.panning }

// TextureToScreen returns the affine map from texture to screen pixels.
func (t *Transform) TextureToScreen() f64.Aff3 {
	z := t.zoom
	c := t.offset.Add(t.viewSize.Scale(0.5)).Add(t.pan).Sub(t.texSize.Scale(0.5 * z))
	return f64.Aff3{
		z, 0, c.X,
		0, z, c.Y,
	}
}

// ScreenToTexture returns the inverse of TextureToScreen.
func (t *Transform) ScreenToTexture() f64.Aff3 {
	m := t.TextureToScreen()
	inv := 1 / t.zoom
	return f64.Aff3{
		inv, 0, -m[2] * inv,
		0, inv, -m[5] * inv,
	}
}

// ToTexture maps a screen point to texture pixels.
func (t *Transform) ToTexture(x, y float64) (float64, float64) {
	return apply(t.ScreenToTexture(), x, y)
}

// ToScreen maps a texture point to screen pixels.
func (t *Transform) ToScreen(x, y float64) (float64, float64) {
	return apply(t.TextureToScreen(), x, y)
}

func apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// SetOverlayVisible shows or hides the UV guide.
func (t *Transform) SetOverlayVisible(v bool) { t.overlayVisible = v }

// ToggleOverlay flips UV guide visibility and returns the new state.
func (t *Transform) ToggleOverlay() bool {
	t.overlayVisible = !t.overlayVisible
	return t.overlayVisible
}

// OverlayVisible reports whether the UV guide is drawn.
func (t *Transform) OverlayVisible() bool { return t.overlayVisible }

// SetOverlayOpacity sets the UV guide opacity, clamped to [0,1].
func (t *Transform) SetOverlayOpacity(v float64) {
	t.overlayOpacity = min(max(v, 0), 1)
}

// OverlayOpacity returns the UV guide opacity.
func (t *Transform) OverlayOpacity() float64 { return t.overlayOpacity }

// Render draws canvas, then overlay if visible, into dst. dst covers the
// editor element, so the element offset is not applied. Neither source is
// modified.
func (t *Transform) Render(dst draw.Image, canvas, overlay image.Image) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	if canvas == nil {
		return
	}

	m := t.TextureToScreen()
	m[2] -= t.offset.X - float64(dst.Bounds().Min.X)
	m[5] -= t.offset.Y - float64(dst.Bounds().Min.Y)

	draw.NearestNeighbor.Transform(dst, m, canvas, canvas.Bounds(), draw.Over, nil)

	if overlay == nil || !t.overlayVisible || t.overlayOpacity <= 0 {
		return
	}

	// The overlay is stretched over the texture rectangle.
	ob := overlay.Bounds()
	sx := t.texSize.X / float64(ob.Dx())
	sy := t.texSize.Y / float64(ob.Dy())
	om := f64.Aff3{
		m[0] * sx, 0, m[2] - m[0]*sx*float64(ob.Min.X),
		0, m[4] * sy, m[5] - m[4]*sy*float64(ob.Min.Y),
	}
	mask := image.NewUniform(color.Alpha{A: uint8(t.overlayOpacity*255 + 0.5)})
	draw.BiLinear.Transform(dst, om, overlay, ob, draw.Over, &draw.Options{
		SrcMask: mask,
	})
}
