package raster

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	pmath "github.com/Faultbox/texpaint/pkg/math"
)

// kappa places cubic control points so that four curves approximate a circle.
const kappa = 0.5522847498

// coverThreshold is the minimum mask alpha that counts as a brushed pixel.
// Hard edges keep every touched pixel at the exact brush quadruple.
const coverThreshold = 0x80

// brush rasterizes round-capped line segments into a reusable coverage mask.
type brush struct {
	z    *vector.Rasterizer
	mask *image.Alpha
}

// capsule rasterizes the segment p0-p1 with radius r, clipped to clip. It
// returns the canvas rectangle the mask covers; mask pixel (0,0) maps to
// rect.Min.
func (b *brush) capsule(p0, p1 pmath.Vec2, r float64, clip image.Rectangle) image.Rectangle {
	rect := image.Rect(
		int(math.Floor(math.Min(p0.X, p1.X)-r)),
		int(math.Floor(math.Min(p0.Y, p1.Y)-r)),
		int(math.Ceil(math.Max(p0.X, p1.X)+r)),
		int(math.Ceil(math.Max(p0.Y, p1.Y)+r)),
	).Intersect(clip)
	if rect.Empty() {
		return rect
	}

	w, h := rect.Dx(), rect.Dy()
	if b.z == nil {
		b.z = vector.NewRasterizer(w, h)
	} else {
		b.z.Reset(w, h)
	}
	b.z.DrawOp = draw.Src

	origin := pmath.V(float64(rect.Min.X), float64(rect.Min.Y))
	a := p0.Sub(origin)
	c := p1.Sub(origin)
	d := c.Sub(a).Normalize()
	if d == (pmath.Vec2{}) {
		d = pmath.V(1, 0)
	}
	n := d.Perp()

	b.moveTo(a.Add(n.Scale(r)))
	b.lineTo(c.Add(n.Scale(r)))
	b.quarter(c, n, d, r)
	b.quarter(c, d, n.Scale(-1), r)
	b.lineTo(a.Sub(n.Scale(r)))
	b.quarter(a, n.Scale(-1), d.Scale(-1), r)
	b.quarter(a, d.Scale(-1), n, r)
	b.z.ClosePath()

	b.resizeMask(w, h)
	b.z.Draw(b.mask, b.mask.Bounds(), image.Opaque, image.Point{})
	return rect
}

// covered reports whether mask pixel (x, y) counts as brushed.
func (b *brush) covered(x, y int) bool {
	return b.mask.Pix[y*b.mask.Stride+x] >= coverThreshold
}

func (b *brush) resizeMask(w, h int) {
	if b.mask != nil && cap(b.mask.Pix) >= w*h {
		b.mask.Pix = b.mask.Pix[:w*h]
		b.mask.Stride = w
		b.mask.Rect = image.Rect(0, 0, w, h)
		return
	}
	b.mask = image.NewAlpha(image.Rect(0, 0, w, h))
}

func (b *brush) moveTo(p pmath.Vec2) { b.z.MoveTo(float32(p.X), float32(p.Y)) }
func (b *brush) lineTo(p pmath.Vec2) { b.z.LineTo(float32(p.X), float32(p.Y)) }

// quarter appends a 90 degree arc around center from direction u to direction v.
func (b *brush) quarter(center, u, v pmath.Vec2, r float64) {
	start := center.Add(u.Scale(r))
	end := center.Add(v.Scale(r))
	c1 := start.Add(v.Scale(kappa * r))
	c2 := end.Add(u.Scale(kappa * r))
	b.z.CubeTo(float32(c1.X), float32(c1.Y), float32(c2.X), float32(c2.Y), float32(end.X), float32(end.Y))
}

// coverage is a per-stroke bitset so each canvas pixel is composited once.
type coverage struct {
	bits   []uint64
	stride int
}

func (c *coverage) reset(w, h int) {
	n := (w*h + 63) / 64
	if cap(c.bits) >= n {
		c.bits = c.bits[:n]
		clear(c.bits)
	} else {
		c.bits = make([]uint64, n)
	}
	c.stride = w
}

// mark sets the bit for (x, y) and reports whether it was previously clear.
func (c *coverage) mark(x, y int) bool {
	i := y*c.stride + x
	word, bit := i/64, uint64(1)<<(i%64)
	if c.bits[word]&bit != 0 {
		return false
	}
	c.bits[word] |= bit
	return true
}
