package raster

import (
	"image"
	"image/color"
)

// FloodFill replaces the 4-connected region of pixels whose RGBA exactly
// equals the seed pixel with fill. It returns the number of pixels changed.
// Seeds outside the image and fills equal to the seed color are no-ops.
func FloodFill(img *image.NRGBA, x, y int, fill color.NRGBA) int {
	b := img.Bounds()
	if !(image.Point{X: x, Y: y}).In(b) {
		return 0
	}

	i := img.PixOffset(x, y)
	seed := color.NRGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: img.Pix[i+3]}
	if seed == fill {
		return 0
	}

	matches := func(px, py int) bool {
		o := img.PixOffset(px, py)
		return img.Pix[o] == seed.R && img.Pix[o+1] == seed.G &&
			img.Pix[o+2] == seed.B && img.Pix[o+3] == seed.A
	}
	paint := func(px, py int) {
		o := img.PixOffset(px, py)
		img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = fill.R, fill.G, fill.B, fill.A
	}

	// Pixels are painted as they are pushed, so each one enters the stack once.
	stack := []image.Point{{X: x, Y: y}}
	paint(x, y)
	filled := 1
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range [4]image.Point{
			{X: p.X + 1, Y: p.Y},
			{X: p.X - 1, Y: p.Y},
			{X: p.X, Y: p.Y + 1},
			{X: p.X, Y: p.Y - 1},
		} {
			if !n.In(b) || !matches(n.X, n.Y) {
				continue
			}
			paint(n.X, n.Y)
			filled++
			stack = append(stack, n)
		}
	}
	return filled
}
