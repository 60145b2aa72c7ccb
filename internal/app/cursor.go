package app

import (
	"image"
	"image/color"
	"math"

	"github.com/Faultbox/texpaint/internal/painter"
)

// dashLength is the arc length of one dash of the brush circle, in pixels.
const dashLength = 6

// drawCursor draws the brush preview h onto frame. origin is the window
// position of the frame's top-left pixel.
func drawCursor(frame *image.RGBA, h painter.CursorHint, origin image.Point) {
	cx, cy := h.X-float64(origin.X), h.Y-float64(origin.Y)
	c := color.RGBA{R: h.Color.R, G: h.Color.G, B: h.Color.B, A: 0xff}

	switch h.Kind {
	case painter.CursorCircle:
		r := max(h.Radius, 1)
		steps := int(2*math.Pi*r) + 8
		for i := 0; i < steps; i++ {
			arc := float64(i) / float64(steps) * 2 * math.Pi * r
			if h.Dashed && int(arc/dashLength)%2 == 1 {
				continue
			}
			a := float64(i) / float64(steps) * 2 * math.Pi
			plot(frame, cx+r*math.Cos(a), cy+r*math.Sin(a), c)
		}

	case painter.CursorCrosshair:
		for d := -h.Radius; d <= h.Radius; d++ {
			plot(frame, cx+d, cy, c)
			plot(frame, cx, cy+d, c)
		}
	}
}

func plot(frame *image.RGBA, x, y float64, c color.RGBA) {
	p := image.Pt(int(math.Floor(x)), int(math.Floor(y)))
	if p.In(frame.Rect) {
		frame.SetRGBA(p.X, p.Y, c)
	}
}
