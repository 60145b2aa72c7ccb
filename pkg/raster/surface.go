// Package raster implements the paintable canvas: brush strokes, erasing and
// flood fill on a non-premultiplied RGBA buffer bound to a GPU texture.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	pmath "github.com/Faultbox/texpaint/pkg/math"
)

// Tool selects how pointer input affects the canvas.
type Tool int

const (
	ToolDraw Tool = iota
	ToolErase
	ToolBucket
	ToolMove
)

var toolNames = [...]string{"draw", "erase", "bucket", "move"}

func (t Tool) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// ParseTool converts a tool name to a Tool.
func ParseTool(s string) (Tool, error) {
	for i, name := range toolNames {
		if strings.EqualFold(s, name) {
			return Tool(i), nil
		}
	}
	return ToolDraw, fmt.Errorf("unknown tool %q", s)
}

// DirtyMarker is the bound texture a surface flags after every mutation.
type DirtyMarker interface {
	MarkDirty()
}

// Default brush settings.
const (
	DefaultColor     = "#ffffff"
	DefaultBrushSize = 10
)

// Surface paints onto one canvas bound to one texture. Every operation is a
// silent no-op while nothing is bound.
type Surface struct {
	canvas *image.NRGBA
	target DirtyMarker

	tool    Tool
	hex     string
	rgb     color.NRGBA
	size    float64
	opacity float64

	drawing bool
	last    pmath.Vec2

	// Composite state applied by the last segment; reset by EndStroke.
	op    Op
	alpha float64

	brush    brush
	coverage coverage
}

// NewSurface returns an unbound surface with the default brush.
func NewSurface() *Surface {
	s := &Surface{
		tool:    ToolDraw,
		size:    DefaultBrushSize,
		opacity: 1,
		alpha:   1,
	}
	_ = s.SetColor(DefaultColor)
	return s
}

// Bind attaches the surface to a canvas and the texture that mirrors it.
// Any stroke in progress is abandoned.
func (s *Surface) Bind(canvas *image.NRGBA, target DirtyMarker) {
	s.canvas = canvas
	s.target = target
	s.drawing = false
	s.resetComposite()
}

// Unbind detaches the surface.
func (s *Surface) Unbind() {
	s.Bind(nil, nil)
}

// Bound reports whether a canvas is attached.
func (s *Surface) Bound() bool {
	return s.canvas != nil
}

// Canvas returns the bound canvas, or nil.
func (s *Surface) Canvas() *image.NRGBA {
	return s.canvas
}

// SetTool selects the active tool.
func (s *Surface) SetTool(t Tool) {
	s.tool = t
}

// Tool returns the active tool.
func (s *Surface) Tool() Tool {
	return s.tool
}

// SetColor sets the brush color from a hex string. Invalid input leaves the
// current color unchanged.
func (s *Surface) SetColor(hex string) error {
	c, err := ParseHex(hex)
	if err != nil {
		return err
	}
	s.rgb = c
	s.hex = Hex(c)
	return nil
}

// Color returns the brush color as "#rrggbb".
func (s *Surface) Color() string {
	return s.hex
}

// SetBrushSize sets the brush diameter in texture pixels (minimum 1).
func (s *Surface) SetBrushSize(px float64) {
	if px < 1 {
		px = 1
	}
	s.size = px
}

// BrushSize returns the brush diameter.
func (s *Surface) BrushSize() float64 {
	return s.size
}

// SetOpacity sets the brush opacity, clamped to [0,1].
func (s *Surface) SetOpacity(v float64) {
	s.opacity = min(max(v, 0), 1)
}

// Opacity returns the brush opacity.
func (s *Surface) Opacity() float64 {
	return s.opacity
}

// BrushRGBA returns the byte quadruple strokes and fills both use.
func (s *Surface) BrushRGBA() color.NRGBA {
	return BrushRGBA(s.rgb, s.opacity)
}

// Drawing reports whether a draw or erase stroke is in progress.
func (s *Surface) Drawing() bool {
	return s.drawing
}

// CompositeState returns the composite operation and global alpha left by
// the last segment.
func (s *Surface) CompositeState() (Op, float64) {
	return s.op, s.alpha
}

// StartStroke begins a stroke at texture coordinate (x, y). The bucket tool
// fills immediately; the move tool does nothing.
func (s *Surface) StartStroke(x, y float64) {
	if s.canvas == nil {
		return
	}
	switch s.tool {
	case ToolMove:
		return
	case ToolBucket:
		if FloodFill(s.canvas, int(math.Floor(x)), int(math.Floor(y)), s.BrushRGBA()) > 0 {
			s.markDirty()
		}
		return
	}

	b := s.canvas.Bounds()
	s.coverage.reset(b.Dx(), b.Dy())
	s.drawing = true
	s.last = pmath.V(x, y)
}

// FillChanges reports whether a bucket press at (x, y) would change any
// pixel.
func (s *Surface) FillChanges(x, y float64) bool {
	if s.canvas == nil {
		return false
	}
	px, py := int(math.Floor(x)), int(math.Floor(y))
	if !(image.Point{X: px, Y: py}).In(s.canvas.Bounds()) {
		return false
	}
	return s.canvas.NRGBAAt(px, py) != s.BrushRGBA()
}

// ContinueStroke extends the current stroke to (x, y) and composites the new
// segment.
func (s *Surface) ContinueStroke(x, y float64) {
	if !s.drawing || s.canvas == nil {
		return
	}

	next := pmath.V(x, y)
	src := s.BrushRGBA()
	if s.tool == ToolErase {
		s.op = OpDestinationOut
	} else {
		s.op = OpSourceOver
	}
	s.alpha = s.opacity

	bounds := s.canvas.Bounds()
	rect := s.brush.capsule(s.last, next, s.size/2, bounds)
	for my := 0; my < rect.Dy(); my++ {
		for mx := 0; mx < rect.Dx(); mx++ {
			if !s.brush.covered(mx, my) {
				continue
			}
			cx, cy := rect.Min.X+mx, rect.Min.Y+my
			if !s.coverage.mark(cx-bounds.Min.X, cy-bounds.Min.Y) {
				continue
			}
			i := s.canvas.PixOffset(cx, cy)
			p := s.canvas.Pix[i : i+4 : i+4]
			if s.op == OpDestinationOut {
				eraseOut(p, src.A)
			} else {
				blendOver(p, src)
			}
		}
	}

	s.last = next
	s.markDirty()
}

// EndStroke finishes the stroke and restores the default composite state.
func (s *Surface) EndStroke() {
	s.drawing = false
	s.resetComposite()
}

func (s *Surface) resetComposite() {
	s.op = OpSourceOver
	s.alpha = 1
}

func (s *Surface) markDirty() {
	if s.target != nil {
		s.target.MarkDirty()
	}
}
