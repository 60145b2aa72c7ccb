package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dirtyCounter struct{ n int }

func (d *dirtyCounter) MarkDirty() { d.n++ }

func whiteCanvas(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{0xff, 0xff, 0xff, 0xff}), image.Point{}, draw.Src)
	return img
}

func cloneCanvas(img *image.NRGBA) *image.NRGBA {
	c := image.NewNRGBA(img.Bounds())
	copy(c.Pix, img.Pix)
	return c
}

func TestStrokeThenSameColorFillIsNoop(t *testing.T) {
	canvas := whiteCanvas(256)
	tex := &dirtyCounter{}
	s := NewSurface()
	s.Bind(canvas, tex)
	require.NoError(t, s.SetColor("#ff0000"))
	s.SetBrushSize(50)

	s.StartStroke(100, 100)
	s.ContinueStroke(200, 200)
	s.EndStroke()

	assert.Equal(t, color.NRGBA{0xff, 0, 0, 0xff}, canvas.NRGBAAt(150, 150))
	before := cloneCanvas(canvas)

	s.SetTool(ToolBucket)
	for _, p := range []image.Point{{150, 150}, {100, 100}, {200, 200}, {120, 110}} {
		dirty := tex.n
		s.StartStroke(float64(p.X), float64(p.Y))
		assert.Equal(t, dirty, tex.n, "fill at %v marked the texture dirty", p)
		assert.True(t, bytes.Equal(before.Pix, canvas.Pix), "fill at %v changed pixels", p)
	}
}

func TestFillChanges(t *testing.T) {
	s := NewSurface()
	assert.False(t, s.FillChanges(1, 1), "unbound")

	canvas := whiteCanvas(16)
	s.Bind(canvas, nil)
	require.NoError(t, s.SetColor("#ffffff"))
	assert.False(t, s.FillChanges(4, 4), "seed already matches")
	assert.False(t, s.FillChanges(-1, 4))
	assert.False(t, s.FillChanges(4, 16))

	s.SetOpacity(0.5)
	assert.True(t, s.FillChanges(4, 4), "quantized alpha differs from the seed")

	s.SetOpacity(1)
	require.NoError(t, s.SetColor("#000000"))
	assert.True(t, s.FillChanges(4.9, 4.9))
}

func TestTranslucentStrokeMatchesTranslucentFill(t *testing.T) {
	canvas := image.NewNRGBA(image.Rect(0, 0, 64, 64)) // fully transparent
	s := NewSurface()
	s.Bind(canvas, nil)
	require.NoError(t, s.SetColor("#3366cc"))
	s.SetOpacity(0.5)
	s.SetBrushSize(12)

	s.StartStroke(10, 32)
	s.ContinueStroke(54, 32)
	s.ContinueStroke(54, 40)
	s.EndStroke()

	want := color.NRGBA{0x33, 0x66, 0xcc, 127}
	assert.Equal(t, want, canvas.NRGBAAt(32, 32))
	// The joint at (54,32) is covered by two segments but composited once.
	assert.Equal(t, want, canvas.NRGBAAt(54, 32))

	before := cloneCanvas(canvas)
	s.SetTool(ToolBucket)
	s.StartStroke(32, 32)
	assert.Equal(t, before.Pix, canvas.Pix)
}

func TestStrokeLeavesOutsidePixelsUntouched(t *testing.T) {
	canvas := whiteCanvas(256)
	s := NewSurface()
	s.Bind(canvas, nil)
	require.NoError(t, s.SetColor("#00ff00"))
	s.SetBrushSize(20)

	s.StartStroke(50, 50)
	s.ContinueStroke(150, 50)
	s.EndStroke()

	white := color.NRGBA{0xff, 0xff, 0xff, 0xff}
	assert.Equal(t, white, canvas.NRGBAAt(50, 80))
	assert.Equal(t, white, canvas.NRGBAAt(20, 50))
	assert.Equal(t, white, canvas.NRGBAAt(200, 50))
	assert.Equal(t, color.NRGBA{0, 0xff, 0, 0xff}, canvas.NRGBAAt(100, 50))
}

func TestEraseClearsAlpha(t *testing.T) {
	canvas := whiteCanvas(64)
	s := NewSurface()
	s.Bind(canvas, nil)
	s.SetTool(ToolErase)
	s.SetBrushSize(8)

	s.StartStroke(10, 10)
	s.ContinueStroke(50, 10)

	op, alpha := s.CompositeState()
	assert.Equal(t, OpDestinationOut, op)
	assert.Equal(t, 1.0, alpha)
	s.EndStroke()

	assert.Equal(t, color.NRGBA{}, canvas.NRGBAAt(30, 10))
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, canvas.NRGBAAt(30, 40))
}

func TestPartialEraseKeepsColor(t *testing.T) {
	canvas := whiteCanvas(32)
	s := NewSurface()
	s.Bind(canvas, nil)
	s.SetTool(ToolErase)
	s.SetOpacity(0.5)
	s.SetBrushSize(6)

	s.StartStroke(4, 16)
	s.ContinueStroke(28, 16)
	s.EndStroke()

	got := canvas.NRGBAAt(16, 16)
	assert.Equal(t, uint8(0xff), got.R)
	assert.InDelta(t, 128, int(got.A), 1)
}

func TestEndStrokeResetsCompositeState(t *testing.T) {
	s := NewSurface()
	s.Bind(whiteCanvas(16), nil)
	s.SetTool(ToolErase)
	s.SetOpacity(0.3)
	s.StartStroke(1, 1)
	s.ContinueStroke(8, 8)
	s.EndStroke()

	op, alpha := s.CompositeState()
	assert.Equal(t, OpSourceOver, op)
	assert.Equal(t, 1.0, alpha)
	assert.False(t, s.Drawing())
}

func TestContinueWithoutStartIsNoop(t *testing.T) {
	canvas := whiteCanvas(16)
	tex := &dirtyCounter{}
	s := NewSurface()
	s.Bind(canvas, tex)
	require.NoError(t, s.SetColor("#000000"))

	s.ContinueStroke(8, 8)
	assert.Equal(t, 0, tex.n)
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, canvas.NRGBAAt(8, 8))
}

func TestMoveToolDoesNotPaint(t *testing.T) {
	canvas := whiteCanvas(16)
	s := NewSurface()
	s.Bind(canvas, nil)
	s.SetTool(ToolMove)
	s.StartStroke(2, 2)
	s.ContinueStroke(12, 12)
	assert.False(t, s.Drawing())
	assert.Equal(t, whiteCanvas(16).Pix, canvas.Pix)
}

func TestUnboundSurfaceIsSilent(t *testing.T) {
	s := NewSurface()
	assert.False(t, s.Bound())
	assert.NotPanics(t, func() {
		s.StartStroke(1, 1)
		s.ContinueStroke(2, 2)
		s.EndStroke()
		s.SetTool(ToolBucket)
		s.StartStroke(1, 1)
	})
}

func TestStrokeMarksDirtyPerSegment(t *testing.T) {
	tex := &dirtyCounter{}
	s := NewSurface()
	s.Bind(whiteCanvas(32), tex)
	s.StartStroke(1, 1)
	s.ContinueStroke(5, 5)
	s.ContinueStroke(9, 9)
	s.EndStroke()
	assert.Equal(t, 2, tex.n)
}

func TestSetters(t *testing.T) {
	s := NewSurface()
	assert.Equal(t, "#ffffff", s.Color())
	assert.Error(t, s.SetColor("nope"))
	assert.Equal(t, "#ffffff", s.Color())
	require.NoError(t, s.SetColor("#ABC"))
	assert.Equal(t, "#aabbcc", s.Color())

	s.SetOpacity(2)
	assert.Equal(t, 1.0, s.Opacity())
	s.SetOpacity(-1)
	assert.Equal(t, 0.0, s.Opacity())
	s.SetBrushSize(0)
	assert.Equal(t, 1.0, s.BrushSize())
}

func TestParseTool(t *testing.T) {
	for _, tool := range []Tool{ToolDraw, ToolErase, ToolBucket, ToolMove} {
		got, err := ParseTool(tool.String())
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	}
	_, err := ParseTool("lasso")
	assert.Error(t, err)
}

func TestBrushRGBAQuantization(t *testing.T) {
	c := color.NRGBA{R: 1, G: 2, B: 3, A: 0xff}
	tests := []struct {
		opacity float64
		want    uint8
	}{
		{1, 255},
		{0.5, 127},
		{0.999, 254},
		{0, 0},
	}
	for _, tt := range tests {
		got := BrushRGBA(c, tt.opacity)
		assert.Equal(t, tt.want, got.A, "opacity %v", tt.opacity)
		assert.Equal(t, c.R, got.R)
	}
}
