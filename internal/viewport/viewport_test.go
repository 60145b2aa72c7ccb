package viewport

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := New(800, 600, 1024, 1024)
	tr.SetOffset(37, 112)

	for i := 0; i < 500; i++ {
		tr.Reset()
		tr.SetZoom(MinZoom + rng.Float64()*(MaxZoom-MinZoom))
		tr.BeginPan(0, 0)
		tr.DragPan(rng.Float64()*4000-2000, rng.Float64()*4000-2000)
		tr.EndPan()

		px, py := rng.Float64()*2000-500, rng.Float64()*2000-500
		tx, ty := tr.ToTexture(px, py)
		sx, sy := tr.ToScreen(tx, ty)
		if math.Abs(sx-px) > 1e-9 || math.Abs(sy-py) > 1e-9 {
			t.Fatalf("zoom %.3f pan %v: (%f,%f) -> (%f,%f) -> (%f,%f)", tr.Zoom(), tr.Pan(), px, py, tx, ty, sx, sy)
		}
	}
}

func TestIdentityMapsCenters(t *testing.T) {
	tr := New(800, 600, 1024, 1024)
	tr.SetOffset(10, 20)

	x, y := tr.ToTexture(10+400, 20+300)
	assert.InDelta(t, 512, x, 1e-9)
	assert.InDelta(t, 512, y, 1e-9)

	tr.SetZoom(2)
	x, y = tr.ToTexture(10+400+100, 20+300)
	assert.InDelta(t, 562, x, 1e-9)
	assert.InDelta(t, 512, y, 1e-9)
}

func TestPanIsNotScaledByZoom(t *testing.T) {
	for _, z := range []float64{0.25, 1, 3, 8} {
		tr := New(800, 600, 1024, 1024)
		tr.SetZoom(z)
		tr.BeginPan(100, 100)
		tr.DragPan(130, 90)
		tr.DragPan(150, 80)
		tr.EndPan()
		tr.DragPan(500, 500)

		assert.InDelta(t, 50, tr.Pan().X, 1e-9)
		assert.InDelta(t, -20, tr.Pan().Y, 1e-9)
	}
}

func TestWheelZoom(t *testing.T) {
	tr := New(800, 600, 1024, 1024)
	tr.Wheel(-100)
	assert.Greater(t, tr.Zoom(), 1.0, "scroll up zooms in")

	tr.Reset()
	tr.Wheel(100)
	assert.Less(t, tr.Zoom(), 1.0)

	for i := 0; i < 100; i++ {
		tr.Wheel(-1000)
	}
	assert.Equal(t, MaxZoom, tr.Zoom())
	for i := 0; i < 100; i++ {
		tr.Wheel(1000)
	}
	assert.Equal(t, MinZoom, tr.Zoom())

	tr.Reset()
	assert.Equal(t, 1.0, tr.Zoom())
	assert.Zero(t, tr.Pan().Length())
}

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}
	return img
}

func TestRenderMatchesInputMapping(t *testing.T) {
	canvas := checker(4, 4)
	tr := New(8, 8, 4, 4)
	tr.SetOffset(100, 50)
	tr.SetZoom(2)

	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	tr.Render(dst, canvas, nil)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			tx, ty := tr.ToTexture(100+float64(x)+0.5, 50+float64(y)+0.5)
			want := canvas.NRGBAAt(int(tx), int(ty))
			got := dst.RGBAAt(x, y)
			require.Equal(t, color.RGBA{R: want.R, G: want.G, B: want.B, A: 255}, got, "pixel %d,%d", x, y)
		}
	}
}

func TestRenderOverlayNeverTouchesCanvas(t *testing.T) {
	canvas := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := range canvas.Pix {
		canvas.Pix[i] = 0xff
	}
	before := bytes.Clone(canvas.Pix)

	overlay := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 3; i < len(overlay.Pix); i += 4 {
		overlay.Pix[i] = 0xff
	}

	tr := New(16, 16, 16, 16)
	tr.SetOverlayOpacity(0.5)
	dst := image.NewRGBA(image.Rect(0, 0, 16, 16))
	tr.Render(dst, canvas, overlay)

	assert.Equal(t, before, canvas.Pix)
	mid := dst.RGBAAt(8, 8)
	assert.InDelta(t, 127, int(mid.R), 4, "overlay blended at half opacity")

	assert.False(t, tr.ToggleOverlay())
	tr.Render(dst, canvas, overlay)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, dst.RGBAAt(8, 8))
}

func TestRenderBackground(t *testing.T) {
	tr := New(32, 32, 4, 4)
	dst := image.NewRGBA(image.Rect(0, 0, 32, 32))
	tr.Render(dst, checker(4, 4), nil)

	r, g, b, _ := Background.RGBA()
	assert.Equal(t, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}, dst.RGBAAt(0, 0))
}

func TestOverlayOpacityClamp(t *testing.T) {
	tr := New(1, 1, 1, 1)
	assert.Equal(t, DefaultOverlayOpacity, tr.OverlayOpacity())
	tr.SetOverlayOpacity(3)
	assert.Equal(t, 1.0, tr.OverlayOpacity())
	tr.SetOverlayOpacity(-1)
	assert.Equal(t, 0.0, tr.OverlayOpacity())
}
