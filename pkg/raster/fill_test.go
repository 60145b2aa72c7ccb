package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloodFillStopsAtBoundary(t *testing.T) {
	img := whiteCanvas(10)
	black := color.NRGBA{0, 0, 0, 0xff}
	for y := 0; y < 10; y++ {
		img.SetNRGBA(5, y, black)
	}

	red := color.NRGBA{0xff, 0, 0, 0xff}
	n := FloodFill(img, 0, 0, red)

	assert.Equal(t, 50, n)
	assert.Equal(t, red, img.NRGBAAt(4, 9))
	assert.Equal(t, black, img.NRGBAAt(5, 3))
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, img.NRGBAAt(6, 0))
}

func TestFloodFillIsFourConnected(t *testing.T) {
	img := whiteCanvas(3)
	black := color.NRGBA{0, 0, 0, 0xff}
	// Diagonal wall: the corners touch only diagonally.
	img.SetNRGBA(1, 0, black)
	img.SetNRGBA(0, 1, black)

	n := FloodFill(img, 0, 0, color.NRGBA{0, 0, 0xff, 0xff})
	assert.Equal(t, 1, n)
}

func TestFloodFillExactMatchOnly(t *testing.T) {
	img := whiteCanvas(4)
	img.SetNRGBA(1, 0, color.NRGBA{0xff, 0xff, 0xfe, 0xff})

	n := FloodFill(img, 0, 0, color.NRGBA{0, 0, 0, 0xff})
	assert.Equal(t, 15, n)
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xfe, 0xff}, img.NRGBAAt(1, 0))
}

func TestFloodFillNoops(t *testing.T) {
	img := whiteCanvas(4)
	assert.Equal(t, 0, FloodFill(img, 1, 1, color.NRGBA{0xff, 0xff, 0xff, 0xff}))
	assert.Equal(t, 0, FloodFill(img, -1, 0, color.NRGBA{}))
	assert.Equal(t, 0, FloodFill(img, 0, 4, color.NRGBA{}))
}

func TestFloodFillLargeRegionDoesNotRecurse(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1024, 1024))
	n := FloodFill(img, 512, 512, color.NRGBA{1, 2, 3, 4})
	assert.Equal(t, 1024*1024, n)
}
