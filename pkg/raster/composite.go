package raster

import "image/color"

// Op is the composite operation applied by a stroke segment.
type Op int

const (
	// OpSourceOver blends the brush over the canvas.
	OpSourceOver Op = iota
	// OpDestinationOut subtracts brush alpha from the canvas and ignores color.
	OpDestinationOut
)

func (o Op) String() string {
	if o == OpDestinationOut {
		return "destination-out"
	}
	return "source-over"
}

// blendOver composites src over the non-premultiplied pixel p.
func blendOver(p []uint8, src color.NRGBA) {
	sa := uint32(src.A)
	if sa == 0 {
		return
	}
	if sa == 0xff {
		p[0], p[1], p[2], p[3] = src.R, src.G, src.B, 0xff
		return
	}
	// dw is the destination weight scaled by 255.
	dw := uint32(p[3]) * (0xff - sa)
	outA := sa*0xff + dw
	half := outA / 2
	p[0] = uint8((uint32(src.R)*sa*0xff + uint32(p[0])*dw + half) / outA)
	p[1] = uint8((uint32(src.G)*sa*0xff + uint32(p[1])*dw + half) / outA)
	p[2] = uint8((uint32(src.B)*sa*0xff + uint32(p[2])*dw + half) / outA)
	p[3] = uint8((outA + 127) / 0xff)
}

// eraseOut removes alpha a from the pixel p.
func eraseOut(p []uint8, a uint8) {
	if a == 0 {
		return
	}
	out := (uint32(p[3])*(0xff-uint32(a)) + 127) / 0xff
	if out == 0 {
		p[0], p[1], p[2], p[3] = 0, 0, 0, 0
		return
	}
	p[3] = uint8(out)
}
