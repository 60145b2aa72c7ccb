package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types.
const (
	tgaUncompressed = 2
	tgaRLE          = 10
)

const tgaHeaderLen = 18

var errNotTGA = errors.New("not a true-color TGA")

// tgaHeader is the part of the TGA header the decoder needs.
type tgaHeader struct {
	idLen       int
	kind        byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderLen {
		return tgaHeader{}, errNotTGA
	}
	h := tgaHeader{
		idLen:       int(data[0]),
		kind:        data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		bpp:         int(data[16]),
		topToBottom: data[17]&0x20 != 0,
	}
	// Color-mapped and grayscale images are not used for paint assets.
	if data[1] != 0 || (h.kind != tgaUncompressed && h.kind != tgaRLE) {
		return tgaHeader{}, errNotTGA
	}
	if h.bpp != 24 && h.bpp != 32 {
		return tgaHeader{}, fmt.Errorf("%w: %d bits per pixel", errNotTGA, h.bpp)
	}
	if h.width == 0 || h.height == 0 {
		return tgaHeader{}, fmt.Errorf("%w: empty image", errNotTGA)
	}
	return h, nil
}

// decodeTGA decodes uncompressed or RLE true-color TGA data.
func decodeTGA(data []byte) (*image.NRGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	offset := tgaHeaderLen + h.idLen
	if offset > len(data) {
		return nil, fmt.Errorf("tga: truncated id field")
	}
	src := data[offset:]
	bytesPP := h.bpp / 8

	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))
	total := h.width * h.height

	// put stores pixel n of the file order, bottom row first unless the
	// descriptor says otherwise.
	put := func(n int, px []byte) {
		x, y := n%h.width, n/h.width
		if !h.topToBottom {
			y = h.height - 1 - y
		}
		o := img.PixOffset(x, y)
		img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = px[2], px[1], px[0], 0xff
		if bytesPP == 4 {
			img.Pix[o+3] = px[3]
		}
	}

	if h.kind == tgaUncompressed {
		if len(src) < total*bytesPP {
			return nil, fmt.Errorf("tga: truncated pixel data")
		}
		for n := 0; n < total; n++ {
			put(n, src[n*bytesPP:])
		}
		return img, nil
	}

	n, i := 0, 0
	for n < total {
		if i >= len(src) {
			return nil, fmt.Errorf("tga: truncated RLE data at pixel %d", n)
		}
		packet := src[i]
		i++
		count := int(packet&0x7f) + 1
		if n+count > total {
			count = total - n
		}

		if packet&0x80 != 0 {
			if i+bytesPP > len(src) {
				return nil, fmt.Errorf("tga: truncated RLE packet at pixel %d", n)
			}
			for k := 0; k < count; k++ {
				put(n+k, src[i:])
			}
			i += bytesPP
		} else {
			if i+count*bytesPP > len(src) {
				return nil, fmt.Errorf("tga: truncated raw packet at pixel %d", n)
			}
			for k := 0; k < count; k++ {
				put(n+k, src[i+k*bytesPP:])
			}
			i += count * bytesPP
		}
		n += count
	}
	return img, nil
}
