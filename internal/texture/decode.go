package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Decode decodes PNG, JPEG, GIF, BMP, TIFF or true-color TGA data into a
// non-premultiplied RGBA image.
func Decode(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err == nil {
		return imaging.Clone(img), nil
	}
	if !errors.Is(err, image.ErrFormat) {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	// TGA has no magic number, so it is only tried once every registered
	// format has refused the data.
	tga, tgaErr := decodeTGA(data)
	if tgaErr != nil {
		if errors.Is(tgaErr, errNotTGA) {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
		return nil, tgaErr
	}
	return tga, nil
}
