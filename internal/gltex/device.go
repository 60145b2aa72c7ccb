package gltex

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/texpaint/internal/texture"
)

// GLDevice uploads textures through the current OpenGL context.
type GLDevice struct{}

// Create allocates a GL texture and uploads tex into it.
func (GLDevice) Create(tex *texture.Texture) (uint32, error) {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	texImage(tex)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := glError(); err != nil {
		gl.DeleteTextures(1, &id)
		return 0, err
	}
	return id, nil
}

// Update re-uploads tex into id, reallocating storage when it was resized.
func (GLDevice) Update(id uint32, tex *texture.Texture, resized bool) error {
	gl.BindTexture(gl.TEXTURE_2D, id)
	if resized {
		texImage(tex)
	} else {
		src := tex.Source()
		w, h := tex.Size()
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
		gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(src.Stride/4))
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(src.Pix))
		gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return glError()
}

// Delete frees GL textures.
func (GLDevice) Delete(ids []uint32) {
	if len(ids) > 0 {
		gl.DeleteTextures(int32(len(ids)), &ids[0])
	}
}

func texImage(tex *texture.Texture) {
	internal := int32(gl.SRGB8_ALPHA8)
	if tex.ColorSpace() == texture.Linear {
		internal = gl.RGBA8
	}
	src := tex.Source()
	w, h := tex.Size()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(src.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(src.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
}

func glError() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}
