package gltex

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Blitter copies a CPU-rendered frame into a rectangle of the default
// framebuffer through a read framebuffer.
type Blitter struct {
	fbo    uint32
	tex    uint32
	width  int32
	height int32
}

// NewBlitter allocates the staging texture and framebuffer.
func NewBlitter() (*Blitter, error) {
	b := &Blitter{}
	gl.GenFramebuffers(1, &b.fbo)
	gl.GenTextures(1, &b.tex)
	if err := b.resize(1, 1); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

func (b *Blitter) resize(w, h int32) error {
	b.width, b.height = w, h
	gl.BindTexture(gl.TEXTURE_2D, b.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, b.fbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, b.tex, 0)
	status := gl.CheckFramebufferStatus(gl.READ_FRAMEBUFFER)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("blit framebuffer incomplete: 0x%x", status)
	}
	return nil
}

// Present uploads frame and copies it to dst, given in window pixels with a
// top-left origin. windowHeight is the drawable height of the window.
func (b *Blitter) Present(frame *image.RGBA, dst image.Rectangle, windowHeight int) error {
	w, h := int32(frame.Bounds().Dx()), int32(frame.Bounds().Dy())
	if w != b.width || h != b.height {
		if err := b.resize(w, h); err != nil {
			return err
		}
	}

	gl.BindTexture(gl.TEXTURE_2D, b.tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(frame.Stride/4))
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(frame.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	// Row 0 of the frame is the top of the image but the bottom of the GL
	// texture, so the destination rectangle is flipped.
	top := int32(windowHeight - dst.Min.Y)
	bottom := int32(windowHeight - dst.Max.Y)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, b.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, w, h, int32(dst.Min.X), top, int32(dst.Max.X), bottom, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return glError()
}

// Destroy releases the GL objects.
func (b *Blitter) Destroy() {
	if b.fbo != 0 {
		gl.DeleteFramebuffers(1, &b.fbo)
		b.fbo = 0
	}
	if b.tex != 0 {
		gl.DeleteTextures(1, &b.tex)
		b.tex = 0
	}
}
