// Package gltex mirrors paint textures and materials on the GPU and presents
// CPU-rendered frames in the SDL window.
package gltex

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/texpaint/internal/texture"
)

// Device performs the GPU side of texture mirroring. All calls happen on the
// thread that owns the GL context.
type Device interface {
	Create(tex *texture.Texture) (uint32, error)
	Update(id uint32, tex *texture.Texture, resized bool) error
	Delete(ids []uint32)
}

type entry struct {
	id   uint32
	w, h int
}

// Uploader tracks every texture the painting core creates and uploads the
// dirty ones once per frame. It implements texbank.TextureObserver.
type Uploader struct {
	dev    Device
	live   map[*texture.Texture]*entry
	doomed []uint32
	log    *zap.Logger
}

// NewUploader returns an uploader backed by dev.
func NewUploader(dev Device, log *zap.Logger) *Uploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Uploader{
		dev:  dev,
		live: make(map[*texture.Texture]*entry),
		log:  log,
	}
}

// TextureCreated starts tracking tex. Its first upload happens on Sync.
func (u *Uploader) TextureCreated(tex *texture.Texture) {
	if tex == nil {
		return
	}
	if _, ok := u.live[tex]; !ok {
		u.live[tex] = &entry{}
	}
}

// TextureReleased stops tracking tex and schedules its GPU copy for deletion.
func (u *Uploader) TextureReleased(tex *texture.Texture) {
	e, ok := u.live[tex]
	if !ok {
		return
	}
	delete(u.live, tex)
	if e.id != 0 {
		u.doomed = append(u.doomed, e.id)
	}
}

// Len returns the number of tracked textures.
func (u *Uploader) Len() int { return len(u.live) }

// Handle returns the GPU name of tex, or false before its first upload.
func (u *Uploader) Handle(tex *texture.Texture) (uint32, bool) {
	e, ok := u.live[tex]
	if !ok || e.id == 0 {
		return 0, false
	}
	return e.id, true
}

// Sync deletes released textures and uploads new and dirty ones. A failed
// upload stays dirty and is retried next frame.
func (u *Uploader) Sync() error {
	if len(u.doomed) > 0 {
		u.dev.Delete(u.doomed)
		u.log.Debug("deleted textures", zap.Int("count", len(u.doomed)))
		u.doomed = u.doomed[:0]
	}

	var errs error
	for tex, e := range u.live {
		if tex.Released() {
			continue
		}
		if e.id != 0 && !tex.NeedsUpdate() {
			continue
		}
		if err := u.upload(tex, e); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		tex.Consume()
	}
	return errs
}

func (u *Uploader) upload(tex *texture.Texture, e *entry) error {
	w, h := tex.Size()
	if e.id == 0 {
		id, err := u.dev.Create(tex)
		if err != nil {
			return fmt.Errorf("creating texture %d: %w", tex.ID(), err)
		}
		e.id, e.w, e.h = id, w, h
		u.log.Debug("texture uploaded", zap.Uint64("texture", tex.ID()), zap.Uint32("gl", id), zap.Int("width", w), zap.Int("height", h))
		return nil
	}

	resized := w != e.w || h != e.h
	if err := u.dev.Update(e.id, tex, resized); err != nil {
		return fmt.Errorf("updating texture %d: %w", tex.ID(), err)
	}
	e.w, e.h = w, h
	return nil
}

// Close deletes every GPU texture.
func (u *Uploader) Close() {
	ids := u.doomed
	for tex, e := range u.live {
		if e.id != 0 {
			ids = append(ids, e.id)
		}
		delete(u.live, tex)
	}
	if len(ids) > 0 {
		u.dev.Delete(ids)
	}
	u.doomed = nil
}
