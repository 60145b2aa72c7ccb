package painter

import (
	"context"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/texpaint/internal/material"
	"github.com/Faultbox/texpaint/internal/presets"
	"github.com/Faultbox/texpaint/internal/texture"
)

type loadKind int

const (
	loadOverlay loadKind = iota
	loadPreset
)

// loadResult is posted by a load goroutine and applied by Update.
type loadResult struct {
	kind     loadKind
	targetID string
	gen      uint64 // session generation for overlays, preset sequence for presets
	preset   presets.Preset
	img      *image.NRGBA
	err      error
}

// fetch resolves, downloads and decodes an image off the UI goroutine.
func (c *Controller) fetch(r loadResult, bucket, filename string) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()

		r.img, r.err = c.loadImage(c.ctx, bucket, filename)
		select {
		case c.results <- r:
		case <-c.ctx.Done():
		}
	}()
}

func (c *Controller) loadImage(ctx context.Context, bucket, filename string) (*image.NRGBA, error) {
	u, err := c.deps.Assets.ResolveAssetURL(ctx, bucket, filename)
	if err != nil {
		return nil, err
	}
	data, err := c.deps.Assets.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	return texture.Decode(data)
}

func (c *Controller) loadOverlay(s *Session, t *material.Target) {
	if t.UVMap == "" || c.deps.Assets == nil {
		c.log.Debug("no UV overlay for target", zap.String("target", t.ID))
		return
	}
	c.fetch(loadResult{kind: loadOverlay, targetID: t.ID, gen: s.gen}, c.opts.UVBucket, t.UVMap)
}

// Update applies finished loads. Call it once per frame on the UI goroutine.
func (c *Controller) Update() {
	for {
		select {
		case r := <-c.results:
			c.apply(r)
		default:
			return
		}
	}
}

func (c *Controller) apply(r loadResult) {
	switch r.kind {
	case loadOverlay:
		s := c.ed.painter
		if s == nil || s.gen != r.gen || s.TargetID != r.targetID {
			c.log.Debug("discarding stale overlay", zap.String("target", r.targetID))
			return
		}
		if r.err != nil {
			c.log.Warn("UV overlay unavailable", zap.String("target", r.targetID), zap.Error(r.err))
			return
		}
		s.overlay = r.img
		c.log.Debug("UV overlay loaded", zap.String("target", r.targetID))

	case loadPreset:
		if c.presetSeq[r.targetID] != r.gen {
			c.log.Debug("discarding stale preset", zap.String("target", r.targetID), zap.String("preset", r.preset.ID))
			return
		}
		if _, ok := c.ed.Targets.Get(r.targetID); !ok {
			return
		}
		if r.err != nil {
			c.log.Warn("texture preset unavailable", zap.String("preset", r.preset.ID), zap.Error(r.err))
			c.deps.Notifier.Notify(MsgPresetFailed)
			return
		}
		c.showPreset(r.targetID, r.preset, texture.New(r.img))
	}
}

// ApplyPreset shows a catalog preset on the active target. Presets with an
// image are applied once it has loaded.
func (c *Controller) ApplyPreset(id string) {
	t := c.ed.Targets.Active()
	if t == nil {
		return
	}
	p, ok := c.deps.Presets.Get(id)
	if !ok {
		c.log.Warn("unknown preset", zap.String("preset", id))
		return
	}
	if s := c.ed.painter; s != nil && s.TargetID == t.ID {
		c.deps.Notifier.Notify(MsgPresetWhilePaint)
		return
	}

	c.presetSeq[t.ID]++
	if p.Map == "" {
		c.showPreset(t.ID, p, nil)
		return
	}
	if c.deps.Assets == nil {
		c.deps.Notifier.Notify(MsgPresetFailed)
		return
	}
	c.fetch(loadResult{kind: loadPreset, targetID: t.ID, gen: c.presetSeq[t.ID], preset: p}, presets.Bucket, p.Map)
}

func (c *Controller) showPreset(targetID string, p presets.Preset, tex *texture.Texture) {
	if err := c.ed.Targets.ApplyPreset(targetID, p.ID, tex, p.PBR()); err != nil {
		return
	}
	c.releasePreset(targetID)
	if tex != nil {
		c.presetTex[targetID] = tex
		if c.deps.Textures != nil {
			c.deps.Textures.TextureCreated(tex)
		}
	}
	c.log.Info("preset applied", zap.String("target", targetID), zap.String("preset", p.ID))
}

func (c *Controller) releasePreset(targetID string) {
	tex, ok := c.presetTex[targetID]
	if !ok {
		return
	}
	delete(c.presetTex, targetID)
	tex.Release()
	if c.deps.Textures != nil {
		c.deps.Textures.TextureReleased(tex)
	}
}
