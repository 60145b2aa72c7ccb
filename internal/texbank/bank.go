// Package texbank owns the texture layers of every material target: their
// canvases, bound textures, PBR scalars and undo histories.
package texbank

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/texpaint/internal/material"
	"github.com/Faultbox/texpaint/internal/texture"
	"github.com/Faultbox/texpaint/pkg/history"
)

// Supported canvas resolutions.
const (
	Res1024 = 1024
	Res2048 = 2048
	Res4096 = 4096

	DefaultResolution = Res1024
)

// Resolutions lists every supported resolution in ascending order.
var Resolutions = []int{Res1024, Res2048, Res4096}

var (
	// ErrTargetBusy is returned when a resolution change hits a target with
	// an open painter session.
	ErrTargetBusy = errors.New("target has an open painter session")
	// ErrPresetLayer is returned when resetting a layer the user did not create.
	ErrPresetLayer = errors.New("preset textures cannot be reset")
	// ErrInvalidResolution is returned for unsupported canvas sizes.
	ErrInvalidResolution = errors.New("unsupported texture resolution")
)

// CustomPrefix prefixes the names of user-created layers.
const CustomPrefix = "custom_"

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// ValidResolution reports whether res is a supported canvas size.
func ValidResolution(res int) bool {
	for _, r := range Resolutions {
		if r == res {
			return true
		}
	}
	return false
}

// TextureObserver is told when bound textures come and go so GPU copies can
// be created and freed.
type TextureObserver interface {
	TextureCreated(tex *texture.Texture)
	TextureReleased(tex *texture.Texture)
}

type targetData struct {
	resolution int
	selected   string
	layers     map[string]*Layer
	order      []string
	pinned     bool
}

// Bank maps target IDs to their texture data.
type Bank struct {
	targets  map[string]*targetData
	depth    int
	observer TextureObserver
	log      *zap.Logger
}

// New creates an empty bank. historyDepth bounds every layer's undo stack.
func New(log *zap.Logger, historyDepth int) *Bank {
	if log == nil {
		log = zap.NewNop()
	}
	if historyDepth < 1 {
		historyDepth = history.DefaultDepth
	}
	return &Bank{
		targets: make(map[string]*targetData),
		depth:   historyDepth,
		log:     log,
	}
}

// SetObserver registers the texture observer. Existing textures are
// reported as created.
func (b *Bank) SetObserver(o TextureObserver) {
	b.observer = o
	if o == nil {
		return
	}
	for _, d := range b.targets {
		for _, name := range d.order {
			o.TextureCreated(d.layers[name].tex)
		}
	}
}

// Ensure creates the record for targetID if it does not exist yet.
func (b *Bank) Ensure(targetID string, resolution int) error {
	if _, ok := b.targets[targetID]; ok {
		return nil
	}
	if !ValidResolution(resolution) {
		return fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}
	b.targets[targetID] = &targetData{
		resolution: resolution,
		layers:     make(map[string]*Layer),
	}
	b.log.Debug("texture record created", zap.String("target", targetID), zap.Int("resolution", resolution))
	return nil
}

// Has reports whether targetID has a record.
func (b *Bank) Has(targetID string) bool {
	_, ok := b.targets[targetID]
	return ok
}

// TargetIDs returns every target with a record.
func (b *Bank) TargetIDs() []string {
	ids := make([]string, 0, len(b.targets))
	for id := range b.targets {
		ids = append(ids, id)
	}
	return ids
}

// Resolution returns the canvas size of targetID, or 0 without a record.
func (b *Bank) Resolution(targetID string) int {
	if d, ok := b.targets[targetID]; ok {
		return d.resolution
	}
	return 0
}

// Layer returns the named layer, or nil.
func (b *Bank) Layer(targetID, name string) *Layer {
	if d, ok := b.targets[targetID]; ok {
		return d.layers[name]
	}
	return nil
}

// Layers returns a target's layers in creation order.
func (b *Bank) Layers(targetID string) []*Layer {
	d, ok := b.targets[targetID]
	if !ok {
		return nil
	}
	out := make([]*Layer, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.layers[name])
	}
	return out
}

// Selected returns the selected layer of targetID, or nil.
func (b *Bank) Selected(targetID string) *Layer {
	if d, ok := b.targets[targetID]; ok {
		return d.layers[d.selected]
	}
	return nil
}

// CreateLayer allocates a white canvas at the target's resolution and
// registers it under name. It returns nil when the target has no record and
// the existing layer when name is taken.
func (b *Bank) CreateLayer(targetID, name, displayName string, custom bool) *Layer {
	d, ok := b.targets[targetID]
	if !ok {
		return nil
	}
	if l, ok := d.layers[name]; ok {
		return l
	}

	canvas := imaging.New(d.resolution, d.resolution, white)
	l := &Layer{
		name:        name,
		displayName: displayName,
		custom:      custom,
		canvas:      canvas,
		tex:         texture.New(canvas),
		history:     history.New(b.depth),
		roughness:   DefaultRoughness,
		metalness:   DefaultMetalness,
	}
	d.layers[name] = l
	d.order = append(d.order, name)
	if b.observer != nil {
		b.observer.TextureCreated(l.tex)
	}

	b.log.Info("texture layer created",
		zap.String("target", targetID),
		zap.String("layer", name),
		zap.Int("resolution", d.resolution),
	)
	return l
}

// NextCustomName returns the key and label for the next user-created layer.
func (b *Bank) NextCustomName(targetID string) (name, displayName string) {
	n := 1
	if d, ok := b.targets[targetID]; ok {
		for _, key := range d.order {
			if strings.HasPrefix(key, CustomPrefix) {
				n++
			}
		}
		for {
			if _, taken := d.layers[fmt.Sprintf("%s%d", CustomPrefix, n)]; !taken {
				break
			}
			n++
		}
	}
	return fmt.Sprintf("%s%d", CustomPrefix, n), fmt.Sprintf("Custom Texture %d", n)
}

// SelectLayer selects name and shows it on every material of t. It reports
// false when the layer does not exist.
func (b *Bank) SelectLayer(t *material.Target, name string) bool {
	d, ok := b.targets[t.ID]
	if !ok {
		return false
	}
	l, ok := d.layers[name]
	if !ok {
		return false
	}
	d.selected = name
	apply(t, l)
	return true
}

func apply(t *material.Target, l *Layer) {
	t.ActiveTextureID = l.name
	t.ApplyColorMap(l.tex)
	t.ApplyRoughness(l.roughness)
	t.ApplyMetalness(l.metalness)
}

// ResetLayer clears a custom layer to white and empties its history.
func (b *Bank) ResetLayer(targetID, name string) error {
	l := b.Layer(targetID, name)
	if l == nil {
		return nil
	}
	if !l.custom {
		return fmt.Errorf("%w: %s", ErrPresetLayer, name)
	}
	fill(l.canvas, white)
	l.history.Clear()
	l.tex.MarkDirty()
	b.log.Info("texture layer reset", zap.String("target", targetID), zap.String("layer", name))
	return nil
}

func fill(img *image.NRGBA, c color.NRGBA) {
	px := []uint8{c.R, c.G, c.B, c.A}
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], px)
	}
}

// SetLayerProperty stores a scalar clamped to [0,1]. When the layer is the
// selected one, every material of t is updated.
func (b *Bank) SetLayerProperty(t *material.Target, name string, p Prop, v float64) {
	d, ok := b.targets[t.ID]
	if !ok {
		return
	}
	l, ok := d.layers[name]
	if !ok {
		return
	}
	v = min(max(v, 0), 1)
	l.setProperty(p, v)
	if d.selected != name {
		return
	}
	if p == PropMetalness {
		t.ApplyMetalness(v)
	} else {
		t.ApplyRoughness(v)
	}
}

// Pin marks targetID as owned by an open painter session.
func (b *Bank) Pin(targetID string) {
	if d, ok := b.targets[targetID]; ok {
		d.pinned = true
	}
}

// Unpin releases the session mark.
func (b *Bank) Unpin(targetID string) {
	if d, ok := b.targets[targetID]; ok {
		d.pinned = false
	}
}

// Pinned reports whether targetID has an open painter session.
func (b *Bank) Pinned(targetID string) bool {
	d, ok := b.targets[targetID]
	return ok && d.pinned
}

// ChangeResolution resamples every layer of t to res and rebinds the
// selected layer. Histories are kept; older snapshots are resampled when
// restored.
func (b *Bank) ChangeResolution(ctx context.Context, t *material.Target, res int) error {
	if !ValidResolution(res) {
		return fmt.Errorf("%w: %d", ErrInvalidResolution, res)
	}
	d, ok := b.targets[t.ID]
	if !ok {
		return nil
	}
	if d.pinned {
		return ErrTargetBusy
	}
	if d.resolution == res {
		return nil
	}

	layers := make([]*Layer, 0, len(d.order))
	for _, name := range d.order {
		layers = append(layers, d.layers[name])
	}

	resized := make([]*image.NRGBA, len(layers))
	g, ctx := errgroup.WithContext(ctx)
	for i, l := range layers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			resized[i] = imaging.Resize(l.canvas, res, res, imaging.Linear)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("resampling %s: %w", t.ID, err)
	}

	for i, l := range layers {
		old := l.tex
		l.canvas = resized[i]
		l.tex = texture.New(l.canvas)
		old.Release()
		if b.observer != nil {
			b.observer.TextureReleased(old)
			b.observer.TextureCreated(l.tex)
		}
	}

	from := d.resolution
	d.resolution = res
	if l, ok := d.layers[d.selected]; ok {
		apply(t, l)
	}

	fields := []zap.Field{
		zap.String("target", t.ID),
		zap.Int("from", from),
		zap.Int("to", res),
		zap.Int("layers", len(layers)),
	}
	if res < from {
		b.log.Info("texture resolution lowered, detail above the new size is lost", fields...)
	} else {
		b.log.Info("texture resolution changed", fields...)
	}
	return nil
}

// Drop discards every layer of targetID.
func (b *Bank) Drop(targetID string) {
	d, ok := b.targets[targetID]
	if !ok {
		return
	}
	for _, name := range d.order {
		b.release(d.layers[name])
	}
	delete(b.targets, targetID)
	b.log.Debug("texture record dropped", zap.String("target", targetID))
}

// Close releases every texture in the bank.
func (b *Bank) Close() {
	for id := range b.targets {
		b.Drop(id)
	}
}

func (b *Bank) release(l *Layer) {
	l.tex.Release()
	l.history.Clear()
	if b.observer != nil {
		b.observer.TextureReleased(l.tex)
	}
}
