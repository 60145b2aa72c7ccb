package material

import (
	"errors"
	"fmt"
	"image/color"

	"go.uber.org/zap"

	"github.com/Faultbox/texpaint/internal/texture"
	"github.com/Faultbox/texpaint/pkg/raster"
)

// BaseTargetID is the target ID of the base mesh skin.
const BaseTargetID = "base"

// ErrUnknownTarget is returned for IDs that are not registered.
var ErrUnknownTarget = errors.New("unknown material target")

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// BaseMesh describes the loaded character model.
type BaseMesh struct {
	ID     string
	Label  string
	Meshes []MeshHandle
	UVMap  string
}

// Clothing describes one equipped clothing item.
type Clothing struct {
	ID     string
	Label  string
	Domain Domain
	Meshes []MeshHandle
	UVMap  string
}

// PBR carries optional scalar overrides from a preset.
type PBR struct {
	Roughness *float64
	Metalness *float64
}

// Registry maps target IDs to targets and tracks the active one.
type Registry struct {
	targets map[string]*Target
	order   []string
	active  string
	log     *zap.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		targets: make(map[string]*Target),
		log:     log,
	}
}

// Rebuild replaces every target from the current model and equipped
// clothing. Items without meshes are skipped. It returns the IDs that no
// longer exist.
func (r *Registry) Rebuild(base *BaseMesh, clothing []Clothing) []string {
	prev := r.targets
	r.targets = make(map[string]*Target)
	r.order = r.order[:0]

	if base != nil && len(base.Meshes) > 0 {
		label := base.Label
		if label == "" {
			label = "Skin"
		}
		r.add(&Target{
			ID:     BaseTargetID,
			Label:  label,
			Domain: DomainSkin,
			Kind:   KindBase,
			Meshes: base.Meshes,
			Color:  liveColor(base.Meshes),
			UVMap:  base.UVMap,
		})
	}

	for _, item := range clothing {
		if len(item.Meshes) == 0 {
			r.log.Debug("skipping clothing without meshes", zap.String("id", item.ID))
			continue
		}
		domain := item.Domain
		if domain == "" {
			domain = DomainFabric
		}
		label := item.Label
		if label == "" {
			label = item.ID
		}
		r.add(&Target{
			ID:     item.ID,
			Label:  label,
			Domain: domain,
			Kind:   KindClothing,
			Meshes: item.Meshes,
			Color:  white,
			UVMap:  item.UVMap,
		})
	}

	var removed []string
	for id := range prev {
		if _, ok := r.targets[id]; !ok {
			removed = append(removed, id)
		}
	}

	if _, ok := r.targets[r.active]; !ok {
		r.active = ""
		if len(r.order) > 0 {
			r.active = r.order[0]
		}
	}

	r.log.Debug("material targets rebuilt",
		zap.Int("count", len(r.order)),
		zap.String("active", r.active),
		zap.Strings("removed", removed),
	)
	return removed
}

func (r *Registry) add(t *Target) {
	if _, dup := r.targets[t.ID]; dup {
		r.log.Warn("duplicate material target", zap.String("id", t.ID))
		return
	}
	r.targets[t.ID] = t
	r.order = append(r.order, t.ID)
}

// liveColor reads the current base color of the first material so a rebuild
// keeps user edits.
func liveColor(meshes []MeshHandle) color.NRGBA {
	for _, m := range meshes {
		if m == nil {
			continue
		}
		for _, mat := range m.Materials() {
			if mat != nil {
				return mat.BaseColor()
			}
		}
	}
	return white
}

// Get returns the target with the given ID.
func (r *Registry) Get(id string) (*Target, bool) {
	t, ok := r.targets[id]
	return t, ok
}

// Targets returns all targets, base first, then clothing in equip order.
func (r *Registry) Targets() []*Target {
	out := make([]*Target, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.targets[id])
	}
	return out
}

// Len returns the number of targets.
func (r *Registry) Len() int { return len(r.order) }

// ActiveID returns the active target ID, or "" when there is none.
func (r *Registry) ActiveID() string { return r.active }

// Active returns the active target, or nil.
func (r *Registry) Active() *Target { return r.targets[r.active] }

// Select makes id the active target.
func (r *Registry) Select(id string) error {
	if _, ok := r.targets[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTarget, id)
	}
	r.active = id
	return nil
}

// SetColor updates a target's color state and every material's base color.
func (r *Registry) SetColor(id, hex string) error {
	t, ok := r.targets[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTarget, id)
	}
	c, err := raster.ParseHex(hex)
	if err != nil {
		return err
	}
	t.Color = c
	t.ApplyBaseColor(c)
	return nil
}

// ApplyPreset shows a preset texture on a target. A nil texture clears the
// color map.
func (r *Registry) ApplyPreset(id, presetID string, tex *texture.Texture, pbr PBR) error {
	t, ok := r.targets[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTarget, id)
	}
	t.ActiveTextureID = presetID
	t.ApplyColorMap(tex)
	if pbr.Roughness != nil {
		t.ApplyRoughness(*pbr.Roughness)
	}
	if pbr.Metalness != nil {
		t.ApplyMetalness(*pbr.Metalness)
	}
	return nil
}
