package app

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/texpaint/internal/config"
	"github.com/Faultbox/texpaint/internal/gltex"
	"github.com/Faultbox/texpaint/internal/material"
	"github.com/Faultbox/texpaint/internal/painter"
	"github.com/Faultbox/texpaint/internal/presets"
)

// painterShare is the fraction of the window width the painter takes while
// attached.
const painterShare = 0.6

const tilePadding = 16

// scene is the preview side of the tool. It implements painter.SceneHost.
type scene struct {
	meshes   map[string][]*gltex.Mesh // by target ID
	attached bool
	focus    string
	ed       *painter.EditorSession
}

// buildModel creates preview meshes for the configured model.
func buildModel(cfg config.ModelConfig) (*painter.Model, *scene, error) {
	s := &scene{meshes: make(map[string][]*gltex.Mesh)}

	baseMesh := gltex.NewMesh(cfg.Base.ID)
	s.meshes[material.BaseTargetID] = []*gltex.Mesh{baseMesh}
	m := &painter.Model{
		ID: cfg.Base.ID,
		Base: &material.BaseMesh{
			ID:     cfg.Base.ID,
			Label:  cfg.Base.Label,
			Meshes: []material.MeshHandle{baseMesh},
			UVMap:  cfg.Base.UVMap,
		},
	}

	for _, item := range cfg.Clothing {
		domain, err := material.ParseDomain(item.Domain)
		if err != nil {
			return nil, nil, fmt.Errorf("clothing %s: %w", item.ID, err)
		}
		mesh := gltex.NewMesh(item.ID)
		s.meshes[item.ID] = []*gltex.Mesh{mesh}
		m.Clothing = append(m.Clothing, material.Clothing{
			ID:     item.ID,
			Label:  item.Label,
			Domain: domain,
			Meshes: []material.MeshHandle{mesh},
			UVMap:  item.UVMap,
		})
	}
	return m, s, nil
}

// FrameModel focuses the preview on the active target.
func (s *scene) FrameModel() {
	if t := s.ed.Targets.Active(); t != nil {
		s.focus = t.ID
	}
}

// AttachPaintViewport gives the left of the window to the painter.
func (s *scene) AttachPaintViewport() { s.attached = true }

// DetachPaintViewport returns the whole window to the preview.
func (s *scene) DetachPaintViewport() {
	s.attached = false
	s.focus = ""
}

// painterRect returns the painter area in window coordinates.
func (s *scene) painterRect(w, h int) image.Rectangle {
	if !s.attached {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, int(float64(w)*painterShare), h)
}

// previewRect returns the preview area in window coordinates.
func (s *scene) previewRect(w, h int) image.Rectangle {
	if !s.attached {
		return image.Rect(0, 0, w, h)
	}
	return image.Rect(int(float64(w)*painterShare), 0, w, h)
}

// tiles lays the targets out in a row. While focused, only the active
// target is shown.
func (s *scene) tiles(area image.Rectangle) []gltex.Tile {
	var mats []*gltex.Material
	for _, t := range s.ed.Targets.Targets() {
		if s.focus != "" && t.ID != s.focus {
			continue
		}
		for _, mesh := range s.meshes[t.ID] {
			mats = append(mats, mesh.Primary())
		}
	}
	if len(mats) == 0 || area.Empty() {
		return nil
	}

	size := min((area.Dx()-tilePadding)/len(mats)-tilePadding, area.Dy()-2*tilePadding)
	if size <= 0 {
		return nil
	}
	rowW := len(mats)*(size+tilePadding) - tilePadding
	x := area.Min.X + (area.Dx()-rowW)/2
	y := area.Min.Y + (area.Dy()-size)/2

	tiles := make([]gltex.Tile, len(mats))
	for i, m := range mats {
		tiles[i] = gltex.Tile{Rect: image.Rect(x, y, x+size, y+size), Material: m}
		x += size + tilePadding
	}
	return tiles
}

// status tracks editor state for the window title. It implements
// painter.View.
type status struct {
	target string
	layer  string
	res    int
	mode   painter.UIMode
	toast  string
	dirty  bool
	log    *zap.Logger
}

func (v *status) TargetsChanged(targets []*material.Target, activeID string) {
	v.target = activeID
	v.dirty = true
	v.log.Debug("targets changed", zap.Int("count", len(targets)), zap.String("active", activeID))
}

func (v *status) TargetChanged(t *material.Target, grid []presets.Preset) {
	v.target = t.ID
	v.dirty = true
	v.log.Debug("target changed", zap.String("target", t.ID), zap.Int("presets", len(grid)))
}

func (v *status) LayersChanged(ui painter.LayerUI) {
	v.layer = ui.Selected
	v.res = ui.Resolution
	v.dirty = true
}

func (v *status) ResolutionChanged(res int) {
	v.res = res
	v.dirty = true
}

func (v *status) ModeChanged(mode painter.UIMode) {
	v.mode = mode
	v.dirty = true
}

// Notify shows msg in the title bar until the next one.
func (v *status) Notify(msg string) {
	v.toast = msg
	v.dirty = true
	v.log.Info("notification", zap.String("message", msg))
}

func (v *status) title() string {
	t := fmt.Sprintf("texpaint [%s] %s", v.mode, v.target)
	if v.layer != "" {
		t += fmt.Sprintf(" / %s @%d", v.layer, v.res)
	}
	if v.toast != "" {
		t += " | " + v.toast
	}
	return t
}
