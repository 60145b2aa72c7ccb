package painter

import (
	"image/color"

	"golang.org/x/image/draw"

	"github.com/Faultbox/texpaint/pkg/raster"
)

// LayerOption is one entry of the layer dropdown.
type LayerOption struct {
	Name  string
	Label string
}

// LayerUI is the state of the layer controls for the active target.
type LayerUI struct {
	TargetID     string
	Options      []LayerOption
	Selected     string
	ResetEnabled bool
	Roughness    float64
	Metalness    float64
	Resolution   int
	// MaxResolution is the plan ceiling; larger choices are shown locked.
	MaxResolution int
}

// LayerUI returns the layer control state of the active target.
func (c *Controller) LayerUI() LayerUI {
	ui := LayerUI{MaxResolution: c.deps.Plan.MaxResolution()}
	t := c.ed.Targets.Active()
	if t == nil {
		return ui
	}
	ui.TargetID = t.ID
	ui.Resolution = c.ed.Bank.Resolution(t.ID)
	if ui.Resolution == 0 {
		ui.Resolution = c.startResolution()
	}
	for _, l := range c.ed.Bank.Layers(t.ID) {
		ui.Options = append(ui.Options, LayerOption{Name: l.Name(), Label: l.DisplayName()})
	}
	if l := c.ed.Bank.Selected(t.ID); l != nil {
		ui.Selected = l.Name()
		ui.ResetEnabled = l.IsCustom()
		ui.Roughness = l.Roughness()
		ui.Metalness = l.Metalness()
	}
	return ui
}

// CursorKind is the shape of the brush preview.
type CursorKind int

const (
	CursorNone CursorKind = iota
	CursorCircle
	CursorCrosshair
)

// Cursor preview colors.
var (
	CursorDrawColor  = color.NRGBA{R: 0x7c, G: 0x5c, B: 0xff, A: 0xff}
	CursorEraseColor = color.NRGBA{R: 0xff, G: 0x55, B: 0x55, A: 0xff}
)

// CrosshairSize is the half-length of the bucket crosshair in screen pixels.
const CrosshairSize = 10

// CursorHint describes the brush preview drawn at the pointer, in screen
// pixels.
type CursorHint struct {
	Kind   CursorKind
	X, Y   float64
	Radius float64
	Color  color.NRGBA
	Dashed bool
}

// CursorHint returns the brush preview for the current pointer position.
func (c *Controller) CursorHint() CursorHint {
	s := c.ed.painter
	if s == nil || !c.cursorValid {
		return CursorHint{}
	}
	h := CursorHint{X: c.cursor[0], Y: c.cursor[1], Color: CursorDrawColor}
	switch s.Surface.Tool() {
	case raster.ToolDraw, raster.ToolErase:
		h.Kind = CursorCircle
		h.Radius = s.Surface.BrushSize() * s.View.Zoom() / 2
		h.Dashed = true
		if s.Surface.Tool() == raster.ToolErase {
			h.Color = CursorEraseColor
		}
	case raster.ToolBucket:
		h.Kind = CursorCrosshair
		h.Radius = CrosshairSize
	}
	return h
}

// Render draws the painter view into dst. It reports false when the
// painter is closed.
func (c *Controller) Render(dst draw.Image) bool {
	s, l := c.sessionLayer()
	if l == nil {
		return false
	}
	s.View.Render(dst, l.Canvas(), s.overlay)
	return true
}
