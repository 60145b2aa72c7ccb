package painter

import (
	"github.com/Faultbox/texpaint/internal/assets"
	"github.com/Faultbox/texpaint/internal/material"
	"github.com/Faultbox/texpaint/internal/presets"
)

// Assets resolves and downloads overlay and preset images.
type Assets interface {
	assets.Resolver
	assets.Fetcher
}

// Notifier receives user-facing messages. It must not block.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(msg string) { f(msg) }

// SceneHost is the 3D side of the editor.
type SceneHost interface {
	// FrameModel points the camera at the model.
	FrameModel()
	// AttachPaintViewport moves the 3D render surface into the painter layout.
	AttachPaintViewport()
	// DetachPaintViewport moves it back to its original container.
	DetachPaintViewport()
}

// View receives UI state refreshes.
type View interface {
	TargetsChanged(targets []*material.Target, activeID string)
	// TargetChanged refreshes the color picker and the preset grid.
	TargetChanged(t *material.Target, grid []presets.Preset)
	LayersChanged(ui LayerUI)
	// ResolutionChanged sets the resolution control, including reverts.
	ResolutionChanged(res int)
	ModeChanged(mode UIMode)
}

// NopView ignores every refresh.
type NopView struct{}

func (NopView) TargetsChanged([]*material.Target, string)        {}
func (NopView) TargetChanged(*material.Target, []presets.Preset) {}
func (NopView) LayersChanged(LayerUI)                            {}
func (NopView) ResolutionChanged(int)                            {}
func (NopView) ModeChanged(UIMode)                               {}

// NopScene is a SceneHost without a 3D view.
type NopScene struct{}

func (NopScene) FrameModel()          {}
func (NopScene) AttachPaintViewport() {}
func (NopScene) DetachPaintViewport() {}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}
