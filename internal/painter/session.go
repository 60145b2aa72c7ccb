package painter

import (
	"image"

	"github.com/Faultbox/texpaint/internal/material"
	"github.com/Faultbox/texpaint/internal/texbank"
	"github.com/Faultbox/texpaint/internal/viewport"
	"github.com/Faultbox/texpaint/pkg/raster"
)

// UIMode is a top-level editor panel.
type UIMode string

const (
	ModeBase      UIMode = "base"
	ModeClothing  UIMode = "clothing"
	ModeMaterials UIMode = "materials"
	ModeAnimation UIMode = "animation"
	ModePainter   UIMode = "painter"
)

// Model is the character currently in the scene.
type Model struct {
	ID       string
	Base     *material.BaseMesh
	Clothing []material.Clothing
}

// EditorSession is the editor state every controller operation works on.
type EditorSession struct {
	Model   *Model
	Targets *material.Registry
	Bank    *texbank.Bank
	Mode    UIMode

	painter *Session
}

// NewEditorSession returns a session with no model loaded.
func NewEditorSession(targets *material.Registry, bank *texbank.Bank) *EditorSession {
	return &EditorSession{
		Targets: targets,
		Bank:    bank,
		Mode:    ModeBase,
	}
}

// Painter returns the open painter session, or nil.
func (e *EditorSession) Painter() *Session {
	return e.painter
}

// Session is one open painter: a target, its bound layer, the tool state and
// the view transform.
type Session struct {
	TargetID  string
	LayerName string

	Surface *raster.Surface
	View    *viewport.Transform

	overlay  image.Image
	prevMode UIMode
	gen      uint64
}

// Overlay returns the loaded UV guide, or nil.
func (s *Session) Overlay() image.Image {
	return s.overlay
}

// PreviousMode returns the UI mode that Exit restores.
func (s *Session) PreviousMode() UIMode {
	return s.prevMode
}
