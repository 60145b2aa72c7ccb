package painter

import (
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/texpaint/pkg/raster"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Key is a key press with its modifiers. Name is the lower-case key label.
type Key struct {
	Name  string
	Ctrl  bool
	Shift bool
}

// SetViewSize updates the size of the painter element.
func (c *Controller) SetViewSize(w, h int) {
	c.opts.ViewWidth, c.opts.ViewHeight = w, h
	if s := c.ed.painter; s != nil {
		s.View.SetViewSize(w, h)
	}
}

// SetViewOffset updates the screen position of the painter element.
func (c *Controller) SetViewOffset(x, y float64) {
	c.viewOffset = [2]float64{x, y}
	if s := c.ed.painter; s != nil {
		s.View.SetOffset(x, y)
	}
}

// PointerDown starts a stroke, a fill or a pan at screen point (x, y).
func (c *Controller) PointerDown(x, y float64, b Button) {
	c.setCursor(x, y)
	s, l := c.sessionLayer()
	if l == nil {
		return
	}

	if b != ButtonLeft || s.Surface.Tool() == raster.ToolMove {
		s.View.BeginPan(x, y)
		return
	}

	tx, ty := s.View.ToTexture(x, y)
	if s.Surface.Tool() == raster.ToolBucket && !s.Surface.FillChanges(tx, ty) {
		return
	}
	if err := l.History().Snapshot(l.Canvas()); err != nil {
		c.log.Error("recording history", zap.String("target", s.TargetID), zap.String("layer", l.Name()), zap.Error(err))
	}
	s.Surface.StartStroke(tx, ty)
}

// PointerMove continues a stroke or pan.
func (c *Controller) PointerMove(x, y float64) {
	c.setCursor(x, y)
	s := c.ed.painter
	if s == nil {
		return
	}
	if s.View.Panning() {
		s.View.DragPan(x, y)
		return
	}
	if s.Surface.Drawing() {
		tx, ty := s.View.ToTexture(x, y)
		s.Surface.ContinueStroke(tx, ty)
	}
}

// PointerUp ends any stroke or pan.
func (c *Controller) PointerUp(x, y float64, _ Button) {
	c.setCursor(x, y)
	c.endPointer()
}

// PointerLeave ends any stroke or pan and hides the brush cursor.
func (c *Controller) PointerLeave() {
	c.cursorValid = false
	c.endPointer()
}

func (c *Controller) endPointer() {
	if s := c.ed.painter; s != nil {
		s.Surface.EndStroke()
		s.View.EndPan()
	}
}

func (c *Controller) setCursor(x, y float64) {
	c.cursor = [2]float64{x, y}
	c.cursorValid = true
}

// Wheel zooms the painter view.
func (c *Controller) Wheel(deltaY float64) {
	if s := c.ed.painter; s != nil {
		s.View.Wheel(deltaY)
	}
}

// HandleKey runs painter shortcuts and reports whether k was consumed.
// Shortcuts are only live while the painter is open.
func (c *Controller) HandleKey(k Key) bool {
	if c.ed.painter == nil || !k.Ctrl {
		return false
	}
	switch strings.ToLower(k.Name) {
	case "z":
		if k.Shift {
			c.Redo()
		} else {
			c.Undo()
		}
		return true
	case "y":
		c.Redo()
		return true
	}
	return false
}
