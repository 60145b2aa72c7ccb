// Package painter drives the texture painting workflow: entering and leaving
// the painter for a material target, routing pointer and keyboard input to
// the canvas, and enforcing layer and resolution policies.
package painter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/texpaint/internal/material"
	"github.com/Faultbox/texpaint/internal/presets"
	"github.com/Faultbox/texpaint/internal/texbank"
	"github.com/Faultbox/texpaint/internal/texture"
	"github.com/Faultbox/texpaint/internal/viewport"
	"github.com/Faultbox/texpaint/pkg/raster"
)

// Messages shown to the user.
const (
	MsgUpgrade          = "Upgrade for higher resolutions"
	MsgExitFirst        = "Exit texture painter before changing resolution"
	MsgResolutionLossy  = "Texture downscaled; fine detail was lost"
	MsgBadResolution    = "Unsupported texture resolution"
	MsgPresetReset      = "Cannot reset preset textures"
	MsgNothingToUndo    = "Nothing to undo"
	MsgNothingToRedo    = "Nothing to redo"
	MsgHistoryFailed    = "Could not restore texture history"
	MsgNoMesh           = "No mesh selected"
	MsgBadColor         = "Invalid color"
	MsgPresetWhilePaint = "Exit texture painter before applying presets"
	MsgPresetFailed     = "Texture preset unavailable"
	MsgExportFailed     = "Export failed"
)

// Options holds painter defaults.
type Options struct {
	DefaultResolution int
	UVBucket          string
	UVOpacity         float64
	ZoomSensitivity   float64
	BrushSize         float64
	BrushColor        string
	ExportDir         string
	ViewWidth         int
	ViewHeight        int
}

// DefaultOptions returns the stock painter settings.
func DefaultOptions() Options {
	return Options{
		DefaultResolution: texbank.DefaultResolution,
		UVBucket:          "uvmaps",
		UVOpacity:         viewport.DefaultOverlayOpacity,
		ZoomSensitivity:   viewport.DefaultZoomSensitivity,
		BrushSize:         raster.DefaultBrushSize,
		BrushColor:        raster.DefaultColor,
		ViewWidth:         1024,
		ViewHeight:        1024,
	}
}

// Deps are the controller's collaborators. Nil members get no-op stand-ins,
// except Assets, without which no overlay or preset image is loaded.
type Deps struct {
	Assets   Assets
	Presets  *presets.Catalog
	Plan     Entitlements
	Notifier Notifier
	View     View
	Scene    SceneHost
	// Textures is told about preset textures the controller creates.
	Textures texbank.TextureObserver
	Log      *zap.Logger
}

// Controller owns the editor session and runs every painter operation. It is
// confined to the UI goroutine; only image loads run elsewhere.
type Controller struct {
	ed   *EditorSession
	deps Deps
	opts Options
	log  *zap.Logger

	gen        uint64
	presetSeq  map[string]uint64
	presetTex  map[string]*texture.Texture
	results    chan loadResult
	ctx        context.Context
	cancel     context.CancelFunc
	pending    sync.WaitGroup
	viewOffset [2]float64

	cursor      [2]float64
	cursorValid bool
}

// New creates a controller over ed.
func New(ed *EditorSession, deps Deps, opts Options) *Controller {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Presets == nil {
		deps.Presets = presets.Default()
	}
	if deps.Plan == nil {
		deps.Plan = StaticPlan{Tier: PlanFree}
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.View == nil {
		deps.View = NopView{}
	}
	if deps.Scene == nil {
		deps.Scene = NopScene{}
	}
	if !texbank.ValidResolution(opts.DefaultResolution) {
		opts.DefaultResolution = texbank.DefaultResolution
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		ed:        ed,
		deps:      deps,
		opts:      opts,
		log:       deps.Log,
		presetSeq: make(map[string]uint64),
		presetTex: make(map[string]*texture.Texture),
		results:   make(chan loadResult, 16),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Editor returns the editor session.
func (c *Controller) Editor() *EditorSession { return c.ed }

// IsOpen reports whether a painter session is open.
func (c *Controller) IsOpen() bool { return c.ed.painter != nil }

// Close exits the painter, cancels pending loads and releases preset
// textures.
func (c *Controller) Close() {
	c.Exit()
	c.cancel()
	c.pending.Wait()
	for id := range c.presetTex {
		c.releasePreset(id)
	}
}

// SetModel replaces the current model. A different model ID discards all
// texture data.
func (c *Controller) SetModel(m *Model) {
	if c.ed.Model != nil && (m == nil || m.ID != c.ed.Model.ID) {
		c.Exit()
		for _, id := range c.ed.Bank.TargetIDs() {
			c.ed.Bank.Drop(id)
		}
		for id := range c.presetTex {
			c.releasePreset(id)
		}
	}
	c.ed.Model = m
	c.RebuildTargets()
}

// RebuildTargets recomputes the material targets from the current model.
// Data of removed targets is dropped; an open painter on one is closed.
func (c *Controller) RebuildTargets() {
	var base *material.BaseMesh
	var clothing []material.Clothing
	if m := c.ed.Model; m != nil {
		base, clothing = m.Base, m.Clothing
	}

	removed := c.ed.Targets.Rebuild(base, clothing)
	for _, id := range removed {
		if s := c.ed.painter; s != nil && s.TargetID == id {
			c.Exit()
		}
		c.ed.Bank.Drop(id)
		c.releasePreset(id)
		delete(c.presetSeq, id)
	}

	c.refreshTargets()
}

func (c *Controller) refreshTargets() {
	c.deps.View.TargetsChanged(c.ed.Targets.Targets(), c.ed.Targets.ActiveID())
	if t := c.ed.Targets.Active(); t != nil {
		c.deps.View.TargetChanged(t, c.deps.Presets.ForDomain(t.Domain))
	}
	c.deps.View.LayersChanged(c.LayerUI())
}

// SetUIMode switches the top-level panel. An open painter is closed first.
func (c *Controller) SetUIMode(mode UIMode) {
	c.Exit()
	if c.ed.Mode == mode {
		return
	}
	c.ed.Mode = mode
	c.deps.View.ModeChanged(mode)
}

// SelectTarget makes id the active target. An open painter follows the
// selection and rebinds to the new target's layer.
func (c *Controller) SelectTarget(id string) error {
	if err := c.ed.Targets.Select(id); err != nil {
		return err
	}

	if s := c.ed.painter; s != nil && s.TargetID != id {
		t := c.ed.Targets.Active()
		l := c.resolveLayer(t)
		if l == nil {
			c.Exit()
		} else {
			c.ed.Bank.Unpin(s.TargetID)
			c.ed.Bank.Pin(t.ID)
			s.TargetID = t.ID
			c.bind(s, l)
			c.gen++
			s.gen = c.gen
			s.overlay = nil
			c.loadOverlay(s, t)
			c.log.Info("painter switched target", zap.String("target", t.ID), zap.String("layer", l.Name()))
		}
	}

	c.refreshTargets()
	return nil
}

// Enter opens the painter on the active target. It reports false and does
// nothing without a model or an active target.
func (c *Controller) Enter() bool {
	if c.ed.painter != nil {
		return true
	}
	t := c.ed.Targets.Active()
	if c.ed.Model == nil || t == nil {
		c.log.Debug("painter entry ignored", zap.Bool("model", c.ed.Model != nil), zap.Bool("target", t != nil))
		if c.ed.Model != nil {
			c.deps.Notifier.Notify(MsgNoMesh)
		}
		return false
	}

	l := c.resolveLayer(t)
	if l == nil {
		return false
	}

	res := c.ed.Bank.Resolution(t.ID)
	view := viewport.New(c.opts.ViewWidth, c.opts.ViewHeight, res, res)
	view.SetOffset(c.viewOffset[0], c.viewOffset[1])
	view.SetZoomSensitivity(c.opts.ZoomSensitivity)
	view.SetOverlayOpacity(c.opts.UVOpacity)

	surface := raster.NewSurface()
	surface.SetBrushSize(c.opts.BrushSize)
	if err := surface.SetColor(c.opts.BrushColor); err != nil {
		c.log.Warn("invalid default brush color", zap.String("color", c.opts.BrushColor), zap.Error(err))
	}

	c.gen++
	s := &Session{
		TargetID: t.ID,
		Surface:  surface,
		View:     view,
		prevMode: c.ed.Mode,
		gen:      c.gen,
	}
	c.bind(s, l)
	c.ed.painter = s
	c.ed.Bank.Pin(t.ID)

	c.loadOverlay(s, t)
	c.deps.Scene.FrameModel()
	c.deps.Scene.AttachPaintViewport()

	c.ed.Mode = ModePainter
	c.deps.View.ModeChanged(ModePainter)
	c.deps.View.ResolutionChanged(res)
	c.deps.View.LayersChanged(c.LayerUI())

	c.log.Info("painter opened",
		zap.String("target", t.ID),
		zap.String("layer", l.Name()),
		zap.Int("resolution", res),
	)
	return true
}

// Exit closes the painter and restores the UI mode active before Enter.
func (c *Controller) Exit() {
	s := c.ed.painter
	if s == nil {
		return
	}
	s.Surface.EndStroke()
	s.Surface.Unbind()
	s.View.EndPan()
	c.ed.Bank.Unpin(s.TargetID)
	c.deps.Scene.DetachPaintViewport()

	c.ed.painter = nil
	c.gen++
	c.cursorValid = false

	c.ed.Mode = s.prevMode
	c.deps.View.ModeChanged(s.prevMode)
	c.log.Info("painter closed", zap.String("target", s.TargetID), zap.String("mode", string(s.prevMode)))
}

// resolveLayer returns the selected layer of t, creating the record and a
// first custom layer when needed.
func (c *Controller) resolveLayer(t *material.Target) *texbank.Layer {
	bank := c.ed.Bank
	if err := bank.Ensure(t.ID, c.startResolution()); err != nil {
		c.log.Error("creating texture record", zap.String("target", t.ID), zap.Error(err))
		return nil
	}
	// A preset may have replaced the maps since the layer was last shown.
	if l := bank.Selected(t.ID); l != nil {
		bank.SelectLayer(t, l.Name())
		return l
	}

	var l *texbank.Layer
	if layers := bank.Layers(t.ID); len(layers) > 0 {
		l = layers[0]
	} else {
		name, label := bank.NextCustomName(t.ID)
		l = bank.CreateLayer(t.ID, name, label, true)
	}
	if l == nil || !bank.SelectLayer(t, l.Name()) {
		return nil
	}
	return l
}

func (c *Controller) startResolution() int {
	res := c.opts.DefaultResolution
	if ceiling := c.deps.Plan.MaxResolution(); res > ceiling {
		res = ceiling
	}
	return res
}

func (c *Controller) bind(s *Session, l *texbank.Layer) {
	s.LayerName = l.Name()
	s.Surface.Bind(l.Canvas(), l.Texture())
	w, h := l.Canvas().Bounds().Dx(), l.Canvas().Bounds().Dy()
	s.View.SetTextureSize(w, h)
}

func (c *Controller) sessionLayer() (*Session, *texbank.Layer) {
	s := c.ed.painter
	if s == nil {
		return nil, nil
	}
	return s, c.ed.Bank.Layer(s.TargetID, s.LayerName)
}

// SelectLayer shows the named layer on the active target and, if the
// painter is open on it, rebinds the canvas.
func (c *Controller) SelectLayer(name string) {
	t := c.ed.Targets.Active()
	if t == nil || !c.ed.Bank.SelectLayer(t, name) {
		return
	}
	if s := c.ed.painter; s != nil && s.TargetID == t.ID {
		s.Surface.EndStroke()
		c.bind(s, c.ed.Bank.Layer(t.ID, name))
	}
	c.deps.View.LayersChanged(c.LayerUI())
}

// CreateLayer adds a new custom layer to the active target and selects it.
// It returns the layer name, or "" without an active target.
func (c *Controller) CreateLayer() string {
	t := c.ed.Targets.Active()
	if t == nil {
		c.deps.Notifier.Notify(MsgNoMesh)
		return ""
	}
	if err := c.ed.Bank.Ensure(t.ID, c.startResolution()); err != nil {
		c.log.Error("creating texture record", zap.String("target", t.ID), zap.Error(err))
		return ""
	}
	name, label := c.ed.Bank.NextCustomName(t.ID)
	if c.ed.Bank.CreateLayer(t.ID, name, label, true) == nil {
		return ""
	}
	c.SelectLayer(name)
	return name
}

// ResetLayer clears the selected layer of the active target. Preset layers
// are refused with a notification.
func (c *Controller) ResetLayer() {
	t := c.ed.Targets.Active()
	if t == nil {
		return
	}
	l := c.ed.Bank.Selected(t.ID)
	if l == nil {
		return
	}
	if s := c.ed.painter; s != nil && s.TargetID == t.ID {
		s.Surface.EndStroke()
	}
	if err := c.ed.Bank.ResetLayer(t.ID, l.Name()); err != nil {
		if errors.Is(err, texbank.ErrPresetLayer) {
			c.deps.Notifier.Notify(MsgPresetReset)
		}
		c.log.Info("layer reset refused", zap.String("target", t.ID), zap.String("layer", l.Name()), zap.Error(err))
	}
}

// SetRoughness sets the selected layer's roughness.
func (c *Controller) SetRoughness(v float64) { c.setProperty(texbank.PropRoughness, v) }

// SetMetalness sets the selected layer's metalness.
func (c *Controller) SetMetalness(v float64) { c.setProperty(texbank.PropMetalness, v) }

func (c *Controller) setProperty(p texbank.Prop, v float64) {
	t := c.ed.Targets.Active()
	if t == nil {
		return
	}
	if l := c.ed.Bank.Selected(t.ID); l != nil {
		c.ed.Bank.SetLayerProperty(t, l.Name(), p, v)
	}
}

// ChangeResolution resizes every layer of the active target. It returns the
// value the resolution control should show afterwards, which is the old
// value when the request is refused.
func (c *Controller) ChangeResolution(res int) int {
	t := c.ed.Targets.Active()
	if t == nil {
		return 0
	}
	bank := c.ed.Bank
	cur := bank.Resolution(t.ID)
	if cur == 0 {
		cur = c.startResolution()
	}

	reject := func(msg string) int {
		c.deps.Notifier.Notify(msg)
		c.deps.View.ResolutionChanged(cur)
		return cur
	}

	if res > c.deps.Plan.MaxResolution() {
		c.log.Info("resolution above plan", zap.Int("requested", res), zap.Int("max", c.deps.Plan.MaxResolution()))
		return reject(MsgUpgrade)
	}
	if !texbank.ValidResolution(res) {
		return reject(MsgBadResolution)
	}
	if !bank.Has(t.ID) {
		if err := bank.Ensure(t.ID, res); err != nil {
			return reject(MsgBadResolution)
		}
		c.deps.View.ResolutionChanged(res)
		return res
	}

	err := bank.ChangeResolution(c.ctx, t, res)
	switch {
	case errors.Is(err, texbank.ErrTargetBusy):
		return reject(MsgExitFirst)
	case err != nil:
		c.log.Error("changing resolution", zap.String("target", t.ID), zap.Int("resolution", res), zap.Error(err))
		return reject(MsgBadResolution)
	}

	if res < cur {
		c.deps.Notifier.Notify(MsgResolutionLossy)
	}
	c.deps.View.ResolutionChanged(res)
	c.deps.View.LayersChanged(c.LayerUI())
	return res
}

// Undo restores the previous state of the painter's layer.
func (c *Controller) Undo() {
	c.step(true)
}

// Redo re-applies the next state of the painter's layer.
func (c *Controller) Redo() {
	c.step(false)
}

func (c *Controller) step(undo bool) {
	s, l := c.sessionLayer()
	if l == nil {
		return
	}
	s.Surface.EndStroke()

	var ok bool
	var err error
	if undo {
		ok, err = l.History().Undo(l.Canvas())
	} else {
		ok, err = l.History().Redo(l.Canvas())
	}
	switch {
	case err != nil:
		c.log.Error("restoring history", zap.String("target", s.TargetID), zap.String("layer", l.Name()), zap.Error(err))
		c.deps.Notifier.Notify(MsgHistoryFailed)
		l.Texture().MarkDirty()
	case !ok && undo:
		c.deps.Notifier.Notify(MsgNothingToUndo)
	case !ok:
		c.deps.Notifier.Notify(MsgNothingToRedo)
	default:
		l.Texture().MarkDirty()
		c.log.Debug("history step",
			zap.Bool("undo", undo),
			zap.Int("cursor", l.History().Cursor()),
			zap.Int("len", l.History().Len()),
		)
	}
}

// SetTool selects the painter tool.
func (c *Controller) SetTool(t raster.Tool) {
	if s := c.ed.painter; s != nil {
		s.Surface.EndStroke()
		s.View.EndPan()
		s.Surface.SetTool(t)
	}
}

// SetBrushColor sets the brush color from "#rrggbb".
func (c *Controller) SetBrushColor(hex string) error {
	s := c.ed.painter
	if s == nil {
		return nil
	}
	if err := s.Surface.SetColor(hex); err != nil {
		c.deps.Notifier.Notify(MsgBadColor)
		return err
	}
	return nil
}

// SetBrushSize sets the brush diameter in texture pixels.
func (c *Controller) SetBrushSize(px float64) {
	if s := c.ed.painter; s != nil {
		s.Surface.SetBrushSize(px)
	}
}

// SetOpacity sets the brush opacity.
func (c *Controller) SetOpacity(v float64) {
	if s := c.ed.painter; s != nil {
		s.Surface.SetOpacity(v)
	}
}

// ToggleOverlay flips UV guide visibility.
func (c *Controller) ToggleOverlay() bool {
	if s := c.ed.painter; s != nil {
		return s.View.ToggleOverlay()
	}
	return false
}

// SetOverlayOpacity sets the UV guide opacity.
func (c *Controller) SetOverlayOpacity(v float64) {
	c.opts.UVOpacity = min(max(v, 0), 1)
	if s := c.ed.painter; s != nil {
		s.View.SetOverlayOpacity(v)
	}
}

// SetTargetColor sets the base color of the active target.
func (c *Controller) SetTargetColor(hex string) error {
	t := c.ed.Targets.Active()
	if t == nil {
		return nil
	}
	if err := c.ed.Targets.SetColor(t.ID, hex); err != nil {
		c.deps.Notifier.Notify(MsgBadColor)
		return err
	}
	c.deps.View.TargetChanged(t, c.deps.Presets.ForDomain(t.Domain))
	return nil
}

// ExportLayer writes the selected layer of the active target to the export
// directory and returns the file path.
func (c *Controller) ExportLayer() (string, error) {
	t := c.ed.Targets.Active()
	if t == nil {
		return "", errors.New("no active target")
	}
	l := c.ed.Bank.Selected(t.ID)
	if l == nil {
		return "", fmt.Errorf("target %s has no texture", t.ID)
	}
	path, err := c.ed.Bank.ExportFile(c.opts.ExportDir, t.ID, l.Name())
	if err != nil {
		c.log.Error("exporting layer", zap.String("target", t.ID), zap.String("layer", l.Name()), zap.Error(err))
		c.deps.Notifier.Notify(MsgExportFailed)
		return "", err
	}
	c.deps.Notifier.Notify("Saved " + path)
	c.log.Info("layer exported", zap.String("path", path))
	return path, nil
}
