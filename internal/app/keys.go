package app

import (
	"go.uber.org/zap"

	"github.com/Faultbox/texpaint/internal/input"
	"github.com/Faultbox/texpaint/internal/painter"
	"github.com/Faultbox/texpaint/internal/texbank"
	"github.com/Faultbox/texpaint/pkg/raster"
)

// palette is cycled by the color key.
var palette = []string{"#ffffff", "#000000", "#c8967a", "#8b5a2b", "#d93636", "#3667d9", "#36a852", "#f2c94c"}

var tools = map[string]raster.Tool{
	"1": raster.ToolDraw,
	"2": raster.ToolErase,
	"3": raster.ToolBucket,
	"4": raster.ToolMove,
}

var resolutions = map[string]int{
	"f1": texbank.Res1024,
	"f2": texbank.Res2048,
	"f3": texbank.Res4096,
}

// handleKey runs the editor binding for a key press. It returns false when
// the app should quit.
func (a *App) handleKey(ev input.Event) bool {
	c := a.ctrl
	if c.HandleKey(painter.Key{Name: ev.Name, Ctrl: ev.Mods.Ctrl, Shift: ev.Mods.Shift}) {
		return true
	}
	if ev.Mods.Ctrl {
		return true
	}

	// Brush size and opacity repeat while held.
	if s := a.ctrl.Editor().Painter(); s != nil {
		switch ev.Name {
		case "[":
			c.SetBrushSize(s.Surface.BrushSize() / 1.25)
			return true
		case "]":
			c.SetBrushSize(s.Surface.BrushSize() * 1.25)
			return true
		case "-":
			c.SetOpacity(s.Surface.Opacity() - 0.1)
			return true
		case "=":
			c.SetOpacity(s.Surface.Opacity() + 0.1)
			return true
		}
	}
	if ev.Repeat {
		return true
	}

	if t, ok := tools[ev.Name]; ok {
		c.SetTool(t)
		return true
	}
	if res, ok := resolutions[ev.Name]; ok {
		c.ChangeResolution(res)
		return true
	}

	switch ev.Name {
	case "escape":
		if !c.IsOpen() {
			return false
		}
		c.Exit()
	case "p", "return":
		if c.IsOpen() {
			c.Exit()
		} else {
			c.Enter()
		}
	case "tab":
		a.cycleTarget()
	case "c":
		a.cycleColor()
	case "u":
		c.ToggleOverlay()
	case "n":
		c.CreateLayer()
	case "l":
		a.cycleLayer()
	case "r":
		c.ResetLayer()
	case "e":
		if _, err := c.ExportLayer(); err != nil {
			a.log.Warn("export failed", zap.Error(err))
		}
	case "g":
		a.cyclePreset()
	case ",", ".":
		a.stepProperty(texbank.PropRoughness, ev.Name == ".")
	case "9", "0":
		a.stepProperty(texbank.PropMetalness, ev.Name == "0")
	}
	return true
}

func (a *App) cycleTarget() {
	targets := a.ctrl.Editor().Targets.Targets()
	if len(targets) == 0 {
		return
	}
	active := a.ctrl.Editor().Targets.ActiveID()
	next := 0
	for i, t := range targets {
		if t.ID == active {
			next = (i + 1) % len(targets)
			break
		}
	}
	if err := a.ctrl.SelectTarget(targets[next].ID); err != nil {
		a.log.Warn("selecting target", zap.Error(err))
	}
}

// cycleColor steps the brush color while painting and the target color
// otherwise.
func (a *App) cycleColor() {
	a.paletteIdx = (a.paletteIdx + 1) % len(palette)
	hex := palette[a.paletteIdx]
	var err error
	if a.ctrl.IsOpen() {
		err = a.ctrl.SetBrushColor(hex)
	} else {
		err = a.ctrl.SetTargetColor(hex)
	}
	if err != nil {
		a.log.Warn("setting color", zap.String("color", hex), zap.Error(err))
	}
}

func (a *App) cycleLayer() {
	ui := a.ctrl.LayerUI()
	if len(ui.Options) == 0 {
		return
	}
	next := 0
	for i, o := range ui.Options {
		if o.Name == ui.Selected {
			next = (i + 1) % len(ui.Options)
			break
		}
	}
	a.ctrl.SelectLayer(ui.Options[next].Name)
}

func (a *App) cyclePreset() {
	t := a.ctrl.Editor().Targets.Active()
	if t == nil {
		return
	}
	grid := a.catalog.ForDomain(t.Domain)
	if len(grid) == 0 {
		return
	}
	next := 0
	for i, p := range grid {
		if p.ID == t.ActiveTextureID {
			next = (i + 1) % len(grid)
			break
		}
	}
	a.ctrl.ApplyPreset(grid[next].ID)
}

func (a *App) stepProperty(p texbank.Prop, up bool) {
	ui := a.ctrl.LayerUI()
	if ui.Selected == "" {
		return
	}
	v := ui.Roughness
	if p == texbank.PropMetalness {
		v = ui.Metalness
	}
	if up {
		v += 0.1
	} else {
		v -= 0.1
	}
	if p == texbank.PropMetalness {
		a.ctrl.SetMetalness(v)
	} else {
		a.ctrl.SetRoughness(v)
	}
}
