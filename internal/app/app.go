// Package app runs the standalone texture painting tool: an SDL2 window
// with the painter on the left and a material preview on the right.
package app

import (
	"fmt"
	"image"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/texpaint/internal/assets"
	"github.com/Faultbox/texpaint/internal/config"
	"github.com/Faultbox/texpaint/internal/gltex"
	"github.com/Faultbox/texpaint/internal/input"
	"github.com/Faultbox/texpaint/internal/logger"
	"github.com/Faultbox/texpaint/internal/material"
	"github.com/Faultbox/texpaint/internal/painter"
	"github.com/Faultbox/texpaint/internal/presets"
	"github.com/Faultbox/texpaint/internal/texbank"
	"github.com/Faultbox/texpaint/internal/window"
)

// App is the tool instance.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	input    *input.Input
	uploader *gltex.Uploader
	blitter  *gltex.Blitter
	preview  *gltex.Preview

	assets  *assets.Manager
	catalog *presets.Catalog
	bank    *texbank.Bank
	ctrl    *painter.Controller
	scene   *scene
	status  *status

	frame      *image.RGBA
	inside     bool
	paletteIdx int
}

// New creates the window, the GL resources and the painting core.
func New(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg, log: logger.Named("app")}

	plan, err := painter.ParsePlan(cfg.Plan.Tier)
	if err != nil {
		return nil, err
	}
	model, sc, err := buildModel(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("building model: %w", err)
	}

	a.window, err = window.New(window.Config{
		Title:      "texpaint",
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if a.blitter, err = gltex.NewBlitter(); err != nil {
		a.Close()
		return nil, fmt.Errorf("creating blitter: %w", err)
	}
	if a.preview, err = gltex.NewPreview(); err != nil {
		a.Close()
		return nil, fmt.Errorf("creating preview: %w", err)
	}
	a.uploader = gltex.NewUploader(gltex.GLDevice{}, logger.Named("gltex"))
	a.input = input.New()

	a.assets = assets.NewManager(logger.Named("assets"), cfg.Assets.HTTPTimeout)
	if err := a.assets.AddSource(cfg.Assets.Root); err != nil {
		a.log.Warn("asset source unavailable, overlays and presets disabled", zap.String("root", cfg.Assets.Root), zap.Error(err))
	}
	a.catalog = presets.Default()

	a.bank = texbank.New(logger.Named("texbank"), cfg.Painter.HistoryDepth)
	a.bank.SetObserver(a.uploader)
	ed := painter.NewEditorSession(material.NewRegistry(logger.Named("material")), a.bank)

	a.status = &status{log: a.log}
	sc.ed = ed
	a.scene = sc

	opts := painter.DefaultOptions()
	opts.DefaultResolution = cfg.Painter.DefaultResolution
	opts.UVBucket = cfg.Assets.UVBucket
	opts.UVOpacity = cfg.Painter.UVOpacity
	opts.ZoomSensitivity = cfg.Painter.ZoomSensitivity
	opts.BrushSize = cfg.Painter.BrushSize
	opts.BrushColor = cfg.Painter.BrushColor
	opts.ExportDir = cfg.Painter.ExportDir

	a.ctrl = painter.New(ed, painter.Deps{
		Assets:   a.assets,
		Presets:  a.catalog,
		Plan:     painter.StaticPlan{Tier: plan},
		Notifier: a.status,
		View:     a.status,
		Scene:    a.scene,
		Textures: a.uploader,
		Log:      logger.Named("painter"),
	}, opts)
	a.ctrl.SetModel(model)
	a.layout()

	a.log.Info("texpaint initialized",
		zap.String("model", model.ID),
		zap.Int("targets", ed.Targets.Len()),
		zap.String("plan", string(plan)),
	)
	return a, nil
}

// Run drives the frame loop until the window closes.
func (a *App) Run() error {
	a.log.Info("starting main loop")
	frames := 0
	fpsTimer := time.Now()

	for {
		if a.input.Update() {
			return nil
		}
		for _, ev := range a.input.Events() {
			if !a.handleEvent(ev) {
				return nil
			}
		}

		a.ctrl.Update()
		if err := a.uploader.Sync(); err != nil {
			a.log.Error("texture upload", zap.Error(err))
		}
		if err := a.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		a.window.SwapBuffers()

		if a.status.dirty {
			a.window.SetTitle(a.status.title())
			a.status.dirty = false
		}

		frames++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frames))
			frames = 0
			fpsTimer = time.Now()
		}
	}
}

func (a *App) handleEvent(ev input.Event) bool {
	ww, wh := a.window.Size()
	rect := a.scene.painterRect(ww, wh)
	pt := image.Pt(ev.MouseX, ev.MouseY)

	switch ev.Type {
	case input.EventWindowResize:
		a.layout()

	case input.EventKeyDown:
		return a.handleKey(ev)

	case input.EventMouseMove:
		if pt.In(rect) {
			a.inside = true
			a.ctrl.PointerMove(float64(ev.MouseX), float64(ev.MouseY))
		} else if a.inside {
			a.inside = false
			a.ctrl.PointerLeave()
		}

	case input.EventMouseDown:
		if pt.In(rect) {
			a.ctrl.PointerDown(float64(ev.MouseX), float64(ev.MouseY), button(ev.Button))
		}

	case input.EventMouseUp:
		a.ctrl.PointerUp(float64(ev.MouseX), float64(ev.MouseY), button(ev.Button))

	case input.EventMouseWheel:
		if pt.In(rect) {
			a.ctrl.Wheel(ev.WheelY)
		}

	case input.EventMouseLeave:
		a.inside = false
		a.ctrl.PointerLeave()
	}
	return true
}

func button(b input.Button) painter.Button {
	switch b {
	case input.ButtonMiddle:
		return painter.ButtonMiddle
	case input.ButtonRight:
		return painter.ButtonRight
	default:
		return painter.ButtonLeft
	}
}

// layout sizes the painter view to its share of the window.
func (a *App) layout() {
	ww, wh := a.window.Size()
	r := image.Rect(0, 0, int(float64(ww)*painterShare), wh)
	a.ctrl.SetViewSize(r.Dx(), r.Dy())
	a.ctrl.SetViewOffset(float64(r.Min.X), float64(r.Min.Y))
}

func (a *App) render() error {
	ww, wh := a.window.Size()
	dw, dh := a.window.DrawableSize()
	scale := func(r image.Rectangle) image.Rectangle {
		return image.Rect(r.Min.X*dw/ww, r.Min.Y*dh/wh, r.Max.X*dw/ww, r.Max.Y*dh/wh)
	}

	gl.Viewport(0, 0, int32(dw), int32(dh))
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	tiles := a.scene.tiles(a.scene.previewRect(ww, wh))
	for i := range tiles {
		tiles[i].Rect = scale(tiles[i].Rect)
	}
	a.preview.Draw(tiles, a.uploader, dw, dh)

	rect := a.scene.painterRect(ww, wh)
	if rect.Empty() {
		return nil
	}
	if a.frame == nil || a.frame.Rect.Size() != rect.Size() {
		a.frame = image.NewRGBA(image.Rectangle{Max: rect.Size()})
	}
	if !a.ctrl.Render(a.frame) {
		return nil
	}
	drawCursor(a.frame, a.ctrl.CursorHint(), rect.Min)
	return a.blitter.Present(a.frame, scale(rect), dh)
}

// Close releases every resource in reverse creation order.
func (a *App) Close() {
	a.log.Info("closing texpaint")
	if a.ctrl != nil {
		a.ctrl.Close()
	}
	if a.bank != nil {
		a.bank.Close()
	}
	if a.assets != nil {
		a.assets.Close()
	}
	if a.uploader != nil {
		a.uploader.Close()
	}
	if a.preview != nil {
		a.preview.Destroy()
	}
	if a.blitter != nil {
		a.blitter.Destroy()
	}
	if a.window != nil {
		a.window.Close()
	}
}
