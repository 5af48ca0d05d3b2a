// Package app drives a single window: it sets up logging, brings the
// window up, runs the frame loop and tears everything down again.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/boxelgame/boxel/lib/api"
	"github.com/boxelgame/boxel/lib/config"
	"github.com/boxelgame/boxel/lib/glload"
	"github.com/boxelgame/boxel/lib/log"
	"github.com/boxelgame/boxel/lib/metrics"
	"github.com/boxelgame/boxel/lib/remedy"
	"github.com/boxelgame/boxel/lib/stats"
	"github.com/boxelgame/boxel/lib/utils"
	"github.com/boxelgame/boxel/lib/window"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/atomic"
)

// Renderer is the GL surface the frame loop draws with.
type Renderer interface {
	window.GL
	Clear(colour mgl32.Vec4)
}

type Options struct {
	Subsystem window.Subsystem
	GL        Renderer
	// Window, when set, is drawn into instead of bringing up a window
	// through Subsystem. It must already have GL bound and current, and
	// stays owned by the caller.
	Window window.Window
	// Library resolves entry points the context cannot; nil disables the
	// fallback.
	Library glload.Library
	// Out receives the log; nil means stdout.
	Out io.Writer
	// ConfigPath is watched for changes when the config asks for it.
	ConfigPath string
}

type App struct {
	cfg   *config.Config
	owner *window.Owner
	win   window.Window
	gl    Renderer

	sink   *log.Sink
	logger *slog.Logger
	stats  *stats.Stats
	api    *api.Api

	stopWatch func()

	clearColour    atomic.Pointer[mgl32.Vec4]
	closeRequested atomic.Bool
	deltaTimer     utils.DeltaTimer
	closed         bool
}

var _ api.Controller = (*App)(nil)

// New sets up logging and brings the window up. Window failures come back
// as *window.Error, anything else as *InitializationError.
func New(cfg *config.Config, opts Options) (_ *App, err error) {
	a := &App{cfg: cfg, gl: opts.GL, stats: stats.New()}
	component := "logging"
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(error)
			if !ok {
				perr = fmt.Errorf("%v", r)
			}
			err = wrap(component, perr)
		}
		if err != nil {
			if rerr := a.release(); rerr != nil && a.logger != nil {
				a.logger.Error("teardown after failed initialisation was incomplete", "error", rerr)
			}
			if a.sink != nil {
				_ = a.sink.Close()
			}
		}
	}()

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	a.sink, err = log.Setup(cfg.Log.Level, string(cfg.Log.File), out)
	if err != nil {
		return nil, wrap(component, err)
	}
	a.logger = a.sink.Logger.With("module", "app")

	component = "config"
	remedy.SetLanguage(cfg.Language)
	colour, err := utils.ColourParse(cfg.ClearColour)
	if err != nil {
		return nil, wrap(component, err)
	}
	a.clearColour.Store(&colour)
	profile, err := window.ParseProfile(cfg.Context.Profile)
	if err != nil {
		return nil, wrap(component, err)
	}

	component = "window"
	if err := a.openWindow(cfg, opts, profile); err != nil {
		return nil, wrap(component, err)
	}

	var ident window.Identity
	if a.owner != nil {
		ident = a.owner.Identity()
	} else {
		ident = a.gl.Identity()
	}
	a.stats.Renderer.Store(ident.Renderer)
	a.stats.GLVersion.Store(ident.Version)

	component = "api"
	a.api = api.ServeInBackground(cfg.Api, a, a.stats, a.sink.Logger)

	component = "config watcher"
	if cfg.WatchConfig && opts.ConfigPath != "" {
		a.stopWatch, err = config.Watch(opts.ConfigPath, a.applyConfig)
		if err != nil {
			return nil, wrap(component, err)
		}
	}

	a.logger.Info("initialised", "window", fmt.Sprintf("%dx%d", a.win.Width(), a.win.Height()), "backend", cfg.Backend)
	return a, nil
}

func (a *App) openWindow(cfg *config.Config, opts Options, profile window.Profile) error {
	if opts.Window != nil {
		a.win = opts.Window
		a.logger.Debug("using supplied window", "title", a.win.Title())
		return nil
	}
	wopts := window.Options{
		Context: window.ContextRequest{
			Major:             cfg.Context.Major,
			Minor:             cfg.Context.Minor,
			Profile:           profile,
			ForwardCompatible: cfg.Context.ForwardCompatible,
		},
		VSync:     *cfg.Context.Vsync,
		Resizable: cfg.Window.Resizable == nil || *cfg.Window.Resizable,
		Hidden:    !*cfg.Context.Visible,
		Library:   opts.Library,
		Logger:    a.sink.Logger,
	}
	owner, err := window.New(opts.Subsystem, opts.GL,
		window.Config{Width: cfg.Window.Width, Height: cfg.Window.Height, Title: cfg.Window.Title}, wopts)
	if err != nil {
		return err
	}
	a.owner = owner
	a.win = owner
	return nil
}

// applyConfig takes over what can change while running. It is called from
// the watcher goroutine.
func (a *App) applyConfig(cfg *config.Config) {
	if colour, err := utils.ColourParse(cfg.ClearColour); err == nil {
		a.SetClearColour(colour)
	}
	if err := a.sink.SetLevel(cfg.Log.Level); err != nil {
		a.logger.Warn("keeping log level", "error", err)
	}
	if needsRestart(a.cfg, cfg) {
		a.logger.Warn("window, context and backend changes need a restart")
	}
}

func needsRestart(old, cur *config.Config) bool {
	ow, cw := old.Window, cur.Window
	oc, cc := old.Context, cur.Context
	return ow.Width != cw.Width || ow.Height != cw.Height || ow.Title != cw.Title ||
		oc.Major != cc.Major || oc.Minor != cc.Minor || oc.Profile != cc.Profile ||
		oc.ForwardCompatible != cc.ForwardCompatible || old.Backend != cur.Backend
}

// Run draws frames until the window is asked to close.
func (a *App) Run() error {
	a.logger.Info("entering frame loop")
	for !a.win.ShouldClose() {
		a.Frame()
	}
	a.logger.Info("frame loop finished", "frames", a.stats.Frames.Load())
	return nil
}

// Frame polls, clears, presents and accounts for one frame.
func (a *App) Frame() {
	if a.closeRequested.Swap(false) {
		a.win.SetShouldClose(true)
	}
	a.win.PollEvents()
	a.gl.Clear(a.ClearColour())
	a.win.SwapBuffers()

	dt := a.deltaTimer.Next()
	fw, fh := a.win.FramebufferSize()
	a.stats.Update(fw, fh)
	metrics.FramesRendered.Inc()
	if dt > 0 {
		metrics.FrameSeconds.Observe(dt.Seconds())
	}
}

// RequestClose asks the frame loop to stop after the current frame. Safe
// from any goroutine.
func (a *App) RequestClose() {
	a.closeRequested.Store(true)
}

func (a *App) ClearColour() mgl32.Vec4 {
	if c := a.clearColour.Load(); c != nil {
		return *c
	}
	return mgl32.Vec4{0.1, 0.2, 0.4, 1.0}
}

func (a *App) SetClearColour(colour mgl32.Vec4) {
	a.clearColour.Store(&colour)
}

func (a *App) Stats() *stats.Stats {
	return a.stats
}

func (a *App) Window() window.Window {
	return a.win
}

// Close releases the window before the last log line. Calling it again
// does nothing.
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	err := a.release()
	if a.logger != nil {
		a.logger.Info("shut down")
	}
	if a.sink != nil {
		_ = a.sink.Close()
	}
	return err
}

func (a *App) release() error {
	if a.stopWatch != nil {
		a.stopWatch()
		a.stopWatch = nil
	}
	if a.api != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.api.Shutdown(ctx); err != nil && a.logger != nil {
			a.logger.Warn("could not stop web server", "error", err)
		}
		a.api = nil
	}
	var err error
	if a.owner != nil {
		err = a.owner.Close()
		a.owner = nil
	}
	return err
}
