// Package window owns the application window and its OpenGL context.
//
// An Owner is brought up in four steps (subsystem, window, context and
// entry points, callbacks) and either comes back running or not at all:
// a failed step releases whatever the earlier steps acquired and returns
// an *Error. Everything here must run on the thread that locked itself
// with runtime.LockOSThread.
package window

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unsafe"

	"github.com/boxelgame/boxel/lib/glload"
	"github.com/boxelgame/boxel/lib/metrics"
	"github.com/boxelgame/boxel/lib/remedy"
	gopointer "github.com/mattn/go-pointer"
)

// Config is the requested logical window size and title.
type Config struct {
	Width  int
	Height int
	Title  string
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Title == "" {
		return fmt.Errorf("window title must not be empty")
	}
	return nil
}

// ContextRequest is the OpenGL version asked for up front. There is no
// negotiation: if the driver cannot provide it, creation fails.
type ContextRequest struct {
	Major             int
	Minor             int
	Profile           Profile
	ForwardCompatible bool
}

func (r ContextRequest) String() string {
	return fmt.Sprintf("%d.%d %s", r.Major, r.Minor, r.Profile)
}

type Options struct {
	Context   ContextRequest
	VSync     bool
	Resizable bool
	Hidden    bool

	// Library is consulted for entry points the context cannot resolve.
	// Nil means the context resolver is the only source.
	Library glload.Library

	Logger *slog.Logger
}

// DefaultOptions asks for a visible, resizable, vsynced OpenGL 4.1 core
// window, with the system OpenGL library as fallback.
func DefaultOptions() Options {
	return Options{
		Context:   ContextRequest{Major: 4, Minor: 1, Profile: ProfileCore, ForwardCompatible: true},
		VSync:     true,
		Resizable: true,
		Library:   glload.SystemLibrary(),
	}
}

type Owner struct {
	cfg  Config
	opts Options

	sub    Subsystem
	gl     GL
	native NativeWindow
	loader *glload.Loader
	token  unsafe.Pointer

	phase       Phase
	initialised bool
	identity    Identity

	// reported before the current step started; not attributed to it
	priorError *PlatformError

	logger *slog.Logger
}

var _ Window = (*Owner)(nil)

// New brings a window up. On failure nothing stays allocated and the
// returned error is always an *Error.
func New(sub Subsystem, gl GL, cfg Config, opts Options) (*Owner, error) {
	o := &Owner{
		cfg:    cfg,
		opts:   opts,
		sub:    sub,
		gl:     gl,
		logger: opts.Logger,
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	o.logger = o.logger.With("module", "window")

	if err := cfg.Validate(); err != nil {
		return nil, &Error{Kind: KindWindowCreation, Msg: "invalid window configuration", Err: err}
	}

	if err := o.bringUp(); err != nil {
		var werr *Error
		if errors.As(err, &werr) {
			metrics.InitFailures.WithLabelValues(werr.Kind.String()).Inc()
		}
		if cerr := o.Close(); cerr != nil {
			o.logger.Error("teardown after failed initialisation was incomplete", "error", cerr)
		}
		return nil, err
	}
	return o, nil
}

func (o *Owner) bringUp() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = o.fromPanic(r)
		}
	}()

	o.logger.Info("initialising window", "width", o.cfg.Width, "height", o.cfg.Height, "title", o.cfg.Title)

	steps := []struct {
		name string
		run  func() error
	}{
		{"subsystem", o.initSubsystem},
		{"window", o.createWindow},
		{"context", o.activateContext},
		{"functions", o.loadFunctions},
		{"callbacks", o.wireCallbacks},
	}
	for _, step := range steps {
		start := time.Now()
		o.priorError = o.sub.LastError()
		if err := step.run(); err != nil {
			return err
		}
		metrics.InitPhaseSeconds.WithLabelValues(step.name).Set(time.Since(start).Seconds())
	}

	o.logger.Info("window ready", "phase", o.phase.String())
	return nil
}

func (o *Owner) advance(p Phase) {
	o.logger.Debug("phase change", "from", o.phase.String(), "to", p.String())
	o.phase = p
}

func (o *Owner) initSubsystem() error {
	// registered first so Init failures are reported too
	o.sub.SetErrorCallback(o.onPlatformError)

	if err := o.sub.Init(); err != nil {
		return o.fail(KindSubsystemInit, "could not initialise the windowing subsystem", err, remedy.SubsystemInit)
	}
	o.initialised = true
	o.advance(PhaseSubsystemReady)
	return nil
}

func (o *Owner) createWindow() error {
	req := o.opts.Context

	o.sub.DefaultWindowHints()
	o.sub.WindowHint(HintContextVersionMajor, req.Major)
	o.sub.WindowHint(HintContextVersionMinor, req.Minor)
	o.sub.WindowHint(HintOpenGLProfile, int(req.Profile))
	o.sub.WindowHint(HintOpenGLForwardCompatible, boolHint(req.ForwardCompatible))
	o.sub.WindowHint(HintResizable, boolHint(o.opts.Resizable))
	o.sub.WindowHint(HintDoubleBuffer, 1)
	o.sub.WindowHint(HintVisible, boolHint(!o.opts.Hidden))
	o.logger.Debug("requesting context", "version", req.String())

	native, err := o.sub.CreateWindow(o.cfg.Width, o.cfg.Height, o.cfg.Title)
	if err != nil || native == nil {
		if err == nil {
			err = errors.New("no window returned")
		}
		id := remedy.WindowCreation
		if perr := o.platformError(err); perr != nil {
			switch perr.Class {
			case ClassVersionUnavailable:
				id = remedy.WindowCreationVersionUnavailable
			case ClassAPIUnavailable:
				id = remedy.WindowCreationAPIUnavailable
			}
		}
		msg := fmt.Sprintf("could not create a %dx%d window with an OpenGL %s context", o.cfg.Width, o.cfg.Height, req)
		return o.fail(KindWindowCreation, msg, err, id)
	}

	o.native = native
	o.advance(PhaseWindowCreated)
	return nil
}

func (o *Owner) activateContext() error {
	if err := o.native.MakeContextCurrent(); err != nil {
		return o.fail(KindContextActivation, "could not make the OpenGL context current", err, remedy.ContextActivation)
	}
	if cur := o.sub.CurrentContext(); cur == nil || cur != o.native {
		return o.fail(KindContextActivation, "no OpenGL context is current after activation", nil, remedy.ContextActivation)
	}

	interval := 0
	if o.opts.VSync {
		interval = 1
	}
	o.sub.SwapInterval(interval)

	o.advance(PhaseContextActive)
	return nil
}

func (o *Owner) loadFunctions() error {
	o.loader = glload.New(o.sub.GetProcAddress, o.opts.Library)
	if err := o.loader.LoadAll(); err != nil {
		if o.loader.Resolve(glload.ProbeSymbol) == nil {
			return o.fail(KindFunctionLoad, "could not resolve "+glload.ProbeSymbol+", no usable OpenGL library", err, remedy.FunctionLoadProbe)
		}
		return o.fail(KindFunctionLoad, "could not load the OpenGL entry points", err, remedy.FunctionLoad)
	}
	if err := o.gl.Bind(o.loader.ProcAddress); err != nil {
		return o.fail(KindFunctionLoad, "could not bind the OpenGL functions", err, remedy.FunctionBind)
	}

	o.identity = o.gl.Identity()
	o.logger.Info("OpenGL ready",
		"version", orUnknown(o.identity.Version),
		"renderer", orUnknown(o.identity.Renderer),
		"vendor", orUnknown(o.identity.Vendor),
		"glsl", orUnknown(o.identity.ShadingLanguage))

	o.gl.EnableDepthTest()
	fw, fh := o.native.FramebufferSize()
	o.gl.Viewport(0, 0, fw, fh)

	o.advance(PhaseCallbacksWired)
	return nil
}

func (o *Owner) wireCallbacks() error {
	o.token = gopointer.Save(o)
	o.native.SetUserPointer(o.token)
	o.native.SetFramebufferSizeCallback(framebufferSizeCallback)

	o.advance(PhaseRunning)
	return nil
}

// framebufferSizeCallback runs from inside PollEvents with only the
// native window at hand; the owner is recovered from its user pointer.
func framebufferSizeCallback(w NativeWindow, width, height int) {
	p := w.UserPointer()
	if p == nil {
		return
	}
	o, ok := gopointer.Restore(p).(*Owner)
	if !ok || o == nil {
		return
	}
	o.resize(width, height)
}

func (o *Owner) resize(width, height int) {
	o.gl.Viewport(0, 0, width, height)
	o.cfg.Width = width
	o.cfg.Height = height
	metrics.FramebufferResizes.Inc()
	o.logger.Debug("framebuffer resized", "width", width, "height", height)
}

func (o *Owner) onPlatformError(err *PlatformError) {
	o.logger.Error("windowing library error", "code", fmt.Sprintf("0x%05X", err.Code), "description", err.Desc)
}

// platformError digs the library's own error out of err, falling back to
// whatever the library reported during the current step.
func (o *Owner) platformError(err error) *PlatformError {
	var perr *PlatformError
	if errors.As(err, &perr) {
		return perr
	}
	if last := o.sub.LastError(); last != o.priorError {
		return last
	}
	return nil
}

func (o *Owner) fail(kind Kind, msg string, err error, remedyID string) *Error {
	werr := &Error{Kind: kind, Msg: msg, Err: err}
	if perr := o.platformError(err); perr != nil {
		werr.Code = perr.Code
		werr.Desc = perr.Desc
	}
	werr.Remedy = remedy.Text(remedyID, map[string]any{
		"Version": fmt.Sprintf("%d.%d", o.opts.Context.Major, o.opts.Context.Minor),
		"Profile": o.opts.Context.Profile.String(),
		"Missing": missingCount(err),
	})
	return werr
}

func (o *Owner) fromPanic(r any) *Error {
	if werr, ok := r.(*Error); ok {
		return werr
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	kind := o.phase.failureKind()
	return o.fail(kind, fmt.Sprintf("unexpected failure after phase %s", o.phase), err, remedyFor(kind))
}

func remedyFor(kind Kind) string {
	switch kind {
	case KindSubsystemInit:
		return remedy.SubsystemInit
	case KindContextActivation:
		return remedy.ContextActivation
	case KindFunctionLoad:
		return remedy.FunctionLoad
	default:
		return remedy.WindowCreation
	}
}

func missingCount(err error) int {
	var incomplete *glload.IncompleteError
	if errors.As(err, &incomplete) {
		return incomplete.Missing
	}
	return 0
}

// Close destroys the window and shuts the subsystem down. It is safe to
// call more than once and on a partially initialised owner; every step
// runs even if an earlier one panics.
func (o *Owner) Close() error {
	if o.phase == PhaseDestroyed {
		return nil
	}
	o.logger.Info("destroying window")

	var errs []error
	if o.native != nil {
		native := o.native
		o.native = nil
		errs = append(errs,
			safely("clear callbacks", func() {
				native.SetFramebufferSizeCallback(nil)
				native.SetUserPointer(nil)
			}),
			safely("destroy window", native.Destroy))
	}
	if o.token != nil {
		token := o.token
		o.token = nil
		gopointer.Unref(token)
	}
	if o.initialised {
		o.initialised = false
		errs = append(errs, safely("terminate", func() {
			o.sub.Terminate()
			o.sub.SetErrorCallback(nil)
		}))
	}

	o.phase = PhaseDestroyed
	o.logger.Info("window destroyed")
	return errors.Join(errs...)
}

func safely(step string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", step, r)
		}
	}()
	fn()
	return nil
}

func (o *Owner) ShouldClose() bool {
	return o.native != nil && o.native.ShouldClose()
}

// SetShouldClose sets the close flag. The backends make this safe to call
// from other goroutines.
func (o *Owner) SetShouldClose(value bool) {
	if o.native != nil {
		o.native.SetShouldClose(value)
	}
}

func (o *Owner) PollEvents() {
	if o.initialised {
		o.sub.PollEvents()
	}
}

func (o *Owner) SwapBuffers() {
	if o.native != nil {
		o.native.SwapBuffers()
	}
}

// FramebufferSize is the drawable size in pixels, or the cached logical
// size when there is no window.
func (o *Owner) FramebufferSize() (width, height int) {
	if o.native != nil {
		return o.native.FramebufferSize()
	}
	return o.cfg.Width, o.cfg.Height
}

func (o *Owner) Width() int {
	return o.cfg.Width
}

func (o *Owner) Height() int {
	return o.cfg.Height
}

func (o *Owner) Title() string {
	return o.cfg.Title
}

func (o *Owner) Phase() Phase {
	return o.phase
}

func (o *Owner) Identity() Identity {
	return o.identity
}

func boolHint(b bool) int {
	if b {
		return 1
	}
	return 0
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
