// Package sdlbackend implements the window subsystem on SDL2. It serves
// machines where GLFW cannot reach the display but SDL can, such as some
// Wayland and KMS setups.
package sdlbackend

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/boxelgame/boxel/lib/window"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/atomic"
)

var initialised atomic.Bool

var ErrAlreadyInitialised = errors.New("sdl video is already initialised in this process")

type Subsystem struct {
	onError   window.ErrorCallback
	lastError *window.PlatformError
	hints     map[window.Hint]int
	windows   map[uint32]*nativeWindow
	current   *nativeWindow
}

var _ window.Subsystem = (*Subsystem)(nil)

func New() *Subsystem {
	s := &Subsystem{windows: map[uint32]*nativeWindow{}}
	s.DefaultWindowHints()
	return s
}

func (s *Subsystem) Init() error {
	if !initialised.CompareAndSwap(false, true) {
		return ErrAlreadyInitialised
	}
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		initialised.Store(false)
		return s.report(err)
	}
	return nil
}

func (s *Subsystem) Terminate() {
	if !initialised.Load() {
		return
	}
	for id, n := range s.windows {
		n.release()
		delete(s.windows, id)
	}
	s.current = nil
	sdl.Quit()
	initialised.Store(false)
}

func (s *Subsystem) SetErrorCallback(cb window.ErrorCallback) {
	s.onError = cb
}

func (s *Subsystem) DefaultWindowHints() {
	s.hints = map[window.Hint]int{
		window.HintContextVersionMajor: 1,
		window.HintContextVersionMinor: 0,
		window.HintOpenGLProfile:       int(window.ProfileAny),
		window.HintResizable:           1,
		window.HintDoubleBuffer:        1,
		window.HintVisible:             1,
	}
}

// WindowHint records the hint; SDL wants GL attributes set right before
// the window is created, so they are applied in CreateWindow.
func (s *Subsystem) WindowHint(hint window.Hint, value int) {
	s.hints[hint] = value
}

type glAttr struct {
	attr  sdl.GLattr
	value int
}

func (s *Subsystem) applyAttributes() error {
	attrs := []glAttr{
		{sdl.GL_CONTEXT_MAJOR_VERSION, s.hints[window.HintContextVersionMajor]},
		{sdl.GL_CONTEXT_MINOR_VERSION, s.hints[window.HintContextVersionMinor]},
		{sdl.GL_DOUBLEBUFFER, s.hints[window.HintDoubleBuffer]},
		{sdl.GL_DEPTH_SIZE, 24},
	}
	switch window.Profile(s.hints[window.HintOpenGLProfile]) {
	case window.ProfileCore:
		attrs = append(attrs, glAttr{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE})
	case window.ProfileCompat:
		attrs = append(attrs, glAttr{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_COMPATIBILITY})
	}
	flags := 0
	if s.hints[window.HintOpenGLForwardCompatible] != 0 {
		flags |= sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG
	}
	attrs = append(attrs, glAttr{sdl.GL_CONTEXT_FLAGS, flags})

	for _, a := range attrs {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			return fmt.Errorf("setting GL attribute %d: %w", a.attr, err)
		}
	}
	return nil
}

func (s *Subsystem) windowFlags() uint32 {
	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_ALLOW_HIGHDPI)
	if s.hints[window.HintResizable] != 0 {
		flags |= sdl.WINDOW_RESIZABLE
	}
	if s.hints[window.HintVisible] != 0 {
		flags |= sdl.WINDOW_SHOWN
	} else {
		flags |= sdl.WINDOW_HIDDEN
	}
	return flags
}

func (s *Subsystem) CreateWindow(width, height int, title string) (window.NativeWindow, error) {
	if !initialised.Load() {
		return nil, s.report(errors.New("sdl video is not initialised"))
	}
	if err := s.applyAttributes(); err != nil {
		return nil, s.report(err)
	}

	w, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), s.windowFlags())
	if err != nil {
		return nil, s.report(err)
	}
	ctx, err := w.GLCreateContext()
	if err != nil {
		_ = w.Destroy()
		return nil, s.report(err)
	}
	id, err := w.GetID()
	if err != nil {
		sdl.GLDeleteContext(ctx)
		_ = w.Destroy()
		return nil, s.report(err)
	}

	n := &nativeWindow{sub: s, w: w, ctx: ctx, id: id}
	s.windows[id] = n
	return n, nil
}

func (s *Subsystem) CurrentContext() window.NativeWindow {
	if s.current == nil {
		return nil
	}
	return s.current
}

func (s *Subsystem) SwapInterval(interval int) {
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		s.report(err)
	}
}

// PollEvents drains the SDL queue, turning quit and close requests into
// the close flag and size changes into framebuffer callbacks.
func (s *Subsystem) PollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			for _, n := range s.windows {
				n.SetShouldClose(true)
			}
		case *sdl.WindowEvent:
			n, ok := s.windows[e.WindowID]
			if !ok {
				continue
			}
			switch e.Event {
			case sdl.WINDOWEVENT_CLOSE:
				n.SetShouldClose(true)
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				n.framebufferChanged()
			}
		}
	}
}

func (s *Subsystem) GetProcAddress(name string) unsafe.Pointer {
	if s.current == nil {
		return nil
	}
	return sdl.GLGetProcAddress(name)
}

func (s *Subsystem) LastError() *window.PlatformError {
	return s.lastError
}

// report wraps an SDL error. SDL has no error codes, so the class is
// guessed from the message.
func (s *Subsystem) report(err error) error {
	perr := &window.PlatformError{Desc: err.Error(), Class: classify(err.Error())}
	s.lastError = perr
	if s.onError != nil {
		s.onError(perr)
	}
	return perr
}

type nativeWindow struct {
	sub *Subsystem
	w   *sdl.Window
	ctx sdl.GLContext
	id  uint32

	shouldClose atomic.Bool
	user        unsafe.Pointer
	onResize    window.FramebufferSizeCallback
}

var _ window.NativeWindow = (*nativeWindow)(nil)

func (n *nativeWindow) MakeContextCurrent() error {
	if err := n.w.GLMakeCurrent(n.ctx); err != nil {
		return n.sub.report(err)
	}
	n.sub.current = n
	return nil
}

func (n *nativeWindow) ShouldClose() bool {
	return n.shouldClose.Load()
}

func (n *nativeWindow) SetShouldClose(value bool) {
	n.shouldClose.Store(value)
}

func (n *nativeWindow) SwapBuffers() {
	n.w.GLSwap()
}

func (n *nativeWindow) FramebufferSize() (width, height int) {
	w, h := n.w.GLGetDrawableSize()
	return int(w), int(h)
}

func (n *nativeWindow) framebufferChanged() {
	if n.onResize == nil {
		return
	}
	w, h := n.FramebufferSize()
	n.onResize(n, w, h)
}

func (n *nativeWindow) SetUserPointer(p unsafe.Pointer) {
	n.user = p
}

func (n *nativeWindow) UserPointer() unsafe.Pointer {
	return n.user
}

func (n *nativeWindow) SetFramebufferSizeCallback(cb window.FramebufferSizeCallback) {
	n.onResize = cb
}

func (n *nativeWindow) Destroy() {
	delete(n.sub.windows, n.id)
	n.release()
}

func (n *nativeWindow) release() {
	if n.w == nil {
		return
	}
	if n.sub.current == n {
		n.sub.current = nil
	}
	sdl.GLDeleteContext(n.ctx)
	if err := n.w.Destroy(); err != nil {
		n.sub.report(err)
	}
	n.w = nil
}
