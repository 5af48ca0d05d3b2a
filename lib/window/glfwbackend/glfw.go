// Package glfwbackend implements the window subsystem on GLFW 3.3.
package glfwbackend

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/boxelgame/boxel/lib/window"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/atomic"
)

// GLFW keeps process-wide state, so only one Subsystem may be initialised
// at a time.
var initialised atomic.Bool

var ErrAlreadyInitialised = errors.New("glfw is already initialised in this process")

type Subsystem struct {
	onError   window.ErrorCallback
	lastError *window.PlatformError
	windows   map[*glfw.Window]*nativeWindow
}

var _ window.Subsystem = (*Subsystem)(nil)

func New() *Subsystem {
	return &Subsystem{windows: map[*glfw.Window]*nativeWindow{}}
}

func (s *Subsystem) Init() (err error) {
	if !initialised.CompareAndSwap(false, true) {
		return ErrAlreadyInitialised
	}
	defer func() {
		if err != nil {
			initialised.Store(false)
		}
	}()
	defer s.catch(&err)
	if err := glfw.Init(); err != nil {
		return s.report(err)
	}
	return nil
}

func (s *Subsystem) Terminate() {
	if !initialised.Load() {
		return
	}
	defer s.catch(nil)
	for w := range s.windows {
		delete(s.windows, w)
	}
	glfw.Terminate()
	initialised.Store(false)
}

func (s *Subsystem) SetErrorCallback(cb window.ErrorCallback) {
	s.onError = cb
}

func (s *Subsystem) DefaultWindowHints() {
	defer s.catch(nil)
	glfw.DefaultWindowHints()
}

func (s *Subsystem) WindowHint(hint window.Hint, value int) {
	defer s.catch(nil)
	switch hint {
	case window.HintContextVersionMajor:
		glfw.WindowHint(glfw.ContextVersionMajor, value)
	case window.HintContextVersionMinor:
		glfw.WindowHint(glfw.ContextVersionMinor, value)
	case window.HintOpenGLProfile:
		glfw.WindowHint(glfw.OpenGLProfile, profile(window.Profile(value)))
	case window.HintOpenGLForwardCompatible:
		glfw.WindowHint(glfw.OpenGLForwardCompatible, boolean(value))
	case window.HintResizable:
		glfw.WindowHint(glfw.Resizable, boolean(value))
	case window.HintDoubleBuffer:
		glfw.WindowHint(glfw.DoubleBuffer, boolean(value))
	case window.HintVisible:
		glfw.WindowHint(glfw.Visible, boolean(value))
	}
}

func profile(p window.Profile) int {
	switch p {
	case window.ProfileCore:
		return glfw.OpenGLCoreProfile
	case window.ProfileCompat:
		return glfw.OpenGLCompatProfile
	default:
		return glfw.OpenGLAnyProfile
	}
}

func boolean(v int) int {
	if v != 0 {
		return glfw.True
	}
	return glfw.False
}

func (s *Subsystem) CreateWindow(width, height int, title string) (_ window.NativeWindow, err error) {
	defer s.catch(&err)
	w, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, s.report(err)
	}
	n := &nativeWindow{sub: s, w: w}
	s.windows[w] = n
	return n, nil
}

func (s *Subsystem) CurrentContext() window.NativeWindow {
	defer s.catch(nil)
	cur := glfw.GetCurrentContext()
	if cur == nil {
		return nil
	}
	if n, ok := s.windows[cur]; ok {
		return n
	}
	return nil
}

func (s *Subsystem) SwapInterval(interval int) {
	defer s.catch(nil)
	glfw.SwapInterval(interval)
}

func (s *Subsystem) PollEvents() {
	defer s.catch(nil)
	glfw.PollEvents()
}

func (s *Subsystem) GetProcAddress(name string) (p unsafe.Pointer) {
	defer s.catch(nil)
	return glfw.GetProcAddress(name)
}

func (s *Subsystem) LastError() *window.PlatformError {
	return s.lastError
}

// report converts a GLFW error, remembers it and hands it to the error
// callback. Other errors are returned unchanged.
func (s *Subsystem) report(err error) error {
	var gerr *glfw.Error
	if !errors.As(err, &gerr) {
		return err
	}
	perr := &window.PlatformError{Code: int(gerr.Code), Desc: gerr.Desc, Class: classify(gerr.Code)}
	s.lastError = perr
	if s.onError != nil {
		s.onError(perr)
	}
	return perr
}

func classify(code glfw.ErrorCode) window.ErrorClass {
	switch code {
	case glfw.VersionUnavailable:
		return window.ClassVersionUnavailable
	case glfw.APIUnavailable:
		return window.ClassAPIUnavailable
	default:
		return window.ClassOther
	}
}

// catch turns the panics the bindings raise for GLFW errors into a
// reported error. When errp is nil the error is only reported.
func (s *Subsystem) catch(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("glfw: %v", r)
	}
	err = s.report(err)
	if errp != nil {
		*errp = err
	}
}

type nativeWindow struct {
	sub *Subsystem
	w   *glfw.Window
}

var _ window.NativeWindow = (*nativeWindow)(nil)

func (n *nativeWindow) MakeContextCurrent() (err error) {
	defer n.sub.catch(&err)
	n.w.MakeContextCurrent()
	return nil
}

func (n *nativeWindow) ShouldClose() bool {
	defer n.sub.catch(nil)
	return n.w.ShouldClose()
}

func (n *nativeWindow) SetShouldClose(value bool) {
	defer n.sub.catch(nil)
	n.w.SetShouldClose(value)
}

func (n *nativeWindow) SwapBuffers() {
	defer n.sub.catch(nil)
	n.w.SwapBuffers()
}

func (n *nativeWindow) FramebufferSize() (width, height int) {
	defer n.sub.catch(nil)
	return n.w.GetFramebufferSize()
}

func (n *nativeWindow) SetUserPointer(p unsafe.Pointer) {
	defer n.sub.catch(nil)
	n.w.SetUserPointer(p)
}

func (n *nativeWindow) UserPointer() unsafe.Pointer {
	defer n.sub.catch(nil)
	return n.w.GetUserPointer()
}

func (n *nativeWindow) SetFramebufferSizeCallback(cb window.FramebufferSizeCallback) {
	defer n.sub.catch(nil)
	if cb == nil {
		n.w.SetFramebufferSizeCallback(nil)
		return
	}
	n.w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		cb(n, width, height)
	})
}

func (n *nativeWindow) Destroy() {
	defer n.sub.catch(nil)
	delete(n.sub.windows, n.w)
	n.w.Destroy()
}
