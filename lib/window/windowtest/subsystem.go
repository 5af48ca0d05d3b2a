package windowtest

import (
	"errors"
	"unsafe"

	"github.com/boxelgame/boxel/lib/window"
)

// Subsystem is a window.Subsystem without a display. The exported fields
// program failures; the counters record what the owner did.
type Subsystem struct {
	// InitErr fails Init.
	InitErr error
	// CreateErr fails CreateWindow. If it is a *window.PlatformError it is
	// also reported through the error callback.
	CreateErr error
	// MakeCurrentErr fails MakeContextCurrent.
	MakeCurrentErr error
	// NoCurrentContext makes CurrentContext report nothing current.
	NoCurrentContext bool
	// SwapIntervalErr is reported through the error callback when the
	// swap interval is set, which otherwise succeeds.
	SwapIntervalErr *window.PlatformError
	// MissingProcs are resolved as nil by GetProcAddress.
	MissingProcs []string
	// PanicInCreate makes CreateWindow panic, like some bindings do on
	// unexpected library errors.
	PanicInCreate any
	// FramebufferScale multiplies the logical size to get the framebuffer
	// size, like a HiDPI display. Zero means 1.
	FramebufferScale int

	InitCalls      int
	TerminateCalls int
	PollCalls      int
	Hints          map[window.Hint]int
	Interval       int
	Windows        []*Native

	errorCallback window.ErrorCallback
	lastError     *window.PlatformError
	current       *Native
	procs         [8]byte
}

var _ window.Subsystem = (*Subsystem)(nil)

var (
	ErrNotInitialised     = errors.New("subsystem not initialised")
	ErrAlreadyInitialised = errors.New("subsystem already initialised")
)

func (s *Subsystem) initialised() bool {
	return s.InitCalls > s.TerminateCalls
}

func (s *Subsystem) Init() error {
	if s.InitErr != nil {
		return s.InitErr
	}
	if s.initialised() {
		return ErrAlreadyInitialised
	}
	s.InitCalls++
	return nil
}

func (s *Subsystem) Terminate() {
	if !s.initialised() {
		return
	}
	for _, w := range s.Windows {
		w.destroy()
	}
	s.current = nil
	s.TerminateCalls++
}

func (s *Subsystem) SetErrorCallback(cb window.ErrorCallback) {
	s.errorCallback = cb
}

func (s *Subsystem) DefaultWindowHints() {
	s.Hints = map[window.Hint]int{}
}

func (s *Subsystem) WindowHint(hint window.Hint, value int) {
	if s.Hints == nil {
		s.Hints = map[window.Hint]int{}
	}
	s.Hints[hint] = value
}

func (s *Subsystem) CreateWindow(width, height int, title string) (window.NativeWindow, error) {
	if !s.initialised() {
		return nil, ErrNotInitialised
	}
	if s.PanicInCreate != nil {
		panic(s.PanicInCreate)
	}
	if s.CreateErr != nil {
		var perr *window.PlatformError
		if errors.As(s.CreateErr, &perr) {
			s.report(perr)
		}
		return nil, s.CreateErr
	}
	scale := s.FramebufferScale
	if scale == 0 {
		scale = 1
	}
	w := &Native{
		sub:      s,
		Title:    title,
		fbWidth:  width * scale,
		fbHeight: height * scale,
	}
	s.Windows = append(s.Windows, w)
	return w, nil
}

func (s *Subsystem) CurrentContext() window.NativeWindow {
	if s.NoCurrentContext || s.current == nil {
		return nil
	}
	return s.current
}

func (s *Subsystem) SwapInterval(interval int) {
	s.Interval = interval
	if s.SwapIntervalErr != nil {
		s.report(s.SwapIntervalErr)
	}
}

func (s *Subsystem) PollEvents() {
	s.PollCalls++
}

func (s *Subsystem) GetProcAddress(name string) unsafe.Pointer {
	if s.current == nil {
		return nil
	}
	for _, m := range s.MissingProcs {
		if m == name {
			return nil
		}
	}
	return unsafe.Pointer(&s.procs[len(name)%len(s.procs)])
}

func (s *Subsystem) LastError() *window.PlatformError {
	return s.lastError
}

// LiveWindows counts windows created and not yet destroyed.
func (s *Subsystem) LiveWindows() int {
	n := 0
	for _, w := range s.Windows {
		if !w.Destroyed {
			n++
		}
	}
	return n
}

// Native is the window handle Subsystem hands out.
type Native struct {
	sub *Subsystem

	Title        string
	Destroyed    bool
	DestroyCalls int
	SwapCalls    int

	shouldClose bool
	fbWidth     int
	fbHeight    int
	user        unsafe.Pointer
	resize      window.FramebufferSizeCallback
}

var _ window.NativeWindow = (*Native)(nil)

func (n *Native) MakeContextCurrent() error {
	if n.sub.MakeCurrentErr != nil {
		return n.sub.MakeCurrentErr
	}
	n.sub.current = n
	return nil
}

func (n *Native) ShouldClose() bool {
	return n.shouldClose
}

func (n *Native) SetShouldClose(value bool) {
	n.shouldClose = value
}

func (n *Native) SwapBuffers() {
	n.SwapCalls++
}

func (n *Native) FramebufferSize() (width, height int) {
	return n.fbWidth, n.fbHeight
}

func (n *Native) SetUserPointer(p unsafe.Pointer) {
	n.user = p
}

func (n *Native) UserPointer() unsafe.Pointer {
	return n.user
}

func (n *Native) SetFramebufferSizeCallback(cb window.FramebufferSizeCallback) {
	n.resize = cb
}

func (n *Native) Destroy() {
	n.DestroyCalls++
	n.destroy()
}

func (n *Native) destroy() {
	if n.sub.current == n {
		n.sub.current = nil
	}
	n.Destroyed = true
}

// Resize changes the framebuffer size and delivers the resize callback,
// as the library would from inside PollEvents.
func (n *Native) Resize(width, height int) {
	n.fbWidth = width
	n.fbHeight = height
	if n.resize != nil {
		n.resize(n, width, height)
	}
}

func (s *Subsystem) report(perr *window.PlatformError) {
	s.lastError = perr
	if s.errorCallback != nil {
		s.errorCallback(perr)
	}
}
