package window

import (
	"fmt"
	"unsafe"
)

// Hint is a backend-neutral window creation hint.
type Hint int

const (
	HintContextVersionMajor Hint = iota
	HintContextVersionMinor
	HintOpenGLProfile
	HintOpenGLForwardCompatible
	HintResizable
	HintDoubleBuffer
	HintVisible
)

// Profile is the requested OpenGL profile, used as HintOpenGLProfile value.
type Profile int

const (
	ProfileAny Profile = iota
	ProfileCore
	ProfileCompat
)

func (p Profile) String() string {
	switch p {
	case ProfileCore:
		return "core"
	case ProfileCompat:
		return "compat"
	default:
		return "any"
	}
}

// ParseProfile accepts the names String produces.
func ParseProfile(name string) (Profile, error) {
	switch name {
	case "core":
		return ProfileCore, nil
	case "compat":
		return ProfileCompat, nil
	case "any", "":
		return ProfileAny, nil
	}
	return ProfileAny, fmt.Errorf("unknown OpenGL profile %q", name)
}

// ErrorClass groups platform errors by what the user can do about them.
type ErrorClass int

const (
	ClassOther ErrorClass = iota
	ClassVersionUnavailable
	ClassAPIUnavailable
)

// PlatformError is an error reported by the windowing library itself.
type PlatformError struct {
	Code  int
	Desc  string
	Class ErrorClass
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform error 0x%05X: %s", e.Code, e.Desc)
}

type ErrorCallback func(err *PlatformError)

type FramebufferSizeCallback func(w NativeWindow, width, height int)

// Subsystem is the process-wide part of a windowing library. Init and
// Terminate must be paired; everything else needs a successful Init.
type Subsystem interface {
	Init() error
	Terminate()
	SetErrorCallback(cb ErrorCallback)
	DefaultWindowHints()
	WindowHint(hint Hint, value int)
	CreateWindow(width, height int, title string) (NativeWindow, error)
	CurrentContext() NativeWindow
	SwapInterval(interval int)
	PollEvents()
	GetProcAddress(name string) unsafe.Pointer
	LastError() *PlatformError
}

// NativeWindow is a window together with its OpenGL context.
type NativeWindow interface {
	MakeContextCurrent() error
	ShouldClose() bool
	SetShouldClose(value bool)
	SwapBuffers()
	FramebufferSize() (width, height int)
	SetUserPointer(p unsafe.Pointer)
	UserPointer() unsafe.Pointer
	SetFramebufferSizeCallback(cb FramebufferSizeCallback)
	Destroy()
}

// Identity is what the driver reports about itself.
type Identity struct {
	Version         string
	Renderer        string
	Vendor          string
	ShadingLanguage string
}

// GL is the handful of OpenGL calls the owner needs during bring-up.
type GL interface {
	Bind(procAddr func(name string) unsafe.Pointer) error
	EnableDepthTest()
	Viewport(x, y, width, height int)
	Identity() Identity
}

// Window is what a render loop needs from a window. Both the real owner
// and windowtest.Window implement it.
type Window interface {
	ShouldClose() bool
	SetShouldClose(value bool)
	PollEvents()
	SwapBuffers()
	FramebufferSize() (width, height int)
	Width() int
	Height() int
	Title() string
}
