package glfwbackend

import (
	"errors"
	"testing"

	"github.com/boxelgame/boxel/lib/window"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestReportClassifiesErrors(t *testing.T) {
	s := New()
	var seen []*window.PlatformError
	s.SetErrorCallback(func(err *window.PlatformError) { seen = append(seen, err) })

	err := s.report(&glfw.Error{Code: glfw.VersionUnavailable, Desc: "GLX: Failed to create context"})

	var perr *window.PlatformError
	if !errors.As(err, &perr) {
		t.Fatalf("unexpected error %T", err)
	}
	if perr.Class != window.ClassVersionUnavailable || perr.Code != int(glfw.VersionUnavailable) {
		t.Fatalf("unexpected platform error %+v", perr)
	}
	if s.LastError() != perr || len(seen) != 1 {
		t.Fatal("error not recorded or not forwarded")
	}
}

func TestReportPassesOtherErrors(t *testing.T) {
	s := New()
	plain := errors.New("plain")
	if err := s.report(plain); err != plain {
		t.Fatalf("got %v", err)
	}
	if s.LastError() != nil {
		t.Fatal("plain error recorded as platform error")
	}
}

func TestCatchRecoversBindingPanics(t *testing.T) {
	s := New()
	err := func() (err error) {
		defer s.catch(&err)
		panic(&glfw.Error{Code: glfw.APIUnavailable, Desc: "no GL"})
	}()

	var perr *window.PlatformError
	if !errors.As(err, &perr) || perr.Class != window.ClassAPIUnavailable {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestHintValues(t *testing.T) {
	if profile(window.ProfileCore) != glfw.OpenGLCoreProfile ||
		profile(window.ProfileCompat) != glfw.OpenGLCompatProfile ||
		profile(window.ProfileAny) != glfw.OpenGLAnyProfile {
		t.Fatal("profile mapping")
	}
	if boolean(3) != glfw.True || boolean(0) != glfw.False {
		t.Fatal("boolean mapping")
	}
}

func TestSecondInitIsRefused(t *testing.T) {
	initialised.Store(true)
	defer initialised.Store(false)

	if err := New().Init(); !errors.Is(err, ErrAlreadyInitialised) {
		t.Fatalf("got %v", err)
	}
	if !initialised.Load() {
		t.Fatal("refused Init cleared the process flag")
	}
}

func TestTerminateWithoutInitDoesNothing(t *testing.T) {
	s := New()
	s.windows[nil] = &nativeWindow{}

	s.Terminate()
	s.Terminate()

	if len(s.windows) != 1 || initialised.Load() {
		t.Fatal("Terminate ran without Init")
	}
}
