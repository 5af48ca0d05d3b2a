package window

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindSubsystemInit Kind = iota + 1
	KindWindowCreation
	KindContextActivation
	KindFunctionLoad
)

func (k Kind) String() string {
	switch k {
	case KindSubsystemInit:
		return "SubsystemInitError"
	case KindWindowCreation:
		return "WindowCreationError"
	case KindContextActivation:
		return "ContextActivationError"
	case KindFunctionLoad:
		return "FunctionLoadError"
	default:
		return "WindowError"
	}
}

// Sentinels to match an *Error's kind with errors.Is.
var (
	ErrSubsystemInit     = errors.New("subsystem initialisation failed")
	ErrWindowCreation    = errors.New("window creation failed")
	ErrContextActivation = errors.New("context activation failed")
	ErrFunctionLoad      = errors.New("function loading failed")
)

// Error is a failure to bring the window up. Code and Desc carry the
// platform error when the windowing library reported one; Remedy is a
// hint the user can act on.
type Error struct {
	Kind   Kind
	Msg    string
	Code   int
	Desc   string
	Remedy string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	var perr *PlatformError
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Desc != "" && !errors.As(e.Err, &perr) {
		b.WriteString(fmt.Sprintf(" (platform error 0x%05X: %s)", e.Code, e.Desc))
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrSubsystemInit:
		return e.Kind == KindSubsystemInit
	case ErrWindowCreation:
		return e.Kind == KindWindowCreation
	case ErrContextActivation:
		return e.Kind == KindContextActivation
	case ErrFunctionLoad:
		return e.Kind == KindFunctionLoad
	}
	return false
}

// IsWindowError reports whether err is, or wraps, an *Error.
func IsWindowError(err error) bool {
	var werr *Error
	return errors.As(err, &werr)
}
