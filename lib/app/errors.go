package app

import (
	"errors"
	"fmt"

	"github.com/boxelgame/boxel/lib/window"
)

// InitializationError is a startup failure outside the window owner.
type InitializationError struct {
	Component string
	Err       error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %s", e.Component, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// wrap leaves domain errors alone and names the component for the rest.
func wrap(component string, err error) error {
	if err == nil || window.IsWindowError(err) {
		return err
	}
	var ierr *InitializationError
	if errors.As(err, &ierr) {
		return err
	}
	return &InitializationError{Component: component, Err: err}
}

// Class names the error for the final log line and exit.
func Class(err error) string {
	var werr *window.Error
	if errors.As(err, &werr) {
		return werr.Kind.String()
	}
	var ierr *InitializationError
	if errors.As(err, &ierr) {
		return "InitializationError"
	}
	return "Error"
}

// Remedy is the user hint carried by err, if any.
func Remedy(err error) string {
	var werr *window.Error
	if errors.As(err, &werr) {
		return werr.Remedy
	}
	return ""
}
