//go:build !(darwin || freebsd || linux || windows)

package glload

import "errors"

var libraryNames []string

var errUnsupported = errors.New("no OpenGL library loader on this platform")

func openLibrary(string) (uintptr, error) {
	return 0, errUnsupported
}

func librarySymbol(uintptr, string) (uintptr, error) {
	return 0, errUnsupported
}
