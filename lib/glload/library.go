package glload

import (
	"fmt"
	"sync"
	"unsafe"
)

// sharedLibrary opens the first of names that loads, on first use.
type sharedLibrary struct {
	names  []string
	dlopen func(name string) (uintptr, error)
	dlsym  func(handle uintptr, name string) (uintptr, error)

	once   sync.Once
	handle uintptr
	err    error
}

var system = &sharedLibrary{names: libraryNames, dlopen: openLibrary, dlsym: librarySymbol}

// SystemLibrary is the platform OpenGL library. It is opened at most once
// per process and never closed.
func SystemLibrary() Library {
	return system
}

func (s *sharedLibrary) open() {
	var errs []error
	for _, name := range s.names {
		h, err := s.dlopen(name)
		if err == nil {
			s.handle = h
			return
		}
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	s.err = fmt.Errorf("could not open an OpenGL library: %v", errs)
}

func (s *sharedLibrary) Symbol(name string) (unsafe.Pointer, error) {
	s.once.Do(s.open)
	if s.err != nil {
		return nil, s.err
	}
	addr, err := s.dlsym(s.handle, name)
	if err != nil {
		return nil, err
	}
	if addr == 0 {
		return nil, fmt.Errorf("%s resolved to NULL", name)
	}
	return unsafe.Pointer(addr), nil
}
