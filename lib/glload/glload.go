// Package glload resolves OpenGL entry points at runtime.
//
// A context-bound resolver (the windowing library's GetProcAddress) is
// asked first. Symbols it cannot produce are looked up directly in the
// system OpenGL library, which is opened lazily once per process.
package glload

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"
)

// Required lists the entry points the application cannot run without.
var Required = []string{
	"glClearColor",
	"glClear",
	"glViewport",
	"glEnable",
	"glGetString",
}

// ProbeSymbol is looked up on its own when loading fails, to tell "some
// functions are missing" apart from "no OpenGL library at all".
const ProbeSymbol = "glGetString"

var ErrIncomplete = errors.New("required OpenGL entry points are missing")

// IncompleteError reports how many required symbols did not resolve.
type IncompleteError struct {
	Missing  int
	Required int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s (%d of %d)", ErrIncomplete, e.Missing, e.Required)
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncomplete
}

// ProcAddressFunc resolves a symbol in the current context, nil if unknown.
type ProcAddressFunc func(name string) unsafe.Pointer

// Library is a dynamically opened shared library.
type Library interface {
	Symbol(name string) (unsafe.Pointer, error)
}

// FunctionTable maps symbol names to entry points.
type FunctionTable map[string]unsafe.Pointer

type Loader struct {
	resolve  ProcAddressFunc
	fallback Library
	table    FunctionTable
	logger   *slog.Logger
}

// New builds a loader. Either source may be nil.
func New(resolve ProcAddressFunc, fallback Library) *Loader {
	return &Loader{
		resolve:  resolve,
		fallback: fallback,
		logger:   slog.Default().With("module", "glload"),
	}
}

// Resolve looks name up without touching the table.
func (l *Loader) Resolve(name string) unsafe.Pointer {
	if l.resolve != nil {
		if p := l.resolve(name); p != nil {
			return p
		}
	}
	if l.fallback != nil {
		p, err := l.fallback.Symbol(name)
		if err != nil {
			l.logger.Debug("library lookup failed", "symbol", name, "error", err)
			return nil
		}
		return p
	}
	return nil
}

// LoadAll resolves every Required symbol. The table is only committed
// when all of them resolved; otherwise an *IncompleteError is returned and
// the loader stays as it was. Once loaded, further calls are no-ops.
func (l *Loader) LoadAll() error {
	if l.table != nil {
		return nil
	}

	table := make(FunctionTable, len(Required))
	missing := 0
	for _, name := range Required {
		p := l.Resolve(name)
		if p == nil {
			missing++
			continue
		}
		table[name] = p
	}
	if missing > 0 {
		return &IncompleteError{Missing: missing, Required: len(Required)}
	}

	l.table = table
	l.logger.Debug("resolved required entry points", "count", len(table))
	return nil
}

func (l *Loader) Loaded() bool {
	return l.table != nil
}

// Lookup returns a symbol from the committed table.
func (l *Loader) Lookup(name string) (unsafe.Pointer, bool) {
	p, ok := l.table[name]
	return p, ok
}

// ProcAddress serves the table first and resolves anything else on
// demand. It has the shape OpenGL bindings expect.
func (l *Loader) ProcAddress(name string) unsafe.Pointer {
	if p, ok := l.table[name]; ok {
		return p
	}
	return l.Resolve(name)
}
