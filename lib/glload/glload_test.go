package glload_test

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/boxelgame/boxel/lib/glload"
)

// symbols hands out distinct non-nil pointers for the names it knows.
type symbols struct {
	known map[string]bool
	slots [16]byte
	calls map[string]int
}

func newSymbols(names ...string) *symbols {
	s := &symbols{known: map[string]bool{}, calls: map[string]int{}}
	for _, n := range names {
		s.known[n] = true
	}
	return s
}

func (s *symbols) resolve(name string) unsafe.Pointer {
	s.calls[name]++
	if !s.known[name] {
		return nil
	}
	return unsafe.Pointer(&s.slots[len(name)%len(s.slots)])
}

func (s *symbols) Symbol(name string) (unsafe.Pointer, error) {
	p := s.resolve(name)
	if p == nil {
		return nil, errors.New("undefined symbol " + name)
	}
	return p, nil
}

func TestLoadAllFromResolver(t *testing.T) {
	ctx := newSymbols(glload.Required...)
	l := glload.New(ctx.resolve, nil)

	if err := l.LoadAll(); err != nil {
		t.Fatal(err)
	}
	if !l.Loaded() {
		t.Fatal("loader not marked loaded")
	}
	for _, name := range glload.Required {
		if p, ok := l.Lookup(name); !ok || p == nil {
			t.Errorf("%s missing from table", name)
		}
	}
}

func TestLoadAllFallsBackToLibrary(t *testing.T) {
	ctx := newSymbols("glClearColor", "glClear")
	lib := newSymbols("glViewport", "glEnable", "glGetString")
	l := glload.New(ctx.resolve, lib)

	if err := l.LoadAll(); err != nil {
		t.Fatal(err)
	}
	if lib.calls["glClear"] != 0 {
		t.Error("library consulted for a symbol the context resolved")
	}
	if lib.calls["glViewport"] != 1 {
		t.Errorf("library consulted %d times for glViewport", lib.calls["glViewport"])
	}
}

func TestLoadAllFailsOnAnyMissingSymbol(t *testing.T) {
	for _, missing := range glload.Required {
		t.Run(missing, func(t *testing.T) {
			var present []string
			for _, n := range glload.Required {
				if n != missing {
					present = append(present, n)
				}
			}
			l := glload.New(newSymbols(present...).resolve, nil)

			err := l.LoadAll()
			if !errors.Is(err, glload.ErrIncomplete) {
				t.Fatalf("expected ErrIncomplete, got %v", err)
			}
			var incomplete *glload.IncompleteError
			if !errors.As(err, &incomplete) || incomplete.Missing != 1 || incomplete.Required != len(glload.Required) {
				t.Fatalf("unexpected error detail %v", err)
			}
			if l.Loaded() {
				t.Fatal("loader marked loaded after a failure")
			}
			for _, n := range present {
				if _, ok := l.Lookup(n); ok {
					t.Fatalf("%s committed despite the failure", n)
				}
			}
		})
	}
}

func TestLoadAllWithoutSources(t *testing.T) {
	err := glload.New(nil, nil).LoadAll()
	var incomplete *glload.IncompleteError
	if !errors.As(err, &incomplete) || incomplete.Missing != len(glload.Required) {
		t.Fatalf("expected every symbol missing, got %v", err)
	}
}

func TestLoadAllIsIdempotent(t *testing.T) {
	ctx := newSymbols(glload.Required...)
	l := glload.New(ctx.resolve, nil)
	if err := l.LoadAll(); err != nil {
		t.Fatal(err)
	}
	if err := l.LoadAll(); err != nil {
		t.Fatal(err)
	}
	if ctx.calls["glClear"] != 1 {
		t.Fatalf("glClear resolved %d times", ctx.calls["glClear"])
	}
}

func TestProcAddressResolvesOutsideTable(t *testing.T) {
	ctx := newSymbols(append([]string{"glDrawArrays"}, glload.Required...)...)
	l := glload.New(ctx.resolve, nil)
	if err := l.LoadAll(); err != nil {
		t.Fatal(err)
	}

	if l.ProcAddress("glDrawArrays") == nil {
		t.Error("non-required symbol not resolved on demand")
	}
	if l.ProcAddress("glNoSuchThing") != nil {
		t.Error("unknown symbol resolved")
	}
	before := ctx.calls["glClear"]
	l.ProcAddress("glClear")
	if ctx.calls["glClear"] != before {
		t.Error("table entry re-resolved")
	}
}
