package glload

import (
	"errors"
	"runtime"
	"strings"
	"testing"
)

type fakeLoader struct {
	opened  []string
	present map[string]uintptr
}

func (f *fakeLoader) dlopen(name string) (uintptr, error) {
	f.opened = append(f.opened, name)
	if h, ok := f.present[name]; ok {
		return h, nil
	}
	return 0, errors.New("not found")
}

func (f *fakeLoader) dlsym(handle uintptr, name string) (uintptr, error) {
	if name == "glMissing" {
		return 0, nil
	}
	return handle + uintptr(len(name)), nil
}

func (f *fakeLoader) library(names ...string) *sharedLibrary {
	return &sharedLibrary{names: names, dlopen: f.dlopen, dlsym: f.dlsym}
}

func TestLibraryOpensOnce(t *testing.T) {
	f := &fakeLoader{present: map[string]uintptr{"libGL.so.1": 0x1000}}
	lib := f.library("libGL.so.1", "libGL.so")

	for _, name := range []string{"glClear", "glViewport", "glClear", "glGetString"} {
		if p, err := lib.Symbol(name); err != nil || p == nil {
			t.Fatalf("%s: %v %v", name, p, err)
		}
	}
	if len(f.opened) != 1 || f.opened[0] != "libGL.so.1" {
		t.Fatalf("opened %v", f.opened)
	}
}

func TestLibraryFallsBackInOrder(t *testing.T) {
	f := &fakeLoader{present: map[string]uintptr{"libGL.so": 0x2000}}
	lib := f.library("libGL.so.1", "libGL.so")

	if _, err := lib.Symbol("glClear"); err != nil {
		t.Fatal(err)
	}
	if strings.Join(f.opened, ",") != "libGL.so.1,libGL.so" {
		t.Fatalf("opened %v", f.opened)
	}
	if lib.handle != 0x2000 {
		t.Fatalf("handle %#x", lib.handle)
	}
}

func TestLibraryFailureIsCached(t *testing.T) {
	f := &fakeLoader{}
	lib := f.library("libGL.so.1", "libGL.so")

	_, err1 := lib.Symbol("glClear")
	_, err2 := lib.Symbol("glViewport")
	if err1 == nil || err1 != err2 {
		t.Fatalf("errors %v and %v", err1, err2)
	}
	if !strings.Contains(err1.Error(), "libGL.so.1") || !strings.Contains(err1.Error(), "libGL.so:") {
		t.Fatalf("error does not name every candidate: %s", err1)
	}
	if len(f.opened) != 2 {
		t.Fatalf("opened %v", f.opened)
	}
}

func TestLibraryNullSymbol(t *testing.T) {
	f := &fakeLoader{present: map[string]uintptr{"libGL.so.1": 0x1000}}
	if _, err := f.library("libGL.so.1").Symbol("glMissing"); err == nil {
		t.Fatal("NULL symbol accepted")
	}
}

func TestSystemLibraryNames(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux library names")
	}
	if strings.Join(system.names, ",") != "libGL.so.1,libGL.so" {
		t.Fatalf("names %v", system.names)
	}
}
