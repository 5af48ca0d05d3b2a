//go:build linux

package app_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/boxelgame/boxel/lib/app"
	"github.com/boxelgame/boxel/lib/config"
	"github.com/boxelgame/boxel/lib/window/windowtest"
)

func openDescriptors(t *testing.T, path string) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("cannot list descriptors: %s", err)
	}
	n := 0
	for _, e := range entries {
		target, err := os.Readlink(filepath.Join("/proc/self/fd", e.Name()))
		if err == nil && target == path {
			n++
		}
	}
	return n
}

func TestFailedNewClosesLogFile(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "boxel.log")
	cfg := testConfig()
	cfg.Log.File = config.CfgPath(path)
	cfg.ClearColour = "blue"

	_, err = app.New(cfg, app.Options{Subsystem: &windowtest.Subsystem{}, GL: &closingGL{}, Out: &bytes.Buffer{}})
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file was never opened: %s", err)
	}
	if n := openDescriptors(t, path); n != 0 {
		t.Fatalf("%d descriptors still open on %s", n, path)
	}
}
