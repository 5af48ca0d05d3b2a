package log_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boxelgame/boxel/lib/log"
)

func TestHandlerPrintsModuleAndAttrs(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(log.NewHandler(&out, false, nil)).With("module", "window")

	logger.Info("window created", "width", 800, "height", 600)

	line := out.String()
	if !strings.Contains(line, "INFO [window] window created") {
		t.Fatalf("unexpected line %q", line)
	}
	if !strings.Contains(line, "height=600") || !strings.Contains(line, "width=800") {
		t.Fatalf("attributes missing from %q", line)
	}
	if strings.Contains(line, "\033[") {
		t.Fatalf("colour escapes written with colour disabled: %q", line)
	}
}

func TestHandlerHonoursLevel(t *testing.T) {
	var out bytes.Buffer
	lvl := &slog.LevelVar{}
	lvl.Set(slog.LevelWarn)
	logger := slog.New(log.NewHandler(&out, false, &slog.HandlerOptions{Level: lvl}))

	logger.Info("hidden")
	if out.Len() != 0 {
		t.Fatalf("info logged at warn level: %q", out.String())
	}

	lvl.Set(slog.LevelDebug)
	logger.Debug("shown")
	if !strings.Contains(out.String(), "shown") {
		t.Fatalf("debug not logged after level change: %q", out.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for name, want := range cases {
		got, err := log.ParseLevel(name)
		if err != nil {
			t.Errorf("ParseLevel(%q): %s", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", name, got, want)
		}
	}
	if _, err := log.ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel accepted an unknown level")
	}
}

func TestSetupWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "boxel.log")
	var out bytes.Buffer
	sink, err := log.Setup("debug", path, &out)
	if err != nil {
		t.Fatal(err)
	}
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	sink.Logger.Debug("to file")
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("second close: %s", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") || !strings.Contains(out.String(), "to file") {
		t.Fatalf("message not written to both outputs: file=%q out=%q", data, out.String())
	}
}
