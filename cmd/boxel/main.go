package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/boxelgame/boxel/lib/app"
	"github.com/boxelgame/boxel/lib/config"
	"github.com/boxelgame/boxel/lib/glload"
	"github.com/boxelgame/boxel/lib/rendering"
	"github.com/boxelgame/boxel/lib/window/backends"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

// @title			boxel
// @version		1.0
// @description	Status and control endpoints of a running boxel window.
// @BasePath		/
func main() {
	configPath := flag.String("config", "", "YAML config file; built-in defaults are used when empty")
	logLevel := flag.String("log-level", "", "Override the configured log level (debug, info, warn, error)")
	flag.Parse()

	os.Exit(run(*configPath, *logLevel))
}

func run(configPath string, logLevel string) int {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Parse(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config invalid: %s\n", err)
			return 1
		}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	sub, err := backends.New(cfg.Backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}

	a, err := app.New(cfg, app.Options{
		Subsystem:  sub,
		GL:         rendering.New(cfg.Context.Major, cfg.Context.Minor),
		Library:    glload.SystemLibrary(),
		ConfigPath: configPath,
	})
	if err != nil {
		report(err)
		return 1
	}

	runErr := a.Run()
	closeErr := a.Close()
	if runErr != nil {
		report(runErr)
		return 1
	}
	if closeErr != nil {
		report(closeErr)
		return 1
	}
	return 0
}

func report(err error) {
	slog.Error("boxel stopped", "class", app.Class(err), "error", err)
	if hint := app.Remedy(err); hint != "" {
		slog.Info("what to try: " + hint)
	}
}
