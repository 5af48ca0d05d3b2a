package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"runtime"
	"slices"

	"github.com/boxelgame/boxel/lib/glload"
	"github.com/boxelgame/boxel/lib/log"
	"github.com/boxelgame/boxel/lib/probe"
	"github.com/boxelgame/boxel/lib/rendering"
	"github.com/boxelgame/boxel/lib/window"
	"github.com/boxelgame/boxel/lib/window/backends"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

type report struct {
	Backend     string            `json:"backend"`
	Results     []probe.Result    `json:"results"`
	Highest     string            `json:"highest,omitempty"`
	Environment map[string]string `json:"environment"`
}

func main() {
	backend := flag.String("backend", "glfw", "Window backend to probe with (glfw or sdl)")
	asJSON := flag.Bool("json", false, "Print the report as JSON")
	verbose := flag.Bool("v", false, "Log every attempt")
	flag.Parse()

	level := "error"
	if *verbose {
		level = "debug"
	}
	sink, err := log.Setup(level, "", os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
	defer sink.Close()

	p := &probe.Prober{
		NewSubsystem: func() (window.Subsystem, error) { return backends.New(*backend) },
		NewGL:        func(req window.ContextRequest) window.GL { return rendering.New(req.Major, req.Minor) },
		Library:      glload.SystemLibrary(),
		Logger:       sink.Logger,
	}
	rep := report{
		Backend:     *backend,
		Results:     p.Run(probe.Matrix()),
		Environment: probe.GPUEnvironment(),
	}
	best, ok := probe.Highest(rep.Results)
	if ok {
		rep.Highest = best.Name
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			slog.Error("could not encode report", "error", err)
			os.Exit(1)
		}
	} else {
		printReport(os.Stdout, rep, best)
	}
	if !ok {
		os.Exit(1)
	}
}

func printReport(w io.Writer, rep report, best probe.Result) {
	fmt.Fprintf(w, "OpenGL compatibility on %s (%s backend)\n\n", runtime.GOOS, rep.Backend)
	for _, r := range rep.Results {
		if r.Success {
			fmt.Fprintf(w, "  ok    %-28s %s\n", r.Name, r.Identity.Version)
		} else {
			fmt.Fprintf(w, "  fail  %-28s %s\n", r.Name, r.Kind)
		}
	}

	fmt.Fprintln(w)
	if rep.Highest == "" {
		fmt.Fprintln(w, "No OpenGL version could be created. Check the driver installation.")
	} else {
		fmt.Fprintf(w, "Highest working: %s\n", rep.Highest)
		fmt.Fprintf(w, "  renderer: %s\n  vendor:   %s\n  glsl:     %s\n",
			best.Identity.Renderer, best.Identity.Vendor, best.Identity.ShadingLanguage)
		fmt.Fprintf(w, "  config:   context: {major: %d, minor: %d, profile: %s}\n",
			best.Request.Major, best.Request.Minor, best.Request.Profile)
	}

	fmt.Fprintln(w, "\nGPU selection environment:")
	if len(rep.Environment) == 0 {
		fmt.Fprintln(w, "  (none set; try DRI_PRIME=1 or __NV_PRIME_RENDER_OFFLOAD=1 __GLX_VENDOR_LIBRARY_NAME=nvidia)")
	}
	for _, k := range slices.Sorted(maps.Keys(rep.Environment)) {
		fmt.Fprintf(w, "  %s=%s\n", k, rep.Environment[k])
	}
}
