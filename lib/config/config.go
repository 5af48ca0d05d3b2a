package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/boxelgame/boxel/lib/utils"
	yaml "github.com/goccy/go-yaml"
)

type Config struct {
	Window      *WindowCfg
	Context     *ContextCfg
	Backend     string
	ClearColour string `yaml:"clear_colour"`
	Language    string
	Log         *LogCfg
	Api         *ApiCfg
	WatchConfig bool `yaml:"watch_config"`
}

type WindowCfg struct {
	Width     int
	Height    int
	Title     string
	Resizable *bool
}

type ContextCfg struct {
	Major             int
	Minor             int
	Profile           string
	ForwardCompatible bool `yaml:"forward_compatible"`
	Vsync             *bool
	Visible           *bool
}

type LogCfg struct {
	Level string
	File  CfgPath
}

type ApiCfg struct {
	Bind           string
	EnableProfiler bool `yaml:"enable_profiler"`
}

const (
	BackendGLFW = "glfw"
	BackendSDL  = "sdl"

	ProfileCore   = "core"
	ProfileCompat = "compat"
	ProfileAny    = "any"
)

// Default is what boxel runs with when no config file is given.
func Default() *Config {
	c := &Config{
		Window: &WindowCfg{
			Width:  1280,
			Height: 720,
			Title:  "BoxelGame - Voxel Sandbox",
		},
		Context: &ContextCfg{
			Major:             4,
			Minor:             1,
			Profile:           ProfileCore,
			ForwardCompatible: true,
		},
		Backend:     BackendGLFW,
		ClearColour: "#1a3366ff",
		Language:    "en",
		Log:         &LogCfg{Level: "info"},
	}
	c.fillDefaults()
	return c
}

func Parse(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %s", filename, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}
	UnmarshalBase = filepath.Dir(absFilename)

	m := yaml.NewDecoder(f)
	cfg := &Config{}
	err = m.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", filename, err)
	}
	cfg.fillDefaults()
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	if c.Context == nil {
		c.Context = &ContextCfg{Major: 4, Minor: 1, Profile: ProfileCore, ForwardCompatible: true}
	}
	if c.Context.Profile == "" {
		c.Context.Profile = ProfileAny
	}
	if c.Context.Vsync == nil {
		c.Context.Vsync = ptr(true)
	}
	if c.Context.Visible == nil {
		c.Context.Visible = ptr(true)
	}
	if c.Window != nil && c.Window.Resizable == nil {
		c.Window.Resizable = ptr(true)
	}
	if c.Backend == "" {
		c.Backend = BackendGLFW
	}
	if c.ClearColour == "" {
		c.ClearColour = "#1a3366ff"
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.Log == nil {
		c.Log = &LogCfg{Level: "info"}
	}
}

func ptr[T any](v T) *T {
	return &v
}

func (c *Config) Validate() error {
	if c.Window == nil {
		return fmt.Errorf("the window section must be present")
	}
	if err := c.Window.Validate(); err != nil {
		return fmt.Errorf("window is invalid: %w", err)
	}
	if c.Context == nil {
		return fmt.Errorf("the context section must be present")
	}
	if err := c.Context.Validate(); err != nil {
		return fmt.Errorf("context is invalid: %w", err)
	}
	switch c.Backend {
	case BackendGLFW, BackendSDL:
	default:
		return fmt.Errorf("unknown backend %s (expected %s or %s)", c.Backend, BackendGLFW, BackendSDL)
	}
	if !utils.ColourValidate(c.ClearColour) {
		return fmt.Errorf("%s is not a valid RGBA hex colour", c.ClearColour)
	}
	if c.Log != nil {
		if err := c.Log.Validate(); err != nil {
			return fmt.Errorf("log is invalid: %w", err)
		}
	}
	if c.Api != nil {
		if err := c.Api.Validate(); err != nil {
			return fmt.Errorf("api is invalid: %w", err)
		}
	}
	return nil
}

func (w *WindowCfg) Validate() error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("width and height must be positive, got %dx%d", w.Width, w.Height)
	}
	if w.Title == "" {
		return fmt.Errorf("title must be specified")
	}
	return nil
}

func (c *ContextCfg) Validate() error {
	if c.Major < 1 || c.Minor < 0 {
		return fmt.Errorf("invalid OpenGL version %d.%d", c.Major, c.Minor)
	}
	if c.Major < 2 || (c.Major == 2 && c.Minor < 1) {
		return fmt.Errorf("OpenGL %d.%d is older than 2.1, the oldest supported version", c.Major, c.Minor)
	}
	switch c.Profile {
	case ProfileCore, ProfileCompat:
		if c.Major < 3 || (c.Major == 3 && c.Minor < 2) {
			return fmt.Errorf("the %s profile needs OpenGL 3.2 or newer, got %d.%d (use profile: any)", c.Profile, c.Major, c.Minor)
		}
	case ProfileAny:
	default:
		return fmt.Errorf("unknown profile %s (expected core, compat or any)", c.Profile)
	}
	if c.ForwardCompatible && c.Major < 3 {
		return fmt.Errorf("forward_compatible needs OpenGL 3.0 or newer")
	}
	return nil
}

func (l *LogCfg) Validate() error {
	switch strings.ToLower(l.Level) {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	}
	return fmt.Errorf("unknown log level %s", l.Level)
}

func (a *ApiCfg) Validate() error {
	if a.Bind == "" {
		return fmt.Errorf("bind address must be specified")
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Window:\n")
	b.WriteString(fmt.Sprintf("  %dx%d \"%s\" (resizable: %t)\n", c.Window.Width, c.Window.Height, c.Window.Title, *c.Window.Resizable))

	b.WriteString("\nContext:\n")
	b.WriteString(fmt.Sprintf("  OpenGL %d.%d %s profile (forward compatible: %t, vsync: %t)\n",
		c.Context.Major, c.Context.Minor, c.Context.Profile, c.Context.ForwardCompatible, *c.Context.Vsync))
	b.WriteString(fmt.Sprintf("  backend: %s\n", c.Backend))

	b.WriteString("\nRendering:\n")
	b.WriteString(fmt.Sprintf("  clear colour: %s\n", c.ClearColour))

	b.WriteString("\nLogging:\n")
	b.WriteString(fmt.Sprintf("  level: %s\n", c.Log.Level))
	if c.Log.File != "" {
		b.WriteString(fmt.Sprintf("  file: %s\n", c.Log.File))
	}

	if c.Api != nil {
		b.WriteString("\nApi:\n")
		b.WriteString(fmt.Sprintf("  bind: %s (profiler: %t)\n", c.Api.Bind, c.Api.EnableProfiler))
	}

	return b.String()
}
