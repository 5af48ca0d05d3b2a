// Package probe tries a range of OpenGL versions and profiles to find out
// what the driver on this machine can actually provide.
package probe

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/boxelgame/boxel/lib/glload"
	"github.com/boxelgame/boxel/lib/window"
)

// Matrix is every request tried, oldest first. Core and compat profiles
// only exist from 3.2 on.
func Matrix() []window.ContextRequest {
	reqs := []window.ContextRequest{
		{Major: 2, Minor: 1, Profile: window.ProfileAny},
		{Major: 3, Minor: 0, Profile: window.ProfileAny},
		{Major: 3, Minor: 1, Profile: window.ProfileAny},
	}
	versions := [][2]int{{3, 2}, {3, 3}, {4, 0}, {4, 1}, {4, 2}, {4, 3}, {4, 4}, {4, 5}, {4, 6}}
	for _, v := range versions {
		for _, p := range []window.Profile{window.ProfileCompat, window.ProfileCore} {
			reqs = append(reqs, window.ContextRequest{Major: v[0], Minor: v[1], Profile: p, ForwardCompatible: p == window.ProfileCore})
		}
	}
	return reqs
}

type Result struct {
	Request  window.ContextRequest `json:"-"`
	Name     string                `json:"name"`
	Success  bool                  `json:"success"`
	Error    string                `json:"error,omitempty"`
	Kind     string                `json:"kind,omitempty"`
	Identity window.Identity       `json:"identity"`
}

// Prober creates one subsystem and one GL per attempt, so every attempt
// is a full init/terminate cycle.
type Prober struct {
	NewSubsystem func() (window.Subsystem, error)
	NewGL        func(req window.ContextRequest) window.GL
	Library      glload.Library
	Logger       *slog.Logger
}

func (p *Prober) Run(reqs []window.ContextRequest) []Result {
	results := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		results = append(results, p.try(req))
	}
	return results
}

func (p *Prober) try(req window.ContextRequest) Result {
	res := Result{Request: req, Name: "OpenGL " + req.String()}

	sub, err := p.NewSubsystem()
	if err != nil {
		res.Error = err.Error()
		return res
	}
	opts := window.Options{
		Context: req,
		Hidden:  true,
		Library: p.Library,
		Logger:  p.Logger,
	}
	o, err := window.New(sub, p.NewGL(req), window.Config{Width: 100, Height: 100, Title: "OpenGL Test"}, opts)
	if err != nil {
		res.Error = err.Error()
		var werr *window.Error
		if errors.As(err, &werr) {
			res.Kind = werr.Kind.String()
		}
		return res
	}
	res.Success = true
	res.Identity = o.Identity()
	if err := o.Close(); err != nil {
		res.Error = fmt.Sprintf("teardown: %s", err)
	}
	return res
}

// Highest is the newest request that worked, preferring core over compat
// for the same version.
func Highest(results []Result) (Result, bool) {
	var best Result
	found := false
	for _, r := range results {
		if !r.Success {
			continue
		}
		if !found || newer(r.Request, best.Request) {
			best = r
			found = true
		}
	}
	return best, found
}

func newer(a, b window.ContextRequest) bool {
	if a.Major != b.Major {
		return a.Major > b.Major
	}
	if a.Minor != b.Minor {
		return a.Minor > b.Minor
	}
	return a.Profile == window.ProfileCore && b.Profile != window.ProfileCore
}

// GPUVariables are the environment variables that steer which GPU and
// driver the OpenGL library picks.
var GPUVariables = []string{
	"DRI_PRIME",
	"__NV_PRIME_RENDER_OFFLOAD",
	"__GLX_VENDOR_LIBRARY_NAME",
	"GALLIUM_DRIVER",
	"LIBGL_ALWAYS_SOFTWARE",
	"MESA_GL_VERSION_OVERRIDE",
}

// GPUEnvironment returns the GPU variables that are set.
func GPUEnvironment() map[string]string {
	env := map[string]string{}
	for _, name := range GPUVariables {
		if v, ok := os.LookupEnv(name); ok {
			env[name] = v
		}
	}
	return env
}
