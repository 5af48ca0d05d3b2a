// Package backends picks a window subsystem implementation by name.
package backends

import (
	"fmt"

	"github.com/boxelgame/boxel/lib/config"
	"github.com/boxelgame/boxel/lib/window"
	"github.com/boxelgame/boxel/lib/window/glfwbackend"
	"github.com/boxelgame/boxel/lib/window/sdlbackend"
)

func New(name string) (window.Subsystem, error) {
	switch name {
	case config.BackendGLFW, "":
		return glfwbackend.New(), nil
	case config.BackendSDL:
		return sdlbackend.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %s", name)
	}
}
