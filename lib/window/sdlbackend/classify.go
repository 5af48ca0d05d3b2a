package sdlbackend

import (
	"strings"

	"github.com/boxelgame/boxel/lib/window"
)

var (
	versionMarkers = []string{"GLXBadFBConfig", "BadMatch", "version", "profile"}
	apiMarkers     = []string{"No OpenGL support", "OpenGL support is either not configured", "Could not load", "not available"}
)

func classify(msg string) window.ErrorClass {
	for _, m := range apiMarkers {
		if strings.Contains(msg, m) {
			return window.ClassAPIUnavailable
		}
	}
	for _, m := range versionMarkers {
		if strings.Contains(msg, m) {
			return window.ClassVersionUnavailable
		}
	}
	return window.ClassOther
}
