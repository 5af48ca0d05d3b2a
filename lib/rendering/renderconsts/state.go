package renderconsts

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Enum values shared by every binding version.
const (
	DEPTH_TEST = gl.DEPTH_TEST

	VENDOR                   = gl.VENDOR
	RENDERER                 = gl.RENDERER
	VERSION                  = gl.VERSION
	SHADING_LANGUAGE_VERSION = gl.SHADING_LANGUAGE_VERSION
)
