package renderconsts

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

type Buffer uint32

const (
	COLOUR  Buffer = gl.COLOR_BUFFER_BIT
	DEPTH   Buffer = gl.DEPTH_BUFFER_BIT
	STENCIL Buffer = gl.STENCIL_BUFFER_BIT
)

// FRAME is what gets cleared at the start of every frame.
const FRAME = COLOUR | DEPTH
