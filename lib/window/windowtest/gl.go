package windowtest

import (
	"unsafe"

	"github.com/boxelgame/boxel/lib/window"
	"github.com/go-gl/mathgl/mgl32"
)

// GL records the OpenGL calls made through it.
type GL struct {
	// BindErr fails Bind.
	BindErr error
	Ident   window.Identity

	Bound     bool
	DepthTest bool
	Viewports [][2]int
	Clears    []mgl32.Vec4
}

var _ window.GL = (*GL)(nil)

func (g *GL) Bind(procAddr func(name string) unsafe.Pointer) error {
	if g.BindErr != nil {
		return g.BindErr
	}
	g.Bound = procAddr("glClear") != nil
	return nil
}

func (g *GL) EnableDepthTest() {
	g.DepthTest = true
}

func (g *GL) Viewport(x, y, width, height int) {
	g.Viewports = append(g.Viewports, [2]int{width, height})
}

func (g *GL) Identity() window.Identity {
	return g.Ident
}

func (g *GL) Clear(colour mgl32.Vec4) {
	g.Clears = append(g.Clears, colour)
}

// LastViewport is the most recent viewport size, zero if none was set.
func (g *GL) LastViewport() (width, height int) {
	if len(g.Viewports) == 0 {
		return 0, 0
	}
	v := g.Viewports[len(g.Viewports)-1]
	return v[0], v[1]
}
