// Package rendering is the thin layer over the go-gl bindings that the
// window and the frame loop use.
package rendering

import (
	"fmt"
	"unsafe"

	"github.com/boxelgame/boxel/lib/rendering/renderconsts"
	"github.com/boxelgame/boxel/lib/window"
	"github.com/go-gl/mathgl/mgl32"
)

// GL drives the bound OpenGL functions. Only valid on the thread whose
// context was current when Bind ran.
type GL struct {
	b *binding
}

var _ window.GL = (*GL)(nil)

// New returns a GL for a context of the given version. The binding never
// asks for entry points newer than the context, so strict drivers that
// return NULL for them do not fail Bind.
func New(major, minor int) *GL {
	return &GL{b: bindingFor(major, minor)}
}

// Binding names the go-gl package in use, for logs.
func (g *GL) Binding() string {
	return g.b.name
}

func (g *GL) Bind(procAddr func(name string) unsafe.Pointer) error {
	if err := g.b.init(procAddr); err != nil {
		return fmt.Errorf("could not initialise OpenGL %s functions: %w", g.b.name, err)
	}
	return nil
}

func (g *GL) EnableDepthTest() {
	g.b.enable(renderconsts.DEPTH_TEST)
}

func (g *GL) Viewport(x, y, width, height int) {
	g.b.viewport(int32(x), int32(y), int32(width), int32(height))
}

func (g *GL) Identity() window.Identity {
	return window.Identity{
		Version:         g.glString(renderconsts.VERSION),
		Renderer:        g.glString(renderconsts.RENDERER),
		Vendor:          g.glString(renderconsts.VENDOR),
		ShadingLanguage: g.glString(renderconsts.SHADING_LANGUAGE_VERSION),
	}
}

// Clear fills the colour buffer with colour and resets depth.
func (g *GL) Clear(colour mgl32.Vec4) {
	g.b.clearColor(colour.X(), colour.Y(), colour.Z(), colour.W())
	g.b.clear(uint32(renderconsts.FRAME))
}

func (g *GL) glString(name uint32) string {
	p := g.b.getString(name)
	if p == nil {
		return ""
	}
	return goStr(p)
}
