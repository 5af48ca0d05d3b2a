package rendering

import (
	"unsafe"

	gl21 "github.com/go-gl/gl/v2.1/gl"
	gl32 "github.com/go-gl/gl/v3.2-core/gl"
	gl33 "github.com/go-gl/gl/v3.3-core/gl"
	gl41 "github.com/go-gl/gl/v4.1-core/gl"
)

// binding is the handful of go-gl functions GL calls, taken from one
// version package.
type binding struct {
	name       string
	init       func(func(name string) unsafe.Pointer) error
	enable     func(cap uint32)
	viewport   func(x, y, width, height int32)
	clearColor func(r, g, b, a float32)
	clear      func(mask uint32)
	getString  func(name uint32) *uint8
}

var (
	binding21 = &binding{"2.1", gl21.InitWithProcAddrFunc, gl21.Enable, gl21.Viewport, gl21.ClearColor, gl21.Clear, gl21.GetString}
	binding32 = &binding{"3.2-core", gl32.InitWithProcAddrFunc, gl32.Enable, gl32.Viewport, gl32.ClearColor, gl32.Clear, gl32.GetString}
	binding33 = &binding{"3.3-core", gl33.InitWithProcAddrFunc, gl33.Enable, gl33.Viewport, gl33.ClearColor, gl33.Clear, gl33.GetString}
	binding41 = &binding{"4.1-core", gl41.InitWithProcAddrFunc, gl41.Enable, gl41.Viewport, gl41.ClearColor, gl41.Clear, gl41.GetString}
)

// bindingFor picks the newest binding that does not exceed major.minor.
// Compatibility contexts expose the core functions as well, so the core
// packages serve both profiles.
func bindingFor(major, minor int) *binding {
	v := major*10 + minor
	switch {
	case v >= 41:
		return binding41
	case v >= 33:
		return binding33
	case v >= 32:
		return binding32
	default:
		return binding21
	}
}

func goStr(p *uint8) string {
	return gl41.GoStr(p)
}
