package renderconsts

import "testing"

func TestFrameClearsColourAndDepth(t *testing.T) {
	if FRAME&COLOUR == 0 || FRAME&DEPTH == 0 {
		t.Fatal("frame mask misses colour or depth")
	}
	if FRAME&STENCIL != 0 {
		t.Fatal("frame mask clears stencil")
	}
}
