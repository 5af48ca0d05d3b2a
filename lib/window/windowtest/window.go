// Package windowtest provides deterministic stand-ins for the window
// package: a Window for render loops, and a Subsystem and GL that let an
// Owner be brought up without a display.
package windowtest

import (
	"github.com/boxelgame/boxel/lib/window"
)

// Window is a window.Window that records calls instead of drawing.
type Window struct {
	width  int
	height int
	title  string

	shouldClose bool
	fbWidth     int
	fbHeight    int

	swapBuffersCalls int
	pollEventsCalls  int

	// CloseAfterPolls sets the close flag once PollEvents has been called
	// this many times. Zero disables it.
	CloseAfterPolls int
}

var _ window.Window = (*Window)(nil)

func NewWindow(width, height int, title string) *Window {
	return &Window{
		width:    width,
		height:   height,
		title:    title,
		fbWidth:  width,
		fbHeight: height,
	}
}

func (w *Window) ShouldClose() bool {
	return w.shouldClose
}

func (w *Window) SetShouldClose(value bool) {
	w.shouldClose = value
}

func (w *Window) SwapBuffers() {
	w.swapBuffersCalls++
}

func (w *Window) PollEvents() {
	w.pollEventsCalls++
	if w.CloseAfterPolls > 0 && w.pollEventsCalls >= w.CloseAfterPolls {
		w.shouldClose = true
	}
}

func (w *Window) FramebufferSize() (width, height int) {
	return w.fbWidth, w.fbHeight
}

func (w *Window) SetFramebufferSize(width, height int) {
	w.fbWidth = width
	w.fbHeight = height
}

func (w *Window) Width() int {
	return w.width
}

func (w *Window) Height() int {
	return w.height
}

func (w *Window) Title() string {
	return w.title
}

func (w *Window) SwapBuffersCalls() int {
	return w.swapBuffersCalls
}

func (w *Window) PollEventsCalls() int {
	return w.pollEventsCalls
}
