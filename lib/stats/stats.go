package stats

import (
	"time"

	"go.uber.org/atomic"
)

// Stats is updated from the frame loop and read by the API goroutines.
type Stats struct {
	FPS               atomic.Uint64  `json:"fps"`
	Frames            atomic.Uint64  `json:"frames"`
	Uptime            atomic.Float64 `json:"uptime"`
	FramebufferWidth  atomic.Int64   `json:"framebuffer_width"`
	FramebufferHeight atomic.Int64   `json:"framebuffer_height"`
	WsClients         atomic.Int64   `json:"ws_clients"`
	Renderer          atomic.String  `json:"renderer"`
	GLVersion         atomic.String  `json:"gl_version"`

	frameCounter uint64
	frameTimer   time.Time
	start        time.Time
}

func New() *Stats {
	s := &Stats{}
	s.start = time.Now()
	s.frameTimer = s.start
	return s
}

func (s *Stats) Update(fbWidth, fbHeight int) {
	s.UpdateAt(time.Now(), fbWidth, fbHeight)
}

// UpdateAt counts one frame presented at now. Only the frame loop may
// call it.
func (s *Stats) UpdateAt(now time.Time, fbWidth, fbHeight int) {
	s.frameCounter++
	s.Frames.Inc()
	if now.Sub(s.frameTimer) >= time.Second {
		s.FPS.Store(s.frameCounter)
		s.frameCounter = 0
		s.frameTimer = now
	}

	s.Uptime.Store(now.Sub(s.start).Seconds())
	s.FramebufferWidth.Store(int64(fbWidth))
	s.FramebufferHeight.Store(int64(fbHeight))
}
