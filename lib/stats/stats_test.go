package stats

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestFPSOverOneSecond(t *testing.T) {
	s := New()
	start := s.start

	for i := 1; i <= 59; i++ {
		s.UpdateAt(start.Add(time.Duration(i)*16*time.Millisecond), 800, 600)
	}
	if s.FPS.Load() != 0 {
		t.Fatalf("fps %d before a full second", s.FPS.Load())
	}

	s.UpdateAt(start.Add(time.Second), 800, 600)
	if s.FPS.Load() != 60 {
		t.Fatalf("fps %d, want 60", s.FPS.Load())
	}
	if s.Frames.Load() != 60 {
		t.Fatalf("frames %d, want 60", s.Frames.Load())
	}
	if s.Uptime.Load() != 1 {
		t.Fatalf("uptime %f, want 1", s.Uptime.Load())
	}
}

func TestJSON(t *testing.T) {
	s := New()
	s.UpdateAt(s.start.Add(time.Millisecond), 1024, 768)
	s.Renderer.Store("llvmpipe")

	packet, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"framebuffer_width":1024`, `"frames":1`, `"renderer":"llvmpipe"`} {
		if !strings.Contains(string(packet), want) {
			t.Errorf("%s missing from %s", want, packet)
		}
	}
}
