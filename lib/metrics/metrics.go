package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	InitPhaseSeconds = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "boxel_window_init_phase_seconds",
		Help: "Time spent in each window initialisation phase during the last bring-up",
	}, []string{"phase"})
	InitFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boxel_window_init_failures_total",
		Help: "Total number of failed window bring-ups, by error kind",
	}, []string{"kind"})
	FramebufferResizes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boxel_framebuffer_resizes_total",
		Help: "Total number of framebuffer resize events handled",
	})
	FramesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boxel_frames_rendered_total",
		Help: "Total number of frames presented",
	})
	FrameSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "boxel_frame_seconds",
		Help:    "Wall time between consecutive frames",
		Buckets: []float64{0.002, 0.004, 0.008, 0.0167, 0.033, 0.05, 0.1, 0.25},
	})
)

// Handler should usually be mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
