//go:generate go tool swag init -d ../../cmd/boxel,./ -g main.go -o docs

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/boxelgame/boxel/lib/api/docs"
	"github.com/boxelgame/boxel/lib/config"
	"github.com/boxelgame/boxel/lib/metrics"
	"github.com/boxelgame/boxel/lib/stats"
	"github.com/boxelgame/boxel/lib/utils"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Controller is the part of the running application the API may touch.
// Implementations must be safe to call from any goroutine.
type Controller interface {
	RequestClose()
	ClearColour() mgl32.Vec4
	SetClearColour(mgl32.Vec4)
}

type Api struct {
	srv  http.Server
	mux  *http.ServeMux
	cfg  *config.ApiCfg
	ctrl Controller

	Stats *stats.Stats

	wsMutex   sync.Mutex
	wsClients map[*websocket.Conn]bool

	logger *slog.Logger
}

func New(cfg *config.ApiCfg, ctrl Controller, s *stats.Stats, logger *slog.Logger) *Api {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Api{
		mux:       http.NewServeMux(),
		cfg:       cfg,
		ctrl:      ctrl,
		Stats:     s,
		wsClients: make(map[*websocket.Conn]bool),
		logger:    logger.With("module", "api"),
	}
	a.srv.Addr = cfg.Bind
	a.srv.Handler = a.mux
	a.routes()
	return a
}

func (a *Api) routes() {
	if a.cfg.EnableProfiler {
		a.mux.HandleFunc("/prof", a.profileCPU)
	}
	a.mux.Handle("/metrics", metrics.Handler())
	a.mux.HandleFunc("GET /api/stats", a.getStats)
	a.mux.HandleFunc("POST /api/close", a.requestClose)
	a.mux.HandleFunc("GET /api/clear-colour", a.getClearColour)
	a.mux.HandleFunc("PUT /api/clear-colour", a.setClearColour)
	a.mux.HandleFunc("/api/ws", a.handleWebsocket)
	a.mux.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	docs.SwaggerInfo.Host = a.cfg.Bind
}

// Handler is the routed mux, for serving elsewhere or testing.
func (a *Api) Handler() http.Handler {
	return a.mux
}

func (a *Api) Serve() error {
	a.logger.Info("starting web server", "bind", a.cfg.Bind)
	return a.srv.ListenAndServe()
}

func (a *Api) Shutdown(ctx context.Context) error {
	a.wsMutex.Lock()
	for ws := range a.wsClients {
		_ = ws.Close()
	}
	a.wsMutex.Unlock()
	return a.srv.Shutdown(ctx)
}

// ServeInBackground starts the server when cfg is set and returns nil
// otherwise.
func ServeInBackground(cfg *config.ApiCfg, ctrl Controller, s *stats.Stats, logger *slog.Logger) *Api {
	if cfg == nil {
		return nil
	}
	a := New(cfg, ctrl, s, logger)
	go func() {
		err := a.Serve()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("web server stopped", "error", err)
		}
	}()
	return a
}

// @Summary	Capture a 10 second CPU profile
// @Router		/prof [get]
// @Tags		debug
// @Produce	octet-stream
// @Success	200
func (a *Api) profileCPU(w http.ResponseWriter, _ *http.Request) {
	err := pprof.StartCPUProfile(w)
	if err != nil {
		http.Error(w, fmt.Sprintf("Could not start CPU profile: %s", err), http.StatusInternalServerError)
		return
	}
	time.Sleep(10 * time.Second)
	pprof.StopCPUProfile()
}

// @Summary	Ask the window to close at the end of the current frame
// @Router		/api/close [post]
// @Tags		base
// @Success	200
func (a *Api) requestClose(w http.ResponseWriter, _ *http.Request) {
	a.logger.Info("close requested over the api")
	a.ctrl.RequestClose()
	a.writeOk(w)
}

// @Summary	Get frame and window statistics
// @Router		/api/stats [get]
// @Tags		base
// @Produce	json
// @Success	200
func (a *Api) getStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(a.Stats)
	if err != nil {
		http.Error(w, fmt.Sprintf("could not encode stats: %s", err), http.StatusInternalServerError)
		return
	}
}

type ColourReq struct {
	Colour string `json:"colour" example:"#1a3366ff"`
}

// @Summary	Get the colour the frame is cleared with
// @Router		/api/clear-colour [get]
// @Tags		render
// @Produce	json
// @Success	200	{object}	ColourReq
func (a *Api) getClearColour(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(ColourReq{Colour: utils.ColourFormat(a.ctrl.ClearColour())})
	if err != nil {
		a.logger.Warn("could not write response", "error", err)
	}
}

// @Summary	Change the colour the frame is cleared with
// @Router		/api/clear-colour [put]
// @Param		colourReq	body	ColourReq	true	"New colour as #RRGGBBAA"
// @Tags		render
// @Accept		json
// @Success	200
// @Failure	400	{string}	string	"Could not decode json request or invalid colour"
func (a *Api) setClearColour(w http.ResponseWriter, req *http.Request) {
	var colourReq ColourReq
	err := json.NewDecoder(req.Body).Decode(&colourReq)
	if err != nil {
		http.Error(w, fmt.Sprintf("could not decode json request: %s", err), http.StatusBadRequest)
		return
	}
	colour, err := utils.ColourParse(colourReq.Colour)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a.ctrl.SetClearColour(colour)
	a.logger.Info("clear colour changed", "colour", colourReq.Colour)
	a.writeOk(w)
}

func (a *Api) writeOk(w http.ResponseWriter) {
	_, err := fmt.Fprintf(w, "\"ok\"\n")
	if err != nil {
		a.logger.Warn("could not write response", "error", err)
	}
}
