package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/boxelgame/boxel/lib/api"
	"github.com/boxelgame/boxel/lib/config"
	"github.com/boxelgame/boxel/lib/stats"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
)

type controller struct {
	mu     sync.Mutex
	closed bool
	colour mgl32.Vec4
}

func (c *controller) RequestClose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *controller) ClearColour() mgl32.Vec4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.colour
}

func (c *controller) SetClearColour(v mgl32.Vec4) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.colour = v
}

func newServer(t *testing.T) (*httptest.Server, *controller, *stats.Stats) {
	t.Helper()
	ctrl := &controller{colour: mgl32.Vec4{0, 0, 0, 1}}
	s := stats.New()
	a := api.New(&config.ApiCfg{Bind: "127.0.0.1:0"}, ctrl, s, nil)
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv, ctrl, s
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestStats(t *testing.T) {
	srv, _, s := newServer(t)
	s.Update(640, 480)

	resp, err := http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if b := body(t, resp); !strings.Contains(b, `"framebuffer_width":640`) {
		t.Fatalf("unexpected body %s", b)
	}
}

func TestClose(t *testing.T) {
	srv, ctrl, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/close")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed || ctrl.closed {
		t.Fatalf("GET closed the window (status %d)", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/api/close", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !ctrl.closed {
		t.Fatalf("close not requested (status %d)", resp.StatusCode)
	}
}

func TestClearColour(t *testing.T) {
	srv, ctrl, _ := newServer(t)

	put := func(payload string) int {
		req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/clear-colour", strings.NewReader(payload))
		if err != nil {
			t.Fatal(err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if code := put(`{"colour":"#ff000080"}`); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if got := ctrl.ClearColour(); got[0] != 1 || got[1] != 0 {
		t.Fatalf("colour %v", got)
	}
	if code := put(`{"colour":"red"}`); code != http.StatusBadRequest {
		t.Fatalf("invalid colour accepted with %d", code)
	}
	if code := put(`not json`); code != http.StatusBadRequest {
		t.Fatalf("invalid json accepted with %d", code)
	}

	resp, err := http.Get(srv.URL + "/api/clear-colour")
	if err != nil {
		t.Fatal(err)
	}
	if b := body(t, resp); !strings.Contains(b, "#ff000080") {
		t.Fatalf("unexpected body %s", b)
	}
}

func TestMetrics(t *testing.T) {
	srv, _, _ := newServer(t)
	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	if b := body(t, resp); !strings.Contains(b, "boxel_frames_rendered_total") {
		t.Fatal("frame counter not exported")
	}
}

func TestSwaggerDoc(t *testing.T) {
	srv, _, _ := newServer(t)
	resp, err := http.Get(srv.URL + "/swagger/doc.json")
	if err != nil {
		t.Fatal(err)
	}
	if b := body(t, resp); !strings.Contains(b, "/api/clear-colour") {
		t.Fatalf("unexpected doc %s", b)
	}
}

func TestProfilerDisabledByDefault(t *testing.T) {
	srv, _, _ := newServer(t)
	resp, err := http.Get(srv.URL + "/prof")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestWebsocketPushesStats(t *testing.T) {
	srv, _, s := newServer(t)
	s.Update(320, 200)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()

	if err := ws.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	_, msg, err := ws.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(msg), `"framebuffer_height":200`) {
		t.Fatalf("unexpected packet %s", msg)
	}
	if s.WsClients.Load() != 1 {
		t.Fatalf("ws clients %d", s.WsClients.Load())
	}
}
