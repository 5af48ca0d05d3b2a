package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(req *http.Request) bool {
		return true
	},
}

const (
	wsInterval = 2 * time.Second
	wsTimeout  = 10 * time.Second
)

// @Summary	Open websocket for realtime statistics
// @Router		/api/ws [get]
// @Param		Upgrade	header	string	true	"websocket"
// @Tags		base
// @Success	101
func (a *Api) handleWebsocket(w http.ResponseWriter, req *http.Request) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		http.Error(w, fmt.Sprintf("couldn't make websocket: %s", err), http.StatusBadRequest)
		return
	}
	defer func(ws *websocket.Conn) {
		a.dropClient(ws)
		if err := ws.Close(); err != nil {
			a.logger.Debug("could not close websocket", "error", err)
		}
	}(ws)
	a.addClient(ws)

	go a.websocketWriter(ws)

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			break
		}
		a.logger.Debug("websocket message ignored", "message", string(msg))
	}
}

func (a *Api) addClient(ws *websocket.Conn) {
	a.wsMutex.Lock()
	defer a.wsMutex.Unlock()
	a.wsClients[ws] = true
	a.Stats.WsClients.Store(int64(len(a.wsClients)))
}

func (a *Api) dropClient(ws *websocket.Conn) {
	a.wsMutex.Lock()
	defer a.wsMutex.Unlock()
	delete(a.wsClients, ws)
	a.Stats.WsClients.Store(int64(len(a.wsClients)))
}

func (a *Api) websocketWriter(ws *websocket.Conn) {
	ticker := time.NewTicker(wsInterval)
	defer ticker.Stop()

	for {
		packet, err := json.Marshal(a.Stats)
		if err != nil {
			a.logger.Warn("could not encode stats", "error", err)
			return
		}
		if err := ws.SetWriteDeadline(time.Now().Add(wsTimeout)); err != nil {
			return
		}
		if err := ws.WriteMessage(websocket.TextMessage, packet); err != nil {
			return
		}
		<-ticker.C
	}
}
