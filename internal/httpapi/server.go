package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"randhub/internal/banned"
	"randhub/internal/broker"
	"randhub/internal/bus"
	"randhub/internal/rendezvous"
)

// maxNumberBytes bounds the submitted number string.
const maxNumberBytes = 50

type server struct {
	broker *broker.Client
	table  *rendezvous.Table
	bus    *bus.Bus
	fanin  *rendezvous.FanIn
	banned *banned.Set

	waitTimeout       time.Duration
	observerHeartbeat time.Duration

	upgrader websocket.Upgrader
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		logErrorNoCtx("write html response failed", err)
	}
}

func readJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
