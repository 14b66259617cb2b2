package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

// handleObserver streams queue-change fragments to one browser connection
// until the client leaves, a write fails, or a heartbeat goes unanswered.
func (s *server) handleObserver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	defer conn.Close()

	// Subscribe before snapshotting so no event between the two is lost;
	// duplicates across the boundary are reconciled by element id.
	events, unsub := s.bus.Subscribe()
	defer unsub()

	snapshot, err := s.broker.SnapshotPending(ctx)
	if err != nil {
		logError(ctx, "ws: snapshot failed", err)
		return
	}

	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, waitlistFragment(snapshot)); err != nil {
		return
	}

	readTimeout := 4 * s.observerHeartbeat
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
				return
			}
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	heartbeat := time.NewTicker(s.observerHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-readDone:
			return
		case u, ok := <-events:
			if !ok {
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, waiterFragment(u)); err != nil {
				return
			}
		case <-heartbeat.C:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
