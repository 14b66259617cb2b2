package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"randhub/internal/broker"
)

type indexData struct {
	Host    string
	Pending []uuid.UUID
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pending, err := s.broker.SnapshotPending(ctx)
	if err != nil {
		logError(ctx, "index: snapshot failed", err)
		http.Error(w, "broker unavailable", http.StatusInternalServerError)
		return
	}
	s.renderPage(ctx, w, http.StatusOK, "index.html", indexData{Host: r.Host, Pending: pending})
}

type statsData struct {
	Counts []broker.Count
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	counts, err := s.broker.TopCounts(ctx, 20)
	if err != nil {
		logError(ctx, "stats: top counts failed", err)
		http.Error(w, "broker unavailable", http.StatusInternalServerError)
		return
	}
	s.renderPage(ctx, w, http.StatusOK, "stats.html", statsData{Counts: counts})
}

func (s *server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.renderPage(r.Context(), w, http.StatusOK, "about.html", nil)
}

func (s *server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderPage(r.Context(), w, http.StatusNotFound, "404.html", nil)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.broker.Ping(ctx); err != nil {
		logError(ctx, "health: broker ping failed", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "unhealthy", "reason": "broker unreachable"})
		return
	}
	if !s.fanin.Healthy() {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "unhealthy", "reason": "pubsub subscription down"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
