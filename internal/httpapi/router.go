package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(serverErrorLoggerMiddleware)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(newIPRateLimiter(120, time.Minute).middleware)

	s := &server{
		broker: d.Broker,
		table:  d.Table,
		bus:    d.Bus,
		fanin:  d.FanIn,
		banned: d.Banned,

		waitTimeout:       d.WaitTimeout,
		observerHeartbeat: d.ObserverHeartbeat,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	r.Get("/", s.handleIndex)
	r.Get("/stats", s.handleStats)
	r.Get("/about", s.handleAbout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/get", s.handleGetRandom)
		r.Post("/submit", s.handleSubmitRandom)
		r.Get("/health", s.handleHealth)
	})

	r.Get("/ws", s.handleObserver)
	r.Get("/ws/", s.handleObserver)

	r.NotFound(s.handleNotFound)

	return r
}
