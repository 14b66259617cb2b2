package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"randhub/internal/banned"
	"randhub/internal/broker"
	"randhub/internal/bus"
	"randhub/internal/config"
	"randhub/internal/httpapi"
	"randhub/internal/rendezvous"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	br, err := broker.Open(cfg.RedisURL)
	if err != nil {
		log.Fatalf("broker: %v", err)
	}
	defer br.Close()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := br.Ping(bootCtx); err != nil {
		log.Fatalf("broker ping: %v", err)
	}

	bannedSet, err := banned.Load(bootCtx, cfg.BannedNumbersSource)
	if err != nil {
		log.Fatalf("banned numbers: %v", err)
	}
	bootCancel()
	log.Printf("loaded %d banned numbers", bannedSet.Len())

	table := rendezvous.NewTable()
	stateBus := bus.New(cfg.BroadcastCapacity)
	fanin := rendezvous.NewFanIn(br, table, stateBus)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go fanin.Run(ctx)

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.Deps{
			Broker: br,
			Table:  table,
			Bus:    stateBus,
			FanIn:  fanin,
			Banned: bannedSet,

			WaitTimeout:       cfg.WaitTimeout,
			ObserverHeartbeat: cfg.ObserverHeartbeat,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("api listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	stateBus.Close()
}
