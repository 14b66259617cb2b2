package httpapi

import (
	"time"

	"randhub/internal/banned"
	"randhub/internal/broker"
	"randhub/internal/bus"
	"randhub/internal/rendezvous"
)

type Deps struct {
	Broker *broker.Client
	Table  *rendezvous.Table
	Bus    *bus.Bus
	FanIn  *rendezvous.FanIn
	Banned *banned.Set

	WaitTimeout       time.Duration
	ObserverHeartbeat time.Duration
}
