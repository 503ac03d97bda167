package http

import (
	"github.com/nats-io/nats.go"

	"github.com/flaira/flaira/internal/adapters/postgres"
	"github.com/flaira/flaira/internal/adapters/valkey"
	"github.com/flaira/flaira/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Auth    *usecases.AuthService
	Trips   *usecases.TripService
	Invites *usecases.InviteService
	Media   *usecases.MediaService
	Routes  *usecases.RouteService
	NATS    *nats.Conn
	DB      *postgres.DB
	Cache   *valkey.Cache
}
