package ports

import (
	"context"
	"time"

	"github.com/flaira/flaira/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishTripCreated(ctx context.Context, trip *domain.Trip) error
	PublishInviteAnswered(ctx context.Context, invite *domain.TripInvite) error
	PublishMediaAdded(ctx context.Context, media *domain.TripMedia) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MediaStore issues presigned URLs against the object store.
type MediaStore interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// RouteProvider resolves place names and computes road routes.
type RouteProvider interface {
	Geocode(ctx context.Context, query string, limit int) ([]domain.Place, error)
	Directions(ctx context.Context, waypoints []domain.GeoPoint, transportMode string) (*domain.RoutePreview, error)
}

// InviteMailer delivers an invite email.
type InviteMailer interface {
	SendInvite(ctx context.Context, email, inviterName, tripTitle, inviteID string) error
}

// InviteDelivery hands freshly created invites to the durable delivery
// pipeline. Called after the creation transaction commits; failures are the
// caller's to log, never to surface.
type InviteDelivery interface {
	Deliver(ctx context.Context, trip *domain.Trip, inviterName string, invites []domain.TripInvite) error
}
