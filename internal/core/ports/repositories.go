package ports

import (
	"context"

	"github.com/flaira/flaira/internal/core/domain"
)

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SessionRepository persists login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}

// TripTx is one open trip-creation transaction. Every step receives the
// transaction explicitly; nothing written through it is visible until Commit.
// Rollback after Commit is a no-op so it can sit in a defer.
type TripTx interface {
	InsertTrip(ctx context.Context, trip *domain.Trip) error
	InsertLocations(ctx context.Context, locations []domain.TripLocation) error
	InsertMember(ctx context.Context, member *domain.TripMember) error
	InsertInvites(ctx context.Context, invites []domain.TripInvite) error
	InsertMedia(ctx context.Context, media []domain.TripMedia) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TripRepository persists trips and their owned rows.
type TripRepository interface {
	Begin(ctx context.Context) (TripTx, error)
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
	ListByMember(ctx context.Context, userID string, offset, limit int) ([]domain.Trip, int, error)
	GetLocations(ctx context.Context, tripID string) ([]domain.TripLocation, error)
	GetMembers(ctx context.Context, tripID string) ([]domain.TripMember, error)
	MemberRole(ctx context.Context, tripID, userID string) (domain.MemberRole, error)
}

// InviteRepository persists trip invites.
type InviteRepository interface {
	GetByID(ctx context.Context, id string) (*domain.TripInvite, error)
	ListByEmail(ctx context.Context, email string) ([]domain.TripInvite, error)
	// Accept marks the invite accepted, records the answering user, and adds
	// them as a trip member with the invite's role, atomically.
	Accept(ctx context.Context, id, userID string) error
	Decline(ctx context.Context, id, userID string) error
	Revoke(ctx context.Context, id string) error
	// MarkUndeliverable flags an invite whose email could not be delivered.
	// The invite stays pending; the flag surfaces the failure to the inviter.
	MarkUndeliverable(ctx context.Context, id string) error
}

// MediaRepository persists trip media rows.
type MediaRepository interface {
	GetByID(ctx context.Context, id string) (*domain.TripMedia, error)
	ListByTrip(ctx context.Context, tripID string) ([]domain.TripMedia, error)
	Delete(ctx context.Context, id string) error
}
