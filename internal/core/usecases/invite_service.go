package usecases

import (
	"context"
	"log/slog"
	"strings"

	"github.com/flaira/flaira/internal/core/domain"
	"github.com/flaira/flaira/internal/core/ports"
)

// InviteService handles answering and revoking trip invites.
type InviteService struct {
	invites ports.InviteRepository
	trips   ports.TripRepository
	events  ports.EventPublisher
}

// NewInviteService creates a new InviteService.
func NewInviteService(invites ports.InviteRepository, trips ports.TripRepository, events ports.EventPublisher) *InviteService {
	return &InviteService{invites: invites, trips: trips, events: events}
}

// ListForUser returns the pending invites addressed to the user's email.
func (s *InviteService) ListForUser(ctx context.Context, user *domain.User) ([]domain.TripInvite, error) {
	return s.invites.ListByEmail(ctx, strings.ToLower(user.Email))
}

// Accept marks the invite accepted and adds the user to the trip with the
// invited role. Only the invitee may accept, and only while pending.
func (s *InviteService) Accept(ctx context.Context, inviteID string, user *domain.User) error {
	invite, err := s.answerable(ctx, inviteID, user)
	if err != nil {
		return err
	}
	if err := s.invites.Accept(ctx, inviteID, user.ID); err != nil {
		return err
	}
	s.publishAnswered(ctx, invite, domain.InviteAccepted, user.ID)
	return nil
}

// Decline marks the invite declined.
func (s *InviteService) Decline(ctx context.Context, inviteID string, user *domain.User) error {
	invite, err := s.answerable(ctx, inviteID, user)
	if err != nil {
		return err
	}
	if err := s.invites.Decline(ctx, inviteID, user.ID); err != nil {
		return err
	}
	s.publishAnswered(ctx, invite, domain.InviteDeclined, user.ID)
	return nil
}

// Revoke withdraws a pending invite. Caller must be a trip admin.
func (s *InviteService) Revoke(ctx context.Context, tripID, inviteID, userID string) error {
	role, err := s.trips.MemberRole(ctx, tripID, userID)
	if err != nil || role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	invite, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return err
	}
	if invite.TripID != tripID || invite.Status != domain.InvitePending {
		return domain.ErrNotFound
	}
	return s.invites.Revoke(ctx, inviteID)
}

func (s *InviteService) answerable(ctx context.Context, inviteID string, user *domain.User) (*domain.TripInvite, error) {
	invite, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(invite.Email, user.Email) {
		return nil, domain.ErrForbidden
	}
	if invite.Status != domain.InvitePending {
		return nil, domain.ErrNotFound
	}
	return invite, nil
}

func (s *InviteService) publishAnswered(ctx context.Context, invite *domain.TripInvite, status domain.InviteStatus, userID string) {
	if s.events == nil {
		return
	}
	answered := *invite
	answered.Status = status
	answered.InvitedUserID = &userID
	if err := s.events.PublishInviteAnswered(ctx, &answered); err != nil {
		slog.Warn("publish invite answered", "invite_id", invite.ID, "error", err)
	}
}
