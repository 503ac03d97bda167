package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/flaira/flaira/internal/core/domain"
	"github.com/flaira/flaira/internal/core/usecases"
)

type mockInviteRepo struct {
	getByIDFn func(ctx context.Context, id string) (*domain.TripInvite, error)
	acceptFn  func(ctx context.Context, id, userID string) error
	declineFn func(ctx context.Context, id, userID string) error
	revokeFn  func(ctx context.Context, id string) error
}

func (m *mockInviteRepo) GetByID(ctx context.Context, id string) (*domain.TripInvite, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}
func (m *mockInviteRepo) ListByEmail(ctx context.Context, email string) ([]domain.TripInvite, error) {
	return nil, nil
}
func (m *mockInviteRepo) Accept(ctx context.Context, id, userID string) error {
	if m.acceptFn != nil {
		return m.acceptFn(ctx, id, userID)
	}
	return nil
}
func (m *mockInviteRepo) Decline(ctx context.Context, id, userID string) error {
	if m.declineFn != nil {
		return m.declineFn(ctx, id, userID)
	}
	return nil
}
func (m *mockInviteRepo) Revoke(ctx context.Context, id string) error {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, id)
	}
	return nil
}
func (m *mockInviteRepo) MarkUndeliverable(ctx context.Context, id string) error { return nil }

// recordingEvents captures every published domain event.
type recordingEvents struct {
	created  []domain.Trip
	answered []domain.TripInvite
	media    []domain.TripMedia
}

func (e *recordingEvents) PublishTripCreated(ctx context.Context, trip *domain.Trip) error {
	e.created = append(e.created, *trip)
	return nil
}
func (e *recordingEvents) PublishInviteAnswered(ctx context.Context, invite *domain.TripInvite) error {
	e.answered = append(e.answered, *invite)
	return nil
}
func (e *recordingEvents) PublishMediaAdded(ctx context.Context, media *domain.TripMedia) error {
	e.media = append(e.media, *media)
	return nil
}

func invitee() *domain.User {
	return &domain.User{ID: "user-2", Name: "Jon", Email: "jon@example.com"}
}

func pendingInviteFor(email string) *domain.TripInvite {
	return &domain.TripInvite{
		ID:     "inv-1",
		TripID: "trip-1",
		Email:  email,
		Role:   domain.RoleEditor,
		Status: domain.InvitePending,
	}
}

func TestAccept_RecordsAnswerAndPublishes(t *testing.T) {
	var acceptedID, acceptedBy string
	events := &recordingEvents{}
	svc := usecases.NewInviteService(&mockInviteRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.TripInvite, error) {
			return pendingInviteFor("jon@example.com"), nil
		},
		acceptFn: func(ctx context.Context, id, userID string) error {
			acceptedID, acceptedBy = id, userID
			return nil
		},
	}, &mockTripRepo{}, events)

	if err := svc.Accept(context.Background(), "inv-1", invitee()); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if acceptedID != "inv-1" || acceptedBy != "user-2" {
		t.Errorf("accept recorded %s/%s", acceptedID, acceptedBy)
	}
	if len(events.answered) != 1 {
		t.Fatalf("expected 1 published answer, got %d", len(events.answered))
	}
	if events.answered[0].Status != domain.InviteAccepted {
		t.Errorf("published status %s, want accepted", events.answered[0].Status)
	}
	if events.answered[0].InvitedUserID == nil || *events.answered[0].InvitedUserID != "user-2" {
		t.Error("published answer should carry the answering user's id")
	}
}

func TestAccept_CaseInsensitiveEmailMatch(t *testing.T) {
	svc := usecases.NewInviteService(&mockInviteRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.TripInvite, error) {
			return pendingInviteFor("JON@Example.com"), nil
		},
	}, &mockTripRepo{}, nil)

	if err := svc.Accept(context.Background(), "inv-1", invitee()); err != nil {
		t.Fatalf("accept with case-differing email: %v", err)
	}
}

func TestAccept_WrongRecipient(t *testing.T) {
	svc := usecases.NewInviteService(&mockInviteRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.TripInvite, error) {
			return pendingInviteFor("someone.else@example.com"), nil
		},
	}, &mockTripRepo{}, nil)

	err := svc.Accept(context.Background(), "inv-1", invitee())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDecline_AlreadyAnswered(t *testing.T) {
	svc := usecases.NewInviteService(&mockInviteRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.TripInvite, error) {
			inv := pendingInviteFor("jon@example.com")
			inv.Status = domain.InviteDeclined
			return inv, nil
		},
	}, &mockTripRepo{}, nil)

	err := svc.Decline(context.Background(), "inv-1", invitee())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRevoke_RequiresAdmin(t *testing.T) {
	svc := usecases.NewInviteService(&mockInviteRepo{}, &mockTripRepo{
		memberRoleFn: func(ctx context.Context, tripID, userID string) (domain.MemberRole, error) {
			return domain.RoleEditor, nil
		},
	}, nil)

	err := svc.Revoke(context.Background(), "trip-1", "inv-1", "user-1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRevoke_InviteBelongsToOtherTrip(t *testing.T) {
	svc := usecases.NewInviteService(&mockInviteRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.TripInvite, error) {
			inv := pendingInviteFor("jon@example.com")
			inv.TripID = "trip-other"
			return inv, nil
		},
	}, &mockTripRepo{
		memberRoleFn: func(ctx context.Context, tripID, userID string) (domain.MemberRole, error) {
			return domain.RoleAdmin, nil
		},
	}, nil)

	err := svc.Revoke(context.Background(), "trip-1", "inv-1", "user-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRevoke_Pending(t *testing.T) {
	var revoked string
	svc := usecases.NewInviteService(&mockInviteRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.TripInvite, error) {
			return pendingInviteFor("jon@example.com"), nil
		},
		revokeFn: func(ctx context.Context, id string) error {
			revoked = id
			return nil
		},
	}, &mockTripRepo{
		memberRoleFn: func(ctx context.Context, tripID, userID string) (domain.MemberRole, error) {
			return domain.RoleAdmin, nil
		},
	}, nil)

	if err := svc.Revoke(context.Background(), "trip-1", "inv-1", "user-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked != "inv-1" {
		t.Errorf("expected inv-1 revoked, got %s", revoked)
	}
}
