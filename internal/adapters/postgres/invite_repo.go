package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/flaira/flaira/internal/core/domain"
)

// InviteRepo implements ports.InviteRepository.
type InviteRepo struct {
	db *DB
}

func NewInviteRepo(db *DB) *InviteRepo {
	return &InviteRepo{db: db}
}

func (r *InviteRepo) GetByID(ctx context.Context, id string) (*domain.TripInvite, error) {
	inv := &domain.TripInvite{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, trip_id, invited_user_id, email, invited_by, role, status, answered_at, created_at
		FROM trip_invites WHERE id = $1
	`, id).Scan(&inv.ID, &inv.TripID, &inv.InvitedUserID, &inv.Email, &inv.InvitedBy,
		&inv.Role, &inv.Status, &inv.AnsweredAt, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InviteRepo) ListByEmail(ctx context.Context, email string) ([]domain.TripInvite, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, trip_id, invited_user_id, email, invited_by, role, status, answered_at, created_at
		FROM trip_invites
		WHERE email = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []domain.TripInvite
	for rows.Next() {
		var inv domain.TripInvite
		if err := rows.Scan(&inv.ID, &inv.TripID, &inv.InvitedUserID, &inv.Email, &inv.InvitedBy,
			&inv.Role, &inv.Status, &inv.AnsweredAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

// Accept marks the invite accepted and adds the user as a member in one
// transaction, so an invite can never be accepted without a membership row.
func (r *InviteRepo) Accept(ctx context.Context, id, userID string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	var tripID string
	var role domain.MemberRole
	err = tx.QueryRow(ctx, `
		UPDATE trip_invites
		SET status = 'accepted', invited_user_id = $2, answered_at = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING trip_id, role
	`, id, userID, now).Scan(&tripID, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO trip_members (id, trip_id, user_id, role, added_by, created_at)
		VALUES ($1, $2, $3, $4, $3, $5)
		ON CONFLICT (trip_id, user_id) DO NOTHING
	`, uuid.NewString(), tripID, userID, role, now)
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *InviteRepo) Decline(ctx context.Context, id, userID string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE trip_invites
		SET status = 'declined', invited_user_id = $2, answered_at = $3
		WHERE id = $1 AND status = 'pending'
	`, id, userID, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InviteRepo) MarkUndeliverable(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE trip_invites SET delivery_failed = TRUE WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InviteRepo) Revoke(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE trip_invites
		SET status = 'revoked', answered_at = $2
		WHERE id = $1 AND status = 'pending'
	`, id, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
