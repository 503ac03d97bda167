package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/flaira/flaira/internal/core/domain"
	"github.com/flaira/flaira/internal/core/ports"
)

// TripStore implements ports.TripRepository with pgx.
type TripStore struct {
	db *DB
}

// NewTripStore creates a new TripStore.
func NewTripStore(db *DB) *TripStore {
	return &TripStore{db: db}
}

// Begin opens a trip-creation transaction.
func (s *TripStore) Begin(ctx context.Context) (ports.TripTx, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &tripTx{tx: tx}, nil
}

// GetByID returns a trip by UUID.
func (s *TripStore) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	t := &domain.Trip{}
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, owner_id, title, COALESCE(description, ''), start_date, end_date,
		       duration_days, distance_meters, COALESCE(transport_mode, ''),
		       visibility, status, created_at, updated_at
		FROM trips WHERE id = $1
	`, id).Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.StartDate, &t.EndDate,
		&t.DurationDays, &t.DistanceMeters, &t.TransportMode,
		&t.Visibility, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListByMember returns a page of trips the user is a member of, newest first,
// plus the total count for pagination headers.
func (s *TripStore) ListByMember(ctx context.Context, userID string, offset, limit int) ([]domain.Trip, int, error) {
	var total int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM trips t
		JOIN trip_members m ON m.trip_id = t.id
		WHERE m.user_id = $1
	`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT t.id, t.owner_id, t.title, COALESCE(t.description, ''), t.start_date, t.end_date,
		       t.duration_days, t.distance_meters, COALESCE(t.transport_mode, ''),
		       t.visibility, t.status, t.created_at, t.updated_at
		FROM trips t
		JOIN trip_members m ON m.trip_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.start_date DESC, t.created_at DESC
		OFFSET $2 LIMIT $3
	`, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		var t domain.Trip
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.StartDate, &t.EndDate,
			&t.DurationDays, &t.DistanceMeters, &t.TransportMode,
			&t.Visibility, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		trips = append(trips, t)
	}
	return trips, total, rows.Err()
}

// GetLocations returns a trip's waypoints ordered start, stops by index, end.
func (s *TripStore) GetLocations(ctx context.Context, tripID string) ([]domain.TripLocation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, trip_id, name, COALESCE(address, ''), COALESCE(city, ''), COALESCE(country, ''),
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       kind, stop_index, created_at
		FROM trip_locations
		WHERE trip_id = $1
		ORDER BY CASE kind WHEN 'start' THEN 0 WHEN 'stop' THEN 1 ELSE 2 END,
		         stop_index NULLS FIRST
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []domain.TripLocation
	for rows.Next() {
		var l domain.TripLocation
		if err := rows.Scan(&l.ID, &l.TripID, &l.Name, &l.Address, &l.City, &l.Country,
			&l.Location.Lat, &l.Location.Lon,
			&l.Kind, &l.StopIndex, &l.CreatedAt); err != nil {
			return nil, err
		}
		locs = append(locs, l)
	}
	return locs, rows.Err()
}

// GetMembers returns a trip's members.
func (s *TripStore) GetMembers(ctx context.Context, tripID string) ([]domain.TripMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, trip_id, user_id, role, added_by, created_at
		FROM trip_members
		WHERE trip_id = $1
		ORDER BY created_at
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.TripMember
	for rows.Next() {
		var m domain.TripMember
		if err := rows.Scan(&m.ID, &m.TripID, &m.UserID, &m.Role, &m.AddedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// MemberRole returns the user's role on the trip, or ErrNotFound.
func (s *TripStore) MemberRole(ctx context.Context, tripID, userID string) (domain.MemberRole, error) {
	var role domain.MemberRole
	err := s.db.Pool.QueryRow(ctx, `
		SELECT role FROM trip_members WHERE trip_id = $1 AND user_id = $2
	`, tripID, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// tripTx implements ports.TripTx over a pgx transaction. Every insert runs on
// the same tx; a failed step leaves the database untouched once Rollback runs.
type tripTx struct {
	tx   pgx.Tx
	done bool
}

func (t *tripTx) InsertTrip(ctx context.Context, trip *domain.Trip) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO trips (id, owner_id, title, description, start_date, end_date,
		                   duration_days, distance_meters, transport_mode,
		                   visibility, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, trip.ID, trip.OwnerID, trip.Title, trip.Description, trip.StartDate, trip.EndDate,
		trip.DurationDays, trip.DistanceMeters, trip.TransportMode,
		trip.Visibility, trip.Status, trip.CreatedAt, trip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

func (t *tripTx) InsertLocations(ctx context.Context, locations []domain.TripLocation) error {
	batch := &pgx.Batch{}
	for _, l := range locations {
		batch.Queue(`
			INSERT INTO trip_locations (id, trip_id, name, address, city, country, location, kind, stop_index, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, ST_SetSRID(ST_MakePoint($7, $8), 4326)::geography, $9, $10, $11)
		`, l.ID, l.TripID, l.Name, l.Address, l.City, l.Country,
			l.Location.Lon, l.Location.Lat, l.Kind, l.StopIndex, l.CreatedAt)
	}
	br := t.tx.SendBatch(ctx, batch)
	defer br.Close()
	for range locations {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert location: %w", err)
		}
	}
	return nil
}

func (t *tripTx) InsertMember(ctx context.Context, member *domain.TripMember) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO trip_members (id, trip_id, user_id, role, added_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, member.ID, member.TripID, member.UserID, member.Role, member.AddedBy, member.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (t *tripTx) InsertInvites(ctx context.Context, invites []domain.TripInvite) error {
	batch := &pgx.Batch{}
	for _, inv := range invites {
		batch.Queue(`
			INSERT INTO trip_invites (id, trip_id, invited_user_id, email, invited_by, role, status, answered_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, inv.ID, inv.TripID, inv.InvitedUserID, inv.Email, inv.InvitedBy, inv.Role, inv.Status, inv.AnsweredAt, inv.CreatedAt)
	}
	br := t.tx.SendBatch(ctx, batch)
	defer br.Close()
	for range invites {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert invite: %w", err)
		}
	}
	return nil
}

func (t *tripTx) InsertMedia(ctx context.Context, media []domain.TripMedia) error {
	batch := &pgx.Batch{}
	for _, m := range media {
		batch.Queue(`
			INSERT INTO trip_media (id, trip_day_id, trip_id, type, storage_key, uploaded_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, m.ID, m.TripDayID, m.TripID, m.Type, m.StorageKey, m.UploadedBy, m.CreatedAt)
	}
	br := t.tx.SendBatch(ctx, batch)
	defer br.Close()
	for range media {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert media: %w", err)
		}
	}
	return nil
}

func (t *tripTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	t.done = true
	return nil
}

func (t *tripTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
