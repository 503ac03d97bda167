package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/flaira/flaira/internal/core/domain"
)

// MediaRepo implements ports.MediaRepository.
type MediaRepo struct {
	db *DB
}

func NewMediaRepo(db *DB) *MediaRepo {
	return &MediaRepo{db: db}
}

func (r *MediaRepo) GetByID(ctx context.Context, id string) (*domain.TripMedia, error) {
	m := &domain.TripMedia{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, trip_day_id, trip_id, type, storage_key, uploaded_by, created_at
		FROM trip_media WHERE id = $1
	`, id).Scan(&m.ID, &m.TripDayID, &m.TripID, &m.Type, &m.StorageKey, &m.UploadedBy, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MediaRepo) ListByTrip(ctx context.Context, tripID string) ([]domain.TripMedia, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, trip_day_id, trip_id, type, storage_key, uploaded_by, created_at
		FROM trip_media
		WHERE trip_id = $1
		ORDER BY created_at DESC
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []domain.TripMedia
	for rows.Next() {
		var m domain.TripMedia
		if err := rows.Scan(&m.ID, &m.TripDayID, &m.TripID, &m.Type, &m.StorageKey, &m.UploadedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

func (r *MediaRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM trip_media WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
