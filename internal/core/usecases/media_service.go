package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/flaira/flaira/internal/core/domain"
	"github.com/flaira/flaira/internal/core/ports"
)

// UploadTicket is a presigned PUT URL plus the storage key the client must
// reference when attaching the object to a trip.
type UploadTicket struct {
	StorageKey string `json:"storage_key"`
	UploadURL  string `json:"upload_url"`
}

// MediaItem is a trip media row with a presigned GET URL.
type MediaItem struct {
	domain.TripMedia
	URL string `json:"url"`
}

// MediaService issues upload tickets and reads back trip media.
type MediaService struct {
	media ports.MediaRepository
	trips ports.TripRepository
	store ports.MediaStore
}

// NewMediaService creates a new MediaService.
func NewMediaService(media ports.MediaRepository, trips ports.TripRepository, store ports.MediaStore) *MediaService {
	return &MediaService{media: media, trips: trips, store: store}
}

// IssueUpload returns a presigned PUT URL for a fresh storage key under the
// user's prefix. The content type decides the media class and is rejected
// when it is none of image, video, or audio.
func (s *MediaService) IssueUpload(ctx context.Context, userID, fileName, contentType string) (*UploadTicket, error) {
	if _, err := MediaTypeFor(contentType); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("uploads/%s/%s%s", userID, uuid.NewString(), path.Ext(fileName))
	url, err := s.store.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &UploadTicket{StorageKey: key, UploadURL: url}, nil
}

// ListForTrip returns the trip's media with presigned GET URLs. Caller must
// be a trip member.
func (s *MediaService) ListForTrip(ctx context.Context, tripID, userID string) ([]MediaItem, error) {
	if _, err := s.trips.MemberRole(ctx, tripID, userID); err != nil {
		return nil, domain.ErrForbidden
	}

	rows, err := s.media.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	items := make([]MediaItem, 0, len(rows))
	for _, m := range rows {
		url, err := s.store.PresignGet(ctx, m.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("presign %s: %w", m.StorageKey, err)
		}
		items = append(items, MediaItem{TripMedia: m, URL: url})
	}
	return items, nil
}

// Delete removes a media row and, best-effort, the stored object. Caller
// must be an editor or admin on the trip.
func (s *MediaService) Delete(ctx context.Context, tripID, mediaID, userID string) error {
	role, err := s.trips.MemberRole(ctx, tripID, userID)
	if err != nil || role == domain.RoleViewer {
		return domain.ErrForbidden
	}

	m, err := s.media.GetByID(ctx, mediaID)
	if err != nil {
		return err
	}
	if m.TripID != tripID {
		return domain.ErrNotFound
	}

	if err := s.media.Delete(ctx, mediaID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, m.StorageKey); err != nil {
		slog.Warn("delete stored object", "key", m.StorageKey, "error", err)
	}
	return nil
}

// MediaTypeFor maps a MIME content type to its media class.
func MediaTypeFor(contentType string) (domain.MediaType, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return domain.MediaImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return domain.MediaVideo, nil
	case strings.HasPrefix(contentType, "audio/"):
		return domain.MediaAudio, nil
	}
	return "", fmt.Errorf("unsupported content type %q", contentType)
}
