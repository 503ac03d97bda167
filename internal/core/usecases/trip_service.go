package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flaira/flaira/internal/core/domain"
	"github.com/flaira/flaira/internal/core/ports"
	"github.com/flaira/flaira/internal/pkg/geospatial"
)

// CreateTripInput is a validated trip-creation payload. Shape validation
// (exactly one start and one end location, distinct traveler emails, ISO
// dates) happens at the HTTP boundary before this input is built.
type CreateTripInput struct {
	Details   TripDetails
	Route     RouteInput
	Travelers []Traveler
	Memories  []Memory
}

// TripDetails carries the trip's own fields. A nil EndDate means the trip is
// still ongoing; it is stored as equal to StartDate, so the persisted trip
// always has both bounds and a duration of at least one day.
type TripDetails struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
}

// RouteInput is the planned route: ordered waypoints plus the stop list used
// to resolve stop-<n> location identifiers.
type RouteInput struct {
	TransportMode            string
	EstimatedDurationSeconds float64
	EstimatedDistanceMeters  float64
	Locations                []LocationInput
	Stops                    []domain.StopEntry
}

// LocationInput is one waypoint of the route. ID is the client-supplied
// correlation key ("start", "end", or "stop-<n>").
type LocationInput struct {
	ID       string
	Name     string
	Address  string
	City     string
	Country  string
	Location domain.GeoPoint
}

// Traveler is one person to invite to the trip.
type Traveler struct {
	UserID string
	Email  string
	Role   domain.MemberRole
}

// Memory references an object already uploaded to the media store.
type Memory struct {
	StorageKey string
	Type       domain.MediaType
}

// CreateTripResult is returned to the creator after a successful commit.
type CreateTripResult struct {
	TripID      string                 `json:"tripId"`
	InvitesSent []domain.InviteReceipt `json:"invitesSent"`
}

// TripDetail is a trip with its owned route and membership rows.
type TripDetail struct {
	Trip      domain.Trip           `json:"trip"`
	Locations []domain.TripLocation `json:"locations"`
	Members   []domain.TripMember   `json:"members"`
}

// TripService creates and reads trips.
type TripService struct {
	trips    ports.TripRepository
	events   ports.EventPublisher
	delivery ports.InviteDelivery
}

// NewTripService creates a new TripService. events and delivery may be nil;
// both are post-commit side effects, not part of the creation transaction.
func NewTripService(trips ports.TripRepository, events ports.EventPublisher, delivery ports.InviteDelivery) *TripService {
	return &TripService{trips: trips, events: events, delivery: delivery}
}

// Create persists a trip and all its owned rows in one transaction: the trip
// itself, one location per route waypoint, an admin membership for the
// creator, one pending invite per traveler, and one media row per pre-uploaded
// memory. Any failure rolls the whole write set back. On success it returns
// the new trip id and the {email, inviteId} pairs of the invites it created.
func (s *TripService) Create(ctx context.Context, creator *domain.User, in CreateTripInput) (*CreateTripResult, error) {
	now := time.Now().UTC()

	// An omitted end date is stored as the start date, so the persisted trip
	// always carries both bounds and duration is computed against a real end.
	end := in.Details.EndDate
	if end == nil {
		start := in.Details.StartDate
		end = &start
	}

	distance := in.Route.EstimatedDistanceMeters
	if distance == 0 {
		distance = routeFallbackDistance(in.Route.Locations)
	}

	trip := &domain.Trip{
		ID:             uuid.NewString(),
		OwnerID:        creator.ID,
		Title:          in.Details.Title,
		Description:    in.Details.Description,
		StartDate:      in.Details.StartDate,
		EndDate:        *end,
		DurationDays:   domain.TripDuration(in.Details.StartDate, end),
		DistanceMeters: distance,
		TransportMode:  in.Route.TransportMode,
		Visibility:     domain.VisibilityPrivate,
		Status:         domain.TripActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	locations := make([]domain.TripLocation, 0, len(in.Route.Locations))
	for _, loc := range in.Route.Locations {
		ref, err := domain.ParseWaypointRef(loc.ID, in.Route.Stops)
		if err != nil {
			return nil, err
		}
		l := domain.TripLocation{
			ID:        uuid.NewString(),
			TripID:    trip.ID,
			Name:      loc.Name,
			Address:   loc.Address,
			City:      loc.City,
			Country:   loc.Country,
			Location:  loc.Location,
			Kind:      ref.Kind,
			CreatedAt: now,
		}
		if ref.Kind == domain.WaypointStop {
			idx := ref.StopIndex
			l.StopIndex = &idx
		}
		locations = append(locations, l)
	}

	owner := &domain.TripMember{
		ID:        uuid.NewString(),
		TripID:    trip.ID,
		UserID:    creator.ID,
		Role:      domain.RoleAdmin,
		AddedBy:   creator.ID,
		CreatedAt: now,
	}

	invites := make([]domain.TripInvite, 0, len(in.Travelers))
	for _, t := range in.Travelers {
		role := t.Role
		if role == "" {
			role = domain.RoleViewer
		}
		invites = append(invites, domain.TripInvite{
			ID:        uuid.NewString(),
			TripID:    trip.ID,
			Email:     t.Email,
			InvitedBy: creator.ID,
			Role:      role,
			Status:    domain.InvitePending,
			CreatedAt: now,
		})
	}

	media := make([]domain.TripMedia, 0, len(in.Memories))
	for _, m := range in.Memories {
		media = append(media, domain.TripMedia{
			ID:         uuid.NewString(),
			TripID:     trip.ID,
			Type:       m.Type,
			StorageKey: m.StorageKey,
			UploadedBy: creator.ID,
			CreatedAt:  now,
		})
	}

	tx, err := s.trips.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin trip transaction: %w", err)
	}
	// No-op once committed.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.InsertTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("insert trip: %w", err)
	}
	if err := tx.InsertLocations(ctx, locations); err != nil {
		return nil, fmt.Errorf("insert locations: %w", err)
	}
	if err := tx.InsertMember(ctx, owner); err != nil {
		return nil, fmt.Errorf("insert owner membership: %w", err)
	}
	if len(invites) > 0 {
		if err := tx.InsertInvites(ctx, invites); err != nil {
			return nil, fmt.Errorf("insert invites: %w", err)
		}
	}
	if len(media) > 0 {
		if err := tx.InsertMedia(ctx, media); err != nil {
			return nil, fmt.Errorf("insert media: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit trip transaction: %w", err)
	}

	// Post-commit side effects are best-effort; the trip exists either way.
	if s.events != nil {
		if err := s.events.PublishTripCreated(ctx, trip); err != nil {
			slog.Warn("publish trip created", "trip_id", trip.ID, "error", err)
		}
		for i := range media {
			if err := s.events.PublishMediaAdded(ctx, &media[i]); err != nil {
				slog.Warn("publish media added", "media_id", media[i].ID, "error", err)
			}
		}
	}
	if s.delivery != nil && len(invites) > 0 {
		if err := s.delivery.Deliver(ctx, trip, creator.Name, invites); err != nil {
			slog.Warn("start invite delivery", "trip_id", trip.ID, "error", err)
		}
	}

	receipts := make([]domain.InviteReceipt, 0, len(invites))
	for _, inv := range invites {
		receipts = append(receipts, domain.InviteReceipt{Email: inv.Email, InviteID: inv.ID})
	}
	return &CreateTripResult{TripID: trip.ID, InvitesSent: receipts}, nil
}

// Get returns a trip with its locations and members. Non-members can only
// read trips whose visibility is public or unlisted.
func (s *TripService) Get(ctx context.Context, tripID, userID string) (*TripDetail, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if _, err := s.trips.MemberRole(ctx, tripID, userID); err != nil {
		if trip.Visibility == domain.VisibilityPrivate {
			return nil, domain.ErrForbidden
		}
	}

	locations, err := s.trips.GetLocations(ctx, tripID)
	if err != nil {
		return nil, err
	}
	members, err := s.trips.GetMembers(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return &TripDetail{Trip: *trip, Locations: locations, Members: members}, nil
}

// ListForUser returns the trips the user is a member of, newest first,
// plus the total count for pagination.
func (s *TripService) ListForUser(ctx context.Context, userID string, offset, limit int) ([]domain.Trip, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.trips.ListByMember(ctx, userID, offset, limit)
}

// RequireRole checks that the user holds at least the given role on the trip.
func (s *TripService) RequireRole(ctx context.Context, tripID, userID string, min domain.MemberRole) error {
	role, err := s.trips.MemberRole(ctx, tripID, userID)
	if err != nil {
		return domain.ErrForbidden
	}
	if roleRank(role) < roleRank(min) {
		return domain.ErrForbidden
	}
	return nil
}

func roleRank(r domain.MemberRole) int {
	switch r {
	case domain.RoleAdmin:
		return 3
	case domain.RoleEditor:
		return 2
	case domain.RoleViewer:
		return 1
	}
	return 0
}

// routeFallbackDistance sums the straight-line legs between waypoints when
// the caller did not supply a distance estimate.
func routeFallbackDistance(locations []LocationInput) float64 {
	var total float64
	for i := 1; i < len(locations); i++ {
		a, b := locations[i-1].Location, locations[i].Location
		total += geospatial.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
	}
	return total
}
