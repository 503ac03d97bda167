package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flaira/flaira/internal/core/domain"
	"github.com/flaira/flaira/internal/core/ports"
	"github.com/flaira/flaira/internal/core/usecases"
)

// --- Mock trip repository and transaction ---

// recordingTx captures every row inserted through it and tracks the
// commit/rollback outcome. Individual steps can be made to fail.
type recordingTx struct {
	trips     []domain.Trip
	locations []domain.TripLocation
	members   []domain.TripMember
	invites   []domain.TripInvite
	media     []domain.TripMedia

	failInvites bool
	failMedia   bool

	committed  bool
	rolledBack bool
}

var errStore = errors.New("store failure")

func (tx *recordingTx) InsertTrip(ctx context.Context, trip *domain.Trip) error {
	tx.trips = append(tx.trips, *trip)
	return nil
}

func (tx *recordingTx) InsertLocations(ctx context.Context, locations []domain.TripLocation) error {
	tx.locations = append(tx.locations, locations...)
	return nil
}

func (tx *recordingTx) InsertMember(ctx context.Context, member *domain.TripMember) error {
	tx.members = append(tx.members, *member)
	return nil
}

func (tx *recordingTx) InsertInvites(ctx context.Context, invites []domain.TripInvite) error {
	if tx.failInvites {
		return errStore
	}
	tx.invites = append(tx.invites, invites...)
	return nil
}

func (tx *recordingTx) InsertMedia(ctx context.Context, media []domain.TripMedia) error {
	if tx.failMedia {
		return errStore
	}
	tx.media = append(tx.media, media...)
	return nil
}

func (tx *recordingTx) Commit(ctx context.Context) error {
	tx.committed = true
	return nil
}

func (tx *recordingTx) Rollback(ctx context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

type mockTripRepo struct {
	tx           *recordingTx
	getByIDFn    func(ctx context.Context, id string) (*domain.Trip, error)
	memberRoleFn func(ctx context.Context, tripID, userID string) (domain.MemberRole, error)
}

func (m *mockTripRepo) Begin(ctx context.Context) (ports.TripTx, error) { return m.tx, nil }

func (m *mockTripRepo) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTripRepo) ListByMember(ctx context.Context, userID string, offset, limit int) ([]domain.Trip, int, error) {
	return nil, 0, nil
}

func (m *mockTripRepo) GetLocations(ctx context.Context, tripID string) ([]domain.TripLocation, error) {
	return nil, nil
}

func (m *mockTripRepo) GetMembers(ctx context.Context, tripID string) ([]domain.TripMember, error) {
	return nil, nil
}

func (m *mockTripRepo) MemberRole(ctx context.Context, tripID, userID string) (domain.MemberRole, error) {
	if m.memberRoleFn != nil {
		return m.memberRoleFn(ctx, tripID, userID)
	}
	return "", domain.ErrNotFound
}

// --- Helpers ---

func creator() *domain.User {
	return &domain.User{ID: "user-1", Name: "Maia", Email: "maia@example.com"}
}

func basicInput() usecases.CreateTripInput {
	end := time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC)
	return usecases.CreateTripInput{
		Details: usecases.TripDetails{
			Title:     "Basque coast",
			StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   &end,
		},
		Route: usecases.RouteInput{
			TransportMode:           "car",
			EstimatedDistanceMeters: 120000,
			Locations: []usecases.LocationInput{
				{ID: "start", Name: "Bilbao", Location: domain.GeoPoint{Lat: 43.263, Lon: -2.935}},
				{ID: "stop-1", Name: "Getaria", Location: domain.GeoPoint{Lat: 43.303, Lon: -2.205}},
				{ID: "end", Name: "Donostia", Location: domain.GeoPoint{Lat: 43.318, Lon: -1.981}},
			},
			Stops: []domain.StopEntry{{ID: 1}},
		},
	}
}

// --- Tests ---

func TestCreateTrip_WritesAllRows(t *testing.T) {
	tx := &recordingTx{}
	svc := usecases.NewTripService(&mockTripRepo{tx: tx}, nil, nil)

	res, err := svc.Create(context.Background(), creator(), basicInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.committed {
		t.Fatal("transaction was not committed")
	}
	if res.TripID == "" {
		t.Error("expected a trip id")
	}
	if len(res.InvitesSent) != 0 {
		t.Errorf("expected no invites, got %d", len(res.InvitesSent))
	}

	if len(tx.trips) != 1 {
		t.Fatalf("expected 1 trip row, got %d", len(tx.trips))
	}
	trip := tx.trips[0]
	if trip.OwnerID != "user-1" {
		t.Errorf("expected owner user-1, got %s", trip.OwnerID)
	}
	if trip.Visibility != domain.VisibilityPrivate || trip.Status != domain.TripActive {
		t.Errorf("expected private/active, got %s/%s", trip.Visibility, trip.Status)
	}
	if trip.DurationDays != 4 {
		t.Errorf("expected duration 4, got %d", trip.DurationDays)
	}

	if len(tx.locations) != 3 {
		t.Fatalf("expected 3 location rows, got %d", len(tx.locations))
	}
	if tx.locations[0].Kind != domain.WaypointStart {
		t.Errorf("expected start, got %s", tx.locations[0].Kind)
	}
	if tx.locations[1].Kind != domain.WaypointStop {
		t.Errorf("expected stop, got %s", tx.locations[1].Kind)
	}
	if tx.locations[1].StopIndex == nil || *tx.locations[1].StopIndex != 0 {
		t.Errorf("expected stop index 0, got %v", tx.locations[1].StopIndex)
	}
	if tx.locations[2].Kind != domain.WaypointEnd {
		t.Errorf("expected end, got %s", tx.locations[2].Kind)
	}
	for _, l := range tx.locations {
		if l.TripID != trip.ID {
			t.Errorf("location %s not linked to trip", l.ID)
		}
	}

	if len(tx.members) != 1 {
		t.Fatalf("expected 1 member row, got %d", len(tx.members))
	}
	owner := tx.members[0]
	if owner.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %s", owner.Role)
	}
	if owner.AddedBy != owner.UserID {
		t.Errorf("expected self-added owner, got added_by %s", owner.AddedBy)
	}

	if len(tx.invites) != 0 || len(tx.media) != 0 {
		t.Errorf("expected no invites/media, got %d/%d", len(tx.invites), len(tx.media))
	}
}

func TestCreateTrip_InviteFanOut(t *testing.T) {
	tx := &recordingTx{}
	svc := usecases.NewTripService(&mockTripRepo{tx: tx}, nil, nil)

	in := basicInput()
	in.Travelers = []usecases.Traveler{
		{Email: "a@x.com", Role: domain.RoleEditor},
		{Email: "b@x.com"},
	}

	res, err := svc.Create(context.Background(), creator(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tx.invites) != 2 {
		t.Fatalf("expected 2 invite rows, got %d", len(tx.invites))
	}
	for _, inv := range tx.invites {
		if inv.Status != domain.InvitePending {
			t.Errorf("expected pending, got %s", inv.Status)
		}
		if inv.InvitedUserID != nil {
			t.Error("expected nil invited user id at creation")
		}
		if inv.AnsweredAt != nil {
			t.Error("expected nil answered_at at creation")
		}
		if inv.InvitedBy != "user-1" {
			t.Errorf("expected invited_by user-1, got %s", inv.InvitedBy)
		}
	}
	if tx.invites[0].Role != domain.RoleEditor {
		t.Errorf("expected editor role carried through, got %s", tx.invites[0].Role)
	}
	if tx.invites[1].Role != domain.RoleViewer {
		t.Errorf("expected viewer default, got %s", tx.invites[1].Role)
	}

	if len(res.InvitesSent) != 2 {
		t.Fatalf("expected 2 receipts, got %d", len(res.InvitesSent))
	}
	for i, r := range res.InvitesSent {
		if r.Email != tx.invites[i].Email || r.InviteID != tx.invites[i].ID {
			t.Errorf("receipt %d does not match inserted invite", i)
		}
	}
}

func TestCreateTrip_MediaRows(t *testing.T) {
	tx := &recordingTx{}
	svc := usecases.NewTripService(&mockTripRepo{tx: tx}, nil, nil)

	in := basicInput()
	in.Memories = []usecases.Memory{
		{StorageKey: "uploads/user-1/a.jpg", Type: domain.MediaImage},
		{StorageKey: "uploads/user-1/b.mp4", Type: domain.MediaVideo},
	}

	if _, err := svc.Create(context.Background(), creator(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tx.media) != 2 {
		t.Fatalf("expected 2 media rows, got %d", len(tx.media))
	}
	for _, m := range tx.media {
		if m.UploadedBy != "user-1" {
			t.Errorf("expected uploader user-1, got %s", m.UploadedBy)
		}
		if m.TripDayID != nil {
			t.Error("expected nil trip day id at creation")
		}
	}
}

func TestCreateTrip_PublishesEvents(t *testing.T) {
	tx := &recordingTx{}
	events := &recordingEvents{}
	svc := usecases.NewTripService(&mockTripRepo{tx: tx}, events, nil)

	in := basicInput()
	in.Memories = []usecases.Memory{
		{StorageKey: "uploads/user-1/a.jpg", Type: domain.MediaImage},
		{StorageKey: "uploads/user-1/b.mp4", Type: domain.MediaVideo},
	}

	res, err := svc.Create(context.Background(), creator(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events.created) != 1 {
		t.Fatalf("expected 1 trip-created event, got %d", len(events.created))
	}
	if events.created[0].ID != res.TripID {
		t.Errorf("event carries trip %s, want %s", events.created[0].ID, res.TripID)
	}
	if len(events.media) != 2 {
		t.Fatalf("expected 2 media-added events, got %d", len(events.media))
	}
	for _, m := range events.media {
		if m.TripID != res.TripID {
			t.Errorf("media event %s not linked to trip", m.ID)
		}
	}
}

func TestCreateTrip_OmittedEndDate(t *testing.T) {
	tx := &recordingTx{}
	svc := usecases.NewTripService(&mockTripRepo{tx: tx}, nil, nil)

	in := basicInput()
	in.Details.EndDate = nil

	if _, err := svc.Create(context.Background(), creator(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trip := tx.trips[0]
	if !trip.EndDate.Equal(trip.StartDate) {
		t.Errorf("expected end date defaulted to start date, got %v", trip.EndDate)
	}
	if trip.DurationDays != 1 {
		t.Errorf("expected duration 1 for defaulted end date, got %d", trip.DurationDays)
	}
}

func TestCreateTrip_ClassifierErrorRollsBack(t *testing.T) {
	tx := &recordingTx{}
	svc := usecases.NewTripService(&mockTripRepo{tx: tx}, nil, nil)

	in := basicInput()
	in.Route.Locations[1].ID = "stop-99" // no such stop

	_, err := svc.Create(context.Background(), creator(), in)
	if !errors.Is(err, domain.ErrStopNotFound) {
		t.Fatalf("expected ErrStopNotFound, got %v", err)
	}
	if tx.committed {
		t.Error("transaction must not commit on classifier error")
	}
	if len(tx.trips) != 0 {
		t.Error("no trip row may be written on classifier error")
	}
}

func TestCreateTrip_InviteStepFailureRollsBack(t *testing.T) {
	tx := &recordingTx{failInvites: true}
	svc := usecases.NewTripService(&mockTripRepo{tx: tx}, nil, nil)

	in := basicInput()
	in.Travelers = []usecases.Traveler{{Email: "a@x.com"}}

	_, err := svc.Create(context.Background(), creator(), in)
	if !errors.Is(err, errStore) {
		t.Fatalf("expected store failure, got %v", err)
	}
	if tx.committed {
		t.Error("transaction must not commit when a step fails")
	}
	if !tx.rolledBack {
		t.Error("transaction must roll back when a step fails")
	}
}

func TestCreateTrip_FallbackDistance(t *testing.T) {
	tx := &recordingTx{}
	svc := usecases.NewTripService(&mockTripRepo{tx: tx}, nil, nil)

	in := basicInput()
	in.Route.EstimatedDistanceMeters = 0

	if _, err := svc.Create(context.Background(), creator(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Bilbao → Getaria → Donostia is roughly 80 km great-circle.
	d := tx.trips[0].DistanceMeters
	if d < 60000 || d > 100000 {
		t.Errorf("expected straight-line fallback distance around 80km, got %.0f", d)
	}
}

func TestRequireRole(t *testing.T) {
	repo := &mockTripRepo{
		memberRoleFn: func(ctx context.Context, tripID, userID string) (domain.MemberRole, error) {
			if userID == "editor" {
				return domain.RoleEditor, nil
			}
			return "", domain.ErrNotFound
		},
	}
	svc := usecases.NewTripService(repo, nil, nil)

	if err := svc.RequireRole(context.Background(), "t1", "editor", domain.RoleViewer); err != nil {
		t.Errorf("editor should satisfy viewer requirement: %v", err)
	}
	if err := svc.RequireRole(context.Background(), "t1", "editor", domain.RoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("editor must not satisfy admin requirement, got %v", err)
	}
	if err := svc.RequireRole(context.Background(), "t1", "stranger", domain.RoleViewer); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-member must be forbidden, got %v", err)
	}
}
