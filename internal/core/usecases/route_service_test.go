package usecases_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/flaira/flaira/internal/core/domain"
	"github.com/flaira/flaira/internal/core/usecases"
	"github.com/flaira/flaira/internal/pkg/metrics"
)

type mockRouteProvider struct {
	geocodeFn    func(ctx context.Context, query string, limit int) ([]domain.Place, error)
	directionsFn func(ctx context.Context, waypoints []domain.GeoPoint, mode string) (*domain.RoutePreview, error)
}

func (m *mockRouteProvider) Geocode(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	if m.geocodeFn != nil {
		return m.geocodeFn(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockRouteProvider) Directions(ctx context.Context, waypoints []domain.GeoPoint, mode string) (*domain.RoutePreview, error) {
	if m.directionsFn != nil {
		return m.directionsFn(ctx, waypoints, mode)
	}
	return nil, nil
}

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

var testWaypoints = []domain.GeoPoint{
	{Lat: 43.263, Lon: -2.935},
	{Lat: 43.318, Lon: -1.981},
}

func TestPreview_CachesProviderResult(t *testing.T) {
	calls := 0
	provider := &mockRouteProvider{
		directionsFn: func(ctx context.Context, waypoints []domain.GeoPoint, mode string) (*domain.RoutePreview, error) {
			calls++
			return &domain.RoutePreview{DistanceMeters: 101000, DurationSeconds: 4200}, nil
		},
	}
	cache := newMemCache()
	svc := usecases.NewRouteService(provider, cache)

	hitsBefore := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("preview"))
	missesBefore := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues("preview"))

	for i := 0; i < 3; i++ {
		preview, err := svc.Preview(context.Background(), testWaypoints, "car")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if preview.DistanceMeters != 101000 {
			t.Errorf("expected 101000, got %.0f", preview.DistanceMeters)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 provider call, got %d", calls)
	}

	if got := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("preview")) - hitsBefore; got != 2 {
		t.Errorf("cache hits moved by %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues("preview")) - missesBefore; got != 1 {
		t.Errorf("cache misses moved by %v, want 1", got)
	}
}

func TestPreview_FallsBackToStraightLine(t *testing.T) {
	provider := &mockRouteProvider{
		directionsFn: func(ctx context.Context, waypoints []domain.GeoPoint, mode string) (*domain.RoutePreview, error) {
			return nil, errors.New("provider down")
		},
	}
	svc := usecases.NewRouteService(provider, nil)

	preview, err := svc.Preview(context.Background(), testWaypoints, "car")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !preview.Estimated {
		t.Error("expected estimated fallback preview")
	}
	// Bilbao → Donostia great-circle is roughly 78 km.
	if preview.DistanceMeters < 60000 || preview.DistanceMeters > 95000 {
		t.Errorf("implausible fallback distance %.0f", preview.DistanceMeters)
	}
	if len(preview.Geometry.Coordinates) != 2 {
		t.Errorf("expected 2 geometry points, got %d", len(preview.Geometry.Coordinates))
	}
}

func TestPreview_RejectsSingleWaypoint(t *testing.T) {
	svc := usecases.NewRouteService(&mockRouteProvider{}, nil)
	if _, err := svc.Preview(context.Background(), testWaypoints[:1], "car"); err == nil {
		t.Fatal("expected error for single waypoint")
	}
}

func TestGeocode_CacheRoundTrip(t *testing.T) {
	calls := 0
	provider := &mockRouteProvider{
		geocodeFn: func(ctx context.Context, query string, limit int) ([]domain.Place, error) {
			calls++
			return []domain.Place{{Name: "Bilbao", Country: "Spain", Location: domain.GeoPoint{Lat: 43.263, Lon: -2.935}}}, nil
		},
	}
	cache := newMemCache()
	svc := usecases.NewRouteService(provider, cache)

	hitsBefore := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("geocode"))

	for i := 0; i < 2; i++ {
		places, err := svc.Geocode(context.Background(), "Bilbao", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(places) != 1 || places[0].Name != "Bilbao" {
			t.Errorf("unexpected geocode result: %+v", places)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 provider call, got %d", calls)
	}
	if got := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("geocode")) - hitsBefore; got != 1 {
		t.Errorf("cache hits moved by %v, want 1", got)
	}

	// Sanity: cached payload is the serialized places slice.
	var cached []domain.Place
	for _, v := range cache.data {
		if err := json.Unmarshal(v, &cached); err == nil && len(cached) == 1 {
			return
		}
	}
	t.Error("expected geocode result to be cached")
}
