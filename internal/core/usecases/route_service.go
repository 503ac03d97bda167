package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/flaira/flaira/internal/core/domain"
	"github.com/flaira/flaira/internal/core/ports"
	"github.com/flaira/flaira/internal/pkg/geospatial"
	"github.com/flaira/flaira/internal/pkg/metrics"
)

// RouteService computes route previews and geocodes place queries, with a
// read-through cache in front of the map provider.
type RouteService struct {
	provider ports.RouteProvider
	cache    ports.CacheService
}

// NewRouteService creates a new RouteService.
func NewRouteService(provider ports.RouteProvider, cache ports.CacheService) *RouteService {
	return &RouteService{provider: provider, cache: cache}
}

// Preview returns the road route through the waypoints. When the provider is
// unavailable it falls back to straight-line legs so the client still gets a
// distance estimate.
func (s *RouteService) Preview(ctx context.Context, waypoints []domain.GeoPoint, transportMode string) (*domain.RoutePreview, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("route preview needs at least 2 waypoints")
	}

	cacheKey := previewCacheKey(waypoints, transportMode)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var preview domain.RoutePreview
			if err := json.Unmarshal(data, &preview); err == nil {
				metrics.CacheHits.WithLabelValues("preview").Inc()
				return &preview, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("preview").Inc()
	}

	preview, err := s.directionsOrFallback(ctx, waypoints, transportMode)
	if err != nil {
		return nil, err
	}

	// Routes between fixed waypoints are stable; cache for an hour.
	if s.cache != nil && !preview.Estimated {
		if data, err := json.Marshal(preview); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, time.Hour)
		}
	}
	return preview, nil
}

// Geocode resolves a free-text place query.
func (s *RouteService) Geocode(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	if query == "" {
		return nil, fmt.Errorf("geocode query must not be empty")
	}
	if limit <= 0 || limit > 10 {
		limit = 5
	}

	cacheKey := fmt.Sprintf("geocode:%d:%s", limit, query)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var places []domain.Place
			if err := json.Unmarshal(data, &places); err == nil {
				metrics.CacheHits.WithLabelValues("geocode").Inc()
				return places, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("geocode").Inc()
	}

	places, err := s.provider.Geocode(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(places); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 24*time.Hour)
		}
	}
	return places, nil
}

func (s *RouteService) directionsOrFallback(ctx context.Context, waypoints []domain.GeoPoint, transportMode string) (*domain.RoutePreview, error) {
	if s.provider != nil {
		preview, err := s.provider.Directions(ctx, waypoints, transportMode)
		if err == nil {
			return preview, nil
		}
		slog.Warn("directions provider failed, using straight-line estimate", "error", err)
	}

	points := make([][2]float64, len(waypoints))
	for i, w := range waypoints {
		points[i] = [2]float64{w.Lat, w.Lon}
	}
	return &domain.RoutePreview{
		Geometry:       domain.GeoLineString{Coordinates: waypoints},
		DistanceMeters: geospatial.PathDistance(points),
		Estimated:      true,
	}, nil
}

func previewCacheKey(waypoints []domain.GeoPoint, transportMode string) string {
	key := "route:" + transportMode
	for _, w := range waypoints {
		key += fmt.Sprintf(":%.5f,%.5f", w.Lon, w.Lat)
	}
	return key
}
