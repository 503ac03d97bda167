package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/flaira/flaira/internal/core/domain"
)

// Client implements ports.RouteProvider against the Mapbox Geocoding and
// Directions APIs.
type Client struct {
	http  *resty.Client
	token string
}

// New creates a Mapbox client.
func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = "https://api.mapbox.com"
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)
	return &Client{http: c, token: token}
}

type geocodeResponse struct {
	Features []struct {
		Text      string    `json:"text"`
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"` // lon, lat
		Context   []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"context"`
	} `json:"features"`
}

// Geocode resolves a free-text query to places.
func (c *Client) Geocode(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"access_token": c.token,
			"limit":        fmt.Sprintf("%d", limit),
		}).
		Get("/geocoding/v5/mapbox.places/" + url.PathEscape(query) + ".json")
	if err != nil {
		return nil, fmt.Errorf("mapbox geocode: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("mapbox geocode: status %d: %s", resp.StatusCode(), resp.String())
	}

	var gr geocodeResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	places := make([]domain.Place, 0, len(gr.Features))
	for _, f := range gr.Features {
		if len(f.Center) < 2 {
			continue
		}
		p := domain.Place{
			Name:     f.Text,
			Address:  f.PlaceName,
			Location: domain.GeoPoint{Lat: f.Center[1], Lon: f.Center[0]},
		}
		for _, ctxEntry := range f.Context {
			switch {
			case strings.HasPrefix(ctxEntry.ID, "place."):
				p.City = ctxEntry.Text
			case strings.HasPrefix(ctxEntry.ID, "country."):
				p.Country = ctxEntry.Text
			}
		}
		places = append(places, p)
	}
	return places, nil
}

type directionsResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // lon, lat
		} `json:"geometry"`
	} `json:"routes"`
}

// Directions computes a road route through the waypoints.
func (c *Client) Directions(ctx context.Context, waypoints []domain.GeoPoint, transportMode string) (*domain.RoutePreview, error) {
	coords := make([]string, len(waypoints))
	for i, w := range waypoints {
		coords[i] = fmt.Sprintf("%f,%f", w.Lon, w.Lat)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"access_token": c.token,
			"geometries":   "geojson",
			"overview":     "full",
		}).
		Get("/directions/v5/mapbox/" + profileFor(transportMode) + "/" + url.PathEscape(strings.Join(coords, ";")))
	if err != nil {
		return nil, fmt.Errorf("mapbox directions: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("mapbox directions: status %d: %s", resp.StatusCode(), resp.String())
	}

	var dr directionsResponse
	if err := json.Unmarshal(resp.Body(), &dr); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}
	if len(dr.Routes) == 0 {
		return nil, fmt.Errorf("mapbox directions: no route found")
	}

	best := dr.Routes[0]
	geom := domain.GeoLineString{Coordinates: make([]domain.GeoPoint, 0, len(best.Geometry.Coordinates))}
	for _, c := range best.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		geom.Coordinates = append(geom.Coordinates, domain.GeoPoint{Lat: c[1], Lon: c[0]})
	}

	return &domain.RoutePreview{
		Geometry:        geom,
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
	}, nil
}

func profileFor(transportMode string) string {
	switch transportMode {
	case "walking":
		return "walking"
	case "cycling":
		return "cycling"
	default:
		return "driving"
	}
}
