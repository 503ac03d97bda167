package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/flaira/flaira/internal/core/domain"
)

// RoutePreviewHandler computes a route through the supplied waypoints.
// GET /v1/routes/preview?waypoints=lon,lat;lon,lat&mode=driving
func RoutePreviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("waypoints")
		if raw == "" {
			return errBadRequest(c, "waypoints query parameter is required (lon,lat;lon,lat)")
		}

		var waypoints []domain.GeoPoint
		for _, pair := range strings.Split(raw, ";") {
			parts := strings.Split(strings.TrimSpace(pair), ",")
			if len(parts) != 2 {
				return errBadRequest(c, "waypoints must be lon,lat pairs separated by semicolons")
			}
			lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			if err != nil {
				return errBadRequest(c, "invalid longitude: "+parts[0])
			}
			lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if err != nil {
				return errBadRequest(c, "invalid latitude: "+parts[1])
			}
			waypoints = append(waypoints, domain.GeoPoint{Lon: lon, Lat: lat})
		}
		if len(waypoints) < 2 {
			return errBadRequest(c, "at least 2 waypoints are required")
		}
		if len(waypoints) > 25 {
			return errBadRequest(c, "maximum 25 waypoints allowed")
		}

		mode := c.Query("mode", "driving")

		preview, err := deps.Routes.Preview(c.Context(), waypoints, mode)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(preview)
	}
}

// GeocodeHandler resolves a free-text place query.
// GET /v1/geocode?q=Bilbao&limit=5
func GeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		limit := c.QueryInt("limit", 5)

		places, err := deps.Routes.Geocode(c.Context(), query, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if places == nil {
			places = []domain.Place{}
		}
		return c.JSON(places)
	}
}
