package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/flaira/flaira/internal/core/domain"
	"github.com/flaira/flaira/internal/core/usecases"
	"github.com/flaira/flaira/internal/pkg/metrics"
)

// createTripRequest is the trip-creation payload. Shape checks the core does
// not repeat (exactly one start and one end waypoint, distinct traveler
// emails) happen here, before the transaction ever starts.
type createTripRequest struct {
	Details struct {
		Title       string  `json:"title" validate:"required,min=1,max=200"`
		Description string  `json:"description" validate:"max=2000"`
		StartDate   string  `json:"startDate" validate:"required"`
		EndDate     *string `json:"endDate"`
	} `json:"details" validate:"required"`
	Route struct {
		TransportMode     string  `json:"transportMode" validate:"omitempty,oneof=driving walking cycling transit"`
		EstimatedDuration float64 `json:"estimatedDuration" validate:"gte=0"`
		EstimatedDistance float64 `json:"estimatedDistance" validate:"gte=0"`
		Locations         []struct {
			ID          string    `json:"id" validate:"required"`
			Name        string    `json:"name" validate:"required,max=200"`
			Address     string    `json:"address" validate:"max=300"`
			City        string    `json:"city" validate:"max=100"`
			Country     string    `json:"country" validate:"max=100"`
			Coordinates []float64 `json:"coordinates" validate:"required,len=2"` // lon, lat
		} `json:"locations" validate:"required,min=2,max=25,dive"`
		Stops []struct {
			ID int `json:"id"`
		} `json:"stops" validate:"dive"`
	} `json:"route" validate:"required"`
	Travelers struct {
		Users []struct {
			ID    string `json:"id"`
			Email string `json:"email" validate:"required,email"`
			Role  string `json:"role" validate:"omitempty,oneof=viewer editor admin"`
		} `json:"users" validate:"max=20,dive"`
	} `json:"travelers"`
	Memories []struct {
		S3Key string `json:"s3Key" validate:"required,max=500"`
		Type  string `json:"type" validate:"required,oneof=image video audio"`
	} `json:"memories" validate:"max=50,dive"`
}

// CreateTripHandler validates the payload and runs the trip-creation
// transaction.
func CreateTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createTripRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := validate.Struct(req); err != nil {
			return errUnprocessable(c, err.Error())
		}

		startDate, err := time.Parse(time.RFC3339, req.Details.StartDate)
		if err != nil {
			return errUnprocessable(c, "details.startDate must be an ISO datetime")
		}
		var endDate *time.Time
		if req.Details.EndDate != nil {
			t, err := time.Parse(time.RFC3339, *req.Details.EndDate)
			if err != nil {
				return errUnprocessable(c, "details.endDate must be an ISO datetime")
			}
			if t.Before(startDate) {
				return errUnprocessable(c, "details.endDate must not precede startDate")
			}
			endDate = &t
		}

		// Exactly one start and one end waypoint.
		var starts, ends int
		for _, loc := range req.Route.Locations {
			switch loc.ID {
			case "start":
				starts++
			case "end":
				ends++
			}
		}
		if starts != 1 || ends != 1 {
			return errUnprocessable(c, "route.locations must contain exactly one start and one end")
		}

		// Traveler emails must be distinct.
		seen := make(map[string]bool, len(req.Travelers.Users))
		for _, t := range req.Travelers.Users {
			email := strings.ToLower(t.Email)
			if seen[email] {
				return errUnprocessable(c, "duplicate traveler email: "+email)
			}
			seen[email] = true
		}

		in := usecases.CreateTripInput{
			Details: usecases.TripDetails{
				Title:       req.Details.Title,
				Description: req.Details.Description,
				StartDate:   startDate,
				EndDate:     endDate,
			},
			Route: usecases.RouteInput{
				TransportMode:            req.Route.TransportMode,
				EstimatedDurationSeconds: req.Route.EstimatedDuration,
				EstimatedDistanceMeters:  req.Route.EstimatedDistance,
			},
		}
		for _, loc := range req.Route.Locations {
			in.Route.Locations = append(in.Route.Locations, usecases.LocationInput{
				ID:      loc.ID,
				Name:    loc.Name,
				Address: loc.Address,
				City:    loc.City,
				Country: loc.Country,
				Location: domain.GeoPoint{
					Lon: loc.Coordinates[0],
					Lat: loc.Coordinates[1],
				},
			})
		}
		for _, s := range req.Route.Stops {
			in.Route.Stops = append(in.Route.Stops, domain.StopEntry{ID: s.ID})
		}
		for _, t := range req.Travelers.Users {
			in.Travelers = append(in.Travelers, usecases.Traveler{
				UserID: t.ID,
				Email:  strings.ToLower(t.Email),
				Role:   domain.MemberRole(t.Role),
			})
		}
		for _, m := range req.Memories {
			in.Memories = append(in.Memories, usecases.Memory{
				StorageKey: m.S3Key,
				Type:       domain.MediaType(m.Type),
			})
		}

		result, err := deps.Trips.Create(c.Context(), currentUser(c), in)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidWaypointRef):
				return errUnprocessable(c, err.Error())
			case errors.Is(err, domain.ErrStopNotFound):
				return errUnprocessable(c, err.Error())
			}
			return errInternal(c, err.Error())
		}

		metrics.TripsCreated.Inc()
		metrics.InvitesSent.Add(float64(len(result.InvitesSent)))

		return c.Status(201).JSON(result)
	}
}

// GetTripHandler returns a trip with its locations and members.
func GetTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trip id is required")
		}

		detail, err := deps.Trips.Get(c.Context(), id, currentUser(c).ID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrForbidden):
				return errForbidden(c, "not a member of this trip")
			case errors.Is(err, domain.ErrNotFound):
				return errNotFound(c, "trip not found")
			}
			return errInternal(c, err.Error())
		}
		return c.JSON(detail)
	}
}

// ListTripsHandler returns the caller's trips, newest first.
func ListTripsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 20)

		trips, total, err := deps.Trips.ListForUser(c.Context(), currentUser(c).ID, offset, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: trips, Pagination: pg})
	}
}
