package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/flaira/flaira/internal/core/domain"
	"github.com/flaira/flaira/internal/core/usecases"
	"github.com/flaira/flaira/internal/pkg/metrics"
)

type presignRequest struct {
	FileName    string `json:"fileName" validate:"required,max=300"`
	ContentType string `json:"contentType" validate:"required,max=100"`
}

// PresignUploadHandler issues a presigned PUT URL for a new object under the
// caller's prefix. The client uploads directly to the store, then references
// the returned storage key when creating a trip or attaching media.
func PresignUploadHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req presignRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := validate.Struct(req); err != nil {
			return errUnprocessable(c, err.Error())
		}

		ticket, err := deps.Media.IssueUpload(c.Context(), currentUser(c).ID, req.FileName, req.ContentType)
		if err != nil {
			return errUnprocessable(c, err.Error())
		}

		metrics.MediaPresigns.WithLabelValues("upload").Inc()
		return c.Status(201).JSON(ticket)
	}
}

// ListTripMediaHandler returns the trip's media with presigned GET URLs.
func ListTripMediaHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tripID := c.Params("id")
		if tripID == "" {
			return errBadRequest(c, "trip id is required")
		}

		items, err := deps.Media.ListForTrip(c.Context(), tripID, currentUser(c).ID)
		if err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				return errForbidden(c, "not a member of this trip")
			}
			return errInternal(c, err.Error())
		}
		if items == nil {
			items = []usecases.MediaItem{}
		}

		metrics.MediaPresigns.WithLabelValues("get").Add(float64(len(items)))
		return c.JSON(items)
	}
}

// DeleteTripMediaHandler removes a media row and its stored object.
func DeleteTripMediaHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tripID := c.Params("id")
		mediaID := c.Params("mediaId")
		if tripID == "" || mediaID == "" {
			return errBadRequest(c, "trip id and media id are required")
		}

		err := deps.Media.Delete(c.Context(), tripID, mediaID, currentUser(c).ID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrForbidden):
				return errForbidden(c, "viewers cannot delete media")
			case errors.Is(err, domain.ErrNotFound):
				return errNotFound(c, "media not found")
			}
			return errInternal(c, err.Error())
		}
		return c.SendStatus(204)
	}
}
