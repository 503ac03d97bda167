package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/flaira/flaira/internal/core/domain"
)

// ListInvitesHandler returns the pending invites addressed to the caller.
func ListInvitesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		invites, err := deps.Invites.ListForUser(c.Context(), currentUser(c))
		if err != nil {
			return errInternal(c, err.Error())
		}
		if invites == nil {
			invites = []domain.TripInvite{}
		}
		return c.JSON(invites)
	}
}

// AcceptInviteHandler accepts an invite and joins the caller to the trip.
func AcceptInviteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return answerInvite(c, deps.Invites.Accept)
	}
}

// DeclineInviteHandler declines an invite.
func DeclineInviteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return answerInvite(c, deps.Invites.Decline)
	}
}

func answerInvite(c *fiber.Ctx, answer func(ctx context.Context, inviteID string, user *domain.User) error) error {
	id := c.Params("id")
	if id == "" {
		return errBadRequest(c, "invite id is required")
	}

	err := answer(c.Context(), id, currentUser(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return errForbidden(c, "invite is addressed to someone else")
		case errors.Is(err, domain.ErrNotFound):
			return errNotFound(c, "invite not found or already answered")
		}
		return errInternal(c, err.Error())
	}
	return c.SendStatus(204)
}

// RevokeInviteHandler withdraws a pending invite. Trip admins only.
func RevokeInviteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tripID := c.Params("id")
		inviteID := c.Params("inviteId")
		if tripID == "" || inviteID == "" {
			return errBadRequest(c, "trip id and invite id are required")
		}

		err := deps.Invites.Revoke(c.Context(), tripID, inviteID, currentUser(c).ID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrForbidden):
				return errForbidden(c, "only trip admins can revoke invites")
			case errors.Is(err, domain.ErrNotFound):
				return errNotFound(c, "invite not found or already answered")
			}
			return errInternal(c, err.Error())
		}
		return c.SendStatus(204)
	}
}
