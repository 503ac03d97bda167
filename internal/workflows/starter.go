package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/flaira/flaira/internal/core/domain"
)

// TaskQueue is the Temporal task queue the invite delivery worker listens on.
const TaskQueue = "invite-delivery"

// Delivery implements ports.InviteDelivery by starting an
// InviteDeliveryWorkflow per created trip.
type Delivery struct {
	temporal client.Client
}

// NewDelivery wraps a Temporal client.
func NewDelivery(c client.Client) *Delivery {
	return &Delivery{temporal: c}
}

// Deliver starts the delivery workflow for the trip's invites.
func (d *Delivery) Deliver(ctx context.Context, trip *domain.Trip, inviterName string, invites []domain.TripInvite) error {
	if len(invites) == 0 {
		return nil
	}

	input := InviteDeliveryInput{
		TripID:      trip.ID,
		TripTitle:   trip.Title,
		InviterName: inviterName,
		Invites:     make([]InviteEmail, 0, len(invites)),
	}
	for _, inv := range invites {
		input.Invites = append(input.Invites, InviteEmail{InviteID: inv.ID, Email: inv.Email})
	}

	opts := client.StartWorkflowOptions{
		ID:        "invite-delivery-" + trip.ID,
		TaskQueue: TaskQueue,
	}
	if _, err := d.temporal.ExecuteWorkflow(ctx, opts, InviteDeliveryWorkflow, input); err != nil {
		return fmt.Errorf("start invite delivery workflow: %w", err)
	}
	return nil
}
