package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// InviteEmail is one invite to deliver.
type InviteEmail struct {
	InviteID string
	Email    string
}

// InviteDeliveryInput is the input for the invite delivery workflow.
type InviteDeliveryInput struct {
	TripID      string
	TripTitle   string
	InviterName string
	Invites     []InviteEmail
}

// InviteDeliveryWorkflow sends the invite emails for a freshly created trip.
// Each email is retried independently; an invite whose delivery exhausts its
// retries is flagged undeliverable so the inviter can see it never arrived
// (saga compensation — the invite row itself stays pending).
func InviteDeliveryWorkflow(ctx workflow.Context, input InviteDeliveryInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting invite delivery workflow", "trip", input.TripID, "invites", len(input.Invites))

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var failed int
	for _, inv := range input.Invites {
		err := workflow.ExecuteActivity(ctx, "SendInviteEmail",
			inv.Email, input.InviterName, input.TripTitle, inv.InviteID).Get(ctx, nil)
		if err != nil {
			logger.Warn("invite email failed, marking undeliverable", "invite", inv.InviteID, "error", err)
			_ = workflow.ExecuteActivity(ctx, "MarkInviteUndeliverable", inv.InviteID).Get(ctx, nil)
			failed++
		}
	}

	logger.Info("Invite delivery finished", "sent", len(input.Invites)-failed, "failed", failed)
	return nil
}
