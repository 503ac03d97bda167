package workflows

import (
	"context"
	"fmt"
	"log"

	"github.com/flaira/flaira/internal/core/ports"
	"github.com/flaira/flaira/internal/pkg/metrics"
)

// InviteActivities holds the activity implementations for the invite delivery workflow.
type InviteActivities struct {
	Mailer  ports.InviteMailer
	Invites ports.InviteRepository
}

// SendInviteEmail delivers one invite email.
func (a *InviteActivities) SendInviteEmail(ctx context.Context, email, inviterName, tripTitle, inviteID string) error {
	if a.Mailer == nil {
		log.Printf("MAIL (no mailer) → to=%s trip=%q invite=%s", email, tripTitle, inviteID)
		return nil
	}
	if err := a.Mailer.SendInvite(ctx, email, inviterName, tripTitle, inviteID); err != nil {
		return fmt.Errorf("send invite %s: %w", inviteID, err)
	}
	metrics.InviteEmailsSent.Inc()
	return nil
}

// MarkInviteUndeliverable flags an invite whose email never went out.
func (a *InviteActivities) MarkInviteUndeliverable(ctx context.Context, inviteID string) error {
	if err := a.Invites.MarkUndeliverable(ctx, inviteID); err != nil {
		return fmt.Errorf("mark invite %s undeliverable: %w", inviteID, err)
	}
	metrics.InviteEmailsFailed.Inc()
	log.Printf("Invite %s marked undeliverable", inviteID)
	return nil
}
