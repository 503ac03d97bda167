package resend

import (
	"context"
	"fmt"
	"html"

	"github.com/resend/resend-go/v2"
)

// Mailer implements ports.InviteMailer using the Resend API.
type Mailer struct {
	client  *resend.Client
	from    string
	baseURL string
}

// New creates a Mailer. baseURL is the web frontend origin used to build the
// invite link.
func New(apiKey, from, baseURL string) *Mailer {
	return &Mailer{
		client:  resend.NewClient(apiKey),
		from:    from,
		baseURL: baseURL,
	}
}

// SendInvite delivers the invite email with an accept link.
func (m *Mailer) SendInvite(ctx context.Context, email, inviterName, tripTitle, inviteID string) error {
	link := fmt.Sprintf("%s/invites/%s", m.baseURL, inviteID)

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email},
		Subject: fmt.Sprintf("%s invited you to join %q", inviterName, tripTitle),
		Html: fmt.Sprintf(
			`<p>%s invited you to join the trip <strong>%s</strong>.</p>
<p><a href=%q>View the invite</a></p>`,
			html.EscapeString(inviterName), html.EscapeString(tripTitle), link,
		),
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send invite email: %w", err)
	}
	return nil
}
