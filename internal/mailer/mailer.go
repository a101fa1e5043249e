// Package mailer sends the resale alert email through Resend.
package mailer

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Alert carries the fields embedded in a resale notification email.
type Alert struct {
	To        string
	EventName string
	EventDate string // calendar date, YYYY-MM-DD
	Venue     string
	TicketURL string
}

// Mailer dispatches resale alerts. Implementations report provider
// failures as errors; callers decide whether to mark the subscription
// notified based on that.
type Mailer interface {
	SendResaleAlert(ctx context.Context, alert Alert) error
}

// Noop is the demo-mode mailer used when no provider is configured:
// it logs the alert and reports success without sending anything.
type Noop struct{}

// SendResaleAlert logs and succeeds.
func (Noop) SendResaleAlert(ctx context.Context, alert Alert) error {
	log.Info().
		Str("to", alert.To).
		Str("event", alert.EventName).
		Msg("mailer not configured, alert not sent")
	return nil
}
