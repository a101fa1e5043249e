// Package notify runs the scheduled resale sweep over pending
// subscriptions.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"ticketalert/internal/catalog"
	"ticketalert/internal/mailer"
	"ticketalert/internal/store"
	"ticketalert/internal/ticketmaster"
)

// EventAPI is the slice of the discovery client the sweep needs.
type EventAPI interface {
	CheckResale(ctx context.Context, eventID string) ticketmaster.ResaleStatus
	GetEvent(ctx context.Context, eventID string) (catalog.Concert, bool)
}

// Result records the outcome for one pending subscription.
type Result struct {
	EventID   string `json:"eventId"`
	HasResale bool   `json:"hasResale"`
	Notified  bool   `json:"notified"`
}

// Report summarizes one sweep pass.
type Report struct {
	Checked  int      `json:"checked"`
	Notified int      `json:"notified"`
	Results  []Result `json:"results"`
}

// Sweeper iterates pending subscriptions, checks resale availability and
// emails subscribers. Strictly sequential with a flat pause between rows
// to stay under upstream rate limits. There is no retry counter or
// backoff; a row that keeps failing is re-examined on every sweep.
type Sweeper struct {
	store  store.Store
	events EventAPI
	mailer mailer.Mailer
	delay  time.Duration
}

// NewSweeper wires a sweep over the given store, event API and mailer.
func NewSweeper(subs store.Store, events EventAPI, m mailer.Mailer, delay time.Duration) *Sweeper {
	return &Sweeper{store: subs, events: events, mailer: m, delay: delay}
}

// Run performs a single sweep pass. A row is marked notified only after
// its alert email was accepted; rows where resale is unavailable, details
// cannot be fetched or the email fails stay pending for the next pass.
func (s *Sweeper) Run(ctx context.Context) (Report, error) {
	pending, err := s.store.ListPending(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list pending subscriptions: %w", err)
	}

	report := Report{Checked: len(pending)}
	for i, sub := range pending {
		report.Results = append(report.Results, s.process(ctx, sub))
		if s.delay > 0 && i < len(pending)-1 {
			time.Sleep(s.delay)
		}
	}

	for _, r := range report.Results {
		if r.Notified {
			report.Notified++
		}
	}

	log.Info().
		Int("checked", report.Checked).
		Int("notified", report.Notified).
		Msg("resale sweep finished")

	return report, nil
}

func (s *Sweeper) process(ctx context.Context, sub store.Subscription) Result {
	result := Result{EventID: sub.EventID}

	status := s.events.CheckResale(ctx, sub.EventID)
	if !status.HasResale {
		return result
	}
	result.HasResale = true

	concert, ok := s.events.GetEvent(ctx, sub.EventID)
	if !ok {
		log.Warn().Str("event_id", sub.EventID).Msg("resale found but event details unavailable, leaving pending")
		return result
	}

	err := s.mailer.SendResaleAlert(ctx, mailer.Alert{
		To:        sub.Email,
		EventName: concert.Name,
		EventDate: concert.Date,
		Venue:     concert.Venue + ", " + concert.City,
		TicketURL: concert.URL,
	})
	if err != nil {
		log.Warn().Err(err).Str("event_id", sub.EventID).Msg("alert email failed, leaving pending")
		return result
	}

	if err := s.store.MarkNotified(ctx, sub.ID); err != nil {
		// The email went out but the stamp failed; the row stays pending
		// and the subscriber may be emailed again next sweep.
		log.Error().Err(err).Str("subscription_id", sub.ID).Msg("mark notified failed")
		return result
	}

	result.Notified = true
	return result
}
