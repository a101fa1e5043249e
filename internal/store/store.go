// Package store persists tracked resale subscriptions.
//
// Persistence is optional: without a configured database the service runs
// in a first-class demo mode where every operation is a successful no-op.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// ErrAlreadyTracked signals a pending subscription already exists for the
// same (event, email) pair.
var ErrAlreadyTracked = errors.New("event already tracked for this email")

// Subscription is one tracked (event, email) pair. NotifiedAt is nil while
// the subscription is pending and set exactly once by the notification
// sweep; rows are never deleted.
type Subscription struct {
	ID         string
	EventID    string
	EventName  string
	Email      string
	CreatedAt  time.Time
	NotifiedAt *time.Time
}

// Store is the persistence contract for tracked subscriptions.
type Store interface {
	// CreateSubscription records a new tracking request. Returns
	// ErrAlreadyTracked when a pending row for the same pair exists.
	CreateSubscription(ctx context.Context, eventID, eventName, email string) error

	// ListPending returns every subscription not yet notified.
	ListPending(ctx context.Context) ([]Subscription, error)

	// MarkNotified stamps the notified timestamp. Calling it again for the
	// same id is a no-op effect-wise.
	MarkNotified(ctx context.Context, id string) error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Unconfigured is the explicit demo-mode store used when no database is
// configured: creates succeed without persisting and the pending set is
// always empty.
type Unconfigured struct{}

// CreateSubscription accepts and discards the tracking request.
func (Unconfigured) CreateSubscription(ctx context.Context, eventID, eventName, email string) error {
	log.Info().Str("event_id", eventID).Msg("store not configured, subscription not persisted")
	return nil
}

// ListPending reports an empty pending set.
func (Unconfigured) ListPending(ctx context.Context) ([]Subscription, error) {
	return nil, nil
}

// MarkNotified is a no-op.
func (Unconfigured) MarkNotified(ctx context.Context, id string) error {
	return nil
}
