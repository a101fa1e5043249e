package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Postgres implements Store on a relational tracked_events table. The
// duplicate-pending guarantee is delegated entirely to the database's
// partial unique index over (event_id, email) where notified_at is null;
// the application performs no locking or compare-and-swap of its own.
type Postgres struct {
	db *sql.DB
}

// NewPostgres sets up a Postgres store using the provided database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// CreateSubscription inserts a tracking row, mapping the unique-violation
// condition to ErrAlreadyTracked.
func (s *Postgres) CreateSubscription(ctx context.Context, eventID, eventName, email string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tracked_events (event_id, event_name, email)
		VALUES ($1, $2, $3)
	`, eventID, eventName, email)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyTracked
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// ListPending returns all rows with a null notified timestamp, oldest first.
func (s *Postgres) ListPending(ctx context.Context) ([]Subscription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, event_name, email, created_at, notified_at
		FROM tracked_events
		WHERE notified_at IS NULL
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select pending subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var (
			sub        Subscription
			notifiedAt sql.NullTime
		)
		if err := rows.Scan(&sub.ID, &sub.EventID, &sub.EventName, &sub.Email, &sub.CreatedAt, &notifiedAt); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		if notifiedAt.Valid {
			sub.NotifiedAt = &notifiedAt.Time
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}

	return subs, nil
}

// MarkNotified sets the notified timestamp to the current time. Once
// non-null the timestamp never reverts; a second call rewrites it with a
// later time, which has no observable effect on the pending set.
func (s *Postgres) MarkNotified(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `
		UPDATE tracked_events
		SET notified_at = NOW()
		WHERE id = $1
	`, id); err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}
