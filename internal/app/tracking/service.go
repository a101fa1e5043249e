// Package tracking validates and records resale tracking requests.
package tracking

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"ticketalert/internal/store"
)

var (
	// ErrMissingFields signals the request lacked an event id or email.
	ErrMissingFields = errors.New("eventId og email er påkrevd")
	// ErrInvalidEmail signals a malformed email address.
	ErrInvalidEmail = errors.New("ugyldig e-postformat")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service coordinates tracking-subscription creation.
type Service struct {
	store store.Store
}

// New sets up the tracking service on the given store.
func New(subs store.Store) *Service {
	return &Service{store: subs}
}

// Track validates the request and persists the subscription. The event
// name is denormalized at creation time so alerts can be sent even if the
// event later disappears upstream. Duplicate pending pairs surface as
// store.ErrAlreadyTracked.
func (s *Service) Track(ctx context.Context, eventID, eventName, email string) error {
	eventID = strings.TrimSpace(eventID)
	email = strings.TrimSpace(email)

	if eventID == "" || email == "" {
		return ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}

	if eventName == "" {
		eventName = "Ukjent arrangement"
	}

	return s.store.CreateSubscription(ctx, eventID, eventName, email)
}
