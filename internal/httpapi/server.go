// Package httpapi exposes the JSON HTTP surface: event listings, resale
// checks, tracking subscriptions, the sweep trigger and the Spotify
// session endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"ticketalert/internal/catalog"
	"ticketalert/internal/notify"
	"ticketalert/internal/spotify"
	"ticketalert/internal/ticketmaster"
)

// EventService captures the discovery-API operations the handlers need.
type EventService interface {
	ListEvents(ctx context.Context, opts ticketmaster.ListOptions) ticketmaster.EventPage
	ListAllEvents(ctx context.Context, opts ticketmaster.ListOptions, maxPages int) ticketmaster.EventPage
	GetEvent(ctx context.Context, eventID string) (catalog.Concert, bool)
	CheckResale(ctx context.Context, eventID string) ticketmaster.ResaleStatus
}

// TrackingService records resale tracking requests.
type TrackingService interface {
	Track(ctx context.Context, eventID, eventName, email string) error
}

// SpotifyService covers the OAuth flow and top-artist reads.
type SpotifyService interface {
	Configured() bool
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (spotify.Token, error)
	Refresh(ctx context.Context, refreshToken string) (spotify.Token, error)
	Profile(ctx context.Context, accessToken string) (spotify.UserProfile, error)
	TopArtistsAllRanges(ctx context.Context, accessToken string) (shortTerm, mediumTerm, longTerm []spotify.Artist, err error)
}

// SweepRunner triggers one notification sweep pass.
type SweepRunner interface {
	Run(ctx context.Context) (notify.Report, error)
}

// Options carries the non-service configuration of the HTTP surface.
type Options struct {
	// SweepSecret guards the sweep trigger; empty leaves the trigger open,
	// which is only sensible for local development.
	SweepSecret string
	// FrontendURL is where the Spotify flow redirects back to.
	FrontendURL string
	// SecureCookies marks session cookies Secure; enable behind TLS.
	SecureCookies bool
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	events   EventService
	tracking TrackingService
	spotify  SpotifyService
	sweeper  SweepRunner
	opts     Options
}

// New configures a Server with the given service implementations.
func New(events EventService, tracking TrackingService, spotifySvc SpotifyService, sweeper SweepRunner, opts Options) *Server {
	if opts.FrontendURL == "" {
		opts.FrontendURL = "http://localhost:3000"
	}
	return &Server{
		events:   events,
		tracking: tracking,
		spotify:  spotifySvc,
		sweeper:  sweeper,
		opts:     opts,
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /api/v1/concerts", s.handleListConcerts)
	mux.HandleFunc("GET /api/v1/concerts/resale", s.handleCheckResale)
	mux.HandleFunc("POST /api/v1/track", s.handleTrack)
	mux.HandleFunc("POST /api/v1/notify/sweep", s.handleSweep)

	mux.HandleFunc("GET /api/v1/spotify/login", s.handleSpotifyLogin)
	mux.HandleFunc("GET /api/v1/spotify/callback", s.handleSpotifyCallback)
	mux.HandleFunc("GET /api/v1/spotify/logout", s.handleSpotifyLogout)
	mux.HandleFunc("GET /api/v1/spotify/top-artists", s.handleTopArtists)

	return RequestLogging(Recovery(mux))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
