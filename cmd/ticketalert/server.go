package main

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"ticketalert/internal/app/tracking"
	"ticketalert/internal/httpapi"
	"ticketalert/internal/mailer"
	"ticketalert/internal/notify"
	"ticketalert/internal/spotify"
	"ticketalert/internal/store"
	"ticketalert/internal/ticketmaster"
)

// services bundles everything the HTTP handler and the scheduler share.
type services struct {
	events  *ticketmaster.Client
	sweeper *notify.Sweeper
	handler http.Handler
}

func buildServices(cfg Config, db *sql.DB) *services {
	events := ticketmaster.New(cfg.TicketmasterAPIKey)

	var subs store.Store = store.Unconfigured{}
	if db != nil {
		subs = store.NewPostgres(db)
	} else {
		log.Warn().Msg("DATABASE_URL not set, tracking runs in demo mode")
	}

	var alerts mailer.Mailer = mailer.Noop{}
	if cfg.ResendAPIKey != "" {
		alerts = mailer.NewResend(cfg.ResendAPIKey)
	} else {
		log.Warn().Msg("RESEND_API_KEY not set, alerts are logged instead of sent")
	}

	spotifySvc := spotify.New(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyRedirectURI)
	if !spotifySvc.Configured() {
		log.Warn().Msg("Spotify credentials not set, personalization disabled")
	}

	trackingSvc := tracking.New(subs)
	sweeper := notify.NewSweeper(subs, events, alerts, cfg.SweepDelay)

	srv := httpapi.New(events, trackingSvc, spotifySvc, sweeper, httpapi.Options{
		SweepSecret:   cfg.SweepSecret,
		FrontendURL:   cfg.FrontendURL,
		SecureCookies: cfg.SecureCookies,
	})

	return &services{
		events:  events,
		sweeper: sweeper,
		handler: withCORS(cfg.AllowedOrigins, srv.Routes()),
	}
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
