package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains application-wide settings sourced from the environment.
// Only TICKETMASTER_API_KEY is strictly required; the database, mailer and
// Spotify integrations degrade to demo mode when their settings are absent.
type Config struct {
	Addr           string
	AllowedOrigins []string

	DatabaseURL string

	TicketmasterAPIKey string

	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURI  string

	ResendAPIKey string

	SweepSecret   string
	SweepSchedule string
	SweepDelay    time.Duration

	FrontendURL   string
	SecureCookies bool

	LogLevel  string
	LogFormat string
}

func loadConfig() (Config, error) {
	_ = godotenv.Load("config/local.env")

	apiKey := os.Getenv("TICKETMASTER_API_KEY")
	if apiKey == "" {
		return Config{}, errors.New("TICKETMASTER_API_KEY env var is required")
	}

	addr := fmt.Sprintf(":%s", envOrDefault("PORT", "8080"))

	origins := parseAllowedOrigins(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	return Config{
		Addr:           addr,
		AllowedOrigins: origins,

		DatabaseURL: os.Getenv("DATABASE_URL"),

		TicketmasterAPIKey: apiKey,

		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		SpotifyRedirectURI:  envOrDefault("SPOTIFY_REDIRECT_URI", "http://localhost:8080/api/v1/spotify/callback"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),

		SweepSecret:   os.Getenv("SWEEP_SECRET"),
		SweepSchedule: os.Getenv("SWEEP_SCHEDULE"),
		SweepDelay:    envDurationMillis("SWEEP_DELAY_MS", time.Second),

		FrontendURL:   envOrDefault("FRONTEND_URL", "http://localhost:3000"),
		SecureCookies: envOrDefault("SECURE_COOKIES", "false") == "true",

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDurationMillis(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func parseAllowedOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	var origins []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
