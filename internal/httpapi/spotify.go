package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"ticketalert/internal/match"
	"ticketalert/internal/spotify"
)

// handleSpotifyLogin redirects the browser into the authorization flow.
func (s *Server) handleSpotifyLogin(w http.ResponseWriter, r *http.Request) {
	if !s.spotify.Configured() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Spotify er ikke konfigurert"})
		return
	}
	http.Redirect(w, r, s.spotify.AuthURL(""), http.StatusFound)
}

// handleSpotifyCallback completes the authorization-code exchange and
// establishes the cookie session.
func (s *Server) handleSpotifyCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		log.Warn().Str("error", errParam).Msg("spotify authorization denied")
		s.redirectFrontend(w, r, "spotify_error=access_denied")
		return
	}

	code := q.Get("code")
	if code == "" {
		s.redirectFrontend(w, r, "spotify_error=no_code")
		return
	}

	token, err := s.spotify.Exchange(r.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("spotify code exchange failed")
		s.redirectFrontend(w, r, "spotify_error=token_exchange")
		return
	}

	profile, err := s.spotify.Profile(r.Context(), token.AccessToken)
	if err != nil {
		log.Error().Err(err).Msg("spotify profile fetch failed")
		s.redirectFrontend(w, r, "spotify_error=token_exchange")
		return
	}

	s.setSessionCookie(w, cookieAccessToken, token.AccessToken, token.ExpiresIn, true)
	s.setSessionCookie(w, cookieRefreshToken, token.RefreshToken, refreshTokenMaxAge, true)

	userJSON, err := json.Marshal(profile)
	if err == nil {
		s.setSessionCookie(w, cookieUser, url.QueryEscape(string(userJSON)), token.ExpiresIn, false)
	}

	s.redirectFrontend(w, r, "spotify_connected=true")
}

// handleSpotifyLogout clears the session cookies.
func (s *Server) handleSpotifyLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w, cookieAccessToken)
	s.clearSessionCookie(w, cookieRefreshToken)
	s.clearSessionCookie(w, cookieUser)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) redirectFrontend(w http.ResponseWriter, r *http.Request, query string) {
	http.Redirect(w, r, s.opts.FrontendURL+"/?"+query, http.StatusFound)
}

type topArtistsResponse struct {
	Artists  []match.RankedArtist   `json:"artists"`
	MatchMap map[string]match.Entry `json:"matchMap"`
	Total    int                    `json:"total"`
}

// handleTopArtists returns the merged ranked artists for the connected
// profile plus the normalized-name match map used for event scoring.
func (s *Server) handleTopArtists(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	if !sess.Connected() {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Not authenticated with Spotify"})
		return
	}

	accessToken := sess.AccessToken
	if accessToken == "" {
		// The access cookie expired; fall back to the refresh token for
		// this request. The refreshed token is not re-set as a cookie here.
		token, err := s.spotify.Refresh(r.Context(), sess.RefreshToken)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Session expired, please login again"})
			return
		}
		accessToken = token.AccessToken
	}

	shortTerm, mediumTerm, longTerm, err := s.spotify.TopArtistsAllRanges(r.Context(), accessToken)
	if err != nil {
		log.Error().Err(err).Msg("top artists fetch failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch top artists"})
		return
	}

	idx := match.NewIndex(
		toMatchArtists(shortTerm),
		toMatchArtists(mediumTerm),
		toMatchArtists(longTerm),
	)

	writeJSON(w, http.StatusOK, topArtistsResponse{
		Artists:  idx.Ranked(),
		MatchMap: idx.Entries(),
		Total:    idx.Len(),
	})
}

func toMatchArtists(artists []spotify.Artist) []match.Artist {
	converted := make([]match.Artist, 0, len(artists))
	for _, a := range artists {
		converted = append(converted, match.Artist{Name: a.Name, ImageURL: a.ImageURL})
	}
	return converted
}
