// Package spotify integrates the Spotify Web API for user authorization
// and top-artist reads. Scopes are limited to user-top-read and
// user-read-private; tokens belong to the end user and are never cached
// by this client.
package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAuthBase = "https://accounts.spotify.com"
	defaultAPIBase  = "https://api.spotify.com/v1"

	scopes = "user-top-read user-read-private"
)

// TimeRange selects a listening-recency window for top-artist reads.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"  // roughly the last 4 weeks
	MediumTerm TimeRange = "medium_term" // roughly the last 6 months
	LongTerm   TimeRange = "long_term"   // several years
)

// Client calls the Spotify accounts and Web API endpoints. A client
// without credentials is valid; Configured reports whether the OAuth flow
// can be offered.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client

	authBase string
	apiBase  string
}

// New builds a Spotify client.
func New(clientID, clientSecret, redirectURI string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		authBase: defaultAuthBase,
		apiBase:  defaultAPIBase,
	}
}

// Configured reports whether OAuth credentials are present.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// Token is the result of a code exchange or refresh.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// UserProfile is the subset of the Spotify profile shown to clients.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Artist is one entry of a user's ranked top-artist list.
type Artist struct {
	ID       string
	Name     string
	ImageURL string
	Genres   []string
}

// AuthURL builds the authorization-code URL the user is redirected to.
func (c *Client) AuthURL(state string) string {
	params := url.Values{
		"client_id":     {c.clientID},
		"response_type": {"code"},
		"redirect_uri":  {c.redirectURI},
		"scope":         {scopes},
		"show_dialog":   {"true"},
	}
	if state != "" {
		params.Set("state", state)
	}
	return c.authBase + "/authorize?" + params.Encode()
}

// Exchange swaps an authorization code for access and refresh tokens.
func (c *Client) Exchange(ctx context.Context, code string) (Token, error) {
	return c.tokenRequest(ctx, url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {c.redirectURI},
	})
}

// Refresh obtains a fresh access token from a refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Token, error) {
	return c.tokenRequest(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	})
}

func (c *Client) tokenRequest(ctx context.Context, form url.Values) (Token, error) {
	if !c.Configured() {
		return Token{}, fmt.Errorf("spotify credentials not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authBase+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("create token request: %w", err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("send token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Token{}, fmt.Errorf("spotify token endpoint: %s - %s", resp.Status, string(body))
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return Token{}, fmt.Errorf("decode token response: %w", err)
	}
	return token, nil
}

type spotifyProfile struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Images      []spotifyImage `json:"images"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type spotifyArtist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Genres []string       `json:"genres"`
	Images []spotifyImage `json:"images"`
}

type topArtistsResponse struct {
	Items []spotifyArtist `json:"items"`
}

// Profile fetches the connected user's id, display name and avatar.
func (c *Client) Profile(ctx context.Context, accessToken string) (UserProfile, error) {
	var raw spotifyProfile
	if err := c.doRequest(ctx, accessToken, "/me", nil, &raw); err != nil {
		return UserProfile{}, err
	}

	profile := UserProfile{ID: raw.ID, Name: raw.DisplayName}
	if len(raw.Images) > 0 {
		profile.Image = raw.Images[0].URL
	}
	return profile, nil
}

// TopArtists fetches the user's ranked top artists for one recency
// window. The API caps limit at 50.
func (c *Client) TopArtists(ctx context.Context, accessToken string, timeRange TimeRange, limit int) ([]Artist, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	params := url.Values{
		"time_range": {string(timeRange)},
		"limit":      {strconv.Itoa(limit)},
	}

	var raw topArtistsResponse
	if err := c.doRequest(ctx, accessToken, "/me/top/artists", params, &raw); err != nil {
		return nil, err
	}

	artists := make([]Artist, 0, len(raw.Items))
	for _, item := range raw.Items {
		artist := Artist{ID: item.ID, Name: item.Name, Genres: item.Genres}
		if len(item.Images) > 0 {
			artist.ImageURL = item.Images[0].URL
		}
		artists = append(artists, artist)
	}
	return artists, nil
}

// TopArtistsAllRanges fetches all three recency windows. A failed window
// degrades to an empty list so partial listening history still
// personalizes the catalog.
func (c *Client) TopArtistsAllRanges(ctx context.Context, accessToken string) (shortTerm, mediumTerm, longTerm []Artist, err error) {
	var lastErr error
	fetch := func(timeRange TimeRange) []Artist {
		artists, fetchErr := c.TopArtists(ctx, accessToken, timeRange, 50)
		if fetchErr != nil {
			lastErr = fetchErr
			return nil
		}
		return artists
	}

	shortTerm = fetch(ShortTerm)
	mediumTerm = fetch(MediumTerm)
	longTerm = fetch(LongTerm)

	if len(shortTerm) == 0 && len(mediumTerm) == 0 && len(longTerm) == 0 && lastErr != nil {
		return nil, nil, nil, fmt.Errorf("fetch top artists: %w", lastErr)
	}
	return shortTerm, mediumTerm, longTerm, nil
}

func (c *Client) doRequest(ctx context.Context, accessToken, endpoint string, params url.Values, result any) error {
	apiURL := c.apiBase + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("spotify api error: %s - %s", resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
