package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ticketalert/internal/app/tracking"
	"ticketalert/internal/catalog"
	"ticketalert/internal/notify"
	"ticketalert/internal/spotify"
	"ticketalert/internal/store"
	"ticketalert/internal/ticketmaster"
)

type stubEvents struct {
	page       ticketmaster.EventPage
	resale     ticketmaster.ResaleStatus
	lastOpts   ticketmaster.ListOptions
	allCalled  bool
	lastResale string
}

func (s *stubEvents) ListEvents(ctx context.Context, opts ticketmaster.ListOptions) ticketmaster.EventPage {
	s.lastOpts = opts
	return s.page
}

func (s *stubEvents) ListAllEvents(ctx context.Context, opts ticketmaster.ListOptions, maxPages int) ticketmaster.EventPage {
	s.allCalled = true
	s.lastOpts = opts
	return s.page
}

func (s *stubEvents) GetEvent(ctx context.Context, eventID string) (catalog.Concert, bool) {
	for _, c := range s.page.Concerts {
		if c.ID == eventID {
			return c, true
		}
	}
	return catalog.Concert{}, false
}

func (s *stubEvents) CheckResale(ctx context.Context, eventID string) ticketmaster.ResaleStatus {
	s.lastResale = eventID
	return s.resale
}

type stubTracking struct {
	err  error
	last [3]string
}

func (s *stubTracking) Track(ctx context.Context, eventID, eventName, email string) error {
	s.last = [3]string{eventID, eventName, email}
	return s.err
}

type stubSpotify struct {
	configured bool
	token      spotify.Token
	exchange   error
	refreshErr error
	profile    spotify.UserProfile
	artists    []spotify.Artist
	topErr     error
}

func (s *stubSpotify) Configured() bool { return s.configured }

func (s *stubSpotify) AuthURL(state string) string { return "https://accounts.spotify.test/authorize" }

func (s *stubSpotify) Exchange(ctx context.Context, code string) (spotify.Token, error) {
	return s.token, s.exchange
}

func (s *stubSpotify) Refresh(ctx context.Context, refreshToken string) (spotify.Token, error) {
	return s.token, s.refreshErr
}

func (s *stubSpotify) Profile(ctx context.Context, accessToken string) (spotify.UserProfile, error) {
	return s.profile, nil
}

func (s *stubSpotify) TopArtistsAllRanges(ctx context.Context, accessToken string) ([]spotify.Artist, []spotify.Artist, []spotify.Artist, error) {
	return s.artists, nil, nil, s.topErr
}

type stubSweeper struct {
	report notify.Report
	err    error
	runs   int
}

func (s *stubSweeper) Run(ctx context.Context) (notify.Report, error) {
	s.runs++
	return s.report, s.err
}

func newTestServer(events *stubEvents, track *stubTracking, sp *stubSpotify, sweeper *stubSweeper, opts Options) *Server {
	if events == nil {
		events = &stubEvents{}
	}
	if track == nil {
		track = &stubTracking{}
	}
	if sp == nil {
		sp = &stubSpotify{}
	}
	if sweeper == nil {
		sweeper = &stubSweeper{}
	}
	return New(events, track, sp, sweeper, opts)
}

func TestListConcerts(t *testing.T) {
	events := &stubEvents{page: ticketmaster.EventPage{
		Concerts:      []catalog.Concert{{ID: "1", Name: "Aurora", Date: "2026-09-14"}},
		TotalElements: 1,
		TotalPages:    1,
	}}
	srv := newTestServer(events, nil, nil, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/concerts?category=music&page=2", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if events.lastOpts.Category != "music" || events.lastOpts.Page != 2 {
		t.Fatalf("opts = %+v", events.lastOpts)
	}

	var resp concertsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Concerts) != 1 || resp.Total != 1 {
		t.Fatalf("response = %+v", resp)
	}
}

func TestListConcertsGrouped(t *testing.T) {
	events := &stubEvents{page: ticketmaster.EventPage{
		Concerts: []catalog.Concert{
			{ID: "1", Name: "Aurora", Date: "2026-09-14"},
			{ID: "2", Name: "Aurora", Date: "2026-09-01"},
		},
		TotalElements: 2,
		TotalPages:    1,
	}}
	srv := newTestServer(events, nil, nil, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/concerts?grouped=true", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if !events.allCalled {
		t.Fatal("grouped listing must use the multi-page prefetch")
	}

	var resp groupedConcertsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Artists) != 1 || len(resp.Artists[0].Concerts) != 2 {
		t.Fatalf("groups = %+v", resp.Artists)
	}
	if resp.Artists[0].Concerts[0].ID != "2" {
		t.Fatal("concerts not sorted ascending by date")
	}
	if resp.Artists[0].Locale != catalog.LocaleDomestic {
		t.Fatalf("locale = %q", resp.Artists[0].Locale)
	}
}

func TestCheckResaleRequiresEventID(t *testing.T) {
	srv := newTestServer(nil, nil, nil, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/concerts/resale", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCheckResale(t *testing.T) {
	events := &stubEvents{resale: ticketmaster.ResaleStatus{HasResale: true, Info: "Videresolgte billetter tilgjengelig!"}}
	srv := newTestServer(events, nil, nil, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/concerts/resale?eventId=G5vVZ9p1", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if events.lastResale != "G5vVZ9p1" {
		t.Fatalf("checked %q", events.lastResale)
	}

	var status ticketmaster.ResaleStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if !status.HasResale {
		t.Fatal("expected hasResale true")
	}
}

func postTrack(t *testing.T, srv *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/track", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func TestTrackSuccess(t *testing.T) {
	track := &stubTracking{}
	srv := newTestServer(nil, track, nil, nil, Options{})

	rec := postTrack(t, srv, trackRequest{EventID: "G5vVZ9p1", EventName: "Aurora", Email: "a@b.no"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if track.last != [3]string{"G5vVZ9p1", "Aurora", "a@b.no"} {
		t.Fatalf("tracked %v", track.last)
	}
}

func TestTrackValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "missing fields", err: tracking.ErrMissingFields, want: tracking.ErrMissingFields.Error()},
		{name: "bad email", err: tracking.ErrInvalidEmail, want: tracking.ErrInvalidEmail.Error()},
		{name: "duplicate pending", err: store.ErrAlreadyTracked, want: "Du følger allerede dette arrangementet"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(nil, &stubTracking{err: tc.err}, nil, nil, Options{})
			rec := postTrack(t, srv, trackRequest{EventID: "x", Email: "a@b.no"})

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var resp errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Error != tc.want {
				t.Fatalf("error = %q, want %q", resp.Error, tc.want)
			}
		})
	}
}

func TestTrackStoreFailure(t *testing.T) {
	srv := newTestServer(nil, &stubTracking{err: errors.New("connection reset")}, nil, nil, Options{})
	rec := postTrack(t, srv, trackRequest{EventID: "x", Email: "a@b.no"})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestSweepAuthorization(t *testing.T) {
	sweeper := &stubSweeper{}
	srv := newTestServer(nil, nil, nil, sweeper, Options{SweepSecret: "s3cret"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notify/sweep", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", rec.Code)
	}
	if sweeper.runs != 0 {
		t.Fatal("sweep must not run without the secret")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/notify/sweep", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad-secret status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/notify/sweep", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authorized status = %d, want 200", rec.Code)
	}
	if sweeper.runs != 1 {
		t.Fatalf("sweep ran %d times, want 1", sweeper.runs)
	}
}

func TestSweepReport(t *testing.T) {
	sweeper := &stubSweeper{report: notify.Report{
		Checked:  2,
		Notified: 1,
		Results: []notify.Result{
			{EventID: "a", HasResale: true, Notified: true},
			{EventID: "b"},
		},
	}}
	srv := newTestServer(nil, nil, nil, sweeper, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notify/sweep", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	var resp sweepResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Checked != 2 || resp.Notified != 1 || len(resp.Results) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Message != "Sjekket 2 arrangementer" {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestTopArtistsRequiresSession(t *testing.T) {
	srv := newTestServer(nil, nil, &stubSpotify{configured: true}, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/spotify/top-artists", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestTopArtists(t *testing.T) {
	sp := &stubSpotify{
		configured: true,
		artists:    []spotify.Artist{{ID: "a1", Name: "Sigrid"}, {ID: "a2", Name: "Dagny"}},
	}
	srv := newTestServer(nil, nil, sp, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/spotify/top-artists", nil)
	req.AddCookie(&http.Cookie{Name: cookieAccessToken, Value: "tok"})
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp topArtistsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 || len(resp.Artists) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	if _, ok := resp.MatchMap["sigrid"]; !ok {
		t.Fatal("match map must be keyed by normalized name")
	}
}

func TestTopArtistsRefreshFallback(t *testing.T) {
	sp := &stubSpotify{
		configured: true,
		token:      spotify.Token{AccessToken: "fresh"},
		artists:    []spotify.Artist{{ID: "a1", Name: "Kygo"}},
	}
	srv := newTestServer(nil, nil, sp, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/spotify/top-artists", nil)
	req.AddCookie(&http.Cookie{Name: cookieRefreshToken, Value: "refresh"})
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTopArtistsExpiredSession(t *testing.T) {
	sp := &stubSpotify{configured: true, refreshErr: errors.New("invalid_grant")}
	srv := newTestServer(nil, nil, sp, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/spotify/top-artists", nil)
	req.AddCookie(&http.Cookie{Name: cookieRefreshToken, Value: "stale"})
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestSpotifyCallbackSetsCookies(t *testing.T) {
	sp := &stubSpotify{
		configured: true,
		token:      spotify.Token{AccessToken: "acc", RefreshToken: "ref", ExpiresIn: 3600},
		profile:    spotify.UserProfile{ID: "u1", Name: "Kari"},
	}
	srv := newTestServer(nil, nil, sp, nil, Options{FrontendURL: "http://front.test"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/spotify/callback?code=ok", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "http://front.test/?spotify_connected=true" {
		t.Fatalf("location = %q", loc)
	}

	cookies := rec.Result().Cookies()
	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}
	if c := byName[cookieAccessToken]; c == nil || c.Value != "acc" || !c.HttpOnly {
		t.Fatalf("access cookie = %+v", byName[cookieAccessToken])
	}
	if c := byName[cookieRefreshToken]; c == nil || c.Value != "ref" || !c.HttpOnly {
		t.Fatalf("refresh cookie = %+v", byName[cookieRefreshToken])
	}
	if c := byName[cookieUser]; c == nil || c.HttpOnly {
		t.Fatal("user cookie must be client readable")
	}
}

func TestSpotifyCallbackDenied(t *testing.T) {
	srv := newTestServer(nil, nil, &stubSpotify{configured: true}, nil, Options{FrontendURL: "http://front.test"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/spotify/callback?error=access_denied", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if loc := rec.Header().Get("Location"); loc != "http://front.test/?spotify_error=access_denied" {
		t.Fatalf("location = %q", loc)
	}
}

func TestSpotifyLogoutClearsCookies(t *testing.T) {
	srv := newTestServer(nil, nil, nil, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/spotify/logout", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	cleared := 0
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared++
		}
	}
	if cleared != 3 {
		t.Fatalf("cleared %d cookies, want 3", cleared)
	}
}
