package httpapi

import (
	"net/http"
	"strconv"

	"ticketalert/internal/catalog"
	"ticketalert/internal/match"
	"ticketalert/internal/ticketmaster"
)

const prefetchMaxPages = 5

type concertsResponse struct {
	Concerts    []catalog.Concert `json:"concerts"`
	Total       int               `json:"total"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
}

type groupedConcertsResponse struct {
	Artists     []catalog.ArtistGroup `json:"artists"`
	Total       int                   `json:"total"`
	TotalPages  int                   `json:"totalPages"`
	CurrentPage int                   `json:"currentPage"`
}

// handleListConcerts serves the event catalog. With grouped=true the
// response is bucketed into artist groups across a multi-page prefetch;
// a connected Spotify session additionally annotates listening scores.
func (s *Server) handleListConcerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := ticketmaster.ListOptions{
		Keyword:  q.Get("keyword"),
		Category: q.Get("category"),
	}
	if opts.Category == "" {
		opts.Category = "all"
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page >= 0 {
		opts.Page = page
	}
	if size, err := strconv.Atoi(q.Get("size")); err == nil && size > 0 {
		opts.Size = size
	}

	if q.Get("grouped") != "true" {
		page := s.events.ListEvents(r.Context(), opts)
		writeJSON(w, http.StatusOK, concertsResponse{
			Concerts:    emptyIfNil(page.Concerts),
			Total:       page.TotalElements,
			TotalPages:  page.TotalPages,
			CurrentPage: page.CurrentPage,
		})
		return
	}

	page := s.events.ListAllEvents(r.Context(), opts, prefetchMaxPages)
	groups := catalog.GroupByArtist(page.Concerts)

	if idx := s.matchIndexFromSession(r); idx != nil {
		catalog.AnnotateScores(groups, idx)
		catalog.SortByScore(groups)
	}

	if groups == nil {
		groups = []catalog.ArtistGroup{}
	}
	writeJSON(w, http.StatusOK, groupedConcertsResponse{
		Artists:     groups,
		Total:       page.TotalElements,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
	})
}

// matchIndexFromSession builds a match index for the connected Spotify
// profile, or nil when no session is present or the fetch fails. Catalog
// personalization is best effort; listing never fails because of it.
func (s *Server) matchIndexFromSession(r *http.Request) *match.Index {
	sess := sessionFromRequest(r)
	if sess.AccessToken == "" {
		return nil
	}

	shortTerm, mediumTerm, longTerm, err := s.spotify.TopArtistsAllRanges(r.Context(), sess.AccessToken)
	if err != nil {
		return nil
	}

	return match.NewIndex(
		toMatchArtists(shortTerm),
		toMatchArtists(mediumTerm),
		toMatchArtists(longTerm),
	)
}

func emptyIfNil(concerts []catalog.Concert) []catalog.Concert {
	if concerts == nil {
		return []catalog.Concert{}
	}
	return concerts
}

// handleCheckResale reports resale availability for a single event.
func (s *Server) handleCheckResale(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("eventId")
	if eventID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "eventId parameter er påkrevd"})
		return
	}

	writeJSON(w, http.StatusOK, s.events.CheckResale(r.Context(), eventID))
}
