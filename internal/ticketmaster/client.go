// Package ticketmaster wraps the Discovery v2 API for Norwegian events.
//
// Every operation degrades to an empty result on upstream failure instead
// of returning an error: callers cannot distinguish "nothing found" from
// "upstream unavailable", which is the intended contract for this system.
package ticketmaster

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"ticketalert/internal/catalog"
)

const (
	defaultBaseURL = "https://app.ticketmaster.com/discovery/v2"

	// Events are searched for Norway only, soonest first.
	countryCode = "NO"
	sortOrder   = "date,asc"

	placeholderImage = "/placeholder-concert.jpg"
	unknownVenue     = "Ukjent sted"
	unknownCity      = "Ukjent by"
)

// Client calls the discovery API. A client with an empty API key is valid
// and returns empty results from every operation.
type Client struct {
	apiKey string
	http   *resty.Client
}

// New builds a discovery client with a 30 second timeout and no retries:
// a single failed attempt is treated as an empty result.
func New(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(30 * time.Second),
	}
}

// ListOptions narrows an event listing.
type ListOptions struct {
	Keyword  string
	Category string // music, arts, sports, family, miscellaneous, or "all"
	Page     int
	Size     int
}

// EventPage is one page of mapped events plus pagination metadata.
type EventPage struct {
	Concerts      []catalog.Concert
	TotalElements int
	TotalPages    int
	CurrentPage   int
}

// ResaleStatus is the outcome of a resale availability check.
type ResaleStatus struct {
	HasResale bool   `json:"hasResale"`
	Info      string `json:"info,omitempty"`
}

// ListEvents fetches one page of upcoming events in Norway, mapped to the
// internal Concert shape. Any upstream failure yields an empty page.
func (c *Client) ListEvents(ctx context.Context, opts ListOptions) EventPage {
	if c.apiKey == "" {
		log.Warn().Msg("ticketmaster API key not configured, returning empty listing")
		return EventPage{}
	}

	size := opts.Size
	if size <= 0 {
		size = 200
	}

	params := map[string]string{
		"apikey":      c.apiKey,
		"countryCode": countryCode,
		"size":        strconv.Itoa(size),
		"page":        strconv.Itoa(opts.Page),
		"sort":        sortOrder,
	}
	if opts.Category != "" && opts.Category != "all" {
		params["classificationName"] = opts.Category
	}
	if opts.Keyword != "" {
		params["keyword"] = opts.Keyword
	}

	var body tmListResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&body).
		Get("/events.json")
	if err != nil {
		log.Warn().Err(err).Msg("ticketmaster listing failed")
		return EventPage{}
	}
	if !resp.IsSuccess() {
		log.Warn().Int("status", resp.StatusCode()).Msg("ticketmaster listing returned non-success status")
		return EventPage{}
	}
	if body.Embedded == nil || len(body.Embedded.Events) == 0 {
		return EventPage{}
	}

	page := EventPage{
		Concerts:      make([]catalog.Concert, 0, len(body.Embedded.Events)),
		TotalElements: len(body.Embedded.Events),
		TotalPages:    1,
	}
	for _, ev := range body.Embedded.Events {
		page.Concerts = append(page.Concerts, mapEvent(ev))
	}
	if body.Page != nil {
		if body.Page.TotalPages > 0 {
			page.TotalPages = body.Page.TotalPages
		}
		if body.Page.TotalElements > 0 {
			page.TotalElements = body.Page.TotalElements
		}
		page.CurrentPage = body.Page.Number
	}

	return page
}

// ListAllEvents fetches page 0 and then up to maxPages-1 further pages
// concurrently, merging the results in page order. A failed page degrades
// to an empty list without failing the rest.
func (c *Client) ListAllEvents(ctx context.Context, opts ListOptions, maxPages int) EventPage {
	opts.Page = 0
	first := c.ListEvents(ctx, opts)
	if len(first.Concerts) == 0 {
		return first
	}

	if maxPages <= 0 {
		maxPages = 5
	}
	pages := first.TotalPages
	if pages > maxPages {
		pages = maxPages
	}
	if pages <= 1 {
		return first
	}

	extra := make([]EventPage, pages-1)
	var wg sync.WaitGroup
	for p := 1; p < pages; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			pageOpts := opts
			pageOpts.Page = p
			extra[p-1] = c.ListEvents(ctx, pageOpts)
		}(p)
	}
	wg.Wait()

	merged := first
	for _, page := range extra {
		merged.Concerts = append(merged.Concerts, page.Concerts...)
	}
	merged.CurrentPage = pages - 1
	return merged
}

// GetEvent fetches a single event. The boolean reports whether details
// could be obtained; false covers both "not found" and upstream failure.
func (c *Client) GetEvent(ctx context.Context, eventID string) (catalog.Concert, bool) {
	ev, ok := c.fetchEvent(ctx, eventID)
	if !ok {
		return catalog.Concert{}, false
	}
	return mapEvent(ev), true
}

// CheckResale fetches fresh event details and looks for resale indicators:
// a price-range type tag containing "resale", or the ticket-limit text
// mentioning it. This is a heuristic, not an inventory signal, and any
// upstream failure reads as "no resale".
func (c *Client) CheckResale(ctx context.Context, eventID string) ResaleStatus {
	ev, ok := c.fetchEvent(ctx, eventID)
	if !ok {
		return ResaleStatus{Info: "Ingen videresolgte billetter funnet"}
	}

	hasResale := false
	for _, pr := range ev.PriceRanges {
		if strings.Contains(strings.ToLower(pr.Type), "resale") {
			hasResale = true
			break
		}
	}
	if !hasResale && ev.TicketLimit != nil {
		hasResale = strings.Contains(strings.ToLower(ev.TicketLimit.Info), "resale")
	}

	if hasResale {
		return ResaleStatus{HasResale: true, Info: "Videresolgte billetter tilgjengelig!"}
	}
	return ResaleStatus{Info: "Ingen videresolgte billetter funnet"}
}

func (c *Client) fetchEvent(ctx context.Context, eventID string) (tmEvent, bool) {
	if c.apiKey == "" || eventID == "" {
		return tmEvent{}, false
	}

	var ev tmEvent
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("apikey", c.apiKey).
		SetResult(&ev).
		Get("/events/" + eventID + ".json")
	if err != nil {
		log.Warn().Err(err).Str("event_id", eventID).Msg("ticketmaster event fetch failed")
		return tmEvent{}, false
	}
	if !resp.IsSuccess() {
		return tmEvent{}, false
	}
	return ev, true
}

// mapEvent converts an upstream event record to the internal Concert
// shape, filling explicit placeholders for missing venue data and
// preferring a wide 16:9 image when one exists.
func mapEvent(ev tmEvent) catalog.Concert {
	concert := catalog.Concert{
		ID:       ev.ID,
		Name:     ev.Name,
		Date:     ev.Dates.Start.LocalDate,
		Time:     ev.Dates.Start.LocalTime,
		Venue:    unknownVenue,
		City:     unknownCity,
		ImageURL: pickImage(ev.Images),
		URL:      ev.URL,
	}

	if ev.Embedded != nil && len(ev.Embedded.Venues) > 0 {
		venue := ev.Embedded.Venues[0]
		if venue.Name != "" {
			concert.Venue = venue.Name
		}
		if venue.City != nil && venue.City.Name != "" {
			concert.City = venue.City.Name
		}
	}

	if len(ev.PriceRanges) > 0 {
		pr := ev.PriceRanges[0]
		concert.PriceRange = &catalog.PriceRange{
			Min:      pr.Min,
			Max:      pr.Max,
			Currency: pr.Currency,
		}
	}

	return concert
}

func pickImage(images []tmImage) string {
	for _, img := range images {
		if img.Ratio == "16_9" && img.Width >= 500 {
			return img.URL
		}
	}
	if len(images) > 0 {
		return images[0].URL
	}
	return placeholderImage
}
