package ticketmaster

// Wire types for the Discovery v2 API. Only the fields this system reads.

type tmListResponse struct {
	Embedded *tmEmbeddedEvents `json:"_embedded"`
	Page     *tmPage           `json:"page"`
}

type tmEmbeddedEvents struct {
	Events []tmEvent `json:"events"`
}

type tmPage struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

type tmEvent struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	URL    string    `json:"url"`
	Dates  tmDates   `json:"dates"`
	Images []tmImage `json:"images"`

	Embedded    *tmEmbeddedVenues `json:"_embedded"`
	PriceRanges []tmPriceRange    `json:"priceRanges"`
	TicketLimit *tmTicketLimit    `json:"ticketLimit"`
}

type tmDates struct {
	Start tmStart `json:"start"`
}

type tmStart struct {
	LocalDate string `json:"localDate"`
	LocalTime string `json:"localTime"`
}

type tmImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Ratio  string `json:"ratio"`
}

type tmEmbeddedVenues struct {
	Venues []tmVenue `json:"venues"`
}

type tmVenue struct {
	Name string  `json:"name"`
	City *tmCity `json:"city"`
}

type tmCity struct {
	Name string `json:"name"`
}

type tmPriceRange struct {
	Type     string  `json:"type"`
	Currency string  `json:"currency"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

type tmTicketLimit struct {
	Info string `json:"info"`
}
