package catalog

// PriceRange carries the advertised ticket price span for a concert.
type PriceRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// Concert is one upcoming event as presented to clients. Instances are
// mapped straight off the discovery API and live for a single request;
// nothing here is stored locally.
type Concert struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Date       string      `json:"date"`
	Time       string      `json:"time,omitempty"`
	Venue      string      `json:"venue"`
	City       string      `json:"city"`
	ImageURL   string      `json:"imageUrl"`
	URL        string      `json:"url"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
}

// Artist-locale tags. Domestic means the event name mentions a known
// Norwegian artist.
const (
	LocaleDomestic      = "NO"
	LocaleInternational = "INT"
)

// ArtistGroup bundles every concert sharing a display name, sorted
// ascending by date. Derived on each catalog fetch, never stored.
type ArtistGroup struct {
	Name           string    `json:"name"`
	ImageURL       string    `json:"imageUrl"`
	Locale         string    `json:"locale"`
	ListeningScore int       `json:"listeningScore"`
	MatchedArtist  string    `json:"matchedArtist,omitempty"`
	Concerts       []Concert `json:"concerts"`
}
