package match

import (
	"math"
	"sort"
)

// Artist is one entry of a ranked top-artist list.
type Artist struct {
	Name     string `json:"name"`
	ImageURL string `json:"image,omitempty"`
}

// Entry is the score an indexed artist carries, together with the
// display name it was indexed under.
type Entry struct {
	Score int    `json:"score"`
	Name  string `json:"originalName"`
}

// RankedArtist is an indexed artist prepared for display, sorted by score.
type RankedArtist struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	ImageURL string `json:"image,omitempty"`
}

// Window base offsets bias recently played artists above the rest:
// short term lands in [50,100], medium in [25,75], long in [0,50].
const (
	shortTermBase  = 50
	mediumTermBase = 25
	longTermBase   = 0
)

// Index maps normalized artist names to listening scores. It is built from
// up to three ranked lists covering different listening-recency windows and
// rebuilt on every personalization fetch; nothing here is persisted.
type Index struct {
	keys    []string
	entries map[string]Entry
	ranked  []RankedArtist
}

// NewIndex merges the three recency windows into a single index. Windows are
// processed most-recent first and the first occurrence of an artist wins, so
// an artist present in both the short- and long-term lists keeps the
// short-term score.
func NewIndex(shortTerm, mediumTerm, longTerm []Artist) *Index {
	idx := &Index{entries: make(map[string]Entry)}

	idx.addWindow(shortTerm, shortTermBase)
	idx.addWindow(mediumTerm, mediumTermBase)
	idx.addWindow(longTerm, longTermBase)

	sort.SliceStable(idx.ranked, func(i, j int) bool {
		return idx.ranked[i].Score > idx.ranked[j].Score
	})

	return idx
}

func (idx *Index) addWindow(artists []Artist, base int) {
	total := len(artists)
	for i, artist := range artists {
		key := Normalize(artist.Name)
		if key == "" {
			continue
		}
		if _, exists := idx.entries[key]; exists {
			continue
		}

		bonus := int(math.Round(float64(total-i) / float64(total) * 50))
		score := base + bonus

		idx.keys = append(idx.keys, key)
		idx.entries[key] = Entry{Score: score, Name: artist.Name}
		idx.ranked = append(idx.ranked, RankedArtist{
			Name:     artist.Name,
			Score:    score,
			ImageURL: artist.ImageURL,
		})
	}
}

// Len reports how many artists are indexed.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entries exposes the full lookup map keyed by normalized name.
func (idx *Index) Entries() map[string]Entry {
	return idx.entries
}

// Ranked returns all indexed artists sorted by score, highest first.
func (idx *Index) Ranked() []RankedArtist {
	return idx.ranked
}
