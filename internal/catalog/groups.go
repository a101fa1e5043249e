package catalog

import (
	_ "embed"
	"sort"
	"strings"

	"ticketalert/internal/match"
)

// The domestic-artist list is a data asset, not logic: swap the file to
// retag, no code change needed.
//
//go:embed norwegian_artists.txt
var norwegianArtistsRaw string

var norwegianArtists = parseArtistList(norwegianArtistsRaw)

func parseArtistList(raw string) []string {
	var artists []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if line != "" {
			artists = append(artists, line)
		}
	}
	return artists
}

// IsDomestic reports whether an event name mentions a known Norwegian artist.
func IsDomestic(name string) bool {
	lower := strings.ToLower(name)
	for _, artist := range norwegianArtists {
		if strings.Contains(lower, artist) {
			return true
		}
	}
	return false
}

// GroupByArtist buckets concerts by display name. Each group keeps its
// concerts sorted ascending by date, takes the first concert's image, and
// gets a locale tag. Listening scores start at zero; AnnotateScores fills
// them in when a Spotify profile is connected.
func GroupByArtist(concerts []Concert) []ArtistGroup {
	buckets := make(map[string][]Concert)
	var order []string

	for _, concert := range concerts {
		if _, seen := buckets[concert.Name]; !seen {
			order = append(order, concert.Name)
		}
		buckets[concert.Name] = append(buckets[concert.Name], concert)
	}

	groups := make([]ArtistGroup, 0, len(order))
	for _, name := range order {
		bucket := buckets[name]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Date < bucket[j].Date
		})

		locale := LocaleInternational
		if IsDomestic(name) {
			locale = LocaleDomestic
		}

		groups = append(groups, ArtistGroup{
			Name:     name,
			ImageURL: bucket[0].ImageURL,
			Locale:   locale,
			Concerts: bucket,
		})
	}

	return groups
}

// AnnotateScores stamps each group with the listening score from the
// match index. A nil or empty index leaves every group at zero.
func AnnotateScores(groups []ArtistGroup, idx *match.Index) {
	for i := range groups {
		entry, ok := idx.Match(groups[i].Name)
		if !ok {
			continue
		}
		groups[i].ListeningScore = entry.Score
		groups[i].MatchedArtist = entry.Name
	}
}

// SortByScore orders groups for personalized display: listening score
// first, earliest concert date as tie-break.
func SortByScore(groups []ArtistGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].ListeningScore != groups[j].ListeningScore {
			return groups[i].ListeningScore > groups[j].ListeningScore
		}
		return firstDate(groups[i]) < firstDate(groups[j])
	})
}

func firstDate(g ArtistGroup) string {
	if len(g.Concerts) == 0 {
		return ""
	}
	return g.Concerts[0].Date
}
