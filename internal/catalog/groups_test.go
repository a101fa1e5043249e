package catalog

import (
	"testing"

	"ticketalert/internal/match"
)

func TestGroupByArtistAuroraScenario(t *testing.T) {
	concerts := []Concert{
		{ID: "3", Name: "Aurora", Date: "2026-11-02", City: "Trondheim"},
		{ID: "1", Name: "Aurora", Date: "2026-09-14", City: "Oslo", ImageURL: "http://img/aurora.jpg"},
		{ID: "2", Name: "Aurora", Date: "2026-10-01", City: "Bergen"},
	}

	groups := GroupByArtist(concerts)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}

	group := groups[0]
	if group.Name != "Aurora" {
		t.Fatalf("group name = %q", group.Name)
	}
	if group.Locale != LocaleDomestic {
		t.Fatalf("locale = %q, want %q", group.Locale, LocaleDomestic)
	}
	if len(group.Concerts) != 3 {
		t.Fatalf("got %d concerts, want 3", len(group.Concerts))
	}
	for i, wantID := range []string{"1", "2", "3"} {
		if group.Concerts[i].ID != wantID {
			t.Errorf("concert %d = %s, want %s (dates not ascending)", i, group.Concerts[i].ID, wantID)
		}
	}
	if group.ImageURL != "http://img/aurora.jpg" {
		t.Errorf("group image = %q, want the first concert's image", group.ImageURL)
	}
	if group.ListeningScore != 0 {
		t.Errorf("unannotated group score = %d, want 0", group.ListeningScore)
	}
}

func TestGroupByArtistLocaleTagging(t *testing.T) {
	groups := GroupByArtist([]Concert{
		{ID: "1", Name: "Kygo: Palmesus Special", Date: "2026-07-04"},
		{ID: "2", Name: "Rammstein", Date: "2026-06-20"},
	})

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Locale != LocaleDomestic {
		t.Errorf("Kygo event tagged %q, want domestic", groups[0].Locale)
	}
	if groups[1].Locale != LocaleInternational {
		t.Errorf("Rammstein tagged %q, want international", groups[1].Locale)
	}
}

func TestAnnotateScores(t *testing.T) {
	groups := GroupByArtist([]Concert{
		{ID: "1", Name: "Sigrid", Date: "2026-05-01"},
		{ID: "2", Name: "Rammstein", Date: "2026-06-01"},
	})

	idx := match.NewIndex([]match.Artist{{Name: "Sigrid"}}, nil, nil)
	AnnotateScores(groups, idx)

	if groups[0].ListeningScore != 100 || groups[0].MatchedArtist != "Sigrid" {
		t.Fatalf("Sigrid group = %+v, want score 100", groups[0])
	}
	if groups[1].ListeningScore != 0 {
		t.Fatalf("Rammstein group scored %d, want 0", groups[1].ListeningScore)
	}
}

func TestSortByScore(t *testing.T) {
	groups := []ArtistGroup{
		{Name: "B", ListeningScore: 10, Concerts: []Concert{{Date: "2026-03-01"}}},
		{Name: "A", ListeningScore: 90, Concerts: []Concert{{Date: "2026-05-01"}}},
		{Name: "C", ListeningScore: 10, Concerts: []Concert{{Date: "2026-01-01"}}},
	}

	SortByScore(groups)

	want := []string{"A", "C", "B"}
	for i, name := range want {
		if groups[i].Name != name {
			t.Fatalf("position %d = %s, want %s", i, groups[i].Name, name)
		}
	}
}
