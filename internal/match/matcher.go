package match

import "strings"

// Match looks up an event or artist display name in the index and returns
// its listening score. It tries an exact lookup on the normalized name
// first, then falls back to bidirectional substring containment against
// every indexed key in insertion order, returning the first hit. When
// several keys would match, the insertion-order tie-break is kept as is.
// An empty index always yields no match; this function never fails.
func (idx *Index) Match(name string) (Entry, bool) {
	if idx == nil || len(idx.entries) == 0 {
		return Entry{}, false
	}

	normalized := Normalize(name)

	if entry, ok := idx.entries[normalized]; ok {
		return entry, true
	}

	for _, key := range idx.keys {
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			return idx.entries[key], true
		}
	}

	return Entry{}, false
}

// Score is a convenience wrapper around Match for callers that only need
// the numeric score. Unmatched names score 0.
func (idx *Index) Score(name string) int {
	entry, ok := idx.Match(name)
	if !ok {
		return 0
	}
	return entry.Score
}
