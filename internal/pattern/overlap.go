package pattern

import "sort"

// NonOverlapping reduces matches to a subset with no shared bytes, for
// highlighting. Matches are walked in start order and the leftmost wins;
// a later match that starts inside the last kept one is dropped.
func NonOverlapping(matches []Match) []Match {
	if len(matches) == 0 {
		return []Match{}
	}

	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Location.Start < sorted[j].Location.Start
	})

	kept := []Match{sorted[0]}
	for _, m := range sorted[1:] {
		if m.Location.Start >= kept[len(kept)-1].Location.End {
			kept = append(kept, m)
		}
	}
	return kept
}
