package pattern

import (
	"testing"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/stretchr/testify/assert"
)

func namedSpan(id string, start, end int) Match {
	return Match{RuleID: id, Location: model.Location{Start: start, End: end}}
}

func ruleIDs(matches []Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.RuleID)
	}
	return out
}

func TestNonOverlapping(t *testing.T) {
	tests := []struct {
		name    string
		matches []Match
		want    []string
	}{
		{
			name:    "empty input",
			matches: nil,
			want:    []string{},
		},
		{
			name:    "single match",
			matches: []Match{namedSpan("a", 0, 3)},
			want:    []string{"a"},
		},
		{
			name:    "adjacent matches are kept",
			matches: []Match{namedSpan("a", 0, 3), namedSpan("b", 3, 5)},
			want:    []string{"a", "b"},
		},
		{
			name:    "later overlapping match is dropped",
			matches: []Match{namedSpan("a", 0, 5), namedSpan("b", 3, 8), namedSpan("c", 8, 9)},
			want:    []string{"a", "c"},
		},
		{
			name:    "unsorted input is sorted first",
			matches: []Match{namedSpan("c", 10, 12), namedSpan("a", 0, 4), namedSpan("b", 2, 6)},
			want:    []string{"a", "c"},
		},
		{
			name:    "equal starts keep the first",
			matches: []Match{namedSpan("short", 0, 2), namedSpan("long", 0, 10)},
			want:    []string{"short"},
		},
		{
			name:    "compared against last kept match",
			matches: []Match{namedSpan("a", 0, 10), namedSpan("b", 2, 4), namedSpan("c", 5, 12), namedSpan("d", 10, 11)},
			want:    []string{"a", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NonOverlapping(tt.matches)
			assert.Equal(t, tt.want, ruleIDs(got))
			assert.Equal(t, got, NonOverlapping(got), "resolver must be idempotent")
		})
	}
}

func TestNonOverlapping_DetectedMatches(t *testing.T) {
	text := "It is important to note that it is important."
	rules := []Rule{
		regexRule("long", `it is important to note( that)?`),
		exactRule("short", "important"),
	}

	got := NonOverlapping(Detect(text, rules).Matches)

	assert.Equal(t, []string{"long", "short"}, ruleIDs(got))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].Location.Start, got[i-1].Location.End)
	}
}
