package pattern

import (
	"bytes"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_ExactRuleScenario(t *testing.T) {
	text := "We need to delve into this topic and delve deeper."
	rule := exactRule("delve", "delve")
	rule.ReplacementOptions = []string{"explore", "examine"}

	result := Detect(text, []Rule{rule})

	require.Equal(t, 2, result.TotalMatches)
	assert.Equal(t, []int{11, 37}, starts(result.Matches))
	assert.Equal(t, map[model.RuleCategory]int{model.CategoryPhraseReplacement: 2}, result.MatchesByCategory)
	assert.Equal(t, map[model.Severity]int{model.SeverityMedium: 2}, result.MatchesBySeverity)
	assert.Equal(t, 10, result.WordCount)
	// 4 weighted matches over the 100-word floor.
	assert.Equal(t, 100, result.AIScore)
}

func TestDetect_InvalidRuleDoesNotAbort(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	rules := []Rule{
		regexRule("broken", "("),
		exactRule("ok", "delve"),
	}

	result := NewDetector(logger).Detect("delve deeper", rules)

	require.Equal(t, 1, result.TotalMatches)
	assert.Equal(t, "ok", result.Matches[0].RuleID)
	assert.Contains(t, buf.String(), "rule_id=broken")
}

func TestDetect_FiltersInactiveAndEmptyRules(t *testing.T) {
	inactive := exactRule("inactive", "delve")
	inactive.IsActive = false

	result := Detect("delve", []Rule{inactive, exactRule("empty", "")})

	assert.Equal(t, 0, result.TotalMatches)
	assert.NotNil(t, result.Matches)
	assert.Empty(t, result.MatchesByCategory)
	assert.Equal(t, 0, result.AIScore)
}

func TestDetect_SortsStablyByStart(t *testing.T) {
	text := "furthermore, the tapestry is vibrant. Furthermore the tapestry"
	rules := []Rule{
		exactRule("tapestry", "tapestry"),
		regexRule("furthermore", `furthermore,?`),
		regexRule("the-tapestry", `the tapestry`),
	}

	result := Detect(text, rules)

	got := starts(result.Matches)
	assert.True(t, sort.IntsAreSorted(got), "matches not sorted: %v", got)

	// Equal starts keep rule order.
	tie := Detect("delve", []Rule{exactRule("b", "delve"), exactRule("a", "DELVE")})
	require.Len(t, tie.Matches, 2)
	assert.Equal(t, "b", tie.Matches[0].RuleID)
	assert.Equal(t, "a", tie.Matches[1].RuleID)

	for _, m := range result.Matches {
		assert.Equal(t, text[m.Location.Start:m.Location.End], m.MatchedText)
	}
}

func TestDetect_CountsBySeverityAndCategory(t *testing.T) {
	high := exactRule("high", "tapestry")
	high.Severity = model.SeverityHigh
	high.Category = model.CategoryWordVariety

	low := exactRule("low", "moreover")
	low.Severity = model.SeverityLow
	low.Category = model.CategoryTransitionWords

	result := Detect("Moreover, a tapestry. Moreover.", []Rule{high, low})

	assert.Equal(t, 3, result.TotalMatches)
	assert.Equal(t, map[model.RuleCategory]int{
		model.CategoryWordVariety:     1,
		model.CategoryTransitionWords: 2,
	}, result.MatchesByCategory)
	assert.Equal(t, map[model.Severity]int{
		model.SeverityHigh: 1,
		model.SeverityLow:  2,
	}, result.MatchesBySeverity)
	// (3 + 1 + 1) / 100 * 10000 caps at 100.
	assert.Equal(t, 100, result.AIScore)
}

func TestScore(t *testing.T) {
	medium := Match{Severity: model.SeverityMedium}
	low := Match{Severity: model.SeverityLow}
	high := Match{Severity: model.SeverityHigh}

	repeat := func(m Match, n int) []Match {
		out := make([]Match, n)
		for i := range out {
			out[i] = m
		}
		return out
	}

	tests := []struct {
		name      string
		matches   []Match
		wordCount int
		want      int
	}{
		{name: "no matches", matches: nil, wordCount: 0, want: 0},
		{name: "five medium per thousand words", matches: repeat(medium, 5), wordCount: 1000, want: 100},
		{name: "one low in ten thousand words", matches: []Match{low}, wordCount: 10000, want: 1},
		{name: "rounds half up", matches: []Match{low}, wordCount: 20000, want: 1},
		{name: "rounds down", matches: []Match{low}, wordCount: 30000, want: 0},
		{name: "one high in fifty thousand words", matches: []Match{high}, wordCount: 50000, want: 1},
		{name: "short text uses word floor", matches: []Match{low}, wordCount: 3, want: 100},
		{name: "mixed severities", matches: []Match{low, medium, high}, wordCount: 2000, want: 30},
		{name: "unknown severity weighs as medium", matches: []Match{{Severity: "odd"}}, wordCount: 4000, want: 5},
		{name: "capped at 100", matches: repeat(high, 50), wordCount: 200, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.matches, tt.wordCount))
		})
	}
}

func TestScore_Bounds(t *testing.T) {
	texts := []string{"", "one", strings.Repeat("delve ", 5000)}
	rules := []Rule{exactRule("1", "delve"), regexRule("2", `\w+`)}

	for _, text := range texts {
		result := Detect(text, rules)
		assert.GreaterOrEqual(t, result.AIScore, 0)
		assert.LessOrEqual(t, result.AIScore, 100)
	}
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("   \n\t "))
	assert.Equal(t, 3, WordCount("  one two\n\tthree "))
}
