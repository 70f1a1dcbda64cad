package cli

import (
	"testing"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/stretchr/testify/assert"
)

func span(text, id string, start, end int) model.PatternMatch {
	return model.PatternMatch{
		RuleID:      id,
		RuleName:    id,
		Severity:    model.SeverityMedium,
		MatchedText: text[start:end],
		Location:    model.Location{Start: start, End: end},
	}
}

func bracket(_ model.PatternMatch, s string) string {
	return "[" + s + "]"
}

func TestHighlightWith(t *testing.T) {
	text := "We delve into a rich tapestry."

	tests := []struct {
		name    string
		want    string
		matches []model.PatternMatch
	}{
		{
			name:    "no matches",
			matches: nil,
			want:    text,
		},
		{
			name: "overlap keeps earliest",
			matches: []model.PatternMatch{
				span(text, "delve", 3, 8),
				span(text, "rich-tapestry", 16, 29),
				span(text, "tapestry", 21, 29),
			},
			want: "We [delve] into a [rich tapestry].",
		},
		{
			name:    "match at end",
			matches: []model.PatternMatch{span(text, "dot", 29, 30)},
			want:    "We delve into a rich tapestry[.]",
		},
		{
			name: "out of range span is clamped",
			matches: []model.PatternMatch{
				{RuleID: "x", Location: model.Location{Start: 21, End: 99}},
			},
			want: "We delve into a rich [tapestry.]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HighlightWith(text, tt.matches, bracket))
		})
	}
}

func TestHighlight_PreservesText(t *testing.T) {
	text := "Moreover, it works."
	out := Highlight(text, []model.PatternMatch{span(text, "moreover", 0, 9)})
	assert.Contains(t, out, "Moreover,")
	assert.Contains(t, out, " it works.")
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		loc        model.Location
		radius     int
		wantBefore string
		wantMatch  string
		wantAfter  string
	}{
		{
			name: "cut both sides", text: "0123456789", loc: model.Location{Start: 4, End: 6}, radius: 2,
			wantBefore: "…23", wantMatch: "45", wantAfter: "67…",
		},
		{
			name: "whole text", text: "abc", loc: model.Location{Start: 1, End: 2}, radius: 10,
			wantBefore: "a", wantMatch: "b", wantAfter: "c",
		},
		{
			name: "rune boundary", text: "aé b", loc: model.Location{Start: 4, End: 5}, radius: 2,
			wantBefore: "… ", wantMatch: "b", wantAfter: "",
		},
		{
			name: "newlines flattened", text: "one\ntwo\nthree", loc: model.Location{Start: 4, End: 7}, radius: 4,
			wantBefore: "one ", wantMatch: "two", wantAfter: " thr…",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, match, after := Excerpt(tt.text, tt.loc, tt.radius)
			assert.Equal(t, tt.wantBefore, before)
			assert.Equal(t, tt.wantMatch, match)
			assert.Equal(t, tt.wantAfter, after)
		})
	}
}

func TestLineCol(t *testing.T) {
	text := "ab\ncé\nx"

	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{offset: 0, wantLine: 1, wantCol: 1},
		{offset: 1, wantLine: 1, wantCol: 2},
		{offset: 3, wantLine: 2, wantCol: 1},
		{offset: 6, wantLine: 2, wantCol: 3},
		{offset: 7, wantLine: 3, wantCol: 1},
		{offset: 99, wantLine: 3, wantCol: 2},
	}

	for _, tt := range tests {
		line, col := LineCol(text, tt.offset)
		assert.Equal(t, tt.wantLine, line, "offset %d", tt.offset)
		assert.Equal(t, tt.wantCol, col, "offset %d", tt.offset)
	}
}
