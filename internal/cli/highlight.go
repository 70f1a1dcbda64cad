package cli

import (
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/pattern"
)

// Highlight renders text with each non-overlapping match styled by severity.
func Highlight(text string, matches []model.PatternMatch) string {
	return HighlightWith(text, matches, func(m model.PatternMatch, s string) string {
		return SeverityStyle(m.Severity).Render(s)
	})
}

// HighlightWith renders text, passing each non-overlapping match through mark.
func HighlightWith(text string, matches []model.PatternMatch, mark func(model.PatternMatch, string) string) string {
	var b strings.Builder
	b.Grow(len(text))

	pos := 0
	for _, m := range pattern.NonOverlapping(matches) {
		start, end := clampSpan(m.Location, len(text))
		if start < pos || start >= end {
			continue
		}
		b.WriteString(text[pos:start])
		b.WriteString(mark(m, text[start:end]))
		pos = end
	}
	b.WriteString(text[pos:])

	return b.String()
}

// Excerpt returns up to radius bytes of context on each side of loc, widened
// to rune boundaries, with newlines flattened to spaces. An ellipsis marks
// context that was cut.
func Excerpt(text string, loc model.Location, radius int) (before, match, after string) {
	start, end := clampSpan(loc, len(text))

	from := max(start-radius, 0)
	for from < start && !utf8.RuneStart(text[from]) {
		from++
	}
	to := min(end+radius, len(text))
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}

	before = flatten(text[from:start])
	if from > 0 {
		before = "…" + before
	}
	after = flatten(text[end:to])
	if to < len(text) {
		after += "…"
	}
	return before, flatten(text[start:end]), after
}

// LineCol converts a byte offset into a 1-based line and rune column.
func LineCol(text string, offset int) (line, col int) {
	offset = min(max(offset, 0), len(text))
	prefix := text[:offset]
	line = strings.Count(prefix, "\n") + 1
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	col = utf8.RuneCountInString(prefix[lineStart:]) + 1
	return line, col
}

func clampSpan(loc model.Location, n int) (int, int) {
	start := min(max(loc.Start, 0), n)
	end := min(max(loc.End, start), n)
	return start, end
}

func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(s)
}
