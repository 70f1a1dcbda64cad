package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/mattn/go-runewidth"
)

// DefaultCellWidth bounds the display width of free-text table cells.
const DefaultCellWidth = 40

// ReportOptions controls WriteReport output.
type ReportOptions struct {
	// ShowText prints the full text with matches highlighted.
	ShowText  bool
	CellWidth int
}

// FileResult pairs a detection result with the input it came from.
type FileResult struct {
	Err    error
	Source string
	Text   string
	Result model.DetectionResult
}

// WriteReport prints a detection report for one input.
func WriteReport(w io.Writer, source, text string, result model.DetectionResult, opts ReportOptions) error {
	width := opts.CellWidth
	if width <= 0 {
		width = DefaultCellWidth
	}

	var b strings.Builder
	b.WriteString(FormatTitle(source))
	b.WriteString("\n")

	fmt.Fprintf(&b, "AI score: %s  %s\n",
		ScoreStyle(result.AIScore).Render(fmt.Sprintf("%d/100", result.AIScore)),
		SubtleStyle.Render(fmt.Sprintf("(%d words, %d matches)", result.WordCount, result.TotalMatches)))

	if result.TotalMatches == 0 {
		b.WriteString(FormatSuccess("No AI patterns found"))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	severities := make([]string, 0, len(model.AllSeverities()))
	for _, sev := range model.AllSeverities() {
		severities = append(severities, fmt.Sprintf("%s %d", sev, result.MatchesBySeverity[sev]))
	}
	b.WriteString(SubtleStyle.Render(strings.Join(severities, " · ")))
	b.WriteString("\n")

	for _, cat := range model.AllCategories() {
		if n := result.MatchesByCategory[cat]; n > 0 {
			fmt.Fprintf(&b, "  %-20s %d\n", cat, n)
		}
	}

	if opts.ShowText {
		b.WriteString("\n")
		b.WriteString(Highlight(text, result.Matches))
		if !strings.HasSuffix(text, "\n") {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCATION\tSEVERITY\tRULE\tMATCH\tSUGGESTION")
	for _, m := range result.Matches {
		line, col := LineCol(text, m.Location.Start)
		fmt.Fprintf(tw, "%d:%d\t%s\t%s\t%s\t%s\n",
			line, col,
			m.Severity,
			Truncate(m.RuleName, width),
			strconv.Quote(Truncate(flatten(m.MatchedText), width)),
			Truncate(suggestion(m), width),
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to render match table: %w", err)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSummary prints one row per file, for runs over several inputs.
func WriteSummary(w io.Writer, results []FileResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSCORE\tMATCHES\tWORDS")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t%s\n", Truncate(r.Source, 60), r.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n",
			Truncate(r.Source, 60), r.Result.AIScore, r.Result.TotalMatches, r.Result.WordCount)
	}
	return tw.Flush()
}

// Truncate shortens s to at most width display cells.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

func suggestion(m model.PatternMatch) string {
	if len(m.ReplacementOptions) == 0 {
		return "(rewrite or delete)"
	}
	return strings.Join(m.ReplacementOptions, " | ")
}
