package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/pattern"
)

const excerptRadius = 60

// ReviewStats summarizes an interactive review.
type ReviewStats struct {
	Duration time.Duration
	Reviewed int
	Replaced int
	Deleted  int
	Skipped  int
}

// Prompter walks a user through matches on a line-oriented terminal.
type Prompter struct {
	startTime time.Time
	writer    io.Writer
	reader    *NonBlockingReader
	stats     ReviewStats
}

// NewCLIPrompter creates a new CLI prompter with the given reader and writer.
func NewCLIPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// Review asks for a fix for each non-overlapping match in result and returns
// the chosen selections. Quitting, or reaching the end of input, keeps the
// choices made so far.
func (p *Prompter) Review(ctx context.Context, text string, result model.DetectionResult) ([]model.Selection, error) {
	p.startTime = time.Now()
	p.stats = ReviewStats{}

	matches := pattern.NonOverlapping(result.Matches)
	selections := make([]model.Selection, 0, len(matches))

	for i, m := range matches {
		if err := ctx.Err(); err != nil {
			return selections, err
		}

		if _, err := fmt.Fprintln(p.writer, p.formatMatch(text, m, i+1, len(matches))); err != nil {
			return selections, fmt.Errorf("failed to write match: %w", err)
		}

		replacement, action, err := p.promptReplacement(ctx, m)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return selections, err
		}

		switch action {
		case actionQuit:
			p.stats.Duration = time.Since(p.startTime)
			return selections, nil
		case actionSkip:
			p.stats.Reviewed++
			p.stats.Skipped++
			continue
		case actionDelete:
			p.stats.Deleted++
		default:
			p.stats.Replaced++
		}

		p.stats.Reviewed++
		selections = append(selections, model.Selection{Match: m, Replacement: replacement})
	}

	p.stats.Duration = time.Since(p.startTime)
	return selections, nil
}

// Stats returns the statistics of the last review.
func (p *Prompter) Stats() ReviewStats {
	return p.stats
}

// ShowCompletion prints a summary of the last review.
func (p *Prompter) ShowCompletion() {
	stats := p.stats
	summary := fmt.Sprintf("  • Matches reviewed: %d\n", stats.Reviewed) +
		fmt.Sprintf("  • Replaced: %d\n", stats.Replaced) +
		fmt.Sprintf("  • Deleted: %d\n", stats.Deleted) +
		fmt.Sprintf("  • Skipped: %d\n", stats.Skipped) +
		fmt.Sprintf("  • Time taken: %s", stats.Duration.Round(time.Second))

	if _, err := fmt.Fprintln(p.writer, RenderBox("Review Complete", summary)); err != nil {
		slog.Warn("Failed to write completion box", "error", err)
	}
}

type action int

const (
	actionReplace action = iota
	actionDelete
	actionSkip
	actionQuit
)

func (p *Prompter) formatMatch(text string, m model.PatternMatch, index, total int) string {
	header := TitleStyle.Render(fmt.Sprintf("[%d/%d] %s", index, total, m.RuleName))
	before, matched, after := Excerpt(text, m.Location, excerptRadius)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n\n", SubtleStyle.Render(string(m.Category)), SeverityStyle(m.Severity).Render(string(m.Severity)))
	b.WriteString("  " + before + SeverityStyle(m.Severity).Render(matched) + after + "\n\n")

	for i, opt := range m.ReplacementOptions {
		fmt.Fprintf(&b, "  [%d] %s\n", i+1, opt)
	}
	b.WriteString(SubtleStyle.Render("  [d] delete  [c] custom  [s] skip  [q] quit"))
	return b.String()
}

func (p *Prompter) promptReplacement(ctx context.Context, m model.PatternMatch) (string, action, error) {
	valid := []string{"d", "c", "s", "q"}
	for i := range m.ReplacementOptions {
		valid = append(valid, strconv.Itoa(i+1))
	}

	choice, err := p.promptChoice(ctx, "Choice", valid)
	if err != nil {
		return "", actionSkip, err
	}

	switch choice {
	case "d":
		return "", actionDelete, nil
	case "s":
		return "", actionSkip, nil
	case "q":
		return "", actionQuit, nil
	case "c":
		if _, err := fmt.Fprint(p.writer, FormatPrompt("Replacement")); err != nil {
			return "", actionSkip, fmt.Errorf("failed to write prompt: %w", err)
		}
		custom, err := p.reader.ReadLine(ctx)
		if err != nil {
			return "", actionSkip, err
		}
		if custom == "" {
			return "", actionDelete, nil
		}
		return custom, actionReplace, nil
	default:
		n, _ := strconv.Atoi(choice)
		return m.ReplacementOptions[n-1], actionReplace, nil
	}
}

func (p *Prompter) promptChoice(ctx context.Context, prompt string, validChoices []string) (string, error) {
	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.reader.ReadLine(ctx)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(input)
		for _, valid := range validChoices {
			if choice == valid {
				return choice, nil
			}
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Invalid choice. Please try again.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}
