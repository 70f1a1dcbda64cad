package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const promptText = "We delve, we delve, we delve."

func promptResult() model.DetectionResult {
	var matches []model.PatternMatch
	for _, start := range []int{3, 13, 23} {
		m := span(promptText, "delve", start, start+5)
		m.ReplacementOptions = []string{"explore", "examine"}
		matches = append(matches, m)
	}
	return model.DetectionResult{Matches: matches, TotalMatches: len(matches)}
}

func TestPrompter_Review(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantReplaced []string
		wantStats    ReviewStats
	}{
		{
			name:         "option delete skip",
			input:        "1\nd\ns\n",
			wantReplaced: []string{"explore", ""},
			wantStats:    ReviewStats{Reviewed: 3, Replaced: 1, Deleted: 1, Skipped: 1},
		},
		{
			name:         "custom replacement",
			input:        "c\nprobe\n2\ns\n",
			wantReplaced: []string{"probe", "examine"},
			wantStats:    ReviewStats{Reviewed: 3, Replaced: 2, Skipped: 1},
		},
		{
			name:         "quit keeps earlier choices",
			input:        "2\nq\n",
			wantReplaced: []string{"examine"},
			wantStats:    ReviewStats{Reviewed: 1, Replaced: 1},
		},
		{
			name:         "end of input",
			input:        "1\n",
			wantReplaced: []string{"explore"},
			wantStats:    ReviewStats{Reviewed: 1, Replaced: 1},
		},
		{
			name:         "invalid choice retries",
			input:        "9\nd\ns\ns\n",
			wantReplaced: []string{""},
			wantStats:    ReviewStats{Reviewed: 3, Deleted: 1, Skipped: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewCLIPrompter(strings.NewReader(tt.input), &out)

			selections, err := p.Review(context.Background(), promptText, promptResult())
			require.NoError(t, err)

			got := make([]string, 0, len(selections))
			for _, s := range selections {
				got = append(got, s.Replacement)
			}
			assert.Equal(t, tt.wantReplaced, got)

			stats := p.Stats()
			stats.Duration = 0
			assert.Equal(t, tt.wantStats, stats)
		})
	}
}

func TestPrompter_ReviewOutput(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader("9\ns\ns\ns\n"), &out)

	_, err := p.Review(context.Background(), promptText, promptResult())
	require.NoError(t, err)
	p.ShowCompletion()

	output := out.String()
	assert.Contains(t, output, "[1/3] delve")
	assert.Contains(t, output, "[1] explore")
	assert.Contains(t, output, "[2] examine")
	assert.Contains(t, output, "Invalid choice")
	assert.Contains(t, output, "Review Complete")
	assert.Contains(t, output, "Skipped: 3")
}

func TestPrompter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewCLIPrompter(strings.NewReader("1\n"), &bytes.Buffer{})
	_, err := p.Review(ctx, promptText, promptResult())
	assert.ErrorIs(t, err, context.Canceled)
}
