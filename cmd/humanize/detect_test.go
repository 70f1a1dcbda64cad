package main

import (
	"encoding/json"
	"testing"

	"github.com/Veraticus/humanizer/internal/common"
	"github.com/Veraticus/humanizer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCommand_JSON(t *testing.T) {
	dir := setupConfig(t)
	rules := writeTestFile(t, dir, "rules.yaml", testRulesYAML)

	out, err := execute(t, detectCmd(), "We delve in. Moreover, we delve again.", "--json", "--rules", rules)
	require.NoError(t, err)

	var reports []jsonReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)

	report := reports[0]
	assert.Equal(t, stdinSource, report.Source)
	assert.Equal(t, 3, report.TotalMatches)
	assert.Equal(t, 7, report.WordCount)
	assert.Equal(t, 2, report.MatchesBySeverity[model.SeverityHigh])
	assert.Equal(t, 1, report.MatchesByCategory[model.CategoryTransitionWords])
	assert.Equal(t, 100, report.AIScore)

	require.Len(t, report.Matches, 3)
	assert.Equal(t, model.Location{Start: 3, End: 8}, report.Matches[0].Location)
	assert.Equal(t, "moreover", report.Matches[1].RuleID)
}

func TestDetectCommand_MultipleFiles(t *testing.T) {
	dir := setupConfig(t)
	rules := writeTestFile(t, dir, "rules.yaml", testRulesYAML)
	clean := writeTestFile(t, dir, "clean.md", "Plain words only.")
	flagged := writeTestFile(t, dir, "flagged.md", "Let us delve.")

	out, err := execute(t, detectCmd(), "", "--json", "--rules", rules, clean, flagged)
	require.NoError(t, err)

	var reports []jsonReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, clean, reports[0].Source, "input order is kept")
	assert.Zero(t, reports[0].AIScore)
	assert.Equal(t, flagged, reports[1].Source)
	assert.Equal(t, 1, reports[1].TotalMatches)
}

func TestDetectCommand_TextReport(t *testing.T) {
	dir := setupConfig(t)
	rules := writeTestFile(t, dir, "rules.yaml", testRulesYAML)

	out, err := execute(t, detectCmd(), "We delve in.", "--rules", rules)
	require.NoError(t, err)
	assert.Contains(t, out, "AI score: 100/100")
	assert.Contains(t, out, "delve")
	assert.Contains(t, out, "explore")
}

func TestDetectCommand_FailScore(t *testing.T) {
	dir := setupConfig(t)
	rules := writeTestFile(t, dir, "rules.yaml", testRulesYAML)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "above threshold", input: "We delve in.", wantErr: true},
		{name: "clean text", input: "We look in.", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, detectCmd(), tt.input, "--rules", rules, "--fail-score", "50")
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrScoreThreshold)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDetectCommand_SaveRecordsHistory(t *testing.T) {
	setupConfig(t)

	_, err := execute(t, detectCmd(), "We delve into a rich tapestry.", "--save", "--team", "acme")
	require.NoError(t, err)

	out, err := execute(t, historyCmd(), "", "--json")
	require.NoError(t, err)

	var detections []model.Detection
	require.NoError(t, json.Unmarshal([]byte(out), &detections))
	require.Len(t, detections, 1)
	assert.Equal(t, stdinSource, detections[0].Source)
	assert.Equal(t, "acme", detections[0].TeamID)
	assert.Equal(t, 2, detections[0].TotalMatches)

	out, err = execute(t, rulesListCmd(), "", "--json")
	require.NoError(t, err)

	var rules []model.PatternRule
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	counts := make(map[string]int)
	for _, r := range rules {
		counts[r.ID] = r.MatchCount
	}
	assert.Equal(t, 1, counts["builtin-delve"])
	assert.Equal(t, 1, counts["builtin-tapestry"])
}

func TestCheckFailScore(t *testing.T) {
	assert.NoError(t, checkFailScore(nil, nil, 0))
}
