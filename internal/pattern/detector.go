package pattern

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/Veraticus/humanizer/internal/model"
)

// Scoring constants.
const (
	scoreScale     = 10000.0
	minScoredWords = 100
	maxScore       = 100
)

// Ensure Detector implements TextDetector interface.
var _ TextDetector = (*Detector)(nil)

// Detector runs rule sets against text and aggregates the results.
type Detector struct {
	logger *slog.Logger
}

// NewDetector creates a detector that reports failing rules to logger.
// A nil logger uses slog.Default at detection time.
func NewDetector(logger *slog.Logger) *Detector {
	return &Detector{logger: logger}
}

// Detect runs the rules against text with the default logger.
func Detect(text string, rules []Rule) model.DetectionResult {
	return NewDetector(nil).Detect(text, rules)
}

// Detect runs every evaluable rule against text. A rule that fails to
// evaluate is logged and contributes no matches.
func (d *Detector) Detect(text string, rules []Rule) model.DetectionResult {
	var matches []Match
	for _, rule := range rules {
		if !rule.Evaluable() {
			continue
		}

		found, err := MatchRule(text, rule)
		if err != nil {
			d.log().Warn("skipping rule that failed to evaluate",
				"rule_id", rule.ID,
				"rule_name", rule.Name,
				"pattern_type", rule.PatternType,
				"error", err)
			continue
		}
		matches = append(matches, found...)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Location.Start < matches[j].Location.Start
	})

	byCategory := make(map[model.RuleCategory]int)
	bySeverity := make(map[model.Severity]int)
	for _, m := range matches {
		byCategory[m.Category]++
		bySeverity[m.Severity]++
	}

	words := WordCount(text)
	if matches == nil {
		matches = []Match{}
	}

	return model.DetectionResult{
		Matches:           matches,
		TotalMatches:      len(matches),
		MatchesByCategory: byCategory,
		MatchesBySeverity: bySeverity,
		WordCount:         words,
		AIScore:           Score(matches, words),
	}
}

func (d *Detector) log() *slog.Logger {
	if d.logger != nil {
		return d.logger
	}
	return slog.Default()
}

// Score converts weighted match density into a 0-100 score. Texts shorter
// than 100 words are scored as if they had 100.
func Score(matches []Match, wordCount int) int {
	weighted := 0
	for _, m := range matches {
		weighted += m.Severity.Weight()
	}

	denominator := wordCount
	if denominator < minScoredWords {
		denominator = minScoredWords
	}

	raw := float64(weighted) / float64(denominator) * scoreScale
	return int(math.Round(math.Min(raw, maxScore)))
}

// WordCount returns the number of whitespace-delimited tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
