package pattern

import (
	"fmt"
	"unicode"

	"github.com/Veraticus/humanizer/internal/model"
)

// Strategy controls how replacements are picked automatically.
type Strategy int

const (
	// StrategyFirstOption uses each match's first replacement option and
	// leaves matches without options untouched.
	StrategyFirstOption Strategy = iota
	// StrategyDeleteBare also deletes matches whose rule offers no options.
	StrategyDeleteBare
)

// ParseStrategy converts a flag value into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "first":
		return StrategyFirstOption, nil
	case "delete-bare":
		return StrategyDeleteBare, nil
	}
	return 0, fmt.Errorf("invalid strategy: %q (valid: first, delete-bare)", s)
}

// SuggestSelections picks a replacement for each non-overlapping match in
// the result. The returned selections are safe to pass to ApplyReplacements.
func SuggestSelections(result model.DetectionResult, strategy Strategy) []model.Selection {
	candidates := NonOverlapping(result.Matches)
	selections := make([]model.Selection, 0, len(candidates))

	for _, m := range candidates {
		switch {
		case len(m.ReplacementOptions) > 0:
			selections = append(selections, model.Selection{
				Match:       m,
				Replacement: preserveCase(m.MatchedText, m.ReplacementOptions[0]),
			})
		case strategy == StrategyDeleteBare:
			selections = append(selections, model.Selection{Match: m})
		}
	}

	return selections
}

// AutoFix applies the suggested selections for result to text and returns
// the rewritten text along with the selections used.
func AutoFix(text string, result model.DetectionResult, strategy Strategy) (string, []model.Selection) {
	selections := SuggestSelections(result, strategy)
	return ApplyReplacements(text, selections), selections
}

// preserveCase capitalizes the replacement when the matched text starts
// with an upper-case letter, so sentence starts stay capitalized.
func preserveCase(matched, replacement string) string {
	if matched == "" || replacement == "" {
		return replacement
	}
	first := []rune(matched)[0]
	if !unicode.IsUpper(first) {
		return replacement
	}
	runes := []rune(replacement)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
