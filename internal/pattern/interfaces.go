// Package pattern detects machine-sounding phrasing in text using pattern rules,
// scores the result, and applies replacements.
package pattern

import (
	"context"

	"github.com/Veraticus/humanizer/internal/model"
)

// TextDetector evaluates a rule set against a text.
type TextDetector interface {
	// Detect runs every evaluable rule and aggregates the matches.
	Detect(text string, rules []Rule) model.DetectionResult
}

// RuleSource supplies the effective rule set for a team.
type RuleSource interface {
	// GetEffectiveRules returns global rules merged with the team's overrides.
	// An empty teamID returns the global rules only.
	GetEffectiveRules(ctx context.Context, teamID string) ([]Rule, error)
}

// Rule is an alias to the model.PatternRule type for convenience.
type Rule = model.PatternRule

// Match is an alias to the model.PatternMatch type for convenience.
type Match = model.PatternMatch
