// Package model defines the core data structures for the humanizer application.
package model

import (
	"fmt"
	"strings"
	"time"
)

// PatternRule describes one detectable text pattern and its suggested fixes.
type PatternRule struct {
	CreatedAt          time.Time    `json:"created_at" yaml:"-"`
	UpdatedAt          time.Time    `json:"updated_at" yaml:"-"`
	ID                 string       `json:"id" yaml:"id,omitempty"`
	Name               string       `json:"name" yaml:"name"`
	Description        string       `json:"description,omitempty" yaml:"description,omitempty"`
	Category           RuleCategory `json:"category" yaml:"category"`
	PatternType        PatternType  `json:"pattern_type" yaml:"pattern_type"`
	Pattern            string       `json:"pattern" yaml:"pattern"`
	Severity           Severity     `json:"severity" yaml:"severity,omitempty"`
	TeamID             string       `json:"team_id,omitempty" yaml:"team_id,omitempty"`
	OverridesID        string       `json:"overrides_id,omitempty" yaml:"overrides_id,omitempty"`
	ReplacementOptions []string     `json:"replacement_options" yaml:"replacement_options,omitempty"`
	MatchCount         int          `json:"match_count,omitempty" yaml:"-"`
	IsActive           bool         `json:"is_active" yaml:"is_active"`
}

// Evaluable reports whether the rule should be run by the matcher.
func (r PatternRule) Evaluable() bool {
	return r.IsActive && r.Pattern != ""
}

// EffectiveSeverity returns the rule severity, defaulting to medium.
func (r PatternRule) EffectiveSeverity() Severity {
	if r.Severity == "" {
		return SeverityMedium
	}
	return r.Severity
}

// IsGlobal reports whether the rule is platform-wide rather than team-specific.
func (r PatternRule) IsGlobal() bool {
	return r.TeamID == ""
}

// RuleCategory groups rules by the kind of writing problem they flag.
type RuleCategory string

// Rule category constants.
const (
	CategoryPhraseReplacement RuleCategory = "phrase_replacement"
	CategorySentenceStructure RuleCategory = "sentence_structure"
	CategoryWordVariety       RuleCategory = "word_variety"
	CategoryTransitionWords   RuleCategory = "transition_words"
	CategoryPunctuation       RuleCategory = "punctuation"
	CategoryParagraphFlow     RuleCategory = "paragraph_flow"
	CategoryToneAdjustment    RuleCategory = "tone_adjustment"
	CategoryCustom            RuleCategory = "custom"
)

// AllCategories returns every rule category in display order.
func AllCategories() []RuleCategory {
	return []RuleCategory{
		CategoryPhraseReplacement,
		CategorySentenceStructure,
		CategoryWordVariety,
		CategoryTransitionWords,
		CategoryPunctuation,
		CategoryParagraphFlow,
		CategoryToneAdjustment,
		CategoryCustom,
	}
}

// Valid reports whether c is a known category.
func (c RuleCategory) Valid() bool {
	switch c {
	case CategoryPhraseReplacement, CategorySentenceStructure, CategoryWordVariety,
		CategoryTransitionWords, CategoryPunctuation, CategoryParagraphFlow,
		CategoryToneAdjustment, CategoryCustom:
		return true
	}
	return false
}

// ParseCategory converts user input into a RuleCategory.
func ParseCategory(s string) (RuleCategory, error) {
	c := RuleCategory(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("invalid category: %q", s)
	}
	return c, nil
}

// PatternType selects how a rule's pattern is interpreted.
type PatternType string

// Pattern type constants. Only regex and exact are executed locally;
// semantic and ai_detection are reserved for external model analysis.
const (
	PatternTypeRegex       PatternType = "regex"
	PatternTypeExact       PatternType = "exact"
	PatternTypeSemantic    PatternType = "semantic"
	PatternTypeAIDetection PatternType = "ai_detection"
)

// Valid reports whether t is a known pattern type.
func (t PatternType) Valid() bool {
	switch t {
	case PatternTypeRegex, PatternTypeExact, PatternTypeSemantic, PatternTypeAIDetection:
		return true
	}
	return false
}

// Executable reports whether the local matcher can evaluate this type.
func (t PatternType) Executable() bool {
	return t == PatternTypeRegex || t == PatternTypeExact
}

// ParsePatternType converts user input into a PatternType.
func ParsePatternType(s string) (PatternType, error) {
	t := PatternType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid pattern type: %q (valid: regex, exact, semantic, ai_detection)", s)
	}
	return t, nil
}

// Severity indicates how strongly a match suggests machine-written text.
type Severity string

// AllSeverities returns every severity from most to least severe.
func AllSeverities() []Severity {
	return []Severity{SeverityHigh, SeverityMedium, SeverityLow}
}

// Severity constants.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Weight returns the scoring weight for the severity.
// Unknown values weigh the same as medium.
func (s Severity) Weight() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityHigh:
		return 3
	default:
		return 2
	}
}

// ParseSeverity converts user input into a Severity. Empty input yields medium.
func ParseSeverity(s string) (Severity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SeverityMedium, nil
	}
	sev := Severity(s)
	if !sev.Valid() {
		return "", fmt.Errorf("invalid severity: %q (valid: low, medium, high)", s)
	}
	return sev, nil
}
