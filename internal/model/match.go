package model

import "time"

// Location is a half-open byte span [Start, End) into the scanned text.
type Location struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (l Location) Len() int {
	return l.End - l.Start
}

// Overlaps reports whether two spans share at least one byte.
func (l Location) Overlaps(other Location) bool {
	return l.Start < other.End && other.Start < l.End
}

// PatternMatch is one located occurrence of a rule in a text.
type PatternMatch struct {
	RuleID             string       `json:"rule_id"`
	RuleName           string       `json:"rule_name"`
	Category           RuleCategory `json:"category"`
	Severity           Severity     `json:"severity"`
	MatchedText        string       `json:"matched_text"`
	ReplacementOptions []string     `json:"replacement_options"`
	Location           Location     `json:"location"`
}

// DetectionResult aggregates all matches found in one text.
type DetectionResult struct {
	MatchesByCategory map[RuleCategory]int `json:"matches_by_category"`
	MatchesBySeverity map[Severity]int     `json:"matches_by_severity"`
	Matches           []PatternMatch       `json:"matches"`
	TotalMatches      int                  `json:"total_matches"`
	WordCount         int                  `json:"word_count"`
	AIScore           int                  `json:"ai_score"`
}

// Selection pairs a match with the text that should replace it.
// An empty Replacement deletes the matched span.
type Selection struct {
	Replacement string       `json:"replacement"`
	Match       PatternMatch `json:"match"`
}

// Detection is a stored record of one detection run.
type Detection struct {
	CreatedAt         time.Time            `json:"created_at"`
	MatchesByCategory map[RuleCategory]int `json:"matches_by_category"`
	MatchesBySeverity map[Severity]int     `json:"matches_by_severity"`
	ID                string               `json:"id"`
	TeamID            string               `json:"team_id,omitempty"`
	Source            string               `json:"source"`
	WordCount         int                  `json:"word_count"`
	TotalMatches      int                  `json:"total_matches"`
	AIScore           int                  `json:"ai_score"`
}

// NewDetection builds a history record from a detection result.
func NewDetection(source, teamID string, result DetectionResult) *Detection {
	return &Detection{
		Source:            source,
		TeamID:            teamID,
		WordCount:         result.WordCount,
		TotalMatches:      result.TotalMatches,
		AIScore:           result.AIScore,
		MatchesByCategory: result.MatchesByCategory,
		MatchesBySeverity: result.MatchesBySeverity,
	}
}
