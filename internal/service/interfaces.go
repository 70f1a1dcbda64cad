// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/humanizer/internal/model"
)

// RuleFilter defines filtering options for rule queries.
type RuleFilter struct {
	// TeamID limits results to one team's rules. Empty means global rules
	// only, unless AllTeams is set.
	TeamID     string
	Category   model.RuleCategory
	ActiveOnly bool
	AllTeams   bool
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Rule operations
	CreatePatternRule(ctx context.Context, rule *model.PatternRule) error
	GetPatternRule(ctx context.Context, id string) (*model.PatternRule, error)
	ListPatternRules(ctx context.Context, filter RuleFilter) ([]model.PatternRule, error)
	UpdatePatternRule(ctx context.Context, rule *model.PatternRule) error
	DeletePatternRule(ctx context.Context, id string) error
	UpsertTeamOverride(ctx context.Context, teamID string, rule *model.PatternRule) error
	GetEffectiveRules(ctx context.Context, teamID string) ([]model.PatternRule, error)
	SeedDefaultRules(ctx context.Context, rules []model.PatternRule) (int, error)
	RecordRuleMatches(ctx context.Context, counts map[string]int) error
	ListTeams(ctx context.Context) ([]string, error)

	// Detection history
	SaveDetection(ctx context.Context, detection *model.Detection) error
	GetDetection(ctx context.Context, id string) (*model.Detection, error)
	ListDetections(ctx context.Context, limit int) ([]model.Detection, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
