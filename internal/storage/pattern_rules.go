package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/humanizer/internal/common"
	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/pattern"
	"github.com/Veraticus/humanizer/internal/service"
	"github.com/oklog/ulid/v2"
)

const ruleColumns = `id, team_id, overrides_id, name, description, category,
	pattern_type, pattern, replacement_options, severity, is_active,
	match_count, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// CreatePatternRule creates a new pattern rule. A ULID is assigned when the
// rule has no id.
func (s *SQLiteStorage) CreatePatternRule(ctx context.Context, rule *model.PatternRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePatternRule(rule); err != nil {
		return err
	}

	if rule.ID == "" {
		rule.ID = ulid.Make().String()
	}
	if rule.Severity == "" {
		rule.Severity = model.SeverityMedium
	}

	if rule.OverridesID != "" {
		if err := s.verifyOverrideTarget(ctx, s.db, rule.OverridesID); err != nil {
			return err
		}
	}

	if err := insertPatternRule(ctx, s.db, rule); err != nil {
		return err
	}

	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertPatternRule(ctx context.Context, db execer, rule *model.PatternRule) error {
	options, err := encodeOptions(rule.ReplacementOptions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO pattern_rules (
			id, team_id, overrides_id, name, description, category,
			pattern_type, pattern, replacement_options, severity, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		rule.ID, rule.TeamID, rule.OverridesID, rule.Name, rule.Description,
		string(rule.Category), string(rule.PatternType), nullablePattern(rule.Pattern),
		options, string(rule.Severity), rule.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: pattern rule %s", common.ErrDuplicateEntry, rule.ID)
		}
		return fmt.Errorf("failed to create pattern rule: %w", err)
	}
	return nil
}

// verifyOverrideTarget ensures id names an existing global rule.
func (s *SQLiteStorage) verifyOverrideTarget(ctx context.Context, db execer, id string) error {
	var teamID string
	err := db.QueryRowContext(ctx, "SELECT team_id FROM pattern_rules WHERE id = ?", id).Scan(&teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: overridden rule %s", common.ErrNotFound, id)
		}
		return fmt.Errorf("failed to verify overridden rule: %w", err)
	}
	if teamID != "" {
		return fmt.Errorf("rule %s belongs to team %q and cannot be overridden", id, teamID)
	}
	return nil
}

// GetPatternRule retrieves a pattern rule by ID.
func (s *SQLiteStorage) GetPatternRule(ctx context.Context, id string) (*model.PatternRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+ruleColumns+" FROM pattern_rules WHERE id = ?", id)
	rule, err := scanPatternRule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: pattern rule %s", common.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get pattern rule: %w", err)
	}
	return rule, nil
}

// ListPatternRules returns rules matching filter in insertion order.
func (s *SQLiteStorage) ListPatternRules(ctx context.Context, filter service.RuleFilter) ([]model.PatternRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if !filter.AllTeams {
		where = append(where, "team_id = ?")
		args = append(args, filter.TeamID)
	}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(filter.Category))
	}
	if filter.ActiveOnly {
		where = append(where, "is_active = 1")
	}

	query := "SELECT " + ruleColumns + " FROM pattern_rules"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY team_id, rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pattern rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	rules := []model.PatternRule{}
	for rows.Next() {
		rule, err := scanPatternRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pattern rule: %w", err)
		}
		rules = append(rules, *rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pattern rules: %w", err)
	}

	return rules, nil
}

// UpdatePatternRule updates an existing pattern rule.
func (s *SQLiteStorage) UpdatePatternRule(ctx context.Context, rule *model.PatternRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePatternRule(rule); err != nil {
		return err
	}
	if err := validateString(rule.ID, "id"); err != nil {
		return err
	}
	if rule.OverridesID != "" {
		if err := s.verifyOverrideTarget(ctx, s.db, rule.OverridesID); err != nil {
			return err
		}
	}

	if err := updatePatternRule(ctx, s.db, rule); err != nil {
		return err
	}
	rule.UpdatedAt = time.Now()
	return nil
}

func updatePatternRule(ctx context.Context, db execer, rule *model.PatternRule) error {
	options, err := encodeOptions(rule.ReplacementOptions)
	if err != nil {
		return err
	}

	query := `
		UPDATE pattern_rules SET
			team_id = ?, overrides_id = ?, name = ?, description = ?, category = ?,
			pattern_type = ?, pattern = ?, replacement_options = ?, severity = ?,
			is_active = ?
		WHERE id = ?
	`

	result, err := db.ExecContext(ctx, query,
		rule.TeamID, rule.OverridesID, rule.Name, rule.Description, string(rule.Category),
		string(rule.PatternType), nullablePattern(rule.Pattern), options,
		string(rule.EffectiveSeverity()), rule.IsActive, rule.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: team %q already overrides %s", common.ErrDuplicateEntry, rule.TeamID, rule.OverridesID)
		}
		return fmt.Errorf("failed to update pattern rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: pattern rule %s", common.ErrNotFound, rule.ID)
	}
	return nil
}

// DeletePatternRule deletes a pattern rule along with any team overrides of it.
func (s *SQLiteStorage) DeletePatternRule(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM pattern_rules WHERE overrides_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete overrides: %w", err)
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM pattern_rules WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete pattern rule: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("%w: pattern rule %s", common.ErrNotFound, id)
		}
		return nil
	})
}

// UpsertTeamOverride stores rule as teamID's replacement for the global rule
// named by rule.OverridesID, updating the existing override if there is one.
func (s *SQLiteStorage) UpsertTeamOverride(ctx context.Context, teamID string, rule *model.PatternRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(teamID, "teamID"); err != nil {
		return err
	}
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if err := validateString(rule.OverridesID, "overridesID"); err != nil {
		return err
	}

	rule.TeamID = teamID
	if rule.Severity == "" {
		rule.Severity = model.SeverityMedium
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.verifyOverrideTarget(ctx, tx, rule.OverridesID); err != nil {
			return err
		}

		var existingID string
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM pattern_rules WHERE team_id = ? AND overrides_id = ?",
			teamID, rule.OverridesID).Scan(&existingID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if rule.ID == "" {
				rule.ID = ulid.Make().String()
			}
			if err := validatePatternRule(rule); err != nil {
				return err
			}
			return insertPatternRule(ctx, tx, rule)
		case err != nil:
			return fmt.Errorf("failed to look up override: %w", err)
		default:
			rule.ID = existingID
			if err := validatePatternRule(rule); err != nil {
				return err
			}
			return updatePatternRule(ctx, tx, rule)
		}
	})
	if err != nil {
		return err
	}

	rule.UpdatedAt = time.Now()
	return nil
}

// GetEffectiveRules returns the active rules that apply to teamID: global
// rules with the team's overrides substituted in place, followed by the
// team's own rules. An inactive override disables the global rule it shadows.
func (s *SQLiteStorage) GetEffectiveRules(ctx context.Context, teamID string) ([]model.PatternRule, error) {
	global, err := s.ListPatternRules(ctx, service.RuleFilter{})
	if err != nil {
		return nil, err
	}

	var team []model.PatternRule
	if teamID != "" {
		team, err = s.ListPatternRules(ctx, service.RuleFilter{TeamID: teamID})
		if err != nil {
			return nil, err
		}
	}

	merged := pattern.MergeRules(global, team)
	active := make([]model.PatternRule, 0, len(merged))
	for _, rule := range merged {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	return active, nil
}

// SeedDefaultRules inserts global rules whose id and name are not already
// present. It returns the number of rules inserted.
func (s *SQLiteStorage) SeedDefaultRules(ctx context.Context, rules []model.PatternRule) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	inserted := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for i := range rules {
			rule := rules[i]
			rule.TeamID = ""
			rule.OverridesID = ""
			if err := validatePatternRule(&rule); err != nil {
				return fmt.Errorf("rule %s: %w", rule.ID, err)
			}
			if rule.ID == "" {
				rule.ID = ulid.Make().String()
			}

			var exists int
			err := tx.QueryRowContext(ctx,
				"SELECT COUNT(*) FROM pattern_rules WHERE team_id = '' AND (id = ? OR name = ?)",
				rule.ID, rule.Name).Scan(&exists)
			if err != nil {
				return fmt.Errorf("failed to check existing rule: %w", err)
			}
			if exists > 0 {
				continue
			}

			if err := insertPatternRule(ctx, tx, &rule); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// RecordRuleMatches adds counts, keyed by rule id, to each rule's match total.
// Ids that are not stored (for example rules loaded from a file) are ignored.
func (s *SQLiteStorage) RecordRuleMatches(ctx context.Context, counts map[string]int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(counts) == 0 {
		return nil
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			"UPDATE pattern_rules SET match_count = match_count + ? WHERE id = ?")
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for id, n := range counts {
			if _, err := stmt.ExecContext(ctx, n, id); err != nil {
				return fmt.Errorf("failed to record matches for %s: %w", id, err)
			}
		}
		return nil
	})
}

// ListTeams returns every team id that owns at least one rule.
func (s *SQLiteStorage) ListTeams(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT team_id FROM pattern_rules WHERE team_id != '' ORDER BY team_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer func() { _ = rows.Close() }()

	teams := []string{}
	for rows.Next() {
		var team string
		if err := rows.Scan(&team); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}
	return teams, nil
}

func scanPatternRule(row rowScanner) (*model.PatternRule, error) {
	var (
		rule        model.PatternRule
		category    string
		patternType string
		severity    string
		patternText sql.NullString
		options     string
	)

	err := row.Scan(
		&rule.ID, &rule.TeamID, &rule.OverridesID, &rule.Name, &rule.Description, &category,
		&patternType, &patternText, &options, &severity, &rule.IsActive,
		&rule.MatchCount, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.Category = model.RuleCategory(category)
	rule.PatternType = model.PatternType(patternType)
	rule.Severity = model.Severity(severity)
	rule.Pattern = patternText.String

	if err := json.Unmarshal([]byte(options), &rule.ReplacementOptions); err != nil {
		return nil, fmt.Errorf("failed to decode replacement options for %s: %w", rule.ID, err)
	}
	if rule.ReplacementOptions == nil {
		rule.ReplacementOptions = []string{}
	}

	return &rule, nil
}

func encodeOptions(options []string) (string, error) {
	if options == nil {
		options = []string{}
	}
	data, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("failed to encode replacement options: %w", err)
	}
	return string(data), nil
}

func nullablePattern(p string) sql.NullString {
	return sql.NullString{String: p, Valid: p != ""}
}
