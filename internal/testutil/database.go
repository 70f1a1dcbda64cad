// Package testutil provides test helpers shared across humanize packages.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/service"
	"github.com/Veraticus/humanizer/internal/storage"
)

// TestDB represents a migrated in-memory test database.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database seeded with rules.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t, rulepack.Default()...)
func SetupTestDB(t *testing.T, rules ...model.PatternRule) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(rules) > 0 {
		if _, err := store.SeedDefaultRules(ctx, rules); err != nil {
			_ = store.Close()
			t.Fatalf("failed to seed rules: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustCreateRule stores rule or fails the test.
func (db *TestDB) MustCreateRule(rule model.PatternRule) model.PatternRule {
	db.t.Helper()
	if err := db.Storage.CreatePatternRule(context.Background(), &rule); err != nil {
		db.t.Fatalf("failed to create rule %q: %v", rule.Name, err)
	}
	return rule
}

// Rule returns a valid active exact-match rule for tests.
func Rule(id, pattern string) model.PatternRule {
	return model.PatternRule{
		ID:                 id,
		Name:               id,
		Category:           model.CategoryCustom,
		PatternType:        model.PatternTypeExact,
		Pattern:            pattern,
		Severity:           model.SeverityMedium,
		ReplacementOptions: []string{},
		IsActive:           true,
	}
}
