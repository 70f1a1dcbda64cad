package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/humanizer/internal/config"
	"github.com/Veraticus/humanizer/internal/common"
	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/rulepack"
	"github.com/Veraticus/humanizer/internal/service"
	"github.com/Veraticus/humanizer/internal/storage"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// stdinSource names text read from standard input.
const stdinSource = "-"

// input is one text to check.
type input struct {
	Source string
	Text   string
}

// loadConfig resolves settings from the global viper instance.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// applyFlags copies explicitly set flags onto viper keys so they take
// precedence over the config file and environment.
func applyFlags(cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		viper.Set(key, f.Value.String())
	}
}

// initStorage opens the database and brings its schema up to date.
func initStorage(ctx context.Context, cfg *config.Config) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// closeStorage closes store and logs any failure.
func closeStorage(store service.Storage) {
	if closeErr := store.Close(); closeErr != nil {
		common.LogError(closeErr, "failed to close storage", nil)
	}
}

// loadRules returns the rules detection should run with. A configured
// rules file wins over the database. store may be nil only in that case.
func loadRules(ctx context.Context, cfg *config.Config, store service.Storage) ([]model.PatternRule, error) {
	if cfg.Detection.RulesFile != "" {
		rules, err := rulepack.Load(cfg.Detection.RulesFile)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Could not load rules from %s", cfg.Detection.RulesFile), err)
		}
		common.LogDebug("loaded rules from file", common.Fields{"path": cfg.Detection.RulesFile, "count": len(rules)})
		return rules, nil
	}

	if err := ensureDefaultRules(ctx, store); err != nil {
		return nil, err
	}

	rules, err := store.GetEffectiveRules(ctx, cfg.Detection.Team)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	slog.Debug("loaded rules from database", "team", cfg.Detection.Team, "count", len(rules))
	return rules, nil
}

// ensureDefaultRules seeds the built-in pack into an empty database.
func ensureDefaultRules(ctx context.Context, store service.Storage) error {
	existing, err := store.ListPatternRules(ctx, service.RuleFilter{})
	if err != nil {
		return fmt.Errorf("failed to list rules: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	n, err := store.SeedDefaultRules(ctx, rulepack.Default())
	if err != nil {
		return fmt.Errorf("failed to seed default rules: %w", err)
	}
	common.LogInfo("seeded built-in rules", common.Fields{"count": n})
	return nil
}

// readInputs reads the texts named by args. No arguments, or "-", reads
// stdin. Other arguments are files or doublestar globs such as docs/**/*.md.
func readInputs(stdin io.Reader, args []string) ([]input, error) {
	if len(args) == 0 {
		args = []string{stdinSource}
	}

	var (
		inputs []input
		seen   = make(map[string]bool)
	)

	for _, arg := range args {
		if arg == stdinSource {
			if seen[stdinSource] {
				continue
			}
			seen[stdinSource] = true

			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read stdin: %w", err)
			}
			inputs = append(inputs, input{Source: stdinSource, Text: string(data)})
			continue
		}

		paths, err := expandArg(arg)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			if seen[path] {
				continue
			}
			seen[path] = true

			data, err := os.ReadFile(path) //nolint:gosec // user-provided input path
			if err != nil {
				return nil, common.NewUserError(fmt.Sprintf("Could not read %s", path), err)
			}
			inputs = append(inputs, input{Source: path, Text: string(data)})
		}
	}

	if len(inputs) == 0 {
		return nil, common.ErrNoInput
	}
	return inputs, nil
}

// expandArg resolves a file argument, treating it as a glob when it is not
// an existing path.
func expandArg(arg string) ([]string, error) {
	if info, err := os.Stat(arg); err == nil {
		if info.IsDir() {
			return nil, common.NewUserError(fmt.Sprintf("%s is a directory; use a glob such as %s", arg, filepath.Join(arg, "**", "*.md")), common.ErrNoInput)
		}
		return []string{arg}, nil
	}

	matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
	}
	if len(matches) == 0 {
		return nil, common.NewUserError(fmt.Sprintf("No files match %s", arg), common.ErrNoInput)
	}
	return matches, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeFile replaces path with content, keeping its permissions.
func writeFile(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
