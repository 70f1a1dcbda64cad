package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/humanizer/internal/cli"
	"github.com/Veraticus/humanizer/internal/common"
	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/pattern"
	"github.com/Veraticus/humanizer/internal/rulepack"
	"github.com/Veraticus/humanizer/internal/service"
	"github.com/spf13/cobra"
)

func rulesTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [files...]",
		Short: "Try a rule against some text",
		Long: `Run a single rule against text from files or standard input and list
what it matches. Test a stored rule with --id, or an unsaved one with
--pattern (and --type regex for regular expressions).`,
		Example: `  echo "We delve deeper." | humanize rules test --id builtin-delve
  humanize rules test draft.md --type regex --pattern '\bvery \w+'`,
		RunE: runRulesTest,
	}

	cmd.Flags().String("id", "", "Stored rule to test")
	cmd.Flags().String("pattern", "", "Pattern to test without storing it")
	cmd.Flags().String("type", string(model.PatternTypeExact), "Pattern type for --pattern (exact, regex)")

	return cmd
}

func runRulesTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, _ := cmd.Flags().GetString("id")
	patternText, _ := cmd.Flags().GetString("pattern")
	typeName, _ := cmd.Flags().GetString("type")

	if (id == "") == (patternText == "") {
		return common.NewUserError("Give exactly one of --id or --pattern", common.ErrInvalidConfig)
	}

	var rule *model.PatternRule
	if id != "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := initStorage(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer closeStorage(store)

		rule, err = store.GetPatternRule(ctx, id)
		if err != nil {
			return err
		}
	} else {
		patternType, err := model.ParsePatternType(typeName)
		if err != nil {
			return err
		}
		rule = &model.PatternRule{
			ID:          "adhoc",
			Name:        "ad hoc",
			Category:    model.CategoryCustom,
			PatternType: patternType,
			Pattern:     patternText,
			IsActive:    true,
		}
		if err := pattern.ValidateRule(rule); err != nil {
			return err
		}
	}

	inputs, err := readInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	total := 0
	for _, in := range inputs {
		matches, err := pattern.MatchRule(in.Text, *rule)
		if err != nil {
			return err
		}
		total += len(matches)
		for _, m := range matches {
			line, col := cli.LineCol(in.Text, m.Location.Start)
			before, match, after := cli.Excerpt(in.Text, m.Location, 30)
			if _, err := fmt.Fprintf(out, "%s:%d:%d  %s%s%s\n", in.Source, line, col,
				before, cli.SeverityStyle(m.Severity).Render(match), after); err != nil {
				return err
			}
		}
	}

	_, err = fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d match(es) for %q", total, rule.Pattern)))
	return err
}

func rulesImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import rules from a YAML file",
		Long: `Store the rules of a YAML rule file. Rules whose ID already exists are
skipped unless --replace is given. With --team the rules become that
team's rules, and rules with overrides_id become team overrides.`,
		Args: cobra.ExactArgs(1),
		RunE: runRulesImport,
	}

	cmd.Flags().String("team", "", "Import as this team's rules")
	cmd.Flags().Bool("replace", false, "Update rules that already exist")

	return cmd
}

func runRulesImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	team, _ := cmd.Flags().GetString("team")
	replace, _ := cmd.Flags().GetBool("replace")

	rules, err := rulepack.Load(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	var created, updated, skipped int
	for i := range rules {
		rule := &rules[i]
		rule.TeamID = team

		if team != "" && rule.OverridesID != "" {
			// Overrides are keyed by team and target, not by the file's id.
			rule.ID = ""
			if err := store.UpsertTeamOverride(ctx, team, rule); err != nil {
				return fmt.Errorf("failed to import %s: %w", rule.Name, err)
			}
			created++
			continue
		}

		err := store.CreatePatternRule(ctx, rule)
		switch {
		case err == nil:
			created++
		case errors.Is(err, common.ErrDuplicateEntry) && replace:
			if err := store.UpdatePatternRule(ctx, rule); err != nil {
				return fmt.Errorf("failed to update %s: %w", rule.ID, err)
			}
			updated++
		case errors.Is(err, common.ErrDuplicateEntry):
			slog.Debug("skipping existing rule", "id", rule.ID)
			skipped++
		default:
			return fmt.Errorf("failed to import %s: %w", rule.Name, err)
		}
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
		fmt.Sprintf("Imported %d rule(s): %d created, %d updated, %d skipped", len(rules), created, updated, skipped)))
	return err
}

func rulesExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export rules to a YAML file",
		Long: `Write stored rules in the rule file format, to a file or standard output.
The output can be used with 'detect --rules' or 'rules import'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRulesExport,
	}

	cmd.Flags().String("team", "", "Export this team's rules")
	cmd.Flags().Bool("effective", false, "Export the merged active rules for --team")

	return cmd
}

func runRulesExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	team, _ := cmd.Flags().GetString("team")
	effective, _ := cmd.Flags().GetBool("effective")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	var rules []model.PatternRule
	if effective {
		rules, err = store.GetEffectiveRules(ctx, team)
	} else {
		rules, err = store.ListPatternRules(ctx, service.RuleFilter{TeamID: team})
	}
	if err != nil {
		return fmt.Errorf("failed to list rules: %w", err)
	}

	if len(args) == 0 {
		return rulepack.Encode(cmd.OutOrStdout(), rules)
	}

	if err := rulepack.Write(args[0], rules); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Exported %d rule(s) to %s", len(rules), args[0])))
	return err
}

func rulesSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the built-in rules",
		Long:  `Add the built-in rules to the database. Rules that already exist, by ID or name, are left alone.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			n, err := store.SeedDefaultRules(ctx, rulepack.Default())
			if err != nil {
				return fmt.Errorf("failed to seed rules: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Installed %d built-in rule(s)", n)))
			return err
		},
	}
}
