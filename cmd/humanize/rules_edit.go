package main

import (
	"fmt"

	"github.com/Veraticus/humanizer/internal/cli"
	"github.com/Veraticus/humanizer/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addRuleFlags registers the flags that describe a rule's fields.
func addRuleFlags(flags *pflag.FlagSet) {
	flags.String("name", "", "Rule name")
	flags.String("description", "", "What the rule catches")
	flags.String("category", "", "Category (word_variety, punctuation, transition_words, custom, ...)")
	flags.String("type", string(model.PatternTypeExact), "Pattern type (exact, regex, semantic)")
	flags.String("pattern", "", "Text or regular expression to match")
	flags.String("severity", string(model.SeverityMedium), "Severity (high, medium, low)")
	flags.StringArray("option", nil, "Replacement option (repeatable)")
	flags.Bool("inactive", false, "Store the rule disabled")
}

// applyRuleFlags copies explicitly set rule flags onto rule.
func applyRuleFlags(flags *pflag.FlagSet, rule *model.PatternRule) error {
	if flags.Changed("name") {
		rule.Name, _ = flags.GetString("name")
	}
	if flags.Changed("description") {
		rule.Description, _ = flags.GetString("description")
	}
	if flags.Changed("category") {
		value, _ := flags.GetString("category")
		category, err := model.ParseCategory(value)
		if err != nil {
			return err
		}
		rule.Category = category
	}
	if flags.Changed("type") || rule.PatternType == "" {
		value, _ := flags.GetString("type")
		patternType, err := model.ParsePatternType(value)
		if err != nil {
			return err
		}
		rule.PatternType = patternType
	}
	if flags.Changed("pattern") {
		rule.Pattern, _ = flags.GetString("pattern")
	}
	if flags.Changed("severity") || rule.Severity == "" {
		value, _ := flags.GetString("severity")
		severity, err := model.ParseSeverity(value)
		if err != nil {
			return err
		}
		rule.Severity = severity
	}
	if flags.Changed("option") {
		rule.ReplacementOptions, _ = flags.GetStringArray("option")
	}
	if flags.Changed("inactive") {
		inactive, _ := flags.GetBool("inactive")
		rule.IsActive = !inactive
	}
	return nil
}

func rulesCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a rule",
		Long: `Create a global rule, a team rule (--team) or a team override of a
global rule (--team with --overrides).`,
		Example: `  humanize rules create --name "Delve" --category word_variety --pattern delve --option explore --option examine
  humanize rules create --team acme --overrides builtin-delve --name "Delve (off)" --category word_variety --pattern delve --inactive`,
		RunE: runRulesCreate,
	}

	addRuleFlags(cmd.Flags())
	cmd.Flags().String("id", "", "Rule ID (generated when empty)")
	cmd.Flags().String("team", "", "Owning team; empty creates a global rule")
	cmd.Flags().String("overrides", "", "ID of the global rule this team rule replaces")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func runRulesCreate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	id, _ := cmd.Flags().GetString("id")
	team, _ := cmd.Flags().GetString("team")
	overrides, _ := cmd.Flags().GetString("overrides")

	rule := &model.PatternRule{ID: id, TeamID: team, OverridesID: overrides, IsActive: true}
	if err := applyRuleFlags(cmd.Flags(), rule); err != nil {
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

	if overrides != "" && team != "" {
		err = store.UpsertTeamOverride(ctx, team, rule)
	} else {
		err = store.CreatePatternRule(ctx, rule)
	}
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created rule %s (%s)", rule.ID, rule.Name)))
	return err
}

func rulesEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a rule",
		Long:  `Update the given fields of a rule. Fields whose flags are not set keep their values.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runRulesEdit,
	}

	addRuleFlags(cmd.Flags())
	cmd.Flags().Bool("active", false, "Re-enable a disabled rule")

	return cmd
}

func runRulesEdit(cmd *cobra.Command, args []string) error {
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

	rule, err := store.GetPatternRule(ctx, args[0])
	if err != nil {
		return err
	}

	if err := applyRuleFlags(cmd.Flags(), rule); err != nil {
		return err
	}
	if active, _ := cmd.Flags().GetBool("active"); active {
		rule.IsActive = true
	}

	if err := store.UpdatePatternRule(ctx, rule); err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated rule %s", rule.ID)))
	return err
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a rule and any team overrides of it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if err := store.DeletePatternRule(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete rule: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted rule %s", args[0])))
			return err
		},
	}
}
