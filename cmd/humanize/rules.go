package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/humanizer/internal/cli"
	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/service"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage detection rules",
		Long: `Manage the pattern rules used to score text.

Global rules apply to everyone. Team rules add to them, and a team rule
with --overrides replaces (or disables) one global rule for that team.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesShowCmd())
	cmd.AddCommand(rulesCreateCmd())
	cmd.AddCommand(rulesEditCmd())
	cmd.AddCommand(rulesDeleteCmd())
	cmd.AddCommand(rulesTestCmd())
	cmd.AddCommand(rulesImportCmd())
	cmd.AddCommand(rulesExportCmd())
	cmd.AddCommand(rulesSeedCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rules",
		Long: `List stored rules. Without flags only global rules are shown.

Use --team to see a team's own rules, --effective to see the merged set a
team's detections actually run with, or --all for every team.`,
		RunE: runRulesList,
	}

	cmd.Flags().String("team", "", "Show this team's rules")
	cmd.Flags().Bool("all", false, "Show rules of every team")
	cmd.Flags().Bool("effective", false, "Show the merged active rules for --team")
	cmd.Flags().String("category", "", "Only show rules in this category")
	cmd.Flags().Bool("active", false, "Only show active rules")
	cmd.Flags().Bool("json", false, "Output as JSON")

	return cmd
}

func runRulesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	team, _ := cmd.Flags().GetString("team")
	all, _ := cmd.Flags().GetBool("all")
	effective, _ := cmd.Flags().GetBool("effective")
	categoryName, _ := cmd.Flags().GetString("category")
	activeOnly, _ := cmd.Flags().GetBool("active")
	asJSON, _ := cmd.Flags().GetBool("json")

	filter := service.RuleFilter{TeamID: team, AllTeams: all, ActiveOnly: activeOnly}
	if categoryName != "" {
		category, err := model.ParseCategory(categoryName)
		if err != nil {
			return err
		}
		filter.Category = category
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

	var rules []model.PatternRule
	if effective {
		rules, err = store.GetEffectiveRules(ctx, team)
	} else {
		rules, err = store.ListPatternRules(ctx, filter)
	}
	if err != nil {
		return fmt.Errorf("failed to list rules: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, rules)
	}

	if len(rules) == 0 {
		_, err := fmt.Fprintln(out, cli.InfoStyle.Render("No rules found. Use 'humanize rules seed' to install the built-in rules."))
		return err
	}

	if _, err := fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Pattern Rules (%d)", len(rules)))); err != nil {
		return err
	}
	return writeRuleTable(out, rules)
}

func writeRuleTable(out io.Writer, rules []model.PatternRule) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tTYPE\tSEVERITY\tTEAM\tACTIVE\tMATCHES"); err != nil {
		return err
	}

	for _, r := range rules {
		team := r.TeamID
		if team == "" {
			team = "-"
		}
		if r.OverridesID != "" {
			team += " (overrides " + r.OverridesID + ")"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			r.ID,
			cli.Truncate(r.Name, 30),
			r.Category,
			r.PatternType,
			r.EffectiveSeverity(),
			team,
			yesNo(r.IsActive),
			r.MatchCount,
		); err != nil {
			return err
		}
	}

	return w.Flush()
}

func rulesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one rule in detail",
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

			rule, err := store.GetPatternRule(ctx, args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(rule.Name, formatRule(*rule)))
			return err
		},
	}
}

func formatRule(r model.PatternRule) string {
	var b strings.Builder
	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%-12s %s\n", label+":", value)
	}

	field("ID", r.ID)
	field("Description", r.Description)
	field("Category", string(r.Category))
	field("Type", string(r.PatternType))
	field("Pattern", strconv.Quote(r.Pattern))
	field("Severity", cli.SeverityStyle(r.EffectiveSeverity()).Render(string(r.EffectiveSeverity())))
	field("Team", r.TeamID)
	field("Overrides", r.OverridesID)
	if len(r.ReplacementOptions) > 0 {
		field("Options", strings.Join(r.ReplacementOptions, " | "))
	}
	field("Active", yesNo(r.IsActive))
	field("Matches", strconv.Itoa(r.MatchCount))
	if !r.CreatedAt.IsZero() {
		field("Created", r.CreatedAt.Format("2006-01-02 15:04"))
	}

	return strings.TrimRight(b.String(), "\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
