package main

import (
	"fmt"

	"github.com/Veraticus/humanizer/internal/cli"
	"github.com/Veraticus/humanizer/internal/common"
	"github.com/spf13/cobra"
)

func teamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Inspect and customize team rule sets",
	}

	cmd.AddCommand(teamsListCmd())
	cmd.AddCommand(teamsRulesCmd())
	cmd.AddCommand(teamsOverrideCmd())

	return cmd
}

func teamsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List teams that have their own rules",
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

			teams, err := store.ListTeams(ctx)
			if err != nil {
				return fmt.Errorf("failed to list teams: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(teams) == 0 {
				_, err := fmt.Fprintln(out, cli.InfoStyle.Render("No team rules yet. Use 'humanize teams override' to customize a rule."))
				return err
			}
			for _, team := range teams {
				if _, err := fmt.Fprintln(out, team); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func teamsRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules <team>",
		Short: "Show the rules a team's detections run with",
		Long:  `Show the global rules merged with the team's overrides and own rules. Disabled rules are left out.`,
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

			rules, err := store.GetEffectiveRules(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load rules: %w", err)
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Effective rules for %s (%d)", args[0], len(rules)))); err != nil {
				return err
			}
			return writeRuleTable(out, rules)
		},
	}
}

func teamsOverrideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override <team> <global-rule-id>",
		Short: "Replace or disable a global rule for one team",
		Long: `Create or update a team's override of a global rule. The override starts
as a copy of the global rule; the given flags change it. Use --inactive to
switch the rule off for the team.`,
		Example: `  humanize teams override acme builtin-delve --inactive
  humanize teams override acme builtin-moreover --option Also --option Plus`,
		Args: cobra.ExactArgs(2),
		RunE: runTeamsOverride,
	}

	addRuleFlags(cmd.Flags())

	return cmd
}

func runTeamsOverride(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	team, globalID := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	global, err := store.GetPatternRule(ctx, globalID)
	if err != nil {
		return err
	}
	if !global.IsGlobal() {
		return common.NewUserError(fmt.Sprintf("%s is a %s team rule; only global rules can be overridden", globalID, global.TeamID), common.ErrInvalidConfig)
	}

	override := *global
	override.ID = ""
	override.TeamID = team
	override.OverridesID = global.ID
	override.MatchCount = 0
	if err := applyRuleFlags(cmd.Flags(), &override); err != nil {
		return err
	}

	if err := store.UpsertTeamOverride(ctx, team, &override); err != nil {
		return fmt.Errorf("failed to save override: %w", err)
	}

	state := "replaces"
	if !override.IsActive {
		state = "disables"
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Rule %s %s %s for %s", override.ID, state, globalID, team)))
	return err
}
