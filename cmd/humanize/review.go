package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/humanizer/internal/cli"
	"github.com/Veraticus/humanizer/internal/common"
	"github.com/Veraticus/humanizer/internal/pattern"
	"github.com/Veraticus/humanizer/internal/service"
	"github.com/Veraticus/humanizer/internal/tui"
	"github.com/Veraticus/humanizer/internal/tui/themes"
	"github.com/spf13/cobra"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review <file>",
		Short: "Review matches one by one in a terminal UI",
		Long: `Open a full-screen review of every flagged phrase in a file.

Pick a replacement option, delete the phrase, type your own wording or skip
it. Press 'w' to write the changes and '?' for all keys.`,
		Args: cobra.ExactArgs(1),
		RunE: runReview,
	}

	cmd.Flags().StringP("output", "o", "", "Write the result here instead of overwriting the file")
	cmd.Flags().String("theme", "", fmt.Sprintf("Color theme (%s)", strings.Join(themes.Names(), ", ")))
	addDetectionFlags(cmd)

	return cmd
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	applyFlags(cmd, detectionFlags)

	output, _ := cmd.Flags().GetString("output")
	themeName, _ := cmd.Flags().GetString("theme")

	theme, err := themes.ByName(themeName)
	if err != nil {
		return common.NewUserError(err.Error(), common.ErrInvalidConfig)
	}

	in, err := readSingleInput(cmd, args)
	if err != nil {
		return err
	}
	if in.Source == stdinSource {
		return common.NewUserError("review needs a file; the terminal is used for input", common.ErrNoInput)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var store service.Storage
	if cfg.Detection.RulesFile == "" {
		store, err = initStorage(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer closeStorage(store)
	}

	rules, err := loadRules(ctx, cfg, store)
	if err != nil {
		return err
	}

	result := pattern.NewDetector(slog.Default()).Detect(in.Text, rules)
	if result.TotalMatches == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("No AI patterns found in "+in.Source))
		return err
	}

	selections, saved, err := tui.Review(ctx, in.Source, in.Text, result, tui.Options{
		Theme:     theme,
		AltScreen: true,
	})
	if err != nil {
		return err
	}
	if !saved {
		_, err := fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo("Review closed without writing changes"))
		return err
	}

	if err := pattern.ValidateSelections(selections, len(in.Text)); err != nil {
		return fmt.Errorf("invalid selections: %w", err)
	}

	target := in.Source
	if output != "" {
		target = output
	}
	return writeFixed(cmd, target, pattern.ApplyReplacements(in.Text, selections), len(selections))
}
