package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/humanizer/internal/cli"
	"github.com/Veraticus/humanizer/internal/common"
	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/pattern"
	"github.com/Veraticus/humanizer/internal/service"
	"github.com/spf13/cobra"
)

func fixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [file]",
		Short: "Rewrite flagged phrases with suggested replacements",
		Long: `Apply replacements to every non-overlapping match in a text.

By default each match takes its rule's first replacement option and matches
without options are left alone. Use --delete-bare to remove those instead, or
--interactive to choose each replacement yourself.

The result is written to standard output unless --output or --in-place is given.`,
		Example: `  humanize fix draft.md > clean.md
  humanize fix draft.md --in-place --delete-bare
  humanize fix draft.md -i -o reviewed.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFix,
	}

	cmd.Flags().StringP("output", "o", "", "Write the result to this file")
	cmd.Flags().Bool("in-place", false, "Overwrite the input file")
	cmd.Flags().Bool("delete-bare", false, "Delete matches whose rule has no replacement options")
	cmd.Flags().Bool("dry-run", false, "List the changes without writing anything")
	cmd.Flags().BoolP("interactive", "i", false, "Choose each replacement at a prompt")
	addDetectionFlags(cmd)

	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	applyFlags(cmd, detectionFlags)

	output, _ := cmd.Flags().GetString("output")
	inPlace, _ := cmd.Flags().GetBool("in-place")
	deleteBare, _ := cmd.Flags().GetBool("delete-bare")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	interactive, _ := cmd.Flags().GetBool("interactive")

	if inPlace && output != "" {
		return common.NewUserError("Use either --in-place or --output, not both", common.ErrInvalidConfig)
	}

	in, err := readSingleInput(cmd, args)
	if err != nil {
		return err
	}
	if inPlace && in.Source == stdinSource {
		return common.NewUserError("--in-place needs a file argument", common.ErrNoInput)
	}
	if interactive && in.Source == stdinSource {
		return common.NewUserError("--interactive reads answers from stdin, so the text must come from a file", common.ErrNoInput)
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

	return fixText(cmd, in, rules, fixOptions{
		output:      output,
		inPlace:     inPlace,
		deleteBare:  deleteBare,
		dryRun:      dryRun,
		interactive: interactive,
	})
}

type fixOptions struct {
	output      string
	inPlace     bool
	deleteBare  bool
	dryRun      bool
	interactive bool
}

func fixText(cmd *cobra.Command, in input, rules []model.PatternRule, opts fixOptions) error {
	ctx := cmd.Context()
	result := pattern.NewDetector(slog.Default()).Detect(in.Text, rules)

	var selections []model.Selection
	if opts.interactive {
		prompter := cli.NewCLIPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
		chosen, err := prompter.Review(ctx, in.Text, result)
		if err != nil {
			return fmt.Errorf("review failed: %w", err)
		}
		prompter.ShowCompletion()
		selections = chosen
	} else {
		strategy := pattern.StrategyFirstOption
		if opts.deleteBare {
			strategy = pattern.StrategyDeleteBare
		}
		selections = pattern.SuggestSelections(result, strategy)
	}

	if err := pattern.ValidateSelections(selections, len(in.Text)); err != nil {
		return fmt.Errorf("invalid selections: %w", err)
	}

	if opts.dryRun {
		return writeChanges(cmd, in, selections)
	}

	fixed := pattern.ApplyReplacements(in.Text, selections)
	slog.Debug("applied replacements", "source", in.Source, "count", len(selections))

	switch {
	case opts.inPlace:
		return writeFixed(cmd, in.Source, fixed, len(selections))
	case opts.output != "":
		return writeFixed(cmd, opts.output, fixed, len(selections))
	default:
		_, err := fmt.Fprint(cmd.OutOrStdout(), fixed)
		return err
	}
}

func writeFixed(cmd *cobra.Command, path, content string, changes int) error {
	if err := writeFile(path, content); err != nil {
		return err
	}
	_, err := fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Wrote %s (%d change(s))", path, changes)))
	return err
}

// writeChanges lists the replacements a fix would make.
func writeChanges(cmd *cobra.Command, in input, selections []model.Selection) error {
	out := cmd.OutOrStdout()
	if len(selections) == 0 {
		_, err := fmt.Fprintln(out, cli.FormatSuccess("Nothing to change"))
		return err
	}

	for _, s := range selections {
		line, col := cli.LineCol(in.Text, s.Match.Location.Start)
		replacement := s.Replacement
		if replacement == "" {
			replacement = "(delete)"
		}
		if _, err := fmt.Fprintf(out, "%s:%d:%d  %q → %q\n", in.Source, line, col, s.Match.MatchedText, replacement); err != nil {
			return err
		}
	}
	return nil
}

// readSingleInput reads the one file named in args, or stdin.
func readSingleInput(cmd *cobra.Command, args []string) (input, error) {
	inputs, err := readInputs(cmd.InOrStdin(), args)
	if err != nil {
		return input{}, err
	}
	if len(inputs) != 1 {
		return input{}, common.NewUserError(fmt.Sprintf("Expected one input, got %d", len(inputs)), common.ErrNoInput)
	}
	return inputs[0], nil
}
