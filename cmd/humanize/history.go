package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/humanizer/internal/cli"
	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/storage"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved detection results",
		Long:  `Show results recorded with 'humanize detect --save', newest first.`,
		RunE:  runHistoryList,
	}

	cmd.Flags().Int("limit", storage.DefaultHistoryLimit, "Number of results to show")
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.AddCommand(historyShowCmd())

	return cmd
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	detections, err := store.ListDetections(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, detections)
	}
	if len(detections) == 0 {
		_, err := fmt.Fprintln(out, cli.InfoStyle.Render("No saved results. Run 'humanize detect --save' to record some."))
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tWHEN\tSOURCE\tTEAM\tSCORE\tMATCHES\tWORDS"); err != nil {
		return err
	}
	for _, d := range detections {
		team := d.TeamID
		if team == "" {
			team = "-"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			d.ID,
			d.CreatedAt.Local().Format("2006-01-02 15:04"),
			cli.Truncate(d.Source, cli.DefaultCellWidth),
			team,
			d.AIScore,
			d.TotalMatches,
			d.WordCount,
		); err != nil {
			return err
		}
	}
	return w.Flush()
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved result",
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

			detection, err := store.GetDetection(ctx, args[0])
			if err != nil {
				return err
			}
			return writeDetection(cmd.OutOrStdout(), detection)
		},
	}
}

func writeDetection(w io.Writer, d *model.Detection) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Source:   %s\n", d.Source)
	if d.TeamID != "" {
		fmt.Fprintf(&b, "Team:     %s\n", d.TeamID)
	}
	fmt.Fprintf(&b, "When:     %s\n", d.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Score:    %s\n", cli.ScoreStyle(d.AIScore).Render(fmt.Sprintf("%d/100", d.AIScore)))
	fmt.Fprintf(&b, "Matches:  %d in %d words\n", d.TotalMatches, d.WordCount)

	for _, sev := range model.AllSeverities() {
		if n := d.MatchesBySeverity[sev]; n > 0 {
			fmt.Fprintf(&b, "  %-18s %d\n", sev, n)
		}
	}

	categories := make([]string, 0, len(d.MatchesByCategory))
	for c := range d.MatchesByCategory {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(&b, "  %-18s %d\n", c, d.MatchesByCategory[model.RuleCategory(c)])
	}

	_, err := fmt.Fprintln(w, cli.RenderBox(d.ID, strings.TrimRight(b.String(), "\n")))
	return err
}
