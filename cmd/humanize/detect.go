package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Veraticus/humanizer/internal/cli"
	"github.com/Veraticus/humanizer/internal/common"
	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/pattern"
	"github.com/Veraticus/humanizer/internal/service"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const watchDebounce = 200 * time.Millisecond

// detectionFlags maps shared detection flags to their config keys.
var detectionFlags = map[string]string{
	"team":       "detection.team",
	"rules":      "detection.rules_file",
	"fail-score": "detection.fail_score",
	"workers":    "detection.workers",
}

// jsonReport is the machine-readable form of one input's result.
type jsonReport struct {
	Source string `json:"source"`
	model.DetectionResult
}

func detectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [files or globs...]",
		Short: "Score text for AI-sounding patterns",
		Long: `Scan text for phrasing that commonly marks machine-written prose.

Reads standard input when no files are given. Arguments may be paths or
globs such as 'docs/**/*.md'. Each input gets an AI score from 0 (reads
human) to 100 along with the matches that produced it.`,
		Example: `  humanize detect post.md
  cat draft.txt | humanize detect --json
  humanize detect 'content/**/*.md' --fail-score 40`,
		RunE: runDetect,
	}

	cmd.Flags().Bool("show", false, "Print the text with matches highlighted")
	cmd.Flags().Bool("json", false, "Output results as JSON")
	cmd.Flags().Bool("save", false, "Record results in detection history")
	cmd.Flags().Bool("watch", false, "Re-check files whenever they change")
	addDetectionFlags(cmd)

	return cmd
}

// addDetectionFlags registers the flags that choose rules and limits.
func addDetectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("team", "", "Apply this team's rule overrides")
	cmd.Flags().String("rules", "", "Load rules from a YAML file instead of the database")
	cmd.Flags().Int("fail-score", 0, "Exit non-zero when any score reaches this value (0 disables)")
	cmd.Flags().Int("workers", 0, "Number of inputs checked in parallel (default: CPU count)")
}

func runDetect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	applyFlags(cmd, detectionFlags)

	show, _ := cmd.Flags().GetBool("show")
	asJSON, _ := cmd.Flags().GetBool("json")
	save, _ := cmd.Flags().GetBool("save")
	watch, _ := cmd.Flags().GetBool("watch")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var store service.Storage
	if cfg.Detection.RulesFile == "" || save {
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

	inputs, err := readInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var progress io.Writer
	if len(inputs) > 1 && !asJSON {
		progress = cmd.ErrOrStderr()
	}

	results, err := detectInputs(ctx, rules, inputs, cfg.Detection.Workers, progress)
	if err != nil {
		return err
	}

	if asJSON {
		err = writeJSONResults(out, results)
	} else {
		err = writeTextResults(out, results, cli.ReportOptions{ShowText: show})
	}
	if err != nil {
		return err
	}

	if save {
		if err := saveResults(ctx, store, cfg.Detection.Team, results); err != nil {
			return err
		}
	}

	if watch {
		return watchInputs(ctx, cmd, rules, inputs, cli.ReportOptions{ShowText: show})
	}

	return checkFailScore(cmd.ErrOrStderr(), results, cfg.Detection.FailScore)
}

// detectInputs runs detection over inputs using up to workers goroutines.
// Results keep the order of inputs. Progress is drawn on progress when it
// is non-nil.
func detectInputs(ctx context.Context, rules []model.PatternRule, inputs []input, workers int, progress io.Writer) ([]cli.FileResult, error) {
	detector := pattern.NewDetector(slog.Default())
	results := make([]cli.FileResult, len(inputs))

	var report func()
	if progress != nil {
		bar := cli.NewProgressBar(progress, len(inputs), "Checking")
		report = func() { _ = bar.Add(1) }
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = cli.FileResult{
				Source: in.Source,
				Text:   in.Text,
				Result: detector.Detect(in.Text, rules),
			}
			if report != nil {
				report()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("detection canceled: %w", err)
	}
	return results, nil
}

func writeTextResults(w io.Writer, results []cli.FileResult, opts cli.ReportOptions) error {
	for i, r := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := cli.WriteReport(w, r.Source, r.Text, r.Result, opts); err != nil {
			return err
		}
	}

	if len(results) > 1 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		return cli.WriteSummary(w, results)
	}
	return nil
}

func writeJSONResults(w io.Writer, results []cli.FileResult) error {
	reports := make([]jsonReport, 0, len(results))
	for _, r := range results {
		reports = append(reports, jsonReport{Source: r.Source, DetectionResult: r.Result})
	}
	return writeJSON(w, reports)
}

// saveResults records each result in history and bumps rule match counts.
func saveResults(ctx context.Context, store service.Storage, teamID string, results []cli.FileResult) error {
	counts := make(map[string]int)
	for _, r := range results {
		if err := store.SaveDetection(ctx, model.NewDetection(r.Source, teamID, r.Result)); err != nil {
			return fmt.Errorf("failed to save detection for %s: %w", r.Source, err)
		}
		for _, m := range r.Result.Matches {
			counts[m.RuleID]++
		}
	}

	if err := store.RecordRuleMatches(ctx, counts); err != nil {
		return fmt.Errorf("failed to record rule matches: %w", err)
	}
	slog.Debug("saved detections", "count", len(results))
	return nil
}

// checkFailScore returns ErrScoreThreshold when any result scores at or
// above threshold. A zero threshold disables the check.
func checkFailScore(w io.Writer, results []cli.FileResult, threshold int) error {
	if threshold <= 0 {
		return nil
	}

	var failed []string
	for _, r := range results {
		if r.Result.AIScore >= threshold {
			failed = append(failed, r.Source)
		}
	}
	if len(failed) == 0 {
		return nil
	}

	msg := fmt.Sprintf("%d input(s) scored %d or higher", len(failed), threshold)
	if _, err := fmt.Fprintln(w, cli.FormatWarning(msg)); err != nil {
		slog.Warn("failed to write threshold warning", "error", err)
	}
	return fmt.Errorf("%w: %v", common.ErrScoreThreshold, failed)
}

// watchInputs re-checks file inputs whenever they are written until the
// command is interrupted.
func watchInputs(ctx context.Context, cmd *cobra.Command, rules []model.PatternRule, inputs []input, opts cli.ReportOptions) error {
	files := make(map[string]bool)
	for _, in := range inputs {
		if in.Source == stdinSource {
			continue
		}
		if abs, err := filepath.Abs(in.Source); err == nil {
			files[abs] = true
		}
	}
	if len(files) == 0 {
		return common.NewUserError("--watch needs at least one file", common.ErrNoInput)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch directories so editors that replace files on save are seen.
	dirs := make(map[string]bool)
	for path := range files {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx = handler.HandleInterrupts(ctx, "Stopped watching.")

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Watching %d file(s). Press Ctrl+C to stop.", len(files)))); err != nil {
		return err
	}

	detector := pattern.NewDetector(slog.Default())
	pending := make(map[string]bool)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil || !files[path] {
				continue
			}
			pending[path] = true
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		case <-timer.C:
			for path := range pending {
				delete(pending, path)
				changed, err := readInputs(nil, []string{path})
				if err != nil {
					slog.Warn("failed to re-read file", "path", path, "error", err)
					continue
				}
				in := changed[0]
				result := detector.Detect(in.Text, rules)
				if _, err := fmt.Fprintln(out); err != nil {
					return err
				}
				if err := cli.WriteReport(out, in.Source, in.Text, result, opts); err != nil {
					return err
				}
			}
		}
	}
}
