package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/spider/internal/config"
	"github.com/nao1215/spider/internal/database"
	"github.com/nao1215/spider/internal/report"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is how many runs are listed when no limit is given.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous crawl runs",
		Long: `History lists the runs recorded by 'spider crawl', newest first.

Use --run to print the full report of one run, in the same formats as
the crawl command. Runs are stored in spider.db in the XDG data directory
unless --no-history was given.

Examples:
  # List the last 20 runs
  spider history

  # Show run 7 as Markdown
  spider history --run 7 --markdown

  # Delete run 7
  spider history --delete 7`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("run", "r", 0,
		"Show the full report of the run with this ID")
	cmd.Flags().Int64("delete", 0,
		"Delete the run with this ID")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Number of runs to list (0 = all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the run report as JSON (with --run)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the run report as Markdown (with --run)")
	cmd.Flags().String("data-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	runID, err := flags.GetInt64("run")
	if err != nil {
		return err
	}
	deleteID, err := flags.GetInt64("delete")
	if err != nil {
		return err
	}
	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("data-dir")
	if err != nil {
		return err
	}

	// Validate before opening the database.
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}
	if runID > 0 && deleteID > 0 {
		return errors.New("--run and --delete cannot be used together")
	}
	if limit < 0 {
		return fmt.Errorf("invalid limit %d: must be non-negative", limit)
	}

	out := cmd.OutOrStdout()
	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out, "\nUse 'spider crawl <url>' to start one.")
		return nil
	}

	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	switch {
	case deleteID > 0:
		if err := db.DeleteRun(ctx, deleteID); err != nil {
			return fmt.Errorf("failed to delete run %d: %w", deleteID, err)
		}
		fmt.Fprintf(out, "Deleted run %d\n", deleteID)
		return nil
	case runID > 0:
		return showRun(ctx, db, runID, out, jsonOutput, markdownOutput)
	default:
		return listRuns(ctx, db, limit, out)
	}
}

// listRuns prints a table of the most recent runs.
func listRuns(ctx context.Context, db *database.HistoryDB, limit int, out io.Writer) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out, "\nUse 'spider crawl <url>' to start one.")
		return nil
	}

	fmt.Fprintf(out, "Recorded runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-6s  %-19s  %-9s  %5s  %5s  %5s  %5s  %s\n",
		"ID", "Date", "Status", "Pages", "Found", "Saved", "Fail", "Seed")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 86))

	for _, r := range runs {
		fmt.Fprintf(out, "  %-6d  %-19s  %-9s  %5d  %5d  %5d  %5d  %s\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status,
			r.Pages,
			r.Resources,
			r.Artifacts,
			r.Failures,
			r.Seed,
		)
	}

	fmt.Fprintln(out, "\nUse 'spider history --run <id>' to see the full report of a run.")
	return nil
}

// showRun prints the stored report of one run.
func showRun(ctx context.Context, db *database.HistoryDB, id int64, out io.Writer, jsonOutput, markdownOutput bool) error {
	runReport, err := db.GetRun(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrRunNotFound) {
			return fmt.Errorf("run %d not found (use 'spider history' to list runs)", id)
		}
		return fmt.Errorf("failed to load run %d: %w", id, err)
	}

	var w report.Writer
	switch {
	case jsonOutput:
		w = report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case markdownOutput:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(true))
	}
	_, err = w.Write(runReport)
	return err
}
