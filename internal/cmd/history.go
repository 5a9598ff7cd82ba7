package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/sheetmerge/internal/config"
	"github.com/harrison/sheetmerge/internal/history"
	"github.com/harrison/sheetmerge/internal/models"
)

// NewHistoryCommand creates the 'sheetmerge history' parent command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect previous merge runs",
		Long: `Commands for viewing the merge run history.

Every merge is recorded in $SHEETMERGE_HOME/history/runs.db unless history
is disabled in the configuration or --no-history is passed.`,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: $SHEETMERGE_HOME/config.yaml)")

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryShowCommand())

	return cmd
}

func newHistoryListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent merge runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryList,
	}
	cmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 = all)")
	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one merge run in detail",
		Long: `Show the details of one merge run. The id may be shortened to any
prefix that matches a single run.`,
		Args: cobra.ExactArgs(1),
		RunE: runHistoryShow,
	}
}

// openHistory opens the history database. It returns a nil store when no
// database has been created yet.
func openHistory(cmd *cobra.Command) (*history.Store, string, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, "", err
	}
	dbPath, err := config.GetHistoryDBPath(cfg.History.DBPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get history database path: %w", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, dbPath, nil
	}
	store, err := history.NewStore(dbPath)
	if err != nil {
		return nil, dbPath, fmt.Errorf("open history store: %w", err)
	}
	return store, dbPath, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	output := cmd.OutOrStdout()
	limit, _ := cmd.Flags().GetInt("limit")

	store, dbPath, err := openHistory(cmd)
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintf(output, "No merge runs recorded yet.\nDatabase path: %s\n", dbPath)
		return nil
	}
	defer store.Close()

	ctx := context.Background()
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(output, "No merge runs recorded yet.")
		return nil
	}

	stats, err := store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	printRunList(output, runs, stats)
	return nil
}

func printRunList(w io.Writer, runs []*history.RunSummary, stats *history.Stats) {
	cyan := color.New(color.FgCyan, color.Bold)
	gray := color.New(color.FgHiBlack)

	cyan.Fprintf(w, "\n=== Merge History ===\n\n")
	fmt.Fprintf(w, "%-8s  %-19s  %-9s  %5s  %7s  %s\n", "ID", "STARTED", "STATUS", "FILES", "ROWS", "OUTPUT")
	for _, r := range runs {
		target := r.OutputPath
		if target == "" {
			target = r.Error
		}
		fmt.Fprintf(w, "%-8s  %-19s  ", shortID(r.ID), r.StartedAt.Local().Format("2006-01-02 15:04:05"))
		statusColor(r.Status).Fprintf(w, "%-9s", r.Status)
		fmt.Fprintf(w, "  %5d  %7d  %s\n", r.FileCount, r.Rows, target)
	}

	fmt.Fprintln(w)
	gray.Fprintf(w, "%d run(s) recorded: %d succeeded, %d failed, %d rows merged from %d files\n",
		stats.TotalRuns, stats.Succeeded, stats.Failed, stats.TotalRows, stats.TotalFiles)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	output := cmd.OutOrStdout()

	store, _, err := openHistory(cmd)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("%w: %s", history.ErrRunNotFound, args[0])
	}
	defer store.Close()

	run, err := store.GetRun(context.Background(), args[0])
	if err != nil {
		return err
	}

	printRunDetail(output, run)
	return nil
}

func printRunDetail(w io.Writer, run *models.RunResult) {
	cyan := color.New(color.FgCyan, color.Bold)
	gray := color.New(color.FgHiBlack)

	cyan.Fprintf(w, "\n=== Merge Run %s ===\n\n", run.ID)

	fmt.Fprintf(w, "  Status: ")
	statusColor(run.Status).Fprintf(w, "%s\n", run.Status)
	fmt.Fprintf(w, "  Started: %s ", run.StartedAt.Local().Format(time.RFC1123))
	gray.Fprintf(w, "(%s ago)\n", time.Since(run.StartedAt).Round(time.Second))
	fmt.Fprintf(w, "  Duration: %s\n", run.Duration)
	fmt.Fprintf(w, "  Input: %s\n", run.InputDir)
	if run.OutputPath != "" {
		fmt.Fprintf(w, "  Output: %s\n", run.OutputPath)
	}
	if run.Error != "" {
		fmt.Fprintf(w, "  Error: ")
		color.New(color.FgRed).Fprintf(w, "%s\n", run.Error)
	}
	fmt.Fprintf(w, "  Rows: %d\n", run.Rows)

	fmt.Fprintf(w, "\n  Files (%d):\n", len(run.Files))
	for i, f := range run.Files {
		fmt.Fprintf(w, "    %d. %s (%d rows, %d columns)\n", i+1, f.Path, f.Rows, f.Columns)
	}

	fmt.Fprintf(w, "\n  Columns (%d):\n", len(run.Columns))
	for _, c := range run.Columns {
		fmt.Fprintf(w, "    - %s\n", c)
	}
}

func statusColor(status string) *color.Color {
	if status == models.RunSucceeded {
		return color.New(color.FgGreen)
	}
	return color.New(color.FgRed)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
