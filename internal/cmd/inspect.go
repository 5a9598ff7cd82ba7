package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/sheetmerge/internal/display"
	"github.com/harrison/sheetmerge/internal/models"
	"github.com/harrison/sheetmerge/internal/pipeline"
)

// NewInspectCommand creates the 'sheetmerge inspect' command
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [dir]",
		Short: "Show what a merge would read without writing anything",
		Long: `Inspect reads the spreadsheets a merge would read and prints each file's
shape, the merged column list, how many cells of each column would be left
empty and the files that introduce new columns or hold no data rows.

Nothing is written. The directory defaults to the configured input directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().String("config", "", "Path to config file (default: $SHEETMERGE_HOME/config.yaml)")
	cmd.Flags().String("sheet", "", "Worksheet to read from each file (default: first sheet)")
	cmd.Flags().Bool("sorted", false, "Read files in name order instead of directory listing order")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.InputDir = args[0]
	}
	out := cmd.OutOrStdout()

	if owners, err := display.FindOwnerFiles(cfg.InputDir, cfg.Extension); err == nil && len(owners) > 0 {
		display.WarnOwnerFiles(owners).Display(cmd.ErrOrStderr())
	}

	opts := pipeline.ExtractOptions{
		Extension: cfg.Extension,
		Sheet:     cfg.Sheet,
		Order:     cfg.PipelineOptions().Order,
	}

	files, err := pipeline.DiscoverFiles(cfg.InputDir, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Inspecting %s (%s order)\n", cfg.InputDir, opts.Order)
	if len(files) == 0 {
		fmt.Fprintf(out, "No %s files found; a merge would fail with nothing to concatenate.\n", cfg.Extension)
		return nil
	}

	progress := display.NewProgressIndicator(out, len(files))
	progress.Start()
	opts.OnFile = func(path string, table models.Table) {
		progress.Step(path, table.NumRows(), table.NumColumns())
	}

	batch, err := pipeline.Extract(cfg.InputDir, opts)
	if err != nil {
		return err
	}
	progress.Complete()

	columns, added := pipeline.UnionColumns(batch)
	printColumnSummary(out, columns, batch)

	merged, err := pipeline.Concat(batch)
	if err != nil {
		return err
	}
	printMissingCells(out, merged)

	var empty []string
	for _, table := range batch {
		if table.IsEmpty() {
			empty = append(empty, table.Source)
		}
	}
	if len(empty) > 0 {
		display.WarnNoDataRows(empty).Display(out)
	}

	for i := 1; i < len(added); i++ {
		if len(added[i]) > 0 {
			display.WarnColumnDrift(batch[i].Source, added[i]).Display(out)
		}
	}
	return nil
}

// printMissingCells lists the columns a merge would leave partly empty
func printMissingCells(w io.Writer, merged models.Table) {
	bold := color.New(color.Bold)
	printed := false
	for _, name := range merged.Columns() {
		values, _ := merged.Column(name)
		missing := 0
		for _, v := range values {
			if v.IsMissing() {
				missing++
			}
		}
		if missing == 0 {
			continue
		}
		if !printed {
			bold.Fprintln(w, "Empty cells after merge:")
			printed = true
		}
		fmt.Fprintf(w, "  %s: %d of %d\n", name, missing, len(values))
	}
}

func printColumnSummary(w io.Writer, columns []string, batch models.Batch) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w)
	bold.Fprintf(w, "Columns (%d):", len(columns))
	fmt.Fprintf(w, " %s\n", strings.Join(columns, ", "))
	bold.Fprint(w, "Total rows:")
	fmt.Fprintf(w, " %d\n", batch.TotalRows())
}
