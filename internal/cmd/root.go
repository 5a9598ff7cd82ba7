package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for sheetmerge
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheetmerge",
		Short: "Merge every spreadsheet in a directory into one workbook",
		Long: `Sheetmerge reads every .xlsx file in an input directory, stacks their rows
under the union of their column headers and writes a single workbook.

Running sheetmerge without a subcommand is the same as 'sheetmerge merge'.`,
		Version: Version,
		Args:    cobra.NoArgs,
		RunE:    runMerge,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	addMergeFlags(cmd)

	cmd.AddCommand(NewMergeCommand())
	cmd.AddCommand(NewInspectCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
