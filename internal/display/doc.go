// Package display provides terminal output for the sheetmerge CLI: progress
// while spreadsheets are read and formatted warnings.
//
// # Progress Indicators
//
//	progress := display.NewProgressIndicator(os.Stdout, len(files))
//	progress.Start()
//	for _, f := range files {
//	    progress.Step(f, rows, columns)
//	}
//	progress.Complete()
//
// # Warning Messages
//
//	owners, _ := display.FindOwnerFiles(inputDir, ".xlsx")
//	if len(owners) > 0 {
//	    display.WarnOwnerFiles(owners).Display(os.Stderr)
//	}
//
// ANSI colors are written only when the destination is a terminal
// (mattn/go-isatty) and NO_COLOR is unset. All functions accept an io.Writer.
package display
