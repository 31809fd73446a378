// Package output renders plans and results for the command layer. Tables
// go to stdout; nothing here is consumed programmatically except the JSON
// status variant.
package output

import (
	"fmt"
	"io"

	"github.com/google/clasp-sub000/internal/sync"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// PrintStatus formats and prints a push plan as tables of tracked and
// untracked files.
func PrintStatus(w io.Writer, plan *sync.Plan) {
	if len(plan.ToUpload) == 0 {
		fmt.Fprintln(w, "No files to push.")
	} else {
		printer.Fprintf(w, "Tracked files (%d):\n", len(plan.ToUpload))
		table := tablewriter.NewWriter(w)
		table.Header("Name", "Type")
		for _, f := range plan.ToUpload {
			table.Append(f.Name, string(f.Type))
		}
		table.Render()
	}

	if len(plan.Ignored) == 0 && len(plan.Unsupported) == 0 {
		return
	}

	fmt.Fprintln(w)
	printer.Fprintf(w, "Untracked files (%d):\n", len(plan.Ignored)+len(plan.Unsupported))
	table := tablewriter.NewWriter(w)
	table.Header("Path", "Reason")
	for _, p := range plan.Ignored {
		table.Append(p, "ignored")
	}
	for _, p := range plan.Unsupported {
		table.Append(p, "unsupported")
	}
	table.Render()
}

// PrintPushed prints the per-file push report in upload order.
func PrintPushed(w io.Writer, plan *sync.Plan) {
	total := len(plan.ToUpload)
	for i, f := range plan.ToUpload {
		fmt.Fprintf(w, "[%d/%d] Pushed %s (%s)\n", i+1, total, f.Name, f.Type)
	}
	printer.Fprintf(w, "Pushed %d files.\n", total)
}

// PrintPulled prints the per-file pull report.
func PrintPulled(w io.Writer, paths []string) {
	total := len(paths)
	for i, p := range paths {
		fmt.Fprintf(w, "[%d/%d] Wrote %s\n", i+1, total, p)
	}
	printer.Fprintf(w, "Pulled %d files.\n", total)
}
