package cli

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/fieldcheck/internal/server/checklists"
	"github.com/fatih/color"
)

func outcomeLabel(o checklists.Outcome) string {
	switch o {
	case checklists.OutcomeApplied:
		return color.New(color.FgGreen).Sprint("APPLIED")
	case checklists.OutcomeSkipped:
		return color.New(color.FgYellow).Sprint("SKIPPED")
	default:
		return color.New(color.FgRed).Sprint("FAILED ")
	}
}

// printBatch writes one line per update, grouped by checklist, then totals.
func printBatch(w io.Writer, b *checklists.Batch) {
	for _, l := range b.Lists {
		fmt.Fprintf(w, "Checklist %d\n", l.ListID)
		if l.Error != "" {
			fmt.Fprintf(w, "  %s %s\n", color.New(color.FgRed).Sprint("NOT LOADED"), l.Error)
			continue
		}
		for _, r := range l.Results {
			line := fmt.Sprintf("  %s %-8s %-4s", outcomeLabel(r.Outcome), r.Reference, r.Status)
			if r.Reason != "" {
				line += " " + r.Reason
			}
			if r.Duplicate {
				line += " " + color.New(color.FgCyan).Sprint("[overrides earlier entry]")
			}
			fmt.Fprintln(w, line)
		}
	}

	applied, skipped, failed := b.Counts()
	fmt.Fprintf(w, "%d applied, %d skipped, %d failed\n", applied, skipped, failed)
}
