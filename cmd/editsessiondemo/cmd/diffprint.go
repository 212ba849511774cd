package cmd

import (
	"fmt"

	"github.com/fatih/color"

	"dev.aicore.editsession/internal/diffengine"
	"dev.aicore.editsession/internal/transaction"
)

var (
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
	headerColor  = color.New(color.FgCyan, color.Bold)
)

// printProposedEdit renders one proposed edit's diff to stdout, colorizing
// added and removed lines.
func printProposedEdit(e transaction.ProposedEdit) {
	headerColor.Printf("%s  (%s, confidence %.2f)\n", e.FilePath, e.Metadata.EditType, e.Metadata.Confidence)
	for _, hunk := range e.Diff.Hunks {
		fmt.Printf("  @@ -%d,%d +%d,%d @@\n", hunk.OldStartLine, hunk.OldLineCount, hunk.NewStartLine, hunk.NewLineCount)
		for _, line := range hunk.Lines {
			printDiffLine(line)
		}
	}
	fmt.Printf("  +%d -%d\n", e.Diff.Added, e.Diff.Removed)
}

func printDiffLine(line diffengine.DiffLine) {
	switch line.Tag {
	case diffengine.Added:
		addedColor.Printf("  + %s\n", line.Text)
	case diffengine.Removed:
		removedColor.Printf("  - %s\n", line.Text)
	default:
		fmt.Printf("    %s\n", line.Text)
	}
}
