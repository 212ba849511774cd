// Command editsessiondemo drives the AI edit session pipeline end to end
// against a real directory: stream a model's text output through the
// parser and diff engine, inspect the resulting proposed edits, accept or
// reject them, and exercise undo/redo.
package main

import (
	"fmt"
	"os"

	"dev.aicore.editsession/cmd/editsessiondemo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
