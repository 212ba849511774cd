package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dev.aicore.editsession/internal/diskexec"
	"dev.aicore.editsession/internal/editsession"
	"dev.aicore.editsession/internal/transaction"
)

// undoCmd demonstrates the full commit -> undo cycle in a single
// invocation: since session history is per-process and in-memory (never
// persisted across CLI runs), there is nothing to undo from a fresh
// process unless the same process also performed the commit.
var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Stream, accept, write to disk, then undo the commit and restore the workspace",
	RunE:  runUndo,
}

func init() {
	undoCmd.Flags().StringVar(&streamFile, "stream", "-", "file the model's streamed text is read from (- for stdin)")
	rootCmd.AddCommand(undoCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	s, err := buildStreamedSession()
	if err != nil {
		return err
	}
	if s.State().Kind != editsession.KindProposed {
		return fmt.Errorf("nothing to accept: session state is %s", s.State().Kind)
	}

	applied, err := s.AcceptAll(transaction.Metadata{Description: "editsessiondemo undo-demo", Source: "editsessiondemo"})
	if err != nil {
		return fmt.Errorf("failed to accept proposed edits: %w", err)
	}

	workspace := viper.GetString("workspace")
	exec := diskexec.New(workspace, diskexec.NewFilesystemSnapshot, diskexec.NewAtomicFileAdapter())

	if result := exec.ExecuteToDisk(context.Background(), applied, nil); result.Err != nil {
		return fmt.Errorf("failed to write committed edits to disk: %w", result.Err)
	}
	fmt.Printf("committed %d file(s)\n", len(applied))

	snap, ok := s.UndoLastTransaction()
	if !ok {
		return fmt.Errorf("nothing to undo")
	}

	restore := make([]transaction.EditToApply, 0, len(snap.FileSnapshots))
	for path, fileSnap := range snap.FileSnapshots {
		restore = append(restore, transaction.EditToApply{
			FilePath:   path,
			NewContent: fileSnap.Content,
		})
	}

	if result := exec.ExecuteToDisk(context.Background(), restore, nil); result.Err != nil {
		return fmt.Errorf("failed to restore workspace during undo: %w", result.Err)
	}

	fmt.Printf("undone: restored %d file(s) to their pre-commit content\n", len(restore))
	fmt.Printf("canUndo=%v canRedo=%v\n", s.CanUndo(), s.CanRedo())
	return nil
}
