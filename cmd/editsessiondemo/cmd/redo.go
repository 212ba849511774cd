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

// redoCmd extends the undo demo one step further: commit, undo, then redo,
// re-applying the reverted transaction's edits to disk.
var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Stream, accept, undo, then redo the reverted commit",
	RunE:  runRedo,
}

func init() {
	redoCmd.Flags().StringVar(&streamFile, "stream", "-", "file the model's streamed text is read from (- for stdin)")
	rootCmd.AddCommand(redoCmd)
}

func runRedo(cmd *cobra.Command, args []string) error {
	s, err := buildStreamedSession()
	if err != nil {
		return err
	}
	if s.State().Kind != editsession.KindProposed {
		return fmt.Errorf("nothing to accept: session state is %s", s.State().Kind)
	}

	applied, err := s.AcceptAll(transaction.Metadata{Description: "editsessiondemo redo-demo", Source: "editsessiondemo"})
	if err != nil {
		return fmt.Errorf("failed to accept proposed edits: %w", err)
	}

	workspace := viper.GetString("workspace")
	exec := diskexec.New(workspace, diskexec.NewFilesystemSnapshot, diskexec.NewAtomicFileAdapter())

	if result := exec.ExecuteToDisk(context.Background(), applied, nil); result.Err != nil {
		return fmt.Errorf("failed to write committed edits to disk: %w", result.Err)
	}

	snap, ok := s.UndoLastTransaction()
	if !ok {
		return fmt.Errorf("nothing to undo")
	}
	restore := make([]transaction.EditToApply, 0, len(snap.FileSnapshots))
	for path, fileSnap := range snap.FileSnapshots {
		restore = append(restore, transaction.EditToApply{FilePath: path, NewContent: fileSnap.Content})
	}
	if result := exec.ExecuteToDisk(context.Background(), restore, nil); result.Err != nil {
		return fmt.Errorf("failed to restore workspace during undo: %w", result.Err)
	}
	fmt.Println("undone")

	tx, ok := s.RedoLastTransaction()
	if !ok {
		return fmt.Errorf("nothing to redo")
	}
	reapply := transaction.ToApplyList(tx)
	if result := exec.ExecuteToDisk(context.Background(), reapply, nil); result.Err != nil {
		return fmt.Errorf("failed to re-apply redone edits to disk: %w", result.Err)
	}

	fmt.Printf("redone: re-applied %d file(s)\n", len(reapply))
	fmt.Printf("canUndo=%v canRedo=%v\n", s.CanUndo(), s.CanRedo())
	return nil
}
