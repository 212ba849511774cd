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

var acceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Stream, accept all proposed edits, and commit them to disk",
	RunE:  runAccept,
}

func init() {
	acceptCmd.Flags().StringVar(&streamFile, "stream", "-", "file the model's streamed text is read from (- for stdin)")
	rootCmd.AddCommand(acceptCmd)
}

func runAccept(cmd *cobra.Command, args []string) error {
	s, err := buildStreamedSession()
	if err != nil {
		return err
	}

	if s.State().Kind != editsession.KindProposed {
		return fmt.Errorf("nothing to accept: session state is %s", s.State().Kind)
	}

	applied, err := s.AcceptAll(transaction.Metadata{Description: "editsessiondemo accept", Source: "editsessiondemo"})
	if err != nil {
		return fmt.Errorf("failed to accept proposed edits: %w", err)
	}

	workspace := viper.GetString("workspace")
	exec := diskexec.New(workspace, diskexec.NewFilesystemSnapshot, diskexec.NewAtomicFileAdapter())

	result := exec.ExecuteToDisk(context.Background(), applied, func(i, total int) {
		fmt.Printf("writing %d/%d\n", i+1, total)
	})
	if result.Err != nil {
		return fmt.Errorf("failed to write committed edits to disk: %w", result.Err)
	}

	fmt.Printf("committed %d file(s):\n", len(result.AppliedURIs))
	for _, uri := range result.AppliedURIs {
		fmt.Printf("  %s\n", uri)
	}
	return nil
}
