package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dev.aicore.editsession/internal/editsession"
)

var streamFile string

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream model output through the parser and diff engine and print the resulting proposed edits",
	RunE:  runStream,
}

func init() {
	streamCmd.Flags().StringVar(&streamFile, "stream", "-", "file the model's streamed text is read from (- for stdin)")
	rootCmd.AddCommand(streamCmd)
}

// buildStreamedSession loads the workspace, starts a session, streams text
// into it, and returns the session once completeStreaming has run.
func buildStreamedSession() (*editsession.EditSession, error) {
	workspace := viper.GetString("workspace")
	historyLimit := viper.GetInt("history-limit")

	snapshots, err := loadWorkspaceSnapshots(workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}

	text, err := readStreamSource(streamFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream source: %w", err)
	}

	s := editsession.New("editsessiondemo", snapshots, historyLimit)
	s.Start()
	s.AppendStreamingText(text)
	s.CompleteStreaming(context.Background())
	return s, nil
}

func runStream(cmd *cobra.Command, args []string) error {
	s, err := buildStreamedSession()
	if err != nil {
		return err
	}

	st := s.State()
	switch st.Kind {
	case editsession.KindError:
		return fmt.Errorf("stream produced no proposed edits: %s", st.Message)
	case editsession.KindProposed:
		fmt.Printf("%d proposed edit(s)\n\n", len(st.Edits))
		for _, e := range st.Edits {
			printProposedEdit(e)
		}
		return nil
	default:
		return fmt.Errorf("unexpected session state after streaming: %s", st.Kind)
	}
}
