package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dev.aicore.editsession/internal/editsession"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the workspace root, history bound, and file count that would seed a new session",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	workspace := viper.GetString("workspace")
	historyLimit := viper.GetInt("history-limit")

	snapshots, err := loadWorkspaceSnapshots(workspace)
	if err != nil {
		return fmt.Errorf("failed to load workspace: %w", err)
	}

	s := editsession.New("editsessiondemo", snapshots, historyLimit)

	fmt.Printf("workspace:     %s\n", workspace)
	fmt.Printf("history limit: %d\n", historyLimit)
	fmt.Printf("tracked files: %d\n", len(snapshots))
	fmt.Printf("session id:    %s\n", s.ID())
	fmt.Printf("session state: %s\n", s.State().Kind)
	fmt.Printf("canUndo:       %v\n", s.CanUndo())
	fmt.Printf("canRedo:       %v\n", s.CanRedo())
	return nil
}
