package diskexec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dev.aicore.editsession/internal/transaction"
)

// fileState is the pre-execution disk state of one file: its content if it
// existed, or absence.
type fileState struct {
	existed bool
	content []byte
	mode    os.FileMode
}

// FilesystemSnapshot is the default WorkspaceSnapshot: it reads every
// about-to-be-touched file's current bytes (or records its absence) at
// construction, and Restore writes them back atomically, removing files
// that did not exist beforehand.
type FilesystemSnapshot struct {
	states map[string]fileState
}

// NewFilesystemSnapshot is a SnapshotFactory that captures the current
// on-disk state of every edit's file path.
func NewFilesystemSnapshot(_ context.Context, edits []transaction.EditToApply, workspaceRoot string) (WorkspaceSnapshot, error) {
	states := make(map[string]fileState, len(edits))
	for _, edit := range edits {
		if _, ok := states[edit.FilePath]; ok {
			continue
		}
		target := filepath.Join(workspaceRoot, edit.FilePath)
		info, err := os.Stat(target)
		if os.IsNotExist(err) {
			states[edit.FilePath] = fileState{existed: false}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", edit.FilePath, err)
		}
		content, err := os.ReadFile(target)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", edit.FilePath, err)
		}
		states[edit.FilePath] = fileState{existed: true, content: content, mode: info.Mode()}
	}
	return &FilesystemSnapshot{states: states}, nil
}

// Restore implements WorkspaceSnapshot.
func (s *FilesystemSnapshot) Restore(_ context.Context, workspaceRoot string) error {
	var firstErr error
	for path, state := range s.states {
		target := filepath.Join(workspaceRoot, path)
		if !state.existed {
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) && firstErr == nil {
				firstErr = fmt.Errorf("failed to remove %s during restore: %w", path, err)
			}
			continue
		}
		if err := restoreFile(target, state); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func restoreFile(target string, state fileState) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".editsession-restore-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(state.content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, state.mode); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	return os.Rename(tmpPath, target)
}
