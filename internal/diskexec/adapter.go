package diskexec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dev.aicore.editsession/internal/transaction"
)

// AtomicFileAdapter is the default DiskWriteAdapter: every write lands via
// a temp file in the same directory followed by a rename, so a crash mid
// write never leaves a half-written file in place.
type AtomicFileAdapter struct {
	// FileMode is applied to every written file. Zero defaults to 0644.
	FileMode os.FileMode
}

// NewAtomicFileAdapter constructs an AtomicFileAdapter with the default
// file mode.
func NewAtomicFileAdapter() *AtomicFileAdapter {
	return &AtomicFileAdapter{FileMode: 0o644}
}

// WriteEdit implements DiskWriteAdapter.
func (a *AtomicFileAdapter) WriteEdit(_ context.Context, edit transaction.EditToApply, workspaceRoot string) (string, error) {
	target := filepath.Join(workspaceRoot, edit.FilePath)

	if edit.NewContent == "" && edit.OriginalContent != "" {
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to delete %s: %w", edit.FilePath, err)
		}
		return target, nil
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	mode := a.FileMode
	if mode == 0 {
		mode = 0o644
	}

	tmp, err := os.CreateTemp(dir, ".editsession-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(edit.NewContent); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return "", fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return "", fmt.Errorf("failed to rename into place: %w", err)
	}

	return target, nil
}
