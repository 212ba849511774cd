// Package diskexec is the single write broker that executes a committed
// transaction against the filesystem through a pluggable adapter, with
// snapshot-and-restore rollback on partial failure.
package diskexec

import (
	"context"
	"fmt"
	"log"

	"dev.aicore.editsession/internal/transaction"
)

// DiskWriteAdapter performs one edit as an OS write. If edit's new content
// is empty and its original content is not, the adapter is expected to
// delete the file; otherwise it writes NewContent to
// workspaceRoot/edit.FilePath, creating intermediate directories as needed.
// Writes must be atomic per file (temp-file + rename).
type DiskWriteAdapter interface {
	WriteEdit(ctx context.Context, edit transaction.EditToApply, workspaceRoot string) (resultingURI string, err error)
}

// WorkspaceSnapshot restores every file a transaction will touch to the
// state captured when the snapshot was taken.
type WorkspaceSnapshot interface {
	Restore(ctx context.Context, workspaceRoot string) error
}

// SnapshotFactory produces a WorkspaceSnapshot scoped to the edits about to
// be applied.
type SnapshotFactory func(ctx context.Context, edits []transaction.EditToApply, workspaceRoot string) (WorkspaceSnapshot, error)

// ProgressFunc is called before each edit is written, with its 0-based
// index and the total edit count.
type ProgressFunc func(index, total int)

// Executor is the sole write broker for a workspace: it never touches the
// filesystem except through its adapter, and holds no lock of its own — it
// relies on the caller serializing at most one live transaction at a time.
type Executor struct {
	adapter   DiskWriteAdapter
	newSnap   SnapshotFactory
	workspace string
}

// New constructs an Executor bound to a workspace root, a snapshot factory,
// and a write adapter.
func New(workspaceRoot string, newSnap SnapshotFactory, adapter DiskWriteAdapter) *Executor {
	return &Executor{
		adapter:   adapter,
		newSnap:   newSnap,
		workspace: workspaceRoot,
	}
}

// Result is the outcome of ExecuteToDisk: either every edit's resulting URI
// on success, or the original failure (with a best-effort restore already
// attempted) on failure.
type Result struct {
	AppliedURIs []string
	Err         error
}

// ExecuteToDisk runs the single write pipeline: snapshot once, write each
// edit in transaction order calling progress before each, and on any write
// failure attempt to restore from the snapshot before returning the
// original error. A restore failure is wrapped onto the result but never
// masks the original write failure.
func (e *Executor) ExecuteToDisk(ctx context.Context, edits []transaction.EditToApply, progress ProgressFunc) Result {
	snap, err := e.newSnap(ctx, edits, e.workspace)
	if err != nil {
		return Result{Err: fmt.Errorf("diskexec: failed to snapshot workspace: %w", err)}
	}

	applied := make([]string, 0, len(edits))
	for i, edit := range edits {
		if progress != nil {
			progress(i, len(edits))
		}

		uri, err := e.adapter.WriteEdit(ctx, edit, e.workspace)
		if err != nil {
			if restoreErr := snap.Restore(ctx, e.workspace); restoreErr != nil {
				log.Printf("diskexec: restore after failed write to %s also failed: %v", edit.FilePath, restoreErr)
				return Result{Err: fmt.Errorf("diskexec: write failed (%w); restore also failed: %v", err, restoreErr)}
			}
			return Result{Err: fmt.Errorf("diskexec: write failed for %s: %w", edit.FilePath, err)}
		}
		applied = append(applied, uri)
	}

	return Result{AppliedURIs: applied}
}
