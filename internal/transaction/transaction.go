package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"dev.aicore.editsession/internal/snapshot"
)

// Metadata carries a transaction's description, source tag, and whether it
// can be undone.
type Metadata struct {
	Description string
	Source      string
	CanUndo     bool
}

// EditTransaction is an ordered, id-identified bundle of ProposedEdits.
// Two transactions are equal iff their ids, edit lists, and metadata are
// equal.
type EditTransaction struct {
	ID        uuid.UUID
	Timestamp time.Time
	Edits     []ProposedEdit
	Metadata  Metadata
}

// New builds an EditTransaction from the given edits, stamped with now.
func New(edits []ProposedEdit, metadata Metadata, now time.Time) EditTransaction {
	return EditTransaction{
		ID:        uuid.New(),
		Timestamp: now,
		Edits:     edits,
		Metadata:  metadata,
	}
}

// AffectedFiles returns the set of distinct file paths touched by the
// transaction, in first-seen order.
func (t EditTransaction) AffectedFiles() []string {
	seen := make(map[string]bool, len(t.Edits))
	var files []string
	for _, e := range t.Edits {
		if !seen[e.FilePath] {
			seen[e.FilePath] = true
			files = append(files, e.FilePath)
		}
	}
	return files
}

// Validate reports whether every edit's file path exists as a key in the
// session's snapshot map — the sole validity condition per spec.md §4.4.
func (t EditTransaction) Validate(snapshots snapshot.Map) error {
	for _, e := range t.Edits {
		if _, ok := snapshots[e.FilePath]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPath, e.FilePath)
		}
	}
	return nil
}

// ErrUnknownPath indicates a transaction referenced a path absent from the
// session's snapshot map.
var ErrUnknownPath = fmt.Errorf("path not present in session snapshot map")

// Equal reports whether two transactions have identical id, edits, and
// metadata.
func (t EditTransaction) Equal(other EditTransaction) bool {
	if t.ID != other.ID || t.Metadata != other.Metadata {
		return false
	}
	if len(t.Edits) != len(other.Edits) {
		return false
	}
	for i := range t.Edits {
		if t.Edits[i].ID != other.Edits[i].ID {
			return false
		}
	}
	return true
}

// TransactionSnapshot is the pre-commit state of every path touched by a
// transaction: a transaction id, the commit timestamp, and the file
// snapshots as they stood immediately before the commit.
type TransactionSnapshot struct {
	TransactionID uuid.UUID
	Timestamp     time.Time
	FileSnapshots snapshot.Map
}

// SnapshotOf captures the pre-commit state of a transaction's affected
// files from the given snapshot map.
func SnapshotOf(t EditTransaction, snapshots snapshot.Map, now time.Time) TransactionSnapshot {
	captured := make(snapshot.Map, len(t.Edits))
	for _, path := range t.AffectedFiles() {
		if snap, ok := snapshots[path]; ok {
			captured[path] = snap
		}
	}
	return TransactionSnapshot{
		TransactionID: t.ID,
		Timestamp:     now,
		FileSnapshots: captured,
	}
}

// SnapshotFromEdits rebuilds a transaction's pre-commit snapshot from the
// original content already carried by its own ProposedEdits, without
// consulting a live snapshot map. Used to re-establish a reverted
// transaction's history entry on redo.
func SnapshotFromEdits(t EditTransaction) TransactionSnapshot {
	data := make(snapshot.Map, len(t.Edits))
	for _, e := range t.Edits {
		data[e.FilePath] = snapshot.New(e.FilePath, e.OriginalContent, "", t.Timestamp)
	}
	return TransactionSnapshot{
		TransactionID: t.ID,
		Timestamp:     t.Timestamp,
		FileSnapshots: data,
	}
}
