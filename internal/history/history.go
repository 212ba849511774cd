// Package history maintains a bounded, delta-compressed chain of committed
// transactions so a session can serve undo/redo without retaining a full
// snapshot per commit.
package history

import (
	"sync"

	"github.com/google/uuid"

	"dev.aicore.editsession/internal/snapshot"
	"dev.aicore.editsession/internal/transaction"
)

// entry is one slot in the snapshot chain, aligned 1:1 with the applied
// transactions sequence. The first entry is always full; every subsequent
// entry stores only the files touched by its transaction.
type entry struct {
	txID uuid.UUID
	data snapshot.Map
}

// History is the bounded undo/redo chain. A zero-value History is not
// usable; construct one with New.
type History struct {
	mu       sync.RWMutex
	bound    int
	applied  []transaction.EditTransaction
	entries  []entry
	reverted []transaction.EditTransaction
}

// New creates a History bounded to at most bound applied transactions. A
// non-positive bound is treated as unbounded.
func New(bound int) *History {
	return &History{bound: bound}
}

// RecordApplied appends tx to the applied sequence along with its pre-commit
// snapshot, evicting the oldest entry if the bound is exceeded, and clears
// the redo stack.
func (h *History) RecordApplied(tx transaction.EditTransaction, snap transaction.TransactionSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e := entry{txID: tx.ID, data: snap.FileSnapshots}

	h.applied = append(h.applied, tx)
	h.entries = append(h.entries, e)
	h.reverted = nil

	if h.bound > 0 && len(h.applied) > h.bound {
		h.applied = h.applied[1:]
		h.entries = h.entries[1:]
	}
}

// RecordReverted pushes tx onto the redo stack.
func (h *History) RecordReverted(tx transaction.EditTransaction) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.reverted = append(h.reverted, tx)
}

// GetSnapshot reconstructs the pre-commit snapshot for txID by folding the
// entry chain up to and including that transaction's index. It reports false
// if txID is not present (evicted or never applied).
func (h *History) GetSnapshot(txID uuid.UUID) (snapshot.Map, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	idx := -1
	for i, tx := range h.applied {
		if tx.ID == txID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false
	}

	acc := make(snapshot.Map)
	for i := 0; i <= idx; i++ {
		for path, snap := range h.entries[i].data {
			acc[path] = snap
		}
	}
	return acc, true
}

// GetLastApplied returns the most recently applied transaction.
func (h *History) GetLastApplied() (transaction.EditTransaction, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.applied) == 0 {
		return transaction.EditTransaction{}, false
	}
	return h.applied[len(h.applied)-1], true
}

// GetLastReverted returns the most recently reverted transaction.
func (h *History) GetLastReverted() (transaction.EditTransaction, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.reverted) == 0 {
		return transaction.EditTransaction{}, false
	}
	return h.reverted[len(h.reverted)-1], true
}

// CanUndo reports whether there is an applied transaction available to undo.
func (h *History) CanUndo() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.applied) > 0
}

// CanRedo reports whether there is a reverted transaction available to redo.
func (h *History) CanRedo() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.reverted) > 0
}

// AppliedLen returns the number of transactions currently retained.
func (h *History) AppliedLen() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.applied)
}

// PopLastApplied removes and returns the most recently applied transaction,
// the caller's half of an undo (the history package does not itself move a
// transaction between the applied and reverted stacks).
func (h *History) PopLastApplied() (transaction.EditTransaction, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.applied) == 0 {
		return transaction.EditTransaction{}, false
	}
	idx := len(h.applied) - 1
	tx := h.applied[idx]
	h.applied = h.applied[:idx]
	h.entries = h.entries[:idx]
	return tx, true
}

// PopLastReverted removes and returns the most recently reverted
// transaction, the caller's half of a redo.
func (h *History) PopLastReverted() (transaction.EditTransaction, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.reverted) == 0 {
		return transaction.EditTransaction{}, false
	}
	idx := len(h.reverted) - 1
	tx := h.reverted[idx]
	h.reverted = h.reverted[:idx]
	return tx, true
}

// Clear discards all applied and reverted transactions.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.applied = nil
	h.entries = nil
	h.reverted = nil
}
