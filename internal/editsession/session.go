package editsession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"dev.aicore.editsession/internal/diffengine"
	"dev.aicore.editsession/internal/history"
	"dev.aicore.editsession/internal/snapshot"
	"dev.aicore.editsession/internal/streamparser"
	"dev.aicore.editsession/internal/transaction"
)

// Observer is invoked with every state transition, on the session executor.
type Observer func(State)

// EditSession owns the state machine, the accumulated stream buffer, the
// pending transaction, and the history. The snapshot map is fixed at
// construction and never mutated. All mutating operations are serialized
// through mu, which stands in for the single logical "session executor";
// the parse+diff pipeline inside CompleteStreaming is the one piece of work
// offloaded to a background executor, gated by bgSem so at most one such
// task runs at a time.
type EditSession struct {
	id          uuid.UUID
	instruction string
	snapshots   snapshot.Map

	parser     *streamparser.Parser
	diffEngine *diffengine.Engine
	hist       *history.History
	bgSem      *semaphore.Weighted

	mu        sync.Mutex
	state     State
	buffer    string
	pendingTx *transaction.EditTransaction
	observer  Observer
}

// New constructs an idle session over a fixed snapshot map, bounding its
// undo/redo history to historyBound applied transactions (0 = unbounded).
func New(instruction string, snapshots snapshot.Map, historyBound int) *EditSession {
	return &EditSession{
		id:          uuid.New(),
		instruction: instruction,
		snapshots:   snapshots.Clone(),
		parser:      streamparser.New(),
		diffEngine:  diffengine.New(),
		hist:        history.New(historyBound),
		bgSem:       semaphore.NewWeighted(1),
		state:       idleState(),
	}
}

// ID returns the session's identity.
func (s *EditSession) ID() uuid.UUID { return s.id }

// Snapshots returns the session's fixed snapshot map. Callers receive an
// independent clone; the session's own copy is never mutated.
func (s *EditSession) Snapshots() snapshot.Map { return s.snapshots.Clone() }

// State returns the session's current state.
func (s *EditSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnStateChange installs the state-change observer, replacing any previous
// one.
func (s *EditSession) OnStateChange(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = fn
}

// transition applies to if legal from the current state, notifying the
// observer. Caller must hold mu. Returns whether the transition happened.
func (s *EditSession) transition(to State) bool {
	if !isValidTransition(s.state.Kind, to.Kind) {
		return false
	}
	s.state = to
	if s.observer != nil {
		s.observer(to)
	}
	return true
}

// Start moves an idle session to streaming; a no-op otherwise.
func (s *EditSession) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Kind != KindIdle {
		return false
	}
	return s.transition(State{Kind: KindStreaming})
}

// AppendStreamingText appends chunk to the accumulated buffer while
// streaming; a no-op otherwise. Chunks may be of any size and may split
// wire-format tokens — the parser copes with a fully reassembled buffer.
func (s *EditSession) AppendStreamingText(chunk string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Kind != KindStreaming {
		return false
	}
	s.buffer += chunk
	return true
}

// CompleteStreaming transitions streaming -> parsing synchronously, then
// runs the parse+diff pipeline on the background executor gated by bgSem,
// then posts the result back as parsing -> proposed|error. It blocks the
// caller until that result is posted, matching the "session executor
// awaits the background result" ordering guarantee; ctx only governs the
// background wait itself. A no-op (returns false) when not streaming, or
// when the context is cancelled before the background slot is acquired (in
// which case no proposed/error transition occurs).
func (s *EditSession) CompleteStreaming(ctx context.Context) bool {
	s.mu.Lock()
	if s.state.Kind != KindStreaming {
		s.mu.Unlock()
		return false
	}
	buffer := s.buffer
	s.transition(State{Kind: KindParsing})
	s.mu.Unlock()

	if err := s.bgSem.Acquire(ctx, 1); err != nil {
		return false
	}
	edits, err := s.parseAndDiff(buffer)
	s.bgSem.Release(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Kind != KindParsing {
		return false
	}
	if err != nil {
		return s.transition(State{Kind: KindError, Message: err.Error()})
	}
	return s.transition(State{Kind: KindProposed, Edits: edits})
}

func (s *EditSession) parseAndDiff(buffer string) ([]transaction.ProposedEdit, error) {
	parsed := s.parser.Parse(buffer)

	var edits []transaction.ProposedEdit
	now := time.Now()
	for _, p := range parsed {
		original, ok := s.snapshots[p.FilePath]
		if !ok {
			continue
		}
		edits = append(edits, transaction.NewProposedEdit(p, original, s.diffEngine, s.instruction, 1.0, now))
	}

	if len(edits) == 0 {
		return nil, ErrNoValidEdits
	}
	return edits, nil
}

// PrepareTransaction builds a transaction from proposed, either a subset
// selected by editIDs (nil selects all) or all of them, validates it, and
// on success moves proposed -> transactionReady. On invalidity or an empty
// selection, the session remains in proposed and an error is returned.
func (s *EditSession) PrepareTransaction(editIDs []uuid.UUID, metadata transaction.Metadata) (transaction.EditTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Kind != KindProposed {
		return transaction.EditTransaction{}, ErrWrongState
	}

	selected := selectEdits(s.state.Edits, editIDs)
	if len(selected) == 0 {
		return transaction.EditTransaction{}, ErrEmptySelection
	}

	tx := transaction.New(selected, metadata, time.Now())
	if err := tx.Validate(s.snapshots); err != nil {
		return transaction.EditTransaction{}, fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}

	s.pendingTx = &tx
	s.transition(State{Kind: KindTransactionReady, Tx: tx})
	return tx, nil
}

func selectEdits(all []transaction.ProposedEdit, ids []uuid.UUID) []transaction.ProposedEdit {
	if ids == nil {
		return all
	}
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []transaction.ProposedEdit
	for _, e := range all {
		if wanted[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// CommitTransaction captures a TransactionSnapshot of the pre-commit state,
// records it in history, moves transactionReady -> committed, clears the
// pending transaction, and returns the snapshot. The session does not write
// to disk; that is the caller's responsibility via EditToApply values.
func (s *EditSession) CommitTransaction() (transaction.TransactionSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Kind != KindTransactionReady || s.pendingTx == nil {
		return transaction.TransactionSnapshot{}, false
	}

	tx := *s.pendingTx
	snap := transaction.SnapshotOf(tx, s.snapshots, time.Now())
	s.hist.RecordApplied(tx, snap)
	s.pendingTx = nil
	s.transition(State{Kind: KindCommitted, Tx: tx})
	return snap, true
}

// RollbackTransaction discards the pending transaction and moves
// transactionReady -> rolledBack.
func (s *EditSession) RollbackTransaction() (transaction.EditTransaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Kind != KindTransactionReady || s.pendingTx == nil {
		return transaction.EditTransaction{}, false
	}

	tx := *s.pendingTx
	s.pendingTx = nil
	s.transition(State{Kind: KindRolledBack, Tx: tx})
	return tx, true
}

// AcceptAll composes PrepareTransaction (selecting every proposed edit) and
// CommitTransaction, returning the EditToApply values the caller's disk
// adapter should write.
func (s *EditSession) AcceptAll(metadata transaction.Metadata) ([]transaction.EditToApply, error) {
	return s.Accept(nil, metadata)
}

// Accept composes PrepareTransaction for the given edit id subset (nil for
// all) and CommitTransaction.
func (s *EditSession) Accept(editIDs []uuid.UUID, metadata transaction.Metadata) ([]transaction.EditToApply, error) {
	tx, err := s.PrepareTransaction(editIDs, metadata)
	if err != nil {
		return nil, err
	}
	if _, ok := s.CommitTransaction(); !ok {
		return nil, ErrWrongState
	}
	return transaction.ToApplyList(tx), nil
}

// RejectAll moves proposed -> rejected(all proposed edits).
func (s *EditSession) RejectAll() bool {
	return s.Reject(nil)
}

// Reject moves proposed -> rejected(subset); nil selects all proposed
// edits.
func (s *EditSession) Reject(editIDs []uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Kind != KindProposed {
		return false
	}
	selected := selectEdits(s.state.Edits, editIDs)
	return s.transition(State{Kind: KindRejected, Edits: selected})
}

// Reset moves any terminal state back to idle, clearing the stream buffer
// and any pending transaction. It is the caller's mechanism for recovering
// from error/rejected/rolledBack/committed back to a fresh streaming cycle.
// From a non-terminal state it is a no-op and returns false.
func (s *EditSession) Reset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.transition(State{Kind: KindIdle}) {
		return false
	}
	s.buffer = ""
	s.pendingTx = nil
	return true
}

// UndoLastTransaction returns the snapshot of the most recently applied
// transaction and marks it reverted. Callable from any state; never alters
// Kind.
func (s *EditSession) UndoLastTransaction() (transaction.TransactionSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.hist.GetLastApplied()
	if !ok {
		return transaction.TransactionSnapshot{}, false
	}
	files, ok := s.hist.GetSnapshot(tx.ID)
	if !ok {
		return transaction.TransactionSnapshot{}, false
	}

	popped, _ := s.hist.PopLastApplied()
	s.hist.RecordReverted(popped)

	return transaction.TransactionSnapshot{
		TransactionID: tx.ID,
		Timestamp:     tx.Timestamp,
		FileSnapshots: files,
	}, true
}

// RedoLastTransaction re-applies the most recently reverted transaction to
// history, without running it through the state machine, and returns it.
func (s *EditSession) RedoLastTransaction() (transaction.EditTransaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.hist.PopLastReverted()
	if !ok {
		return transaction.EditTransaction{}, false
	}
	s.hist.RecordApplied(tx, transaction.SnapshotFromEdits(tx))
	return tx, true
}

// CanUndo reports whether there is an applied transaction available to
// undo.
func (s *EditSession) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanUndo()
}

// CanRedo reports whether there is a reverted transaction available to
// redo.
func (s *EditSession) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanRedo()
}
