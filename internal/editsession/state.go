// Package editsession owns the nine-state session state machine that
// orchestrates the stream parser, diff engine, transaction model, and
// history into a single cooperative surface.
package editsession

import (
	"dev.aicore.editsession/internal/transaction"
)

// Kind names one of the nine legal session states.
type Kind string

const (
	KindIdle             Kind = "idle"
	KindStreaming        Kind = "streaming"
	KindParsing          Kind = "parsing"
	KindProposed         Kind = "proposed"
	KindTransactionReady Kind = "transactionReady"
	KindCommitted        Kind = "committed"
	KindRolledBack       Kind = "rolledBack"
	KindRejected         Kind = "rejected"
	KindError            Kind = "error"
)

// IsTerminal reports whether a state accepts no transition other than back
// to idle.
func (k Kind) IsTerminal() bool {
	switch k {
	case KindCommitted, KindRolledBack, KindRejected, KindError:
		return true
	}
	return false
}

// legalSuccessors is the single source of truth for valid transitions. Any
// (from, to) pair absent here is a no-op when attempted.
var legalSuccessors = map[Kind][]Kind{
	KindIdle:             {KindStreaming},
	KindStreaming:        {KindStreaming, KindParsing},
	KindParsing:          {KindProposed, KindError},
	KindProposed:         {KindTransactionReady, KindRejected},
	KindTransactionReady: {KindCommitted, KindRolledBack},
	KindCommitted:        {KindIdle},
	KindRolledBack:       {KindIdle},
	KindRejected:         {KindIdle},
	KindError:            {KindIdle},
}

func isValidTransition(from, to Kind) bool {
	for _, k := range legalSuccessors[from] {
		if k == to {
			return true
		}
	}
	return false
}

// State is the tagged union of the session's nine states. Only the fields
// relevant to Kind are meaningful; the others are left zero.
type State struct {
	Kind    Kind
	Edits   []transaction.ProposedEdit
	Tx      transaction.EditTransaction
	Message string
}

func idleState() State { return State{Kind: KindIdle} }
