package editsession

import "errors"

// ErrNoValidEdits is the parse-empty failure: completeStreaming found no
// edits whose file paths matched the session's snapshot map.
var ErrNoValidEdits = errors.New("no valid edits found in stream")

// ErrInvalidTransaction is the invalid-transaction failure: prepareTransaction
// was asked to build a transaction referencing a path outside the session's
// snapshot map.
var ErrInvalidTransaction = errors.New("transaction references a path outside the session's snapshot map")

// ErrEmptySelection is returned by prepareTransaction when the requested
// edit id subset has no intersection with the currently proposed edits.
var ErrEmptySelection = errors.New("no proposed edits match the requested selection")

// ErrWrongState is returned by an operation attempted from a state it does
// not apply to. Transition-violations are otherwise silent no-ops; this
// sentinel lets callers distinguish "nothing happened because the state
// disallows it" from other failure kinds where that distinction matters.
var ErrWrongState = errors.New("operation not valid in the session's current state")
