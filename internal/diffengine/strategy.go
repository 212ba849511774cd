package diffengine

// Strategy computes a DiffResult for a given pair of file contents. The
// line/patience strategy is the default; an AST-aware strategy
// could be substituted behind the same interface, but any substitute must
// still return a byte-accurate DiffResult (Reconstruct(old, result) == new).
type Strategy interface {
	Diff(oldContent, newContent string) DiffResult
}

// LineStrategy is the default, authoritative diff strategy: a stable
// patience-anchor plus greedy-LCS line diff.
type LineStrategy struct{}

// Diff implements Strategy.
func (LineStrategy) Diff(oldContent, newContent string) DiffResult {
	return ComputeDiff(oldContent, newContent)
}

// Engine dispatches diff computation through a pluggable Strategy, defaulting
// to LineStrategy.
type Engine struct {
	strategy Strategy
}

// New creates an Engine using the default line strategy.
func New() *Engine {
	return &Engine{strategy: LineStrategy{}}
}

// NewWithStrategy creates an Engine using a custom strategy (the seam for an
// AST-aware diff implementation).
func NewWithStrategy(s Strategy) *Engine {
	return &Engine{strategy: s}
}

// Diff computes the diff between oldContent and newContent using the
// engine's configured strategy.
func (e *Engine) Diff(oldContent, newContent string) DiffResult {
	return e.strategy.Diff(oldContent, newContent)
}
