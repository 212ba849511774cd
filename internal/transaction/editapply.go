package transaction

import "github.com/google/uuid"

// EditToApply is handed to the caller by a session's acceptAll/accept so
// its disk adapter can perform the write and so a later undo can
// reconstruct the reverse delta.
type EditToApply struct {
	ID              uuid.UUID
	FilePath        string
	NewContent      string
	OriginalContent string
}

// ToApplyList projects a committed transaction's edits into the
// EditToApply values its caller writes to disk.
func ToApplyList(t EditTransaction) []EditToApply {
	out := make([]EditToApply, 0, len(t.Edits))
	for _, e := range t.Edits {
		out = append(out, EditToApply{
			ID:              e.ID,
			FilePath:        e.FilePath,
			NewContent:      e.ProposedContent,
			OriginalContent: e.OriginalContent,
		})
	}
	return out
}
