// Package transaction builds ProposedEdits from parsed edits and the
// matching file snapshot, groups them into EditTransactions, and implements
// the operation-application semantics that turn a ParsedEdit into proposed
// content.
package transaction

import (
	"time"

	"github.com/google/uuid"

	"dev.aicore.editsession/internal/diffengine"
	"dev.aicore.editsession/internal/snapshot"
	"dev.aicore.editsession/internal/streamparser"
)

// EditType classifies a ProposedEdit relative to the original content.
type EditType string

const (
	EditTypeCreation     EditType = "creation"
	EditTypeModification EditType = "modification"
	EditTypeDeletion     EditType = "deletion"
)

// ProposedEditMetadata carries classification and provenance for a
// ProposedEdit.
type ProposedEditMetadata struct {
	EditType   EditType
	Confidence float64
	Source     string
	Timestamp  time.Time
}

// ProposedEdit augments a ParsedEdit with the original snapshot content, the
// projected proposed content, and the computed diff. Two ProposedEdits are
// equal iff their IDs are equal.
type ProposedEdit struct {
	ID              uuid.UUID
	FilePath        string
	OriginalContent string
	ProposedContent string
	Diff            diffengine.DiffResult
	Metadata        ProposedEditMetadata
}

// Equal reports identity equality, as required by spec.md §3.
func (p ProposedEdit) Equal(other ProposedEdit) bool {
	return p.ID == other.ID
}

// NewProposedEdit builds a ProposedEdit from a ParsedEdit and the matching
// FileSnapshot, computing the proposed content and its diff against the
// original.
func NewProposedEdit(parsed streamparser.ParsedEdit, original snapshot.FileSnapshot, engine *diffengine.Engine, source string, confidence float64, now time.Time) ProposedEdit {
	proposedContent := applyOperation(parsed, original.Content)
	diff := engine.Diff(original.Content, proposedContent)

	return ProposedEdit{
		ID:              uuid.New(),
		FilePath:        parsed.FilePath,
		OriginalContent: original.Content,
		ProposedContent: proposedContent,
		Diff:            diff,
		Metadata: ProposedEditMetadata{
			EditType:   classifyEditType(original.Content, proposedContent),
			Confidence: confidence,
			Source:     source,
			Timestamp:  now,
		},
	}
}

func classifyEditType(original, proposed string) EditType {
	switch {
	case original == "" && proposed != "":
		return EditTypeCreation
	case original != "" && proposed == "":
		return EditTypeDeletion
	default:
		return EditTypeModification
	}
}
