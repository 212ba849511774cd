package editsession

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.aicore.editsession/internal/snapshot"
	"dev.aicore.editsession/internal/transaction"
)

func snapshotsFor(files map[string]string) snapshot.Map {
	m := make(snapshot.Map, len(files))
	for path, content := range files {
		m[path] = snapshot.New(path, content, "", time.Unix(0, 0))
	}
	return m
}

func streamToProposed(t *testing.T, s *EditSession, text string) {
	t.Helper()
	require.True(t, s.Start())
	require.True(t, s.AppendStreamingText(text))
	require.True(t, s.CompleteStreaming(context.Background()))
}

func TestS1JSONReplaceOfLineRange(t *testing.T) {
	s := New("fix the bug", snapshotsFor(map[string]string{
		"utils.swift": "func add(a: Int, b: Int) -> Int {\n    return a + b\n}",
	}), 0)

	stream := `{"edits":[{"file":"utils.swift","operation":"replace",` +
		`"range":{"startLine":1,"endLine":3},"content":[` +
		`"func add(a: Int, b: Int) -> Int {",` +
		`"    guard a >= 0 && b >= 0 else {",` +
		`"        throw NegativeNumberError()",` +
		`"    }",` +
		`"    return a + b",` +
		`"}"]}]}`
	stream = "```json\n" + stream + "\n```"

	streamToProposed(t, s, stream)

	st := s.State()
	require.Equal(t, KindProposed, st.Kind)
	require.Len(t, st.Edits, 1)
	edit := st.Edits[0]
	assert.Greater(t, edit.Diff.Added, 0)
	assert.Greater(t, edit.Diff.Removed, 0)

	applied, err := s.AcceptAll(transaction.Metadata{})
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, "func add(a: Int, b: Int) -> Int {\n    return a + b\n}", applied[0].OriginalContent)
	assert.Contains(t, applied[0].NewContent, "guard")
	assert.Equal(t, KindCommitted, s.State().Kind)
}

func TestS2CodeBlockFallback(t *testing.T) {
	s := New("", snapshotsFor(map[string]string{"main.swift": "print(\"Hello\")"}), 0)

	streamToProposed(t, s, "`main.swift`:\n```swift\nprint(\"Hello, World!\")\n```")

	st := s.State()
	require.Equal(t, KindProposed, st.Kind)
	require.Len(t, st.Edits, 1)
	assert.Equal(t, transaction.EditTypeModification, st.Edits[0].Metadata.EditType)
}

func TestS3RejectLeavesOriginalIntact(t *testing.T) {
	s := New("", snapshotsFor(map[string]string{"x": "let x = 1"}), 0)
	streamToProposed(t, s, "`x`:\n```\nlet x = 2\n```")

	require.True(t, s.RejectAll())
	st := s.State()
	assert.Equal(t, KindRejected, st.Kind)
	assert.Len(t, st.Edits, 1)
}

func TestS4UndoIsByteExact(t *testing.T) {
	s := New("", snapshotsFor(map[string]string{"model.swift": "struct Model {\n    let id: Int\n}"}), 0)
	streamToProposed(t, s, "`model.swift`:\n```swift\nstruct Model {\n    let id: Int\n    let name: String\n}\n```")

	applied, err := s.AcceptAll(transaction.Metadata{})
	require.NoError(t, err)
	require.Len(t, applied, 1)

	mockFS := map[string]string{"model.swift": applied[0].NewContent}

	snap, ok := s.UndoLastTransaction()
	require.True(t, ok)
	for path, fileSnap := range snap.FileSnapshots {
		mockFS[path] = fileSnap.Content
	}

	assert.Equal(t, "struct Model {\n    let id: Int\n}", mockFS["model.swift"])
	assert.False(t, s.CanUndo())
}

func TestS5MultiFileAtomicity(t *testing.T) {
	s := New("", snapshotsFor(map[string]string{"a": "A", "b": "B"}), 0)

	stream := "```json\n{\"edits\":[" +
		"{\"file\":\"a\",\"operation\":\"replace\",\"content\":[\"A2\"]}," +
		"{\"file\":\"b\",\"operation\":\"replace\",\"content\":[\"B2\"]}" +
		"]}\n```"
	streamToProposed(t, s, stream)

	applied, err := s.AcceptAll(transaction.Metadata{})
	require.NoError(t, err)
	require.Len(t, applied, 2)

	byPath := map[string]transaction.EditToApply{}
	for _, a := range applied {
		byPath[a.FilePath] = a
	}
	assert.Equal(t, "A", byPath["a"].OriginalContent)
	assert.Equal(t, "B", byPath["b"].OriginalContent)
}

func TestS6NoMatchingPathsYieldsError(t *testing.T) {
	s := New("", snapshotsFor(map[string]string{"foo.swift": "x"}), 0)
	streamToProposed(t, s, "`bar.swift`:\n```swift\ny\n```")

	st := s.State()
	assert.Equal(t, KindError, st.Kind)
	assert.Equal(t, ErrNoValidEdits.Error(), st.Message)
}

func TestStateMachineRejectsIllegalTransitions(t *testing.T) {
	s := New("", snapshotsFor(map[string]string{"a": "x"}), 0)

	assert.False(t, s.RejectAll(), "cannot reject from idle")
	assert.Equal(t, KindIdle, s.State().Kind)

	require.True(t, s.Start())
	assert.False(t, s.Start(), "cannot start twice")
	assert.Equal(t, KindStreaming, s.State().Kind)
}

func TestResetReturnsTerminalStatesToIdle(t *testing.T) {
	s := New("", snapshotsFor(map[string]string{"foo.swift": "x"}), 0)
	streamToProposed(t, s, "`bar.swift`:\n```swift\ny\n```")
	require.Equal(t, KindError, s.State().Kind)

	require.True(t, s.Reset())
	assert.Equal(t, KindIdle, s.State().Kind)
}

func TestAppendStreamingTextOnlyWhileStreaming(t *testing.T) {
	s := New("", snapshotsFor(map[string]string{"a": "x"}), 0)
	assert.False(t, s.AppendStreamingText("chunk"), "cannot append before start")

	require.True(t, s.Start())
	assert.True(t, s.AppendStreamingText("first "))
	assert.True(t, s.AppendStreamingText("second"))
}

func TestPrepareTransactionEmptySelectionStaysProposed(t *testing.T) {
	s := New("", snapshotsFor(map[string]string{"a": "x"}), 0)
	streamToProposed(t, s, "`a`:\n```\ny\n```")

	other := []uuid.UUID{uuid.New()}
	_, err := s.PrepareTransaction(other, transaction.Metadata{})
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, KindProposed, s.State().Kind)
}

func TestRollbackTransaction(t *testing.T) {
	s := New("", snapshotsFor(map[string]string{"a": "x"}), 0)
	streamToProposed(t, s, "`a`:\n```\ny\n```")

	_, err := s.PrepareTransaction(nil, transaction.Metadata{})
	require.NoError(t, err)
	require.Equal(t, KindTransactionReady, s.State().Kind)

	_, ok := s.RollbackTransaction()
	require.True(t, ok)
	assert.Equal(t, KindRolledBack, s.State().Kind)
	assert.False(t, s.CanUndo())
}

func TestRedoReappliesRevertedTransaction(t *testing.T) {
	s := New("", snapshotsFor(map[string]string{"a": "x"}), 0)
	streamToProposed(t, s, "`a`:\n```\ny\n```")
	_, err := s.AcceptAll(transaction.Metadata{})
	require.NoError(t, err)

	_, ok := s.UndoLastTransaction()
	require.True(t, ok)
	assert.False(t, s.CanUndo())
	assert.True(t, s.CanRedo())

	tx, ok := s.RedoLastTransaction()
	require.True(t, ok)
	assert.NotEmpty(t, tx.Edits)
	assert.True(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestSnapshotsAreIndependentClones(t *testing.T) {
	orig := snapshotsFor(map[string]string{"a": "x"})
	s := New("", orig, 0)

	got := s.Snapshots()
	got["a"] = snapshot.New("a", "mutated", "", time.Unix(0, 0))

	assert.Equal(t, "x", s.Snapshots()["a"].Content)
}

func TestStreamingSelfLoop(t *testing.T) {
	s := New("", snapshotsFor(map[string]string{"a": "x"}), 0)
	require.True(t, s.Start())
	require.True(t, s.AppendStreamingText("chunk one "))
	assert.True(t, s.Start() == false && s.State().Kind == KindStreaming)
	require.True(t, s.AppendStreamingText("chunk two"))

	assert.True(t, strings.Contains(s.buffer, "chunk one chunk two"))
}
