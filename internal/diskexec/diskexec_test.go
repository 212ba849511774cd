package diskexec

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.aicore.editsession/internal/transaction"
)

type fakeAdapter struct {
	failOn int
	calls  int
}

func (f *fakeAdapter) WriteEdit(_ context.Context, edit transaction.EditToApply, _ string) (string, error) {
	idx := f.calls
	f.calls++
	if f.failOn >= 0 && idx == f.failOn {
		return "", assert.AnError
	}
	return "mem://" + edit.FilePath, nil
}

type fakeSnapshot struct {
	restoreCalls int
}

func (s *fakeSnapshot) Restore(context.Context, string) error {
	s.restoreCalls++
	return nil
}

func fakeFactory(snap *fakeSnapshot) SnapshotFactory {
	return func(context.Context, []transaction.EditToApply, string) (WorkspaceSnapshot, error) {
		return snap, nil
	}
}

func TestExecuteToDiskSuccessReturnsAllURIs(t *testing.T) {
	adapter := &fakeAdapter{failOn: -1}
	snap := &fakeSnapshot{}
	exec := New("/workspace", fakeFactory(snap), adapter)

	edits := []transaction.EditToApply{
		{FilePath: "a.go", NewContent: "a2", OriginalContent: "a1"},
		{FilePath: "b.go", NewContent: "b2", OriginalContent: "b1"},
	}

	var progressed []int
	result := exec.ExecuteToDisk(context.Background(), edits, func(i, total int) {
		progressed = append(progressed, i)
		assert.Equal(t, 2, total)
	})

	require.NoError(t, result.Err)
	require.Len(t, result.AppliedURIs, 2)
	assert.Equal(t, []string{"mem://a.go", "mem://b.go"}, result.AppliedURIs)
	assert.Equal(t, []int{0, 1}, progressed)
	assert.Equal(t, 0, snap.restoreCalls)
}

func TestExecuteToDiskFailureRestoresExactlyOnce(t *testing.T) {
	adapter := &fakeAdapter{failOn: 1}
	snap := &fakeSnapshot{}
	exec := New("/workspace", fakeFactory(snap), adapter)

	edits := []transaction.EditToApply{
		{FilePath: "a.go", NewContent: "a2", OriginalContent: "a1"},
		{FilePath: "b.go", NewContent: "b2", OriginalContent: "b1"},
	}

	result := exec.ExecuteToDisk(context.Background(), edits, nil)

	require.Error(t, result.Err)
	assert.Empty(t, result.AppliedURIs)
	assert.Equal(t, 1, snap.restoreCalls)
}

func TestAtomicFileAdapterWritesThenDeletes(t *testing.T) {
	dir := t.TempDir()
	adapter := NewAtomicFileAdapter()

	uri, err := adapter.WriteEdit(context.Background(), transaction.EditToApply{
		FilePath:   "sub/file.txt",
		NewContent: "hello",
	}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub/file.txt"), uri)

	got, err := os.ReadFile(filepath.Join(dir, "sub/file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	_, err = adapter.WriteEdit(context.Background(), transaction.EditToApply{
		FilePath:        "sub/file.txt",
		NewContent:      "",
		OriginalContent: "hello",
	}, dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "sub/file.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestFilesystemSnapshotRestoresOriginalContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	edits := []transaction.EditToApply{{FilePath: "a.go", OriginalContent: "original", NewContent: "mutated"}}

	snap, err := NewFilesystemSnapshot(context.Background(), edits, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("mutated"), 0o644))

	require.NoError(t, snap.Restore(context.Background(), dir))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
}

func TestFilesystemSnapshotRestoresAbsenceForNewFile(t *testing.T) {
	dir := t.TempDir()
	edits := []transaction.EditToApply{{FilePath: "new.go", NewContent: "created"}}

	snap, err := NewFilesystemSnapshot(context.Background(), edits, dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "new.go")
	require.NoError(t, os.WriteFile(path, []byte("created"), 0o644))

	require.NoError(t, snap.Restore(context.Background(), dir))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
