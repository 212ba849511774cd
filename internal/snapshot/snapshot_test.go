package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSnapshotEqual(t *testing.T) {
	ts := time.Now()
	a := New("main.go", "package main", "go", ts)
	b := New("main.go", "package main", "go", ts)
	c := New("main.go", "package main\n", "go", ts)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestMapCloneIsIndependent(t *testing.T) {
	ts := time.Now()
	m := Map{"a.go": New("a.go", "one", "go", ts)}
	clone := m.Clone()
	clone["a.go"] = New("a.go", "two", "go", ts)

	require.Equal(t, "one", m["a.go"].Content)
	require.Equal(t, "two", clone["a.go"].Content)
}
