// Package snapshot holds the immutable record of a file's content at a
// point in time.
package snapshot

import "time"

// FileSnapshot is an immutable (path, content, language, timestamp) value.
// Two snapshots are equal iff all fields are equal.
type FileSnapshot struct {
	Path      string
	Content   string
	Language  string
	Timestamp time.Time
}

// New builds a FileSnapshot, stamping Timestamp with the given time.
func New(path, content, language string, ts time.Time) FileSnapshot {
	return FileSnapshot{
		Path:      path,
		Content:   content,
		Language:  language,
		Timestamp: ts,
	}
}

// Equal reports whether two snapshots have identical fields.
func (f FileSnapshot) Equal(other FileSnapshot) bool {
	return f.Path == other.Path &&
		f.Content == other.Content &&
		f.Language == other.Language &&
		f.Timestamp.Equal(other.Timestamp)
}

// Map is a path -> FileSnapshot lookup, the shape used as a session's fixed
// snapshot map and as a transaction's pre-commit snapshot.
type Map map[string]FileSnapshot

// Clone returns a shallow copy of the map (FileSnapshot is itself immutable,
// so a shallow copy is a full value copy).
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
