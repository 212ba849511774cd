package cmd

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dev.aicore.editsession/internal/snapshot"
)

// loadWorkspaceSnapshots walks root and builds the fixed snapshot map a
// session is constructed with. Hidden directories and hidden files (names
// starting with ".") are skipped; every other regular file is read as text.
func loadWorkspaceSnapshots(root string) (snapshot.Map, error) {
	snapshots := make(snapshot.Map)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() != "." && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		snapshots[rel] = snapshot.New(rel, string(content), languageFor(rel), info.ModTime())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func languageFor(path string) string {
	switch filepath.Ext(path) {
	case ".go":
		return "go"
	case ".swift":
		return "swift"
	case ".py":
		return "python"
	case ".js", ".ts":
		return "javascript"
	default:
		return ""
	}
}

func readStreamSource(path string) (string, error) {
	if path == "-" {
		content, err := readAllStdin()
		return content, err
	}
	content, err := os.ReadFile(path)
	return string(content), err
}

func readAllStdin() (string, error) {
	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}
	return sb.String(), nil
}
