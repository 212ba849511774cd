package transaction

import (
	"strings"

	"dev.aicore.editsession/internal/streamparser"
)

// applyOperation turns a ParsedEdit into the proposed content that results
// from applying it to original, per spec.md §4.1's operation semantics.
// Line numbers in Range are 1-based inclusive.
func applyOperation(edit streamparser.ParsedEdit, original string) string {
	switch edit.Operation {
	case streamparser.OpInsert:
		return applyInsert(edit, original)
	case streamparser.OpReplace:
		return applyReplace(edit, original)
	case streamparser.OpDelete:
		return applyDelete(edit, original)
	default:
		return original
	}
}

func applyInsert(edit streamparser.ParsedEdit, original string) string {
	if edit.Range == nil {
		if original == "" {
			return edit.Content
		}
		return original + "\n" + edit.Content
	}

	lines := strings.Split(original, "\n")
	pos := clampInt(edit.Range.Start-1, 0, len(lines))
	newLines := strings.Split(edit.Content, "\n")

	result := make([]string, 0, len(lines)+len(newLines))
	result = append(result, lines[:pos]...)
	result = append(result, newLines...)
	result = append(result, lines[pos:]...)
	return strings.Join(result, "\n")
}

func applyReplace(edit streamparser.ParsedEdit, original string) string {
	if edit.Range == nil {
		return edit.Content
	}

	lines := strings.Split(original, "\n")
	start := clampInt(edit.Range.Start, 1, len(lines)+1)
	end := clampInt(edit.Range.End, 0, len(lines))
	startIdx := start - 1
	if end < start {
		end = start - 1
	}
	endIdx := end - 1

	newLines := strings.Split(edit.Content, "\n")

	result := make([]string, 0, len(lines)+len(newLines))
	result = append(result, lines[:startIdx]...)
	result = append(result, newLines...)
	if endIdx+1 <= len(lines) {
		result = append(result, lines[endIdx+1:]...)
	}
	return strings.Join(result, "\n")
}

func applyDelete(edit streamparser.ParsedEdit, original string) string {
	if edit.Range == nil {
		return ""
	}

	lines := strings.Split(original, "\n")
	start := clampInt(edit.Range.Start, 1, len(lines)+1)
	end := clampInt(edit.Range.End, 0, len(lines))
	startIdx := start - 1
	if end < start {
		end = start - 1
	}
	endIdx := end - 1

	result := make([]string, 0, len(lines))
	result = append(result, lines[:startIdx]...)
	if endIdx+1 <= len(lines) {
		result = append(result, lines[endIdx+1:]...)
	}
	return strings.Join(result, "\n")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
