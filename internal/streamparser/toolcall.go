package streamparser

import (
	"encoding/base64"
	"strings"
)

// ToolCall is one decoded entry from the tool-call sideband. The decoded
// Input payload is opaque to this package — consumers interpret it.
type ToolCall struct {
	ID    string
	Name  string
	Input []byte
}

const toolCallPrefix = "TOOL_CALL:"

// ToolCallExtractor incrementally decodes the line-delimited tool-call
// sideband (`TOOL_CALL:<id>:<name>:<base64-input>\n`), buffering an
// unterminated trailing line across Feed calls so chunk boundaries never
// split a tool call.
type ToolCallExtractor struct {
	buffer string
}

// NewToolCallExtractor creates an extractor with an empty buffer.
func NewToolCallExtractor() *ToolCallExtractor {
	return &ToolCallExtractor{}
}

// Feed appends chunk to the internal buffer and returns any tool calls
// completed by this chunk. A trailing line with no terminating "\n" is held
// back until a future Feed call completes it.
func (e *ToolCallExtractor) Feed(chunk string) []ToolCall {
	e.buffer += chunk

	lines := strings.Split(e.buffer, "\n")
	complete := lines[:len(lines)-1]
	e.buffer = lines[len(lines)-1]

	var calls []ToolCall
	for _, line := range complete {
		if call, ok := decodeToolCallLine(line); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

func decodeToolCallLine(line string) (ToolCall, bool) {
	if !strings.HasPrefix(line, toolCallPrefix) {
		return ToolCall{}, false
	}

	rest := line[len(toolCallPrefix):]
	parts := strings.SplitN(rest, ":", 3)
	if len(parts) != 3 {
		return ToolCall{}, false
	}

	id, name, encoded := parts[0], parts[1], parts[2]
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return ToolCall{}, false
	}

	return ToolCall{ID: id, Name: name, Input: decoded}, true
}
