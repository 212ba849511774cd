package streamparser

import (
	"encoding/json"
	"regexp"
	"strings"
)

// jsonBlockPattern matches a fenced code block tagged "json":
// ```json
// ...body...
// ```
var jsonBlockPattern = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n?```")

// fallbackBlockPattern matches the code-block fallback:
// `path/to/file.ext`:
// ```[language]?
// ...payload...
// ```
// Paths containing whitespace or backticks are rejected by the character
// class itself.
var fallbackBlockPattern = regexp.MustCompile("(?s)`([^`\\s]+)`:\\s*\\n```[a-zA-Z0-9_+-]*\\n(.*?)\\n?```")

// jsonEnvelope mirrors the wire-format JSON edit envelope. Unknown fields
// are ignored by encoding/json by default.
type jsonEnvelope struct {
	Edits []jsonEdit `json:"edits"`
}

type jsonEdit struct {
	File      string         `json:"file"`
	Operation Operation      `json:"operation"`
	Range     *jsonLineRange `json:"range"`
	Content   []string       `json:"content"`
}

type jsonLineRange struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

// Parser extracts ParsedEdit values from the full accumulated text of a
// model's stream. It is pure and restartable: parsing the same input twice
// yields the same output.
type Parser struct{}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse is the non-incremental entry point described in spec.md §4.2. It
// tries the structured JSON envelope first; if present and it decodes to at
// least one edit, that is authoritative and the code-block fallback is not
// consulted. Otherwise it falls back to scanning for code-block matches.
func (p *Parser) Parse(text string) []ParsedEdit {
	if edits, ok := p.parseJSONEnvelope(text); ok {
		return edits
	}
	return p.parseFallbackBlocks(text)
}

func (p *Parser) parseJSONEnvelope(text string) ([]ParsedEdit, bool) {
	match := jsonBlockPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, false
	}

	var envelope jsonEnvelope
	if err := json.Unmarshal([]byte(match[1]), &envelope); err != nil {
		return nil, false
	}
	if len(envelope.Edits) == 0 {
		return nil, false
	}

	edits := make([]ParsedEdit, 0, len(envelope.Edits))
	for _, e := range envelope.Edits {
		var rng *LineRange
		if e.Range != nil {
			rng = &LineRange{Start: e.Range.StartLine, End: e.Range.EndLine}
		}
		edits = append(edits, ParsedEdit{
			FilePath:  e.File,
			Content:   strings.Join(e.Content, "\n"),
			Operation: e.Operation,
			Range:     rng,
		})
	}
	return edits, true
}

func (p *Parser) parseFallbackBlocks(text string) []ParsedEdit {
	matches := fallbackBlockPattern.FindAllStringSubmatch(text, -1)
	if matches == nil {
		return nil
	}

	edits := make([]ParsedEdit, 0, len(matches))
	for _, m := range matches {
		path := m[1]
		payload := m[2]
		edits = append(edits, ParsedEdit{
			FilePath:  path,
			Content:   payload,
			Operation: OpReplace,
			Range:     nil,
		})
	}
	return edits
}
