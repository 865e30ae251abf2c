package marking

import "strings"

// Document is a read-only view of a text document split into lines.
// Implementations must not change while a completion or render pass runs.
type Document interface {
	// LineCount returns the number of lines. A document always has at least one.
	LineCount() int

	// LineText returns the text of a line without its terminator.
	LineText(line int) string

	// LineRange returns the range from column 0 to the end of the line.
	LineRange(line int) Range

	// Text returns the text covered by a single-line range.
	Text(r Range) string
}

// TextDocument is a Document backed by an in-memory string.
type TextDocument struct {
	lines []textLine
}

type textLine struct {
	text     string
	utf16Len int
}

// NewTextDocument splits content into lines on '\n'.
// A trailing '\r' is stripped from each line, so CRLF input behaves like LF.
func NewTextDocument(content string) *TextDocument {
	raw := strings.Split(content, "\n")
	lines := make([]textLine, len(raw))
	for i, text := range raw {
		text = strings.TrimSuffix(text, "\r")
		lines[i] = textLine{text: text, utf16Len: utf16Len(text)}
	}
	return &TextDocument{lines: lines}
}

// LineCount returns the number of lines.
func (d *TextDocument) LineCount() int {
	return len(d.lines)
}

// LineText returns the text of a line, or "" when the line does not exist.
func (d *TextDocument) LineText(line int) string {
	if line < 0 || line >= len(d.lines) {
		return ""
	}
	return d.lines[line].text
}

// LineRange returns the range covering a whole line.
func (d *TextDocument) LineRange(line int) Range {
	if line < 0 || line >= len(d.lines) {
		return Range{Start: Position{Line: line}, End: Position{Line: line}}
	}
	return NewRange(line, 0, line, d.lines[line].utf16Len)
}

// Text returns the substring of the start line between the range's
// character offsets. Offsets past the line end are clamped.
func (d *TextDocument) Text(r Range) string {
	text := d.LineText(r.Start.Line)
	start := utf16ToByteOffset(text, r.Start.Character)
	end := len(text)
	if r.IsSingleLine() {
		end = utf16ToByteOffset(text, r.End.Character)
	}
	if end < start {
		return ""
	}
	return text[start:end]
}

// Content returns the document text joined with '\n'.
func (d *TextDocument) Content() string {
	var b strings.Builder
	for i, line := range d.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line.text)
	}
	return b.String()
}

// utf16Len returns the length of s in UTF-16 code units.
func utf16Len(s string) int {
	count := 0
	for _, r := range s {
		if r >= 0x10000 {
			count += 2
		} else {
			count++
		}
	}
	return count
}

// utf16ToByteOffset converts a UTF-16 offset within s to a byte offset.
func utf16ToByteOffset(s string, utf16Off int) int {
	if utf16Off <= 0 {
		return 0
	}

	count := 0
	for i, r := range s {
		if count >= utf16Off {
			return i
		}
		if r >= 0x10000 {
			count += 2
		} else {
			count++
		}
	}
	return len(s)
}
