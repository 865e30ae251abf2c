// Package aggregate groups a complete marking by line and attaches the
// color of each fragment's marking.
package aggregate

import (
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/marking"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/renderer/color"
)

// Lookup resolves the description and color of a marking key.
// It is called at most once per distinct key in one Aggregate call.
type Lookup[M comparable] func(key M) (description string, c color.Color)

// Fragment is the text of one fragment with its resolved color.
// Color is nil for unmarked fragments.
type Fragment struct {
	Text  string
	Color *color.Color
}

// Line holds the fragments of one document line in order.
type Line struct {
	Number    int
	Fragments []Fragment
}

// Text returns the concatenated fragment text of the line.
func (l Line) Text() string {
	n := 0
	for _, f := range l.Fragments {
		n += len(f.Text)
	}
	buf := make([]byte, 0, n)
	for _, f := range l.Fragments {
		buf = append(buf, f.Text...)
	}
	return string(buf)
}

// Aggregate resolves the text and color of every fragment of a complete
// marking and groups the result by start line. Lines are indexed by line
// number; a line without fragments has none in the result.
//
// The returned legend is the color cache built during the call. It holds
// one entry per distinct marking in first-occurrence order and is owned by
// the caller.
func Aggregate[M comparable](doc marking.Document, complete []marking.Fragment[M], lookup Lookup[M]) ([]Line, *Legend[M]) {
	legend := NewLegend[M]()
	lines := make([]Line, doc.LineCount())
	for i := range lines {
		lines[i].Number = i
	}

	for _, f := range complete {
		line := f.Range.Start.Line
		if line < 0 || line >= len(lines) {
			continue
		}

		out := Fragment{Text: doc.Text(f.Range)}
		if f.HasMarking {
			entry := legend.resolve(f.Marking, lookup)
			c := entry.Color
			out.Color = &c
		}
		lines[line].Fragments = append(lines[line].Fragments, out)
	}

	return lines, legend
}
