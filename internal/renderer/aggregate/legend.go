package aggregate

import "github.com/jku-isse/vscode-ecco-lsp-client/internal/renderer/color"

// Swatch is the rendered part of a legend entry.
type Swatch struct {
	Description string
	Color       color.Color
}

// Entry is the legend entry of one distinct marking.
type Entry[M comparable] struct {
	Key M
	Swatch
}

// Legend is an insertion-ordered cache of marking descriptions and colors.
// It is not safe for concurrent use and is meant to live for one
// aggregation.
type Legend[M comparable] struct {
	entries []Entry[M]
	index   map[M]int
}

// NewLegend creates an empty legend.
func NewLegend[M comparable]() *Legend[M] {
	return &Legend[M]{index: make(map[M]int)}
}

// Len returns the number of distinct markings.
func (l *Legend[M]) Len() int {
	return len(l.entries)
}

// Get returns the entry for key.
func (l *Legend[M]) Get(key M) (Entry[M], bool) {
	i, ok := l.index[key]
	if !ok {
		return Entry[M]{}, false
	}
	return l.entries[i], true
}

// Entries returns a copy of the entries in first-occurrence order.
func (l *Legend[M]) Entries() []Entry[M] {
	out := make([]Entry[M], len(l.entries))
	copy(out, l.entries)
	return out
}

// Swatches returns the description and color of every entry in order.
func (l *Legend[M]) Swatches() []Swatch {
	out := make([]Swatch, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Swatch
	}
	return out
}

// resolve returns the cached entry for key, calling lookup on first use.
func (l *Legend[M]) resolve(key M, lookup Lookup[M]) Entry[M] {
	if i, ok := l.index[key]; ok {
		return l.entries[i]
	}
	description, c := lookup(key)
	entry := Entry[M]{Key: key, Swatch: Swatch{Description: description, Color: c}}
	l.index[key] = len(l.entries)
	l.entries = append(l.entries, entry)
	return entry
}
