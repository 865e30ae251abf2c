package marking

// Complete fills the gaps of a sparse marking list so that the result
// partitions the whole document.
//
// Input fragments must be single-line, ordered by start position and
// mutually non-overlapping. Character offsets past the end of a line are
// clamped to the line end. Gaps are covered by unmarked filler fragments:
// the rest of the cursor's line, then one filler per skipped line, then
// the prefix of the next fragment's line. Every line of the result holds
// at least one fragment, so an empty line inside a gap gets an empty
// filler.
//
// Completing an already complete list returns an equal list. On a
// malformed fragment Complete returns a *MalformedFragmentError and no
// fragments.
func Complete[M comparable](doc Document, sparse []Fragment[M]) ([]Fragment[M], error) {
	c := completion[M]{doc: doc, out: make([]Fragment[M], 0, len(sparse)*2+doc.LineCount())}
	for i, f := range sparse {
		clamped, err := clampFragment(doc, i, f)
		if err != nil {
			return nil, err
		}
		if clamped.Range.Start.Before(c.cursor) {
			return nil, &MalformedFragmentError{Index: i, Range: f.Range, Reason: ReasonOverlap}
		}
		c = c.fill(clamped.Range.Start).push(clamped)
	}

	last := doc.LineCount() - 1
	if last < 0 {
		return c.out, nil
	}
	return c.fill(doc.LineRange(last).End).close().out, nil
}

// completion is the accumulator of the fold in Complete.
// open reports whether the cursor's line already holds a fragment.
type completion[M comparable] struct {
	doc    Document
	out    []Fragment[M]
	cursor Position
	open   bool
}

func (c completion[M]) push(f Fragment[M]) completion[M] {
	c.out = append(c.out, f)
	c.cursor = f.Range.End
	c.open = true
	return c
}

// fill covers everything between the cursor and target with fillers.
func (c completion[M]) fill(target Position) completion[M] {
	for c.cursor.Line < target.Line {
		end := c.doc.LineRange(c.cursor.Line).End
		if !c.open || c.cursor.Before(end) {
			c.out = append(c.out, Unmarked[M](Range{Start: c.cursor, End: end}))
		}
		c.cursor = Position{Line: c.cursor.Line + 1}
		c.open = false
	}
	if c.cursor.Before(target) {
		c = c.push(Unmarked[M](Range{Start: c.cursor, End: target}))
	}
	return c
}

// close gives an uncovered final line its empty filler.
func (c completion[M]) close() completion[M] {
	if c.open {
		return c
	}
	return c.push(Unmarked[M](Range{Start: c.cursor, End: c.cursor}))
}

// clampFragment validates f and clamps its characters to its own line.
func clampFragment[M comparable](doc Document, index int, f Fragment[M]) (Fragment[M], error) {
	r := f.Range
	switch {
	case !r.IsSingleLine():
		return f, &MalformedFragmentError{Index: index, Range: r, Reason: ReasonMultiLine}
	case r.Start.Line < 0 || r.Start.Line >= doc.LineCount():
		return f, &MalformedFragmentError{Index: index, Range: r, Reason: ReasonOutOfBounds}
	case r.Start.Character > r.End.Character:
		return f, &MalformedFragmentError{Index: index, Range: r, Reason: ReasonInverted}
	}

	lineEnd := doc.LineRange(r.Start.Line).End.Character
	r.Start.Character = clampInt(r.Start.Character, 0, lineEnd)
	r.End.Character = clampInt(r.End.Character, 0, lineEnd)
	return f.withRange(r), nil
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
