// Package marking turns a sparse list of marked fragments into a complete
// partition of a text document.
//
// A marking is an opaque tag supplied by the ECCO backend, such as an
// association id or a joined feature list. The backend only reports the
// fragments it knows something about; Complete fills every gap with
// unmarked filler fragments so that renderers can walk the result line by
// line without ever looking at the document text outside a fragment.
//
// Positions follow the LSP convention: lines and characters are 0-indexed
// and characters are counted in UTF-16 code units.
//
// Basic usage:
//
//	doc := marking.NewTextDocument("abc\ndefg\nhi")
//	sparse := []marking.Fragment[string]{
//	    marking.Marked(marking.NewRange(0, 1, 0, 2), "X"),
//	}
//	complete, err := marking.Complete(doc, sparse)
//	if err != nil {
//	    // a fragment violated the single-line contract
//	}
//
// Every input fragment must start and end on the same line. Character
// offsets beyond the end of a line are clamped silently; structural
// problems are reported as *MalformedFragmentError.
package marking
