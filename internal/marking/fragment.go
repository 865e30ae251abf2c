package marking

import "fmt"

// Fragment is a span of a document paired with an optional marking.
// The zero value of Marking is meaningless unless HasMarking is set.
type Fragment[M comparable] struct {
	Range      Range
	Marking    M
	HasMarking bool
}

// Marked creates a fragment carrying a marking.
func Marked[M comparable](r Range, m M) Fragment[M] {
	return Fragment[M]{Range: r, Marking: m, HasMarking: true}
}

// Unmarked creates a fragment without a marking.
func Unmarked[M comparable](r Range) Fragment[M] {
	return Fragment[M]{Range: r}
}

// String returns a human-readable representation of the fragment.
func (f Fragment[M]) String() string {
	if !f.HasMarking {
		return fmt.Sprintf("%s:-", f.Range)
	}
	return fmt.Sprintf("%s:%v", f.Range, f.Marking)
}

// withRange returns a copy of f covering r.
func (f Fragment[M]) withRange(r Range) Fragment[M] {
	f.Range = r
	return f
}
