package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/marking"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/renderer/color"
)

func TestAggregate_SameKeySameColor(t *testing.T) {
	doc := marking.NewTextDocument("abc\ndefg\nhi")
	sparse := []marking.Fragment[string]{
		marking.Marked(marking.NewRange(0, 1, 0, 2), "F"),
		marking.Marked(marking.NewRange(2, 0, 2, 1), "F"),
	}
	complete, err := marking.Complete(doc, sparse)
	require.NoError(t, err)

	calls := 0
	lookup := func(key string) (string, color.Color) {
		calls++
		return "feature " + key, color.FromKey(key)
	}

	lines, legend := Aggregate(doc, complete, lookup)
	require.Len(t, lines, 3)

	first := lines[0].Fragments[1]
	second := lines[2].Fragments[0]
	require.NotNil(t, first.Color)
	require.NotNil(t, second.Color)
	assert.Equal(t, *first.Color, *second.Color)
	assert.Equal(t, color.FromKey("F"), *first.Color)

	assert.Equal(t, 1, calls)
	require.Equal(t, 1, legend.Len())
	entry, ok := legend.Get("F")
	require.True(t, ok)
	assert.Equal(t, "feature F", entry.Description)
	assert.Equal(t, []Swatch{{Description: "feature F", Color: color.FromKey("F")}}, legend.Swatches())
}

func TestAggregate_TextAndUnmarked(t *testing.T) {
	doc := marking.NewTextDocument("abc\ndefg\nhi")
	complete, err := marking.Complete(doc, []marking.Fragment[string]{
		marking.Marked(marking.NewRange(1, 1, 1, 3), "X"),
	})
	require.NoError(t, err)

	lines, legend := Aggregate(doc, complete, func(key string) (string, color.Color) {
		return key, color.FromKey(key)
	})

	require.Len(t, lines, 3)
	assert.Equal(t, []Fragment{{Text: "abc"}}, lines[0].Fragments)
	require.Len(t, lines[1].Fragments, 3)
	assert.Equal(t, "d", lines[1].Fragments[0].Text)
	assert.Nil(t, lines[1].Fragments[0].Color)
	assert.Equal(t, "ef", lines[1].Fragments[1].Text)
	assert.NotNil(t, lines[1].Fragments[1].Color)
	assert.Equal(t, "g", lines[1].Fragments[2].Text)

	for i, line := range lines {
		assert.Equal(t, i, line.Number)
		assert.Equal(t, doc.LineText(i), line.Text())
	}
	assert.Equal(t, 1, legend.Len())
}

func TestAggregate_LegendOrder(t *testing.T) {
	doc := marking.NewTextDocument("abcdef")
	complete, err := marking.Complete(doc, []marking.Fragment[string]{
		marking.Marked(marking.NewRange(0, 0, 0, 1), "B"),
		marking.Marked(marking.NewRange(0, 1, 0, 2), "A"),
		marking.Marked(marking.NewRange(0, 2, 0, 3), "B"),
		marking.Marked(marking.NewRange(0, 4, 0, 5), "C"),
	})
	require.NoError(t, err)

	_, legend := Aggregate(doc, complete, func(key string) (string, color.Color) {
		return key, color.FromKey(key)
	})

	var keys []string
	for _, e := range legend.Entries() {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"B", "A", "C"}, keys)
}

func TestAggregate_FreshLegendPerCall(t *testing.T) {
	doc := marking.NewTextDocument("ab")
	complete, err := marking.Complete(doc, []marking.Fragment[string]{
		marking.Marked(marking.NewRange(0, 0, 0, 1), "K"),
	})
	require.NoError(t, err)

	description := "first"
	lookup := func(key string) (string, color.Color) {
		return description, color.FromKey(key)
	}

	_, legend1 := Aggregate(doc, complete, lookup)
	description = "second"
	_, legend2 := Aggregate(doc, complete, lookup)

	e1, _ := legend1.Get("K")
	e2, _ := legend2.Get("K")
	assert.Equal(t, "first", e1.Description)
	assert.Equal(t, "second", e2.Description)
}

func TestLegend_GetMissing(t *testing.T) {
	legend := NewLegend[int]()
	_, ok := legend.Get(3)
	assert.False(t, ok)
	assert.Empty(t, legend.Entries())
	assert.Empty(t, legend.Swatches())
}
