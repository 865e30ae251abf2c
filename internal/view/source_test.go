package view

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource_DocumentAssociations(t *testing.T) {
	src := writeFixture(t, associationsFixture)

	resp, err := src.DocumentAssociations(context.Background(), "file:///ignored")
	require.NoError(t, err)
	require.Len(t, resp.Fragments, 3)
	assert.Equal(t, "A & B", resp.Fragments[0].Association.Condition)
	assert.Nil(t, resp.Fragments[1].Association)
	assert.Equal(t, 9, resp.Fragments[2].Range.End.Character)
}

func TestFileSource_DocumentFeatures(t *testing.T) {
	src := writeFixture(t, featuresFixture)

	all, err := src.DocumentFeatures(context.Background(), "file:///ignored", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"feature1", "feature2"}, all.Fragments[0].Features)

	some, err := src.DocumentFeatures(context.Background(), "file:///ignored", []string{"feature2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"feature2"}, some.Fragments[0].Features)
	assert.Empty(t, some.Fragments[1].Features)
	assert.Equal(t, []string{"feature2"}, some.Fragments[2].Features)
}

func TestFileSource_Errors(t *testing.T) {
	missing := FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}
	_, err := missing.DocumentAssociations(context.Background(), "")
	assert.Error(t, err)

	bad := writeFixture(t, `{"fragments": [`)
	_, err = bad.DocumentFeatures(context.Background(), "", nil)
	assert.ErrorContains(t, err, "decode markings")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = writeFixture(t, associationsFixture).DocumentAssociations(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}
