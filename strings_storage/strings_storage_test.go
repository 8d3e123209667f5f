package strings_storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
)

func TestStorage_Empty(t *testing.T) {
	storage := NewStorage()
	assert.Equal(t, 0, storage.Len())
	_, ok := storage.Next()
	assert.False(t, ok, "reading from the empty storage")
}

func TestStorage_Accept(t *testing.T) {
	storage := NewStorage()
	storage.Accept(Line{Text: "first"})
	storage.Accept(Line{})
	storage.Accept(Line{Text: "second"})
	require.Equal(t, 2, storage.Len())

	l, ok := storage.Next()
	assert.True(t, ok)
	assert.Equal(t, "first", l.Text)
	assert.Equal(t, 1, storage.PeekPos())
	l, _ = storage.Next()
	assert.Equal(t, "second", l.Text)
	_, ok = storage.Next()
	assert.False(t, ok)

	storage.ResetPos()
	l, _ = storage.Next()
	assert.Equal(t, "first", l.Text)

	storage.Empty()
	assert.Equal(t, 0, storage.Len())
	assert.Equal(t, 0, storage.PeekPos())
}

func TestSplitLines(t *testing.T) {
	storage := SplitLines("M48\r\n  T1C0.8 \r\n\r\nM30")
	assert.Equal(t, []Line{
		{Text: "M48", Range: gbt.SourceRange{Start: 0, End: 3}},
		{Text: "T1C0.8", Range: gbt.SourceRange{Start: 5, End: 14}},
		{Text: "M30", Range: gbt.SourceRange{Start: 18, End: 21}},
	}, storage.ToArray())

	assert.Len(t, storage.Before(18), 2)
	assert.Empty(t, storage.Before(0))
}
