package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathListAppendAndPack(t *testing.T) {
	pl := NewPathList()
	pl.Append(1, "kernel/sched.c")
	pl.Append(2, "drivers/net/e1000.c")

	packed := pl.Pack()
	got, err := ParsePathList(packed)
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, PathEntry{ID: 1, Path: "kernel/sched.c"}, got.Entries[0])
	assert.Equal(t, PathEntry{ID: 2, Path: "drivers/net/e1000.c"}, got.Entries[1])
}

func TestParsePathListEmpty(t *testing.T) {
	pl, err := ParsePathList(nil)
	require.NoError(t, err)
	assert.Empty(t, pl.Entries)
}

func TestParsePathListMalformed(t *testing.T) {
	_, err := ParsePathList([]byte("nopathseparator"))
	assert.Error(t, err)
}
