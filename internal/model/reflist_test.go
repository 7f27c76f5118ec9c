package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefListAppendAndPack(t *testing.T) {
	rl := NewRefList()
	rl.Append(3, "10,22", FamilyC)
	rl.Append(4, "1", FamilyK)

	packed := rl.Pack()
	got, err := ParseRefList(packed)
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, RefEntry{ID: 3, Lines: "10,22", Family: FamilyC}, got.Entries[0])
	assert.Equal(t, RefEntry{ID: 4, Lines: "1", Family: FamilyK}, got.Entries[1])
}

func TestParseRefListEmpty(t *testing.T) {
	rl, err := ParseRefList(nil)
	require.NoError(t, err)
	assert.Empty(t, rl.Entries)
}

func TestParseRefListMalformed(t *testing.T) {
	_, err := ParseRefList([]byte("not-enough-fields\n"))
	assert.Error(t, err)
}
