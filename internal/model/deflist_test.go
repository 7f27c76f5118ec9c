package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefListAppendAndPack(t *testing.T) {
	dl := NewDefList()
	dl.Append(5, KindFunction, 42, FamilyC)
	dl.Append(9, KindFunction, 7, FamilyC)
	dl.Append(9, KindDefine, 3, FamilyK)

	assert.Equal(t, []Family{FamilyC, FamilyK}, dl.Families())

	packed := dl.Pack()
	got, err := ParseDefList(packed)
	require.NoError(t, err)
	require.Len(t, got.Entries, 3)
	assert.Equal(t, DefEntry{ID: 5, Kind: KindFunction, Line: 42, Family: FamilyC}, got.Entries[0])
	assert.Equal(t, DefEntry{ID: 9, Kind: KindFunction, Line: 7, Family: FamilyC}, got.Entries[1])
	assert.Equal(t, DefEntry{ID: 9, Kind: KindDefine, Line: 3, Family: FamilyK}, got.Entries[2])
	assert.Equal(t, []Family{FamilyC, FamilyK}, got.Families())
}

func TestDefListAppendDropsUnknownKind(t *testing.T) {
	dl := NewDefList()
	dl.Append(1, KindUnknown, 1, FamilyC)
	assert.Empty(t, dl.Entries)
	assert.Empty(t, dl.Families())
}

func TestParseDefListEmpty(t *testing.T) {
	dl, err := ParseDefList([]byte("#"))
	require.NoError(t, err)
	assert.Empty(t, dl.Entries)
	assert.Empty(t, dl.Families())
}

func TestParseDefListMalformed(t *testing.T) {
	_, err := ParseDefList([]byte("no hash mark here"))
	assert.Error(t, err)
}

func TestParseDefListUnknownFamilyChar(t *testing.T) {
	_, err := ParseDefList([]byte("1f2C#Z"))
	assert.Error(t, err)
}
