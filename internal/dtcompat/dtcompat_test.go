package dtcompat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSingleString(t *testing.T) {
	src := []byte("foo {\n\tcompatible = \"vendor,device\";\n};\n")
	occ := Extract(src)
	if assert.Len(t, occ, 1) {
		assert.Equal(t, "vendor,device", occ[0].Compatible)
		assert.Equal(t, 2, occ[0].Line)
	}
}

func TestExtractMultipleStringsSameStatement(t *testing.T) {
	src := []byte(`compatible = "vendor,a", "vendor,b";`)
	occ := Extract(src)
	require.Len(t, occ, 2)
	assert.Equal(t, "vendor,a", occ[0].Compatible)
	assert.Equal(t, "vendor,b", occ[1].Compatible)
	assert.Equal(t, occ[0].Line, occ[1].Line)
}

func TestExtractIgnoresWordsContainingCompatible(t *testing.T) {
	src := []byte(`incompatible = "vendor,device";`)
	occ := Extract(src)
	assert.Empty(t, occ)
}

func TestExtractIgnoresSuffixMatches(t *testing.T) {
	src := []byte(`compatiblefoo = "vendor,device";`)
	occ := Extract(src)
	assert.Empty(t, occ)
}

func TestExtractNoCompatibleProperty(t *testing.T) {
	occ := Extract([]byte("just some text\nwith no property\n"))
	assert.Empty(t, occ)
}

func TestExtractLineNumberAcrossMultilineStatement(t *testing.T) {
	src := []byte("compatible =\n\t\"vendor,device\";\n")
	occ := Extract(src)
	if assert.Len(t, occ, 1) {
		assert.Equal(t, 1, occ[0].Line) // tagged by the line the keyword started on
	}
}
