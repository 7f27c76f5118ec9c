package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindByteRoundTrip(t *testing.T) {
	kinds := []Kind{
		KindConfig, KindDefine, KindEnum, KindEnumerator, KindFunction,
		KindLabel, KindMacro, KindMember, KindPrototype, KindStruct,
		KindTypedef, KindUnion, KindVariable, KindExternVar, KindConstant,
		KindGenerator, KindAlias,
	}
	for _, k := range kinds {
		c, ok := k.Byte()
		require.True(t, ok)
		got, ok := KindFromByte(c)
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
}

func TestKindUnknownHasNoEncoding(t *testing.T) {
	_, ok := KindUnknown.Byte()
	assert.False(t, ok)
}

func TestKindFromByteUnrecognized(t *testing.T) {
	_, ok := KindFromByte('?')
	assert.False(t, ok)
}
