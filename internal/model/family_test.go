package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilyOfBasename(t *testing.T) {
	cases := []struct {
		basename string
		want     Family
	}{
		{"sched.c", FamilyC},
		{"sched.h", FamilyC},
		{"trace.cpp", FamilyC},
		{"entry.S", FamilyC},
		{"foo.dts", FamilyD},
		{"foo.dtsi", FamilyD},
		{"component.ts", FamilyTS},
		{"Kconfig", FamilyK},
		{"Kconfig.debug", FamilyK},
		{"kconfig.rst", None}, // .rst excluded from the Kconfig/Makefile prefix rule
		{"Makefile", FamilyM},
		{"Makefile.build", FamilyM},
		{"README", None},
		{"index.json", None},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, FamilyOfBasename(c.basename), "basename %q", c.basename)
	}
}

func TestFamilyByteRoundTrip(t *testing.T) {
	for _, f := range []Family{FamilyC, FamilyK, FamilyD, FamilyM, FamilyB, FamilyTS} {
		got, ok := FamilyFromByte(f.Byte())
		require.True(t, ok)
		assert.Equal(t, f, got)
	}
}

func TestFamilyFromByteUnknown(t *testing.T) {
	_, ok := FamilyFromByte('?')
	assert.False(t, ok)
}

func TestCompatibleFamily(t *testing.T) {
	assert.True(t, CompatibleFamily([]Family{FamilyC}, FamilyC))
	assert.True(t, CompatibleFamily([]Family{FamilyK}, FamilyC))
	assert.False(t, CompatibleFamily([]Family{FamilyD}, FamilyC))
}

func TestCompatibleMacro(t *testing.T) {
	assert.True(t, CompatibleMacro([]Family{FamilyC}, FamilyD))
	assert.False(t, CompatibleMacro([]Family{FamilyD}, FamilyD))
}
