package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsIdentBlacklist(t *testing.T) {
	assert.False(t, IsIdent("err", FamilyC))
	assert.False(t, IsIdent("int", FamilyC))
	assert.True(t, IsIdent("schedule_work", FamilyC))
}

func TestIsIdentTooShort(t *testing.T) {
	assert.False(t, IsIdent("x", FamilyC))
	assert.False(t, IsIdent("c", FamilyC))
}

func TestIsIdentTildePrefixRejected(t *testing.T) {
	assert.False(t, IsIdent("~destructor", FamilyC))
}

func TestIsIdentTSUsesSeparateBlacklist(t *testing.T) {
	assert.False(t, IsIdent("interface", FamilyTS))
	assert.True(t, IsIdent("err", FamilyTS)) // not a TS keyword
	assert.True(t, IsIdent("x", FamilyTS))   // TS has no length floor
}

func TestIsIdentKconfigFollowsCFamilyRules(t *testing.T) {
	assert.True(t, IsIdent("CONFIG_NET", FamilyK))
	assert.False(t, IsIdent("static", FamilyK))
}
