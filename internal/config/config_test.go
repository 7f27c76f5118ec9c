package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvRequiresBothVariables(t *testing.T) {
	t.Setenv("XREF_DATA_DIR", "")
	t.Setenv("XREF_REPO_DIR", "")
	_, _, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("XREF_DATA_DIR", "/tmp/data")
	_, _, err = FromEnv()
	assert.Error(t, err)

	t.Setenv("XREF_REPO_DIR", "/tmp/repo")
	dataDir, repoDir, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/data", dataDir)
	assert.Equal(t, "/tmp/repo", repoDir)
}

func TestAllocateMinimumFive(t *testing.T) {
	wc := Allocate(1, false)
	assert.Equal(t, WorkerCounts{Def: 1, Ref: 1, Doc: 1}, wc)
}

func TestAllocateExactMultipleOfFive(t *testing.T) {
	wc := Allocate(10, false)
	assert.Equal(t, WorkerCounts{Def: 2, Ref: 2, Doc: 2}, wc)
}

func TestAllocateRemainderGoesRefThenDefThenDoc(t *testing.T) {
	// w=7: base=1, remainder=2 -> Ref and Def each get one extra.
	wc := Allocate(7, false)
	assert.Equal(t, WorkerCounts{Def: 2, Ref: 2, Doc: 1}, wc)
}

func TestAllocateWithDeviceTreeEnabled(t *testing.T) {
	// w=25: base=5, remainder=0, Comp/CDoc populated too.
	wc := Allocate(25, true)
	assert.Equal(t, WorkerCounts{Def: 5, Ref: 5, Doc: 5, Comp: 5, CDoc: 5}, wc)
}

func TestAllocateOrderingInvariant(t *testing.T) {
	for w := 5; w < 30; w++ {
		wc := Allocate(w, false)
		assert.GreaterOrEqual(t, wc.Ref, wc.Def)
		assert.GreaterOrEqual(t, wc.Def, wc.Doc)
	}
}
