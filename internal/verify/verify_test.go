package verify_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrefdb/indexer/internal/model"
	"github.com/xrefdb/indexer/internal/store"
	"github.com/xrefdb/indexer/internal/verify"
)

func openStore(t *testing.T, dtEnabled bool) *store.Store {
	t.Helper()
	st, err := store.Open(t.TempDir(), true, dtEnabled)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestVerifyCleanStoreHasNoFailures(t *testing.T) {
	st := openStore(t, false)
	require.NoError(t, st.PutBlobID([]byte("h1"), 0))
	require.NoError(t, st.PutHashAndFile(0, []byte("h1"), "sched.c"))
	require.NoError(t, st.SetNumBlobs(1))

	pl := model.NewPathList()
	pl.Append(0, "kernel/sched.c")
	require.NoError(t, st.PutTagPathListSync("v1.0", pl.Pack()))

	dl := model.NewDefList()
	dl.Append(0, model.KindFunction, 5, model.FamilyC)
	require.NoError(t, st.PutRaw("defs", []byte("schedule"), dl.Pack()))

	rl := model.NewRefList()
	rl.Append(0, "10", model.FamilyC)
	require.NoError(t, st.PutRaw("refs", []byte("schedule"), rl.Pack()))

	report, err := verify.Run(st)
	require.NoError(t, err)
	assert.Empty(t, report.Failures)
	assert.Equal(t, uint64(1), report.NumBlobs)
	assert.Equal(t, 1, report.NumTags)
}

func TestVerifyDetectsMissingHashEntry(t *testing.T) {
	st := openStore(t, false)
	// numBlobs says one id exists, but nothing ever recorded its hash/file.
	require.NoError(t, st.SetNumBlobs(1))

	report, err := verify.Run(st)
	require.NoError(t, err)
	assert.NotEmpty(t, report.Failures)
}

func TestVerifyDetectsOutOfRangeRefID(t *testing.T) {
	st := openStore(t, false)
	require.NoError(t, st.SetNumBlobs(0))

	rl := model.NewRefList()
	rl.Append(7, "1", model.FamilyC)
	require.NoError(t, st.PutRaw("refs", []byte("ghost"), rl.Pack()))

	report, err := verify.Run(st)
	require.NoError(t, err)
	found := false
	for _, f := range report.Failures {
		if strings.Contains(f, "refs[ghost]") {
			found = true
		}
	}
	assert.True(t, found, "expected a refs failure referencing the out-of-range id, got %v", report.Failures)
}

func TestVerifyDetectsCompsDocsWithoutComps(t *testing.T) {
	st := openStore(t, true)
	require.NoError(t, st.PutRaw("comps_docs", []byte("vendor,thing"), []byte("0:1:B\n")))

	report, err := verify.Run(st)
	require.NoError(t, err)
	found := false
	for _, f := range report.Failures {
		if strings.Contains(f, "comps_docs[vendor,thing]") {
			found = true
		}
	}
	assert.True(t, found, "expected a comps_docs failure, got %v", report.Failures)
}
