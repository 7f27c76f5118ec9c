package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T, dtEnabled bool) *Store {
	t.Helper()
	dir := t.TempDir()
	st, err := Open(dir, true, dtEnabled)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpenRejectsMissingDirWithoutCreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	_, err := Open(dir, false, false)
	assert.ErrorIs(t, err, ErrNoIndexDir)
}

func TestNumBlobsDefaultsToZero(t *testing.T) {
	st := openTemp(t, false)
	n, err := st.NumBlobs()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSetAndGetNumBlobs(t *testing.T) {
	st := openTemp(t, false)
	require.NoError(t, st.SetNumBlobs(42))
	n, err := st.NumBlobs()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), n)
}

func TestBlobIDAssignmentAndLookup(t *testing.T) {
	st := openTemp(t, false)
	hash := []byte("deadbeef")

	exists, err := st.BlobExists(hash)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, st.PutBlobID(hash, 7))

	exists, err = st.BlobExists(hash)
	require.NoError(t, err)
	assert.True(t, exists)

	id, err := st.BlobID(hash)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
}

func TestBlobIDUnknownHashErrors(t *testing.T) {
	st := openTemp(t, false)
	_, err := st.BlobID([]byte("nope"))
	assert.Error(t, err)
}

func TestPutHashAndFileThenBlobMetaByID(t *testing.T) {
	st := openTemp(t, false)
	require.NoError(t, st.PutHashAndFile(3, []byte("abc123"), "sched.c"))

	meta, err := st.BlobMetaByID(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc123"), meta.Hash)
	assert.Equal(t, "sched.c", meta.Basename)
}

func TestBlobMetaByIDUnknownErrors(t *testing.T) {
	st := openTemp(t, false)
	_, err := st.BlobMetaByID(99)
	assert.Error(t, err)
}

func TestTagExistsAndPutTagPathListSync(t *testing.T) {
	st := openTemp(t, false)
	exists, err := st.TagExists("v1.0")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, st.PutTagPathListSync("v1.0", []byte("1 kernel/sched.c\n")))

	exists, err = st.TagExists("v1.0")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetRawPutRawExistsRoundTrip(t *testing.T) {
	st := openTemp(t, false)
	exists, err := st.Exists("defs", []byte("schedule"))
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, st.PutRaw("defs", []byte("schedule"), []byte("packed-defs")))

	exists, err = st.Exists("defs", []byte("schedule"))
	require.NoError(t, err)
	assert.True(t, exists)

	raw, err := st.GetRaw("defs", []byte("schedule"))
	require.NoError(t, err)
	assert.Equal(t, []byte("packed-defs"), raw)
}

func TestGetRawUnknownBucketErrors(t *testing.T) {
	st := openTemp(t, false)
	_, err := st.GetRaw("not-a-bucket", []byte("x"))
	assert.Error(t, err)
}

func TestCompsBucketsRequireDeviceTreeEnabled(t *testing.T) {
	st := openTemp(t, false)
	_, err := st.GetRaw("comps", []byte("vendor,device"))
	assert.Error(t, err)

	dtSt := openTemp(t, true)
	require.NoError(t, dtSt.PutRaw("comps", []byte("vendor,device"), []byte("1:10:D\n")))
	raw, err := dtSt.GetRaw("comps", []byte("vendor,device"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1:10:D\n"), raw)
}

func TestDTEnabledReported(t *testing.T) {
	assert.False(t, openTemp(t, false).DTEnabled())
	assert.True(t, openTemp(t, true).DTEnabled())
}

func TestProbeDTRejectsMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	_, err := ProbeDT(dir)
	assert.ErrorIs(t, err, ErrNoIndexDir)
}

func TestProbeDTReflectsExistingStore(t *testing.T) {
	dtDir := t.TempDir()
	st, err := Open(dtDir, true, true)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	enabled, err := ProbeDT(dtDir)
	require.NoError(t, err)
	assert.True(t, enabled)

	plainDir := t.TempDir()
	st2, err := Open(plainDir, true, false)
	require.NoError(t, err)
	require.NoError(t, st2.Close())

	enabled, err = ProbeDT(plainDir)
	require.NoError(t, err)
	assert.False(t, enabled)
}
