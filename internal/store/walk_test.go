package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkVisitsInKeyOrder(t *testing.T) {
	st := openTemp(t, false)
	require.NoError(t, st.PutRaw("defs", []byte("zeta"), []byte("z")))
	require.NoError(t, st.PutRaw("defs", []byte("alpha"), []byte("a")))
	require.NoError(t, st.PutRaw("defs", []byte("mid"), []byte("m")))

	var keys []string
	err := st.Walk("defs", func(k, v []byte) error {
		keys = append(keys, string(k))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, keys)
}

func TestWalkUnknownBucketIsNoop(t *testing.T) {
	st := openTemp(t, false)
	called := false
	err := st.Walk("nonexistent", func(k, v []byte) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestWalkSkipsDTBucketsWhenDisabled(t *testing.T) {
	st := openTemp(t, false)
	called := false
	err := st.Walk("comps", func(k, v []byte) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}
