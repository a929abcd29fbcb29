package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/ember/lang/value"
)

func TestTableSetGetDelete(t *testing.T) {
	var tbl value.Table
	key := value.NewString("x")

	_, ok := tbl.Get(key)
	assert.False(t, ok)

	isNew := tbl.Set(key, value.Number(1))
	assert.True(t, isNew)
	assert.Equal(t, 1, tbl.Len())

	v, ok := tbl.Get(key)
	require.True(t, ok)
	assert.Equal(t, float64(1), v.AsNumber())

	isNew = tbl.Set(key, value.Number(2))
	assert.False(t, isNew, "re-setting an existing key is not a new insertion")
	v, _ = tbl.Get(key)
	assert.Equal(t, float64(2), v.AsNumber())

	assert.True(t, tbl.Delete(key))
	assert.Equal(t, 0, tbl.Len())
	_, ok = tbl.Get(key)
	assert.False(t, ok)

	assert.False(t, tbl.Delete(key), "deleting an already-absent key reports false")
}

func TestTableTombstoneKeepsProbeChainIntact(t *testing.T) {
	var tbl value.Table
	a := value.NewString("a")
	b := value.NewString("b")
	c := value.NewString("c")

	tbl.Set(a, value.Number(1))
	tbl.Set(b, value.Number(2))
	tbl.Set(c, value.Number(3))

	require.True(t, tbl.Delete(b))

	// a and c must still be reachable even though b, which may sit between
	// them in the probe sequence, is now a tombstone.
	v, ok := tbl.Get(a)
	require.True(t, ok)
	assert.Equal(t, float64(1), v.AsNumber())

	v, ok = tbl.Get(c)
	require.True(t, ok)
	assert.Equal(t, float64(3), v.AsNumber())
}

func TestTableGrowsPastLoadFactor(t *testing.T) {
	var tbl value.Table
	const n = 200
	keys := make([]*value.ObjString, n)
	for i := 0; i < n; i++ {
		keys[i] = value.NewString(string(rune('a') + rune(i%26)) + string(rune('0'+i/26)))
		tbl.Set(keys[i], value.Number(float64(i)))
	}

	assert.Equal(t, n, tbl.Len())
	for i, k := range keys {
		v, ok := tbl.Get(k)
		require.True(t, ok, "key %d must still be found after growth", i)
		assert.Equal(t, float64(i), v.AsNumber())
	}
}

func TestTableAddAll(t *testing.T) {
	var src, dst value.Table
	a := value.NewString("a")
	b := value.NewString("b")
	src.Set(a, value.Number(1))
	src.Set(b, value.Number(2))
	dst.Set(a, value.Number(99)) // pre-existing entry, should be overwritten

	dst.AddAll(&src)

	v, ok := dst.Get(a)
	require.True(t, ok)
	assert.Equal(t, float64(1), v.AsNumber())

	v, ok = dst.Get(b)
	require.True(t, ok)
	assert.Equal(t, float64(2), v.AsNumber())
}

func TestTableFindString(t *testing.T) {
	var tbl value.Table
	s := value.NewString("needle")
	tbl.Set(s, value.Nil)

	found := tbl.FindString("needle", value.HashString("needle"))
	assert.Same(t, s, found)

	assert.Nil(t, tbl.FindString("haystack", value.HashString("haystack")))
}

func TestTableRemoveWhite(t *testing.T) {
	var tbl value.Table
	marked := value.NewString("marked")
	marked.Marked = true
	unmarked := value.NewString("unmarked")

	tbl.Set(marked, value.Nil)
	tbl.Set(unmarked, value.Nil)

	tbl.RemoveWhite()

	_, ok := tbl.Get(marked)
	assert.True(t, ok, "a marked key must survive RemoveWhite")
	_, ok = tbl.Get(unmarked)
	assert.False(t, ok, "an unmarked key must be dropped by RemoveWhite")
}

func TestTableKeys(t *testing.T) {
	var tbl value.Table
	a := value.NewString("a")
	b := value.NewString("b")
	tbl.Set(a, value.Nil)
	tbl.Set(b, value.Nil)
	tbl.Delete(a)

	keys := tbl.Keys()
	require.Len(t, keys, 1)
	assert.Same(t, b, keys[0])
}
