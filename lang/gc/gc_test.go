package gc_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/ember/lang/gc"
	"github.com/mna/ember/lang/value"
)

func TestInternStringDedupes(t *testing.T) {
	h := gc.NewHeap(false, false)
	a := h.InternString("hello")
	b := h.InternString("hello")
	assert.True(t, a == b, "two interns of equal content must return the same object")
}

func TestInternedStringSurvivesCollectionWhenRooted(t *testing.T) {
	h := gc.NewHeap(false, false)
	var globals value.Table
	h.SetRootMarker(func(h *gc.Heap) { h.MarkTable(&globals) })

	s1 := h.InternString("rooted")
	globals.Set(s1, value.Nil)

	h.Collect()

	s2 := h.InternString("rooted")
	assert.True(t, s1 == s2, "a string reachable from an external root must survive a collection")
}

func TestUnreferencedInternedStringIsSwept(t *testing.T) {
	h := gc.NewHeap(false, false)
	// no root marker installed: nothing beyond the Heap's own roots keeps
	// this string alive once it falls out of the protected scratch stack.
	p1 := h.InternString("ephemeral")
	before := h.Stats()

	h.Collect()

	after := h.Stats()
	assert.Equal(t, before.Collections+1, after.Collections)
	assert.Less(t, after.BytesAllocated, before.BytesAllocated)

	p2 := h.InternString("ephemeral")
	assert.False(t, p1 == p2, "an unrooted string must not survive a collection, and re-interning must allocate fresh")
}

func TestStressModeCollectsOnEveryAllocationWithoutLosingRootedObjects(t *testing.T) {
	h := gc.NewHeap(true, false)

	var root struct {
		class *value.ObjClass
	}
	h.SetRootMarker(func(h *gc.Heap) {
		if root.class != nil {
			h.MarkObject(root.class)
		}
	})

	name := h.InternString("Counter")
	h.Protect(value.FromObj(name))
	class := h.NewClass(name)
	h.Unprotect()
	root.class = class

	before := h.Stats().Collections
	for i := 0; i < 5; i++ {
		h.InternString(fmt.Sprintf("field%d", i))
	}
	after := h.Stats().Collections

	assert.Greater(t, after, before, "stress mode must force a collection on every allocation")
	require.NotNil(t, class.Name)
	assert.Equal(t, "Counter", class.Name.Chars, "a rooted class must survive repeated stress collections intact")
}

func TestCollectFreesUnreachableObjects(t *testing.T) {
	baseline := gc.NewHeap(false, false).Stats().BytesAllocated

	h := gc.NewHeap(false, false)
	name := h.InternString("Temp")
	class := h.NewClass(name)
	_ = class

	before := h.Stats()
	h.Collect()
	after := h.Stats()

	assert.Equal(t, before.Collections+1, after.Collections)
	assert.Less(t, after.BytesAllocated, before.BytesAllocated)
	assert.Equal(t, baseline, after.BytesAllocated, "with no root marker installed, only the heap's own init string survives")
}
