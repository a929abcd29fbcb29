package gc

import "github.com/mna/ember/lang/value"

// Collect runs one full mark-sweep cycle: mark roots (the Heap's own plus
// whatever RootMarker was installed), trace the gray worklist to reach
// every live object, drop intern-table entries for strings nothing
// referenced, and sweep the intrusive object list, freeing anything left
// unmarked.
func (h *Heap) Collect() {
	h.markOwnRoots()
	if h.rootMarker != nil {
		h.rootMarker(h)
	}
	h.traceReferences()
	h.strings.RemoveWhite()
	freed := h.sweep()

	h.nextGC = h.bytesAllocated * growthFactor
	h.collections++
	if h.logMode {
		logCollection(h, freed)
	}
}

// sweep walks the intrusive object list; unmarked objects are unlinked and
// their size is removed from bytesAllocated, marked objects have their mark
// bit cleared for the next cycle. Returns the number of bytes freed.
func (h *Heap) sweep() int64 {
	var prev value.Obj
	cur := h.objects
	var freed int64

	for cur != nil {
		hdr := cur.Header()
		if hdr.Marked {
			hdr.Marked = false
			prev = cur
			cur = hdr.Next
			continue
		}

		unreached := cur
		cur = hdr.Next
		if prev != nil {
			prev.Header().Next = cur
		} else {
			h.objects = cur
		}
		freed += sizeOf(unreached)
	}

	h.bytesAllocated -= freed
	return freed
}
