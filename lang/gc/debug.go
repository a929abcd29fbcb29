package gc

import (
	"fmt"
	"io"
	"os"
)

// SetLogWriter redirects the per-collection diagnostic line written when
// logMode is enabled. Defaults to os.Stderr.
func (h *Heap) SetLogWriter(w io.Writer) { h.logWriter = w }

func logCollection(h *Heap, freed int64) {
	w := h.logWriter
	if w == nil {
		w = os.Stderr
	}
	before := h.bytesAllocated + freed
	fmt.Fprintf(w, "gc: collected %d bytes (%d -> %d), next at %d\n", freed, before, h.bytesAllocated, h.nextGC)
}
