package value

// maxLoadFactor is the maximum ratio of (count+tombstones) to capacity
// before a Table resizes.
const maxLoadFactor = 0.75

// entry is a single slot of a Table. A never-used slot has a nil Key. A
// tombstone (a deleted slot still participating in probe sequences) has a
// nil Key and Value == True; this is what distinguishes it from a never-used
// slot, whose Value is the zero Value (Nil).
type entry struct {
	Key   *ObjString
	Value Value
}

func (e *entry) isTombstone() bool { return e.Key == nil && e.Value.IsBool() && e.Value.AsBool() }

// Table is an open-addressed hash table mapping interned string keys to
// Values, using linear probing and power-of-two capacities. It backs the
// globals table, the string intern table, and every Class's method table and
// Instance's field table: every user-visible "dictionary-shaped" thing in
// the language is the same Table.
type Table struct {
	entries []entry
	count   int // live entries plus tombstones, for the load factor
}

// Len returns the number of live (non-tombstone) entries.
func (t *Table) Len() int {
	n := 0
	for i := range t.entries {
		if t.entries[i].Key != nil {
			n++
		}
	}
	return n
}

// Get returns the value stored for key, or !ok if key is absent.
func (t *Table) Get(key *ObjString) (Value, bool) {
	if len(t.entries) == 0 {
		return Nil, false
	}
	e := t.findEntry(t.entries, key)
	if e.Key == nil {
		return Nil, false
	}
	return e.Value, true
}

// Set stores value under key, growing the table if necessary. It returns
// true if this inserted a brand new key (not previously present, including
// resurrecting a tombstone).
func (t *Table) Set(key *ObjString, value Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*maxLoadFactor {
		t.grow()
	}

	e := t.findEntry(t.entries, key)
	isNew := e.Key == nil
	if isNew && !e.isTombstone() {
		t.count++
	}
	e.Key = key
	e.Value = value
	return isNew
}

// Delete removes key from the table, replacing its slot with a tombstone so
// later probe sequences through it still find entries inserted after it.
// Reports whether key was present.
func (t *Table) Delete(key *ObjString) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := t.findEntry(t.entries, key)
	if e.Key == nil {
		return false
	}
	e.Key = nil
	e.Value = True // tombstone marker
	return true
}

// AddAll copies every live entry of src into t (used by class inheritance to
// copy a superclass's methods into a subclass).
func (t *Table) AddAll(src *Table) {
	for i := range src.entries {
		e := &src.entries[i]
		if e.Key != nil {
			t.Set(e.Key, e.Value)
		}
	}
}

// FindString looks up a string by byte content and hash rather than by
// pointer identity, and is used exclusively by the interning path to decide
// whether a freshly scanned or concatenated string already has an
// equivalent interned object.
func (t *Table) FindString(chars string, hash uint32) *ObjString {
	if len(t.entries) == 0 {
		return nil
	}
	mask := uint32(len(t.entries) - 1)
	index := hash & mask
	for {
		e := &t.entries[index]
		switch {
		case e.Key == nil:
			if !e.isTombstone() {
				return nil
			}
		case e.Key.Hash == hash && e.Key.Chars == chars:
			return e.Key
		}
		index = (index + 1) & mask
	}
}

// RemoveWhite deletes every entry whose key is not marked, implementing the
// weak-set semantics of the string intern table: once nothing else
// references an interned string, the table itself must not keep it alive.
func (t *Table) RemoveWhite() {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Key != nil && !e.Key.Marked {
			e.Key = nil
			e.Value = True
		}
	}
}

// Keys returns the live keys, in table order (unspecified, bucket order).
func (t *Table) Keys() []*ObjString {
	keys := make([]*ObjString, 0, t.count)
	for i := range t.entries {
		if t.entries[i].Key != nil {
			keys = append(keys, t.entries[i].Key)
		}
	}
	return keys
}

// findEntry locates the slot for key: either the slot already holding it, or
// the first available slot (a never-used slot, or the earliest tombstone
// seen along the probe sequence) where it could be inserted.
func (t *Table) findEntry(entries []entry, key *ObjString) *entry {
	mask := uint32(len(entries) - 1)
	index := key.Hash & mask
	var tombstone *entry
	for {
		e := &entries[index]
		switch {
		case e.Key == nil:
			if !e.isTombstone() {
				if tombstone != nil {
					return tombstone
				}
				return e
			}
			if tombstone == nil {
				tombstone = e
			}
		case e.Key == key:
			return e
		}
		index = (index + 1) & mask
	}
}

func (t *Table) grow() {
	newCap := 8
	if len(t.entries) > 0 {
		newCap = len(t.entries) * 2
	}
	newEntries := make([]entry, newCap)

	t.count = 0
	for i := range t.entries {
		e := &t.entries[i]
		if e.Key == nil {
			continue
		}
		dst := t.findEntry(newEntries, e.Key)
		dst.Key = e.Key
		dst.Value = e.Value
		t.count++
	}
	t.entries = newEntries
}
