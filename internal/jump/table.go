package jump

// Table is a bounded collection keyed by jump number that keeps insertion
// order.
type Table[T any] struct {
	limit int
	index map[uint64]int
	items []*T
}

// NewTable creates an empty table holding at most limit entries.
func NewTable[T any](limit int) *Table[T] {
	return &Table[T]{
		limit: limit,
		index: make(map[uint64]int),
	}
}

// Get returns the entry for jump number n.
func (t *Table[T]) Get(n uint64) (*T, bool) {
	i, ok := t.index[n]
	if !ok {
		return nil, false
	}
	return t.items[i], true
}

// Len returns the number of entries.
func (t *Table[T]) Len() int {
	return len(t.items)
}

// Cap returns the entry limit.
func (t *Table[T]) Cap() int {
	return t.limit
}

// Full reports whether no further jump numbers can be added.
func (t *Table[T]) Full() bool {
	return len(t.items) >= t.limit
}

// Items returns the entries in insertion order.
func (t *Table[T]) Items() []*T {
	return t.items
}

// fetch returns the entry for n, creating it with create when absent. The
// boolean is false when n is new and the table is full.
func (t *Table[T]) fetch(n uint64, create func() *T) (*T, bool) {
	if item, ok := t.Get(n); ok {
		return item, true
	}
	if t.Full() {
		return nil, false
	}
	item := create()
	t.index[n] = len(t.items)
	t.items = append(t.items, item)
	return item, true
}
