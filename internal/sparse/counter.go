package sparse

// Counter maps a bounded universe of uint32 values to uint32 occurrence
// counts, using the same sparse/dense index trick as SparseSet so that
// Reset is O(touched), not O(capacity).
//
// This is the per-row occurrence scratch the k-mer extractor needs for
// spec.md §4.2: occurrences are local to one row and the structure must be
// reset (not reallocated) between rows to avoid allocator pressure (§9).
type Counter struct {
	sparse  []uint32 // value -> index into touched/counts
	touched []uint32 // values seen since last Reset
	counts  []uint32 // counts[i] corresponds to touched[i]
}

// NewCounter creates a Counter over the universe [0, capacity).
func NewCounter(capacity uint32) *Counter {
	return &Counter{
		sparse:  make([]uint32, capacity),
		touched: make([]uint32, 0, 64),
		counts:  make([]uint32, 0, 64),
	}
}

// Cap returns the universe size this Counter was constructed with.
func (c *Counter) Cap() uint32 {
	return uint32(len(c.sparse))
}

func (c *Counter) indexOf(value uint32) (int, bool) {
	idx := c.sparse[value]
	if int(idx) < len(c.touched) && c.touched[idx] == value {
		return int(idx), true
	}
	return 0, false
}

// Incr increments value's count and returns the new count (1-based).
// Panics if value >= capacity, matching SparseSet's contract.
func (c *Counter) Incr(value uint32) uint32 {
	if i, ok := c.indexOf(value); ok {
		c.counts[i]++
		return c.counts[i]
	}
	c.sparse[value] = uint32(len(c.touched))
	c.touched = append(c.touched, value)
	c.counts = append(c.counts, 1)
	return 1
}

// Count returns the current count for value, or 0 if never incremented
// since the last Reset.
func (c *Counter) Count(value uint32) uint32 {
	if i, ok := c.indexOf(value); ok {
		return c.counts[i]
	}
	return 0
}

// Reset clears all counts in O(touched) time, ready for the next row.
func (c *Counter) Reset() {
	c.touched = c.touched[:0]
	c.counts = c.counts[:0]
}
