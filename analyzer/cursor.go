package analyzer

import "sync/atomic"

// workCursor is the leader's work-dispatch cursor (spec.md §4.4 step 6,
// "next-block = 0, total-blocks = ..."). Workers fetch-and-increment it
// (step 8's "atomically fetch-and-increment next-block") until it reaches
// totalBlocks.
type workCursor struct {
	next  int64
	total int64
}

func newWorkCursor(totalBlocks int) *workCursor {
	return &workCursor{total: int64(totalBlocks)}
}

// next returns the next block number to process, or false if the table
// has been fully dispatched.
func (c *workCursor) next() (int, bool) {
	n := atomic.AddInt64(&c.next, 1) - 1
	if n >= c.total {
		return 0, false
	}
	return int(n), true
}
