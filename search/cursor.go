// Package search implements incremental, query-driven pagination over arbitrary backends.
package search

// Cursor tracks where the next fetch of a session starts.
type Cursor interface {
	// Position is the value handed to the adapter on the next fetch.
	Position() int

	// Start is the value the cursor holds right after a reset.
	Start() int

	// Advance moves the cursor past a successful fetch that returned fetched items.
	Advance(fetched int)

	// Reset rewinds the cursor to Start.
	Reset()
}

// pages is a page-indexed cursor. It moves by exactly one per fetch.
type pages struct {
	start int
	next  int
}

// Pages returns a page-indexed cursor beginning at start.
// Local stores count from 0, most remote catalogs count from 1.
func Pages(start int) Cursor {
	return &pages{start: start, next: start}
}

func (p *pages) Position() int { return p.next }
func (p *pages) Start() int { return p.start }
func (p *pages) Advance(int) { p.next++ }
func (p *pages) Reset() { p.next = p.start }

// offset accumulates the number of backend items consumed, so short pages never leave gaps.
type offset struct {
	curr int
}

// Offset returns an offset-accumulating cursor beginning at 0.
func Offset() Cursor {
	return &offset{}
}

func (o *offset) Position() int { return o.curr }
func (o *offset) Start() int { return 0 }
func (o *offset) Advance(fetched int) { o.curr += fetched }
func (o *offset) Reset() { o.curr = 0 }
