// Package arena implements the page-backed bump allocator and group-header
// pool that every message is built from. All field bytes, group headers and
// bookkeeping for a message live in pages and group headers borrowed from a
// Parser's pools so a whole message can be released in O(1): the pools are
// spliced back, nothing is walked field by field.
//
// This mirrors fix_page.c / the FIXPage and FIXGroup free-list handling in
// the original fix_parser.c, generalized to Go slices and a generic group
// pool instead of calloc'd C structs with a void*-shaped field union.
package arena

import (
	"fixengine/protocol"
)

// Buckets is the fixed number of hash-bucket heads in every group header,
// matching GROUP_SIZE in the original sources.
const Buckets = 64

// page is one fixed-size slab bump-allocated from the front.
type page struct {
	buf  []byte
	used int
}

func (p *page) remaining() int { return len(p.buf) - p.used }

// Arena owns the page free list, the group-header free list, and the
// per-message bookkeeping needed to release both in O(1). One Arena backs
// one Parser; every Message created from that Parser borrows from this
// Arena and returns its pages/groups to it on Free. G is the caller's group
// header type (message.bucketHeader in practice) — the arena only needs to
// be able to zero and recycle it, never to look inside it.
type Arena[G any] struct {
	pageSize int
	maxPages int
	numPages int

	maxGroups int
	numGroups int

	freePages  []*page
	freeGroups []*G
}

// Config mirrors FIXParserAttrs: page size, initial/max page count, and
// initial/max group count.
type Config struct {
	PageSize  int
	NumPages  int
	MaxPages  int
	NumGroups int
	MaxGroups int
}

// Validate rejects configurations with zero page size or zero max counts,
// mirroring fix_parser_validate_attrs.
func (c Config) Validate() *protocol.Error {
	if c.PageSize <= 0 {
		return protocol.NewError(protocol.ErrInvalidArgument, "page size must be positive")
	}
	if c.MaxPages <= 0 {
		return protocol.NewError(protocol.ErrInvalidArgument, "maxPages must be positive")
	}
	if c.MaxGroups <= 0 {
		return protocol.NewError(protocol.ErrInvalidArgument, "maxGroups must be positive")
	}
	if c.NumPages > c.MaxPages {
		return protocol.NewError(protocol.ErrInvalidArgument, "numPages exceeds maxPages")
	}
	if c.NumGroups > c.MaxGroups {
		return protocol.NewError(protocol.ErrInvalidArgument, "numGroups exceeds maxGroups")
	}
	return nil
}

func New[G any](cfg Config) *Arena[G] {
	a := &Arena[G]{
		pageSize:  cfg.PageSize,
		maxPages:  cfg.MaxPages,
		maxGroups: cfg.MaxGroups,
	}
	for i := 0; i < cfg.NumPages; i++ {
		a.freePages = append(a.freePages, &page{buf: make([]byte, cfg.PageSize)})
		a.numPages++
	}
	for i := 0; i < cfg.NumGroups; i++ {
		a.freeGroups = append(a.freeGroups, new(G))
		a.numGroups++
	}
	return a
}

// Allocation is a live message's private handle on the pages and group
// headers it has borrowed; it is what a Message passes back to Arena.Free
// to return everything at once.
type Allocation[G any] struct {
	pages  []*page
	groups []*G
}

// Alloc returns an n-byte region bump-allocated from the allocation's
// current page, pulling a fresh page from the free list (or minting one, up
// to maxPages) when the current page can't fit n.
func (a *Arena[G]) Alloc(al *Allocation[G], n int) ([]byte, *protocol.Error) {
	if n > a.pageSize {
		return nil, protocol.NewError(protocol.ErrTooBigPage, "requested %d bytes exceeds page size %d", n, a.pageSize)
	}
	var cur *page
	if len(al.pages) > 0 {
		cur = al.pages[len(al.pages)-1]
	}
	if cur == nil || cur.remaining() < n {
		p, err := a.acquirePage()
		if err != nil {
			return nil, err
		}
		al.pages = append(al.pages, p)
		cur = p
	}
	region := cur.buf[cur.used : cur.used+n]
	cur.used += n
	return region, nil
}

// Realloc grows p to newN bytes. True in-place growth is only possible when
// p sits at the current page's tip; as the design notes permit, this
// implementation always allocates a fresh region and copies, trading a small
// amount of extra page traffic on field resizes for simplicity. Shrinking a
// region is always in place since it only narrows the existing slice.
func (a *Arena[G]) Realloc(al *Allocation[G], p []byte, newN int) ([]byte, *protocol.Error) {
	if newN <= len(p) {
		return p[:newN], nil
	}
	fresh, err := a.Alloc(al, newN)
	if err != nil {
		return nil, err
	}
	copy(fresh, p)
	return fresh, nil
}

func (a *Arena[G]) acquirePage() (*page, *protocol.Error) {
	if n := len(a.freePages); n > 0 {
		p := a.freePages[n-1]
		a.freePages = a.freePages[:n-1]
		p.used = 0
		return p, nil
	}
	if a.numPages >= a.maxPages {
		return nil, protocol.NewError(protocol.ErrNoMorePages, "page pool exhausted (max %d)", a.maxPages)
	}
	a.numPages++
	return &page{buf: make([]byte, a.pageSize)}, nil
}

// AcquireGroup borrows a zeroed group header for a new group instance (or
// the root of a new message).
func (a *Arena[G]) AcquireGroup(al *Allocation[G]) (*G, *protocol.Error) {
	var g *G
	if n := len(a.freeGroups); n > 0 {
		g = a.freeGroups[n-1]
		a.freeGroups = a.freeGroups[:n-1]
		*g = *new(G)
	} else {
		if a.numGroups >= a.maxGroups {
			return nil, protocol.NewError(protocol.ErrNoMoreGroups, "group pool exhausted (max %d)", a.maxGroups)
		}
		a.numGroups++
		g = new(G)
	}
	al.groups = append(al.groups, g)
	return g, nil
}

// ReleaseGroup returns g to the free list immediately (used when a single
// group instance is deleted without freeing the whole message).
func (a *Arena[G]) ReleaseGroup(al *Allocation[G], g *G) {
	for i, gr := range al.groups {
		if gr == g {
			al.groups = append(al.groups[:i], al.groups[i+1:]...)
			break
		}
	}
	*g = *new(G)
	a.freeGroups = append(a.freeGroups, g)
}

// Free returns every page and group header an allocation holds back to the
// arena's free lists in one O(len) splice — the O(1)-teardown property
// described in spec.md §3 (bounded by the number of pages/groups the message
// actually used, not by its field count).
func (a *Arena[G]) Free(al *Allocation[G]) {
	for _, p := range al.pages {
		p.used = 0
		a.freePages = append(a.freePages, p)
	}
	for _, g := range al.groups {
		*g = *new(G)
		a.freeGroups = append(a.freeGroups, g)
	}
	al.pages = nil
	al.groups = nil
}

// Stats reports live pool sizes, used by tests asserting that repeated
// create/free cycles do not grow the pools (spec.md §8).
type Stats struct {
	NumPages, MaxPages    int
	NumGroups, MaxGroups  int
	FreePages, FreeGroups int
}

func (a *Arena[G]) Stats() Stats {
	return Stats{
		NumPages: a.numPages, MaxPages: a.maxPages,
		NumGroups: a.numGroups, MaxGroups: a.maxGroups,
		FreePages: len(a.freePages), FreeGroups: len(a.freeGroups),
	}
}
