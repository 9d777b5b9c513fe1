package compiler

// Allocator assigns non-overlapping memory cell addresses to program
// variables (spec.md §4.1). Cell 0 and cell 1 are permanently reserved, so
// the allocator never hands either of them out. The code generator does not
// read or write them either: READ and WRITE move values through registers
// directly, with no scratch cell.
//
// Arrays larger than bigArrayThreshold cells skip per-cell tracking
// entirely: allocate carves a range off the high-water mark and records it
// as reserved, the same way the source this was distilled from treats
// "big" arrays as a single opaque block.
const bigArrayThreshold = 1000

// reservedScratchCells is the count of permanently reserved low cells
// (cells 0 and 1), which no variable or iterator is ever placed in.
const reservedScratchCells = 2

type cellRange struct {
	lo, hi int // inclusive
}

// Allocator is the memory manager owned by the code generator. The zero
// value is not ready to use — call NewAllocator.
type Allocator struct {
	occupied      map[int]bool
	bigRanges     []cellRange
	highWater     int // highest cell address handed out or reserved so far
	iteratorCells int // K: capacity of the iterator region, set once by ReserveIterators
}

// NewAllocator returns an allocator with cells 0 and 1 already reserved.
func NewAllocator() *Allocator {
	return &Allocator{
		occupied:  make(map[int]bool),
		highWater: reservedScratchCells - 1,
	}
}

// ReserveIterators carves out the iterator region (cells 2..K+1) ahead of
// any user-variable allocation. It must be called at most once, before any
// call to Allocate or AllocateIterator, by the preprocessor (spec.md §4.6).
func (a *Allocator) ReserveIterators(capacity int) {
	a.iteratorCells = capacity
	top := reservedScratchCells + capacity - 1
	if capacity > 0 && top > a.highWater {
		a.highWater = top
	}
}

// firstUserCell is the first address available to ordinary (non-iterator)
// variables: right after the iterator region, or right after the
// permanently reserved cells if there is no iterator region.
func (a *Allocator) firstUserCell() int {
	if a.iteratorCells > 0 {
		return reservedScratchCells + a.iteratorCells
	}
	return reservedScratchCells
}

// Allocate reserves n contiguous cells for a scalar (n=1) or array (n>1)
// and returns the base address.
func (a *Allocator) Allocate(n int) int {
	if n > bigArrayThreshold {
		base := a.highWater + 1
		a.bigRanges = append(a.bigRanges, cellRange{lo: base, hi: base + n})
		a.highWater = base + n
		return base
	}

	base := a.findFree(n, a.firstUserCell())
	for c := base; c < base+n; c++ {
		a.occupied[c] = true
	}
	if top := base + n - 1; top > a.highWater {
		a.highWater = top
	}
	return base
}

// AllocateIterator reserves one cell for a counted loop's iterator or bound
// value: the lowest free cell from cell 2 up, which is a cell of the
// iterator region while one is free there, else the first free cell above
// the occupied user cells.
func (a *Allocator) AllocateIterator() int {
	base := a.findFree(1, reservedScratchCells)
	a.occupied[base] = true
	return base
}

// Deallocate releases n cells starting at base. Attempting to free a cell
// that isn't occupied is non-fatal: it is silently skipped, per spec.md
// §4.1's failure semantics (there is no well-formed program that triggers
// this — it would indicate a code generator accounting bug, not a user
// error, so it is not surfaced as a diagnostic).
func (a *Allocator) Deallocate(base, n int) {
	for c := base; c < base+n; c++ {
		delete(a.occupied, c)
	}
}

// DeallocateIterator releases a single iterator cell.
func (a *Allocator) DeallocateIterator(addr int) {
	delete(a.occupied, addr)
}

// findFree returns the lowest address >= start such that n consecutive
// cells from it are neither individually occupied nor inside a reserved
// big-array range.
func (a *Allocator) findFree(n int, start int) int {
	for cell := start; ; cell++ {
		if a.rangeFree(cell, n) {
			return cell
		}
	}
}

func (a *Allocator) rangeFree(cell, n int) bool {
	for c := cell; c < cell+n; c++ {
		if a.occupied[c] {
			return false
		}
		if a.inBigRange(c) {
			return false
		}
	}
	return true
}

func (a *Allocator) inBigRange(cell int) bool {
	for _, r := range a.bigRanges {
		if cell >= r.lo && cell <= r.hi {
			return true
		}
	}
	return false
}
