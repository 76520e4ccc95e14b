package alloc

import "fmt"

// index addresses a block record in the directory arena.
type index int32

const noBlock index = -1

// block is one descriptor in the address-ordered chain.
type block struct {
	off  uint32
	size uint32
	free bool
	prev index
	next index
}

// directory partitions the pool into blocks. Records live in an arena and
// link to their neighbours by index; removed records are recycled through
// spare. byOff maps every live block's offset to its record.
//
// The directory is not thread-safe. The Allocator holds its lock around
// every call.
type directory struct {
	blocks []block
	spare  []index
	head   index
	byOff  map[uint32]index

	splits int
	merges int
}

// reset installs a single free block spanning capacity bytes. A zero
// capacity leaves the directory empty.
func (d *directory) reset(capacity uint32) {
	d.blocks = d.blocks[:0]
	d.spare = d.spare[:0]
	d.head = noBlock
	d.byOff = make(map[uint32]index)
	d.splits, d.merges = 0, 0
	if capacity > 0 {
		d.insert(0, capacity, true, noBlock, noBlock)
	}
}

// clear drops every record.
func (d *directory) clear() {
	d.blocks = nil
	d.spare = nil
	d.head = noBlock
	d.byOff = nil
}

// insert creates a record and splices it between prev and next.
// A noBlock prev makes the record the new head.
func (d *directory) insert(off, size uint32, free bool, prev, next index) index {
	rec := block{off: off, size: size, free: free, prev: prev, next: next}

	var i index
	if n := len(d.spare); n > 0 {
		i = d.spare[n-1]
		d.spare = d.spare[:n-1]
		d.blocks[i] = rec
	} else {
		i = index(len(d.blocks))
		d.blocks = append(d.blocks, rec)
	}

	if prev != noBlock {
		d.blocks[prev].next = i
	} else {
		d.head = i
	}
	if next != noBlock {
		d.blocks[next].prev = i
	}
	d.byOff[off] = i
	return i
}

// remove unlinks record i and recycles its slot.
func (d *directory) remove(i index) {
	b := d.blocks[i]
	if b.prev != noBlock {
		d.blocks[b.prev].next = b.next
	} else {
		d.head = b.next
	}
	if b.next != noBlock {
		d.blocks[b.next].prev = b.prev
	}
	delete(d.byOff, b.off)
	d.blocks[i] = block{prev: noBlock, next: noBlock}
	d.spare = append(d.spare, i)
}

// firstFit returns the first free block in address order holding at least
// size bytes, or noBlock.
func (d *directory) firstFit(size uint32) index {
	for i := d.head; i != noBlock; i = d.blocks[i].next {
		if b := &d.blocks[i]; b.free && b.size >= size {
			return i
		}
	}
	return noBlock
}

// split marks block i allocated with exactly size bytes. Any remainder
// becomes a new free block directly after it. Reports whether a record was
// created. size must not exceed the block's current size.
func (d *directory) split(i index, size uint32) bool {
	b := &d.blocks[i]
	rem := b.size - size
	b.free = false
	b.size = size
	if rem == 0 {
		return false
	}
	// insert may grow the arena; b is not used past this point.
	d.insert(b.off+size, rem, true, i, b.next)
	d.splits++
	return true
}

// merge absorbs block b into its predecessor a when both are free.
// Either index may be noBlock, in which case nothing happens.
func (d *directory) merge(a, b index) bool {
	if a == noBlock || b == noBlock {
		return false
	}
	if !d.blocks[a].free || !d.blocks[b].free {
		return false
	}
	d.blocks[a].size += d.blocks[b].size
	d.remove(b)
	d.merges++
	return true
}

// allocated returns the allocated block starting at p, or noBlock.
func (d *directory) allocated(p Ptr) index {
	if p == Nil {
		return noBlock
	}
	i, ok := d.byOff[uint32(p)]
	if !ok || d.blocks[i].free {
		return noBlock
	}
	return i
}

// snapshot copies the chain in address order.
func (d *directory) snapshot() []Block {
	out := make([]Block, 0, len(d.byOff))
	for i := d.head; i != noBlock; i = d.blocks[i].next {
		b := d.blocks[i]
		out = append(out, Block{Offset: Ptr(b.off), Size: int(b.size), Free: b.free})
	}
	return out
}

// check validates the directory against a pool of capacity bytes:
// ordered chain with consistent back-links, exact partition, no adjacent
// free blocks, and an offset index matching the chain.
func (d *directory) check(capacity uint32) error {
	var (
		expect   uint64
		prev     = noBlock
		prevFree bool
		seen     int
	)
	for i := d.head; i != noBlock; i = d.blocks[i].next {
		if seen > len(d.blocks) {
			return &InvariantError{Offset: Nil, Reason: "cycle in block chain"}
		}
		b := d.blocks[i]
		at := Ptr(b.off)
		switch {
		case b.prev != prev:
			return &InvariantError{Offset: at, Reason: fmt.Sprintf("back-link %d, want %d", b.prev, prev)}
		case uint64(b.off) != expect:
			return &InvariantError{Offset: at, Reason: fmt.Sprintf("expected block at 0x%X (gap or overlap)", expect)}
		case b.size == 0:
			return &InvariantError{Offset: at, Reason: "zero-size block"}
		case b.free && prevFree:
			return &InvariantError{Offset: at, Reason: "adjacent free blocks not coalesced"}
		}
		if j, ok := d.byOff[b.off]; !ok || j != i {
			return &InvariantError{Offset: at, Reason: "offset index out of sync"}
		}
		expect += uint64(b.size)
		prev, prevFree = i, b.free
		seen++
	}

	if expect != uint64(capacity) {
		return &InvariantError{
			Offset: Nil,
			Reason: fmt.Sprintf("blocks cover %d bytes, pool holds %d", expect, capacity),
		}
	}
	if seen != len(d.byOff) {
		return &InvariantError{
			Offset: Nil,
			Reason: fmt.Sprintf("offset index holds %d entries, chain has %d", len(d.byOff), seen),
		}
	}
	if seen+len(d.spare) != len(d.blocks) {
		return &InvariantError{
			Offset: Nil,
			Reason: fmt.Sprintf("%d records unaccounted for", len(d.blocks)-seen-len(d.spare)),
		}
	}
	return nil
}
