// Package alloc implements a first-fit allocator over a single fixed-size
// byte pool.
//
// # Overview
//
// An Allocator owns one pool (see package pool) and a directory of block
// descriptors that partitions it. Descriptors are kept in address order in
// a doubly-linked chain; each records an offset, a size and whether the
// block is free. Pointers handed to callers are pool offsets (Ptr).
//
// # Operations
//
//   - Init(capacity): acquire the pool and install one free block spanning it
//   - Alloc(size): first-fit search, split the chosen block, return its offset
//   - Free(ptr): mark free, merge with the successor, then the predecessor
//   - Resize(ptr, size): grow or shrink in place, else relocate, else fail untouched
//   - Deinit(): release the pool and every descriptor (idempotent)
//
// # Usage Example
//
//	a := alloc.New(alloc.WithBacking(pool.BackingMmap))
//	if err := a.Init(64 << 10); err != nil {
//	    return err
//	}
//	defer a.Deinit()
//
//	p, err := a.Alloc(100) // rounded to 104
//	if err != nil {
//	    return err
//	}
//	if err := a.WriteAt(p, payload, 0); err != nil {
//	    return err
//	}
//
//	p, err = a.Resize(p, 200)
//	if errors.Is(err, alloc.ErrNoSpace) {
//	    // the original block at p is unchanged
//	}
//
//	a.Free(p)
//
// # Sizes
//
// Every request is rounded up to 8 bytes. A zero-size request is served as
// an 8-byte block so that each successful Alloc returns a distinct pointer.
// A block is split only when the remainder is non-zero; an exact fit
// consumes the whole block.
//
// # Invariants
//
// Whenever no call is in flight:
//
//   - blocks are ordered by strictly increasing offset with consistent back-links
//   - blocks partition the pool exactly: no gaps, no overlaps
//   - no two adjacent blocks are both free
//   - every pointer returned by Alloc or Resize names an allocated block until
//     it is freed or relocated
//
// Check verifies all of them.
//
// # Errors
//
// Exhaustion and misuse are reported through return values, never panics.
// Alloc and Resize return (Nil, ErrNoSpace) when nothing fits. Free ignores
// pointers it does not recognise, so repeated frees are harmless;
// Resize reports them as ErrBadPtr.
//
// # Thread Safety
//
// One mutex per Allocator serializes every method. Read helpers (View,
// ReadAt, WriteAt, Blocks, Stats, Check) take the same lock, so directory
// state is never observed mid-mutation. Independent allocators share nothing.
package alloc
