package alloc

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/joshuapare/poolkit/internal/logger"
	"github.com/joshuapare/poolkit/pool"
)

// Allocator hands out and reclaims blocks of a single fixed-size pool.
//
// All methods are safe for concurrent use: one mutex serializes every
// operation for its full duration. Init must complete before concurrent
// traffic begins, and Deinit must not race with other calls.
type Allocator struct {
	mu       sync.Mutex
	opts     options
	pool     *pool.Pool
	dir      directory
	capacity uint32
	stats    counters
}

// counters tracks call outcomes since the last Init.
type counters struct {
	allocs         int
	frees          int
	ignoredFrees   int
	resizes        int
	resizesInPlace int
	resizesMoved   int
	failures       int
}

// New creates an uninitialized allocator. Call Init before use.
func New(opts ...Option) *Allocator {
	a := &Allocator{dir: directory{head: noBlock}}
	for _, opt := range opts {
		opt(&a.opts)
	}
	return a
}

func (a *Allocator) logger() *slog.Logger {
	if a.opts.logger != nil {
		return a.opts.logger
	}
	return logger.L
}

func (a *Allocator) trace(msg string, args ...any) {
	if a.opts.trace {
		a.logger().Debug(msg, args...)
	}
}

// Init acquires a pool of capacity bytes and installs one free block
// spanning it. A zero capacity gives a valid pool in which every
// allocation fails.
func (a *Allocator) Init(capacity int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool != nil {
		return ErrInitialized
	}
	p, err := pool.New(capacity, a.opts.backing)
	if err != nil {
		return fmt.Errorf("alloc: init %d bytes: %w", capacity, err)
	}

	a.pool = p
	a.capacity = uint32(capacity)
	a.dir.reset(a.capacity)
	a.stats = counters{}

	a.logger().Info("pool initialized",
		"capacity", capacity,
		"backing", p.Backing().String(),
	)
	return nil
}

// Deinit releases the pool and every block. Pointers obtained earlier are
// invalid afterwards. Calling Deinit on an uninitialized allocator is a no-op.
func (a *Allocator) Deinit() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool == nil {
		return nil
	}
	blocks := len(a.dir.byOff)
	err := a.pool.Release()
	a.pool = nil
	a.capacity = 0
	a.dir.clear()

	a.logger().Info("pool released", "blocks", blocks)
	if err != nil {
		return fmt.Errorf("alloc: deinit: %w", err)
	}
	return nil
}

// Alloc reserves size bytes, rounded up to Alignment, from the first free
// block in address order that can hold them.
//
// Returns (Nil, ErrNoSpace) when no free block is large enough; the
// directory is left unchanged.
func (a *Allocator) Alloc(size int) (Ptr, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.alloc(size)
}

func (a *Allocator) alloc(size int) (Ptr, error) {
	if a.pool == nil {
		return Nil, ErrNotInitialized
	}
	if size < 0 {
		return Nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	a.stats.allocs++

	need, ok := a.fit(size)
	i := noBlock
	if ok {
		i = a.dir.firstFit(need)
	}
	if i == noBlock {
		a.stats.failures++
		a.logger().Debug("allocation failed", "size", size, "capacity", a.capacity)
		return Nil, ErrNoSpace
	}

	a.dir.split(i, need)
	p := Ptr(a.dir.blocks[i].off)
	a.trace("alloc", "ptr", p, "size", need)
	return p, nil
}

// fit rounds size and reports whether it could ever fit in the pool.
func (a *Allocator) fit(size int) (uint32, bool) {
	if uint64(size) > uint64(a.capacity) {
		return 0, false
	}
	need := align8(size)
	if uint64(need) > uint64(a.capacity) {
		return 0, false
	}
	return uint32(need), true
}

// Free returns the block starting at p to the pool and coalesces it with
// free neighbours. Nil, unknown and already-freed pointers are ignored.
func (a *Allocator) Free(p Ptr) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool == nil {
		return
	}
	i := a.dir.allocated(p)
	if i == noBlock {
		a.stats.ignoredFrees++
		a.trace("free ignored", "ptr", p)
		return
	}
	a.release(i)
	a.trace("free", "ptr", p)
}

// release marks block i free, then merges the successor into it and it
// into the predecessor. Successor first keeps i valid for the second merge.
func (a *Allocator) release(i index) {
	a.stats.frees++
	a.dir.blocks[i].free = true
	a.dir.merge(i, a.dir.blocks[i].next)
	a.dir.merge(a.dir.blocks[i].prev, i)
}

// Resize changes the size of the block at p.
//
// The block grows or shrinks in place when it, together with a free
// successor, can hold size bytes; the returned pointer is then p. Otherwise
// a new block is allocated, the original contents copied over, and the old
// block freed. If neither works the result is (Nil, ErrNoSpace) and the
// original block keeps its address, size and contents.
func (a *Allocator) Resize(p Ptr, size int) (Ptr, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool == nil {
		return Nil, ErrNotInitialized
	}
	if size < 0 {
		return Nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	i := a.dir.allocated(p)
	if i == noBlock {
		return Nil, fmt.Errorf("%w: 0x%X", ErrBadPtr, uint32(p))
	}
	a.stats.resizes++

	oldSize := a.dir.blocks[i].size
	need, ok := a.fit(size)

	// Free speculatively and absorb a free successor to learn the in-place capacity.
	a.dir.blocks[i].free = true
	a.dir.merge(i, a.dir.blocks[i].next)
	if ok && a.dir.blocks[i].size >= need {
		a.dir.split(i, need)
		a.stats.resizesInPlace++
		a.trace("resize in place", "ptr", p, "from", oldSize, "to", need)
		return p, nil
	}

	// Put the original split back before searching, so the old block is
	// neither a candidate nor left holding the absorbed successor.
	a.dir.split(i, oldSize)

	j := noBlock
	if ok {
		j = a.dir.firstFit(need)
	}
	if j == noBlock {
		a.stats.failures++
		a.logger().Debug("resize failed", "ptr", p, "from", oldSize, "size", size)
		return Nil, ErrNoSpace
	}

	a.dir.split(j, need)
	dst := Ptr(a.dir.blocks[j].off)
	if err := a.pool.Move(int(dst), int(p), int(oldSize)); err != nil {
		a.release(j)
		return Nil, fmt.Errorf("alloc: relocate 0x%X: %w", uint32(p), err)
	}
	a.release(i)
	a.stats.resizesMoved++
	a.trace("resize moved", "ptr", p, "to_ptr", dst, "from", oldSize, "to", need)
	return dst, nil
}
