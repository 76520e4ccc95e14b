package alloc

import (
	"fmt"

	"github.com/joshuapare/poolkit/internal/buf"
)

// View returns the payload of the allocated block at p, sized to the
// block's rounded length. The slice aliases pool memory: it is valid only
// until p is freed, relocated by Resize, or the allocator is deinitialized.
// Concurrent writers to the same block must coordinate among themselves.
func (a *Allocator) View(p Ptr) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view(p)
}

func (a *Allocator) view(p Ptr) ([]byte, error) {
	if a.pool == nil {
		return nil, ErrNotInitialized
	}
	i := a.dir.allocated(p)
	if i == noBlock {
		return nil, fmt.Errorf("%w: %v", ErrBadPtr, p)
	}
	b := a.dir.blocks[i]
	return a.pool.Slice(int(b.off), int(b.size))
}

// ReadAt copies len(dst) bytes from the block at p, starting off bytes in.
func (a *Allocator) ReadAt(p Ptr, dst []byte, off int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	v, err := a.view(p)
	if err != nil {
		return err
	}
	end, err := buf.CheckRange(len(v), off, len(dst))
	if err != nil {
		return fmt.Errorf("%w: read %v: %w", ErrOutOfBounds, p, err)
	}
	copy(dst, v[off:end])
	return nil
}

// WriteAt copies src into the block at p, starting off bytes in.
func (a *Allocator) WriteAt(p Ptr, src []byte, off int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	v, err := a.view(p)
	if err != nil {
		return err
	}
	end, err := buf.CheckRange(len(v), off, len(src))
	if err != nil {
		return fmt.Errorf("%w: write %v: %w", ErrOutOfBounds, p, err)
	}
	copy(v[off:end], src)
	return nil
}

// SizeOf returns the rounded size of the allocated block at p.
func (a *Allocator) SizeOf(p Ptr) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool == nil {
		return 0, ErrNotInitialized
	}
	i := a.dir.allocated(p)
	if i == noBlock {
		return 0, fmt.Errorf("%w: %v", ErrBadPtr, p)
	}
	return int(a.dir.blocks[i].size), nil
}

// Blocks returns the directory in address order. Empty when uninitialized
// or when the pool has zero capacity.
func (a *Allocator) Blocks() []Block {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool == nil {
		return nil
	}
	return a.dir.snapshot()
}

// Check validates the directory invariants. It returns an *InvariantError
// describing the first violation found, or nil.
func (a *Allocator) Check() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool == nil {
		if a.dir.head != noBlock || len(a.dir.byOff) != 0 {
			return &InvariantError{Offset: Nil, Reason: "blocks present without a pool"}
		}
		return nil
	}
	return a.dir.check(a.capacity)
}

// Cap returns the pool capacity in bytes, or zero when uninitialized.
func (a *Allocator) Cap() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return int(a.capacity)
}

// Initialized reports whether Init has run without a later Deinit.
func (a *Allocator) Initialized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pool != nil
}
