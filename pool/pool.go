// Package pool owns the contiguous byte buffer an allocator manages.
//
// A Pool is created once with a fixed capacity and never grows. Every view
// handed out is bounds-checked against that capacity. Pools are not
// thread-safe; the owning allocator serializes access.
package pool

import (
	"fmt"
	"strings"

	"github.com/joshuapare/poolkit/internal/buf"
	"github.com/joshuapare/poolkit/internal/mmbuf"
)

// MaxCapacity is the largest pool size. Offsets are uint32 and the value
// 0xFFFFFFFF is reserved as the allocator's nil pointer, so capacity stops
// at the last 8-byte boundary below it.
const MaxCapacity = 0xFFFFFFF8

// Backing selects where pool memory comes from.
type Backing uint8

const (
	// BackingHeap allocates the pool as a Go byte slice.
	BackingHeap Backing = iota
	// BackingMmap maps anonymous private memory. Platforms without mmap
	// fall back to the heap.
	BackingMmap
)

func (b Backing) String() string {
	switch b {
	case BackingHeap:
		return "heap"
	case BackingMmap:
		return "mmap"
	default:
		return fmt.Sprintf("Backing(%d)", uint8(b))
	}
}

// ParseBacking maps "heap" or "mmap" (case-insensitive) to a Backing.
// An empty string means BackingHeap.
func ParseBacking(s string) (Backing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "heap":
		return BackingHeap, nil
	case "mmap":
		return BackingMmap, nil
	default:
		return 0, fmt.Errorf("pool: unknown backing %q", s)
	}
}

// Pool is a fixed-capacity byte buffer.
type Pool struct {
	data    []byte
	backing Backing
	release func() error
}

// New acquires a zeroed buffer of capacity bytes.
//
// A capacity of zero yields a valid empty pool. Negative capacities and
// capacities above MaxCapacity return ErrInvalidCapacity. Failure to obtain
// the memory itself returns an error wrapping ErrAcquire.
func New(capacity int, backing Backing) (*Pool, error) {
	if capacity < 0 || uint64(capacity) > MaxCapacity {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	p := &Pool{backing: backing}
	switch backing {
	case BackingHeap:
		p.data = make([]byte, capacity)
		p.release = func() error { return nil }
	case BackingMmap:
		data, cleanup, err := mmbuf.Anon(capacity)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAcquire, err)
		}
		p.data = data
		p.release = cleanup
	default:
		return nil, fmt.Errorf("pool: unknown backing %v", backing)
	}
	return p, nil
}

// Cap returns the pool capacity in bytes. A released pool reports zero.
func (p *Pool) Cap() int {
	if p == nil {
		return 0
	}
	return len(p.data)
}

// Backing reports where the pool memory came from.
func (p *Pool) Backing() Backing {
	return p.backing
}

// Bytes returns the whole buffer.
func (p *Pool) Bytes() []byte {
	return p.data
}

// Slice returns the view [off:off+n].
func (p *Pool) Slice(off, n int) ([]byte, error) {
	if p.release == nil {
		return nil, ErrReleased
	}
	end, err := buf.CheckRange(len(p.data), off, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfBounds, err)
	}
	return p.data[off:end:end], nil
}

// Move copies n bytes from src to dst within the pool. Overlapping ranges
// are handled like the built-in copy.
func (p *Pool) Move(dst, src, n int) error {
	from, err := p.Slice(src, n)
	if err != nil {
		return fmt.Errorf("move source: %w", err)
	}
	to, err := p.Slice(dst, n)
	if err != nil {
		return fmt.Errorf("move destination: %w", err)
	}
	copy(to, from)
	return nil
}

// Release returns the buffer to the system. It is safe to call more than once.
func (p *Pool) Release() error {
	if p == nil || p.release == nil {
		return nil
	}
	err := p.release()
	p.release = nil
	p.data = nil
	return err
}
