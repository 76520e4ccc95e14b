package alloc

import (
	"errors"
	"fmt"

	"github.com/joshuapare/poolkit/pool"
)

var (
	// ErrNoSpace indicates that no free block large enough was found.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrBadPtr indicates a pointer that is not the start of an allocated block.
	ErrBadPtr = errors.New("alloc: pointer not allocated")

	// ErrInvalidSize indicates a negative request size.
	ErrInvalidSize = errors.New("alloc: invalid size")

	// ErrInvalidCapacity indicates a negative or oversized pool capacity.
	ErrInvalidCapacity = pool.ErrInvalidCapacity

	// ErrNotInitialized indicates use of the allocator before Init or after Deinit.
	ErrNotInitialized = errors.New("alloc: not initialized")

	// ErrInitialized indicates a second Init without an intervening Deinit.
	ErrInitialized = errors.New("alloc: already initialized")

	// ErrOutOfBounds indicates a read or write past the end of a block.
	ErrOutOfBounds = pool.ErrOutOfBounds
)

// InvariantError reports a directory that violates its structural invariants.
type InvariantError struct {
	Offset Ptr    // Offset of the offending block (Nil when not block-specific)
	Reason string // Human-readable description
}

func (e *InvariantError) Error() string {
	if e.Offset == Nil {
		return "alloc: invariant violated: " + e.Reason
	}
	return fmt.Sprintf("alloc: invariant violated at 0x%X: %s", uint32(e.Offset), e.Reason)
}
