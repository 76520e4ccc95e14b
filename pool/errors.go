package pool

import "errors"

var (
	// ErrInvalidCapacity indicates a negative capacity or one above MaxCapacity.
	ErrInvalidCapacity = errors.New("pool: invalid capacity")

	// ErrAcquire indicates that the backing buffer could not be obtained.
	ErrAcquire = errors.New("pool: cannot acquire backing memory")

	// ErrOutOfBounds indicates a view or copy that does not fit in the pool.
	ErrOutOfBounds = errors.New("pool: range out of bounds")

	// ErrReleased indicates use of a pool after Release.
	ErrReleased = errors.New("pool: released")
)
