//go:build unix

// Package mmbuf provides platform-specific helpers for mapping anonymous
// memory that backs an allocator pool.
package mmbuf

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Anon maps size bytes of private, zeroed, read-write memory.
// A zero size returns an empty slice and a no-op cleanup.
func Anon(size int) ([]byte, func() error, error) {
	if size < 0 {
		return nil, nil, fmt.Errorf("mmbuf: negative size %d", size)
	}
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmbuf: map %d bytes: %w", size, err)
	}
	released := false
	cleanup := func() error {
		if released {
			return nil
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			err = nil
		}
		released = true
		data = nil
		return err
	}
	return data, cleanup, nil
}
