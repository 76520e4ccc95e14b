//go:build !unix

// Package mmbuf provides platform-specific helpers for mapping anonymous
// memory that backs an allocator pool.
package mmbuf

import "fmt"

// Anon allocates size bytes on the Go heap when mmap is not available.
func Anon(size int) ([]byte, func() error, error) {
	if size < 0 {
		return nil, nil, fmt.Errorf("mmbuf: negative size %d", size)
	}
	return make([]byte, size), func() error { return nil }, nil
}
