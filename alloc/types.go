package alloc

import (
	"fmt"
	"log/slog"
)

// Ptr is the offset of an allocated block's first byte within the pool.
type Ptr uint32

// Nil is the failure sentinel returned alongside an error from Alloc and
// Resize. Pool capacity is capped below it, so no block ever starts at Nil.
const Nil Ptr = 0xFFFFFFFF

// Alignment is the granularity every request is rounded up to.
const Alignment = 8

// Block describes one directory entry in a snapshot returned by Blocks.
type Block struct {
	Offset Ptr
	Size   int
	Free   bool
}

// align8 rounds n up to Alignment. Zero is treated as a minimum block.
func align8(n int) int {
	if n == 0 {
		return Alignment
	}
	return (n + Alignment - 1) &^ (Alignment - 1)
}

func (p Ptr) String() string {
	if p == Nil {
		return "nil"
	}
	return fmt.Sprintf("0x%X", uint32(p))
}

// LogValue renders pointers as hex in structured logs.
func (p Ptr) LogValue() slog.Value {
	return slog.StringValue(p.String())
}
