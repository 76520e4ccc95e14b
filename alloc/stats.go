package alloc

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats is a point-in-time summary of an allocator.
type Stats struct {
	Capacity    int // Pool size in bytes
	InUse       int // Bytes held by allocated blocks (rounded sizes)
	Free        int // Bytes held by free blocks
	Blocks      int // Directory entries
	FreeBlocks  int // Free directory entries
	LargestFree int // Largest single free block

	Allocs         int // Alloc calls since Init
	Frees          int // Blocks returned, including those released by relocation
	IgnoredFrees   int // Free calls with an unknown or stale pointer
	Resizes        int // Resize calls on a valid pointer
	ResizesInPlace int // Resizes that kept their address
	ResizesMoved   int // Resizes that relocated the block
	Failures       int // Alloc/Resize calls that returned ErrNoSpace
	Splits         int // Blocks created by splitting
	Merges         int // Blocks absorbed by coalescing
}

// Fragmentation returns 1 - LargestFree/Free: zero when all free space is
// one block, approaching one as free space scatters. Zero when nothing is free.
func (s Stats) Fragmentation() float64 {
	if s.Free == 0 {
		return 0
	}
	return 1 - float64(s.LargestFree)/float64(s.Free)
}

// String formats the summary with grouped digits, e.g. "capacity=65,536".
func (s Stats) String() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf(
		"capacity=%d in_use=%d free=%d blocks=%d free_blocks=%d largest_free=%d "+
			"fragmentation=%.2f allocs=%d frees=%d resizes=%d failures=%d",
		s.Capacity, s.InUse, s.Free, s.Blocks, s.FreeBlocks, s.LargestFree,
		s.Fragmentation(), s.Allocs, s.Frees, s.Resizes, s.Failures,
	)
}

// Stats walks the directory and returns current usage and counters.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Stats{
		Capacity:       int(a.capacity),
		Allocs:         a.stats.allocs,
		Frees:          a.stats.frees,
		IgnoredFrees:   a.stats.ignoredFrees,
		Resizes:        a.stats.resizes,
		ResizesInPlace: a.stats.resizesInPlace,
		ResizesMoved:   a.stats.resizesMoved,
		Failures:       a.stats.failures,
		Splits:         a.dir.splits,
		Merges:         a.dir.merges,
	}
	if a.pool == nil {
		return s
	}
	for i := a.dir.head; i != noBlock; i = a.dir.blocks[i].next {
		b := a.dir.blocks[i]
		s.Blocks++
		if !b.free {
			s.InUse += int(b.size)
			continue
		}
		s.FreeBlocks++
		s.Free += int(b.size)
		if int(b.size) > s.LargestFree {
			s.LargestFree = int(b.size)
		}
	}
	return s
}
