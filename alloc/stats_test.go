package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_Counts(t *testing.T) {
	a := newTestAllocator(t, 65536)

	p1 := mustAlloc(t, a, 1000)
	p2 := mustAlloc(t, a, 2000)
	mustAlloc(t, a, 3000)
	a.Free(p1)
	a.Free(p1)
	_, err := a.Resize(p2, 100)
	assert.NoError(t, err)
	_, err = a.Alloc(1 << 20)
	assert.ErrorIs(t, err, ErrNoSpace)

	s := a.Stats()
	assert.Equal(t, 65536, s.Capacity)
	assert.Equal(t, 104+3000, s.InUse)
	assert.Equal(t, 65536-s.InUse, s.Free)
	assert.Equal(t, 5, s.Blocks) // [free 1000][p2 104][free 1896][p3 3000][free tail]
	assert.Equal(t, 3, s.FreeBlocks)
	assert.Equal(t, 65536-6000, s.LargestFree)
	assert.Equal(t, 4, s.Allocs)
	assert.Equal(t, 1, s.Frees)
	assert.Equal(t, 1, s.IgnoredFrees)
	assert.Equal(t, 1, s.Resizes)
	assert.Equal(t, 1, s.ResizesInPlace)
	assert.Equal(t, 1, s.Failures)
}

func TestStats_Fragmentation(t *testing.T) {
	assert.Zero(t, Stats{}.Fragmentation())
	assert.Zero(t, Stats{Free: 100, LargestFree: 100}.Fragmentation())
	assert.InDelta(t, 0.75, Stats{Free: 400, LargestFree: 100}.Fragmentation(), 1e-9)
}

func TestStats_String(t *testing.T) {
	a := newTestAllocator(t, 65536)
	mustAlloc(t, a, 1024)

	got := a.Stats().String()
	assert.Contains(t, got, "capacity=65,536")
	assert.Contains(t, got, "in_use=1,024")
	assert.Contains(t, got, "free=64,512")
	assert.Contains(t, got, "fragmentation=0.00")
}

func TestStats_Uninitialized(t *testing.T) {
	s := New().Stats()
	assert.Zero(t, s.Capacity)
	assert.Zero(t, s.Blocks)
}
