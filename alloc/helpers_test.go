package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestAllocator returns an initialized allocator that is deinitialized
// when the test ends.
func newTestAllocator(t testing.TB, capacity int, opts ...Option) *Allocator {
	t.Helper()
	a := New(opts...)
	require.NoError(t, a.Init(capacity))
	t.Cleanup(func() {
		require.NoError(t, a.Deinit())
	})
	return a
}

// layout renders the directory with the cell-header sign convention:
// negative sizes are allocated blocks, positive sizes are free ones.
func layout(a *Allocator) []int {
	blocks := a.Blocks()
	out := make([]int, len(blocks))
	for i, b := range blocks {
		if b.Free {
			out[i] = b.Size
		} else {
			out[i] = -b.Size
		}
	}
	return out
}

// assertInvariants fails the test if the directory is inconsistent.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Check())
}

// mustAlloc allocates size bytes or fails the test.
func mustAlloc(t testing.TB, a *Allocator, size int) Ptr {
	t.Helper()
	p, err := a.Alloc(size)
	require.NoError(t, err, "Alloc(%d)", size)
	require.NotEqual(t, Nil, p)
	return p
}

// fill writes b into every byte of the block at p.
func fill(t testing.TB, a *Allocator, p Ptr, b byte) {
	t.Helper()
	size, err := a.SizeOf(p)
	require.NoError(t, err)
	data := make([]byte, size)
	for i := range data {
		data[i] = b
	}
	require.NoError(t, a.WriteAt(p, data, 0))
}

// contents returns a copy of the block at p.
func contents(t testing.TB, a *Allocator, p Ptr) []byte {
	t.Helper()
	size, err := a.SizeOf(p)
	require.NoError(t, err)
	data := make([]byte, size)
	require.NoError(t, a.ReadAt(p, data, 0))
	return data
}

// pattern returns n bytes counting up from seed.
func pattern(n int, seed byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = seed + byte(i)
	}
	return out
}
