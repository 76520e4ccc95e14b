// Package list is an ordered singly linked sequence of int32 values whose
// nodes live in an allocator pool rather than on the Go heap.
//
// Each node is one 8-byte block: a little-endian int32 value followed by the
// little-endian offset of the next node, with alloc.Nil marking the tail.
package list

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/joshuapare/poolkit/alloc"
	"github.com/joshuapare/poolkit/internal/buf"
	"github.com/joshuapare/poolkit/internal/logger"
)

// Allocator is the allocator surface the list needs. *alloc.Allocator
// satisfies it.
type Allocator interface {
	Init(capacity int) error
	Alloc(size int) (alloc.Ptr, error)
	Free(p alloc.Ptr)
	ReadAt(p alloc.Ptr, dst []byte, off int) error
	WriteAt(p alloc.Ptr, src []byte, off int) error
	Deinit() error
}

// Node identifies a list element by its pool offset.
type Node alloc.Ptr

// NilNode is the absent node.
const NilNode = Node(alloc.Nil)

const (
	nodeSize = 8
	valueOff = 0
	nextOff  = 4
)

func (n Node) String() string { return alloc.Ptr(n).String() }

// List is safe for concurrent use. Its mutex is always taken before the
// allocator's.
type List struct {
	mu   sync.Mutex
	a    Allocator
	head Node
	n    int
}

// New initializes a with a pool of poolSize bytes and returns an empty list
// backed by it.
func New(a Allocator, poolSize int) (*List, error) {
	if err := a.Init(poolSize); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return &List{a: a, head: NilNode}, nil
}

func (l *List) read(n Node) (int32, Node, error) {
	var rec [nodeSize]byte
	if err := l.a.ReadAt(alloc.Ptr(n), rec[:], 0); err != nil {
		return 0, NilNode, fmt.Errorf("%w: %v: %w", ErrCorrupt, n, err)
	}
	return buf.I32LE(rec[valueOff:]), Node(buf.U32LE(rec[nextOff:])), nil
}

func (l *List) setNext(n, next Node) error {
	var b [4]byte
	buf.PutU32LE(b[:], uint32(next))
	return l.a.WriteAt(alloc.Ptr(n), b[:], nextOff)
}

// newNode allocates and fills a node. Nothing in the list points at it yet.
func (l *List) newNode(v int32, next Node) (Node, error) {
	p, err := l.a.Alloc(nodeSize)
	if err != nil {
		return NilNode, err
	}
	var rec [nodeSize]byte
	buf.PutI32LE(rec[valueOff:], v)
	buf.PutU32LE(rec[nextOff:], uint32(next))
	if err := l.a.WriteAt(p, rec[:], 0); err != nil {
		l.a.Free(p)
		return NilNode, err
	}
	return Node(p), nil
}

// find walks from the head to target and returns its predecessor, NilNode
// when target is the head.
func (l *List) find(target Node) (Node, error) {
	prev := NilNode
	for n := l.head; n != NilNode; {
		if n == target {
			return prev, nil
		}
		_, next, err := l.read(n)
		if err != nil {
			return NilNode, err
		}
		prev, n = n, next
	}
	return NilNode, fmt.Errorf("%w: %v", ErrNodeNotFound, target)
}

// Insert appends v at the tail.
func (l *List) Insert(v int32) (Node, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tail := NilNode
	for n := l.head; n != NilNode; {
		_, next, err := l.read(n)
		if err != nil {
			return NilNode, err
		}
		tail, n = n, next
	}

	node, err := l.newNode(v, NilNode)
	if err != nil {
		return NilNode, err
	}
	if tail == NilNode {
		l.head = node
	} else if err := l.setNext(tail, node); err != nil {
		l.a.Free(alloc.Ptr(node))
		return NilNode, err
	}
	l.n++
	return node, nil
}

// InsertAfter links v directly after prev.
func (l *List) InsertAfter(prev Node, v int32) (Node, error) {
	if prev == NilNode {
		return NilNode, ErrNilNode
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.find(prev); err != nil {
		return NilNode, err
	}
	_, next, err := l.read(prev)
	if err != nil {
		return NilNode, err
	}
	node, err := l.newNode(v, next)
	if err != nil {
		return NilNode, err
	}
	if err := l.setNext(prev, node); err != nil {
		l.a.Free(alloc.Ptr(node))
		return NilNode, err
	}
	l.n++
	return node, nil
}

// InsertBefore links v directly before next, which must be in the list.
func (l *List) InsertBefore(next Node, v int32) (Node, error) {
	if next == NilNode {
		return NilNode, ErrNilNode
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	prev, err := l.find(next)
	if err != nil {
		return NilNode, err
	}
	node, err := l.newNode(v, next)
	if err != nil {
		return NilNode, err
	}
	if prev == NilNode {
		l.head = node
	} else if err := l.setNext(prev, node); err != nil {
		l.a.Free(alloc.Ptr(node))
		return NilNode, err
	}
	l.n++
	return node, nil
}

// Delete removes every node holding v and returns how many were removed.
// Each removed node's predecessor is relinked to its successor.
func (l *List) Delete(v int32) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	prev := NilNode
	for n := l.head; n != NilNode; {
		val, next, err := l.read(n)
		if err != nil {
			return removed, err
		}
		if val != v {
			prev, n = n, next
			continue
		}
		if prev == NilNode {
			l.head = next
		} else if err := l.setNext(prev, next); err != nil {
			return removed, err
		}
		l.a.Free(alloc.Ptr(n))
		l.n--
		removed++
		n = next
	}
	return removed, nil
}

// Search returns the first node holding v.
func (l *List) Search(v int32) (Node, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for n := l.head; n != NilNode; {
		val, next, err := l.read(n)
		if err != nil {
			return NilNode, false
		}
		if val == v {
			return n, true
		}
		n = next
	}
	return NilNode, false
}

// Value returns the value stored at n.
func (l *List) Value(n Node) (int32, error) {
	if n == NilNode {
		return 0, ErrNilNode
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	v, _, err := l.read(n)
	return v, err
}

// Head returns the first node, or NilNode for an empty list.
func (l *List) Head() Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.head
}

// Count returns the number of nodes.
func (l *List) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.n
}

// Values returns the values in list order.
func (l *List) Values() ([]int32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]int32, 0, l.n)
	for n := l.head; n != NilNode; {
		val, next, err := l.read(n)
		if err != nil {
			return out, err
		}
		out = append(out, val)
		n = next
	}
	return out, nil
}

// Display writes the whole list as "[1, 2, 3]".
func (l *List) Display(w io.Writer) error {
	return l.DisplayRange(w, NilNode, NilNode)
}

// DisplayRange writes the values from start through end inclusive. A NilNode
// start begins at the head; a NilNode end, or an end not after start, runs to
// the tail.
func (l *List) DisplayRange(w io.Writer, start, end Node) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if start == NilNode {
		start = l.head
	} else if _, err := l.find(start); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for n := start; n != NilNode; {
		val, next, err := l.read(n)
		if err != nil {
			return err
		}
		fmt.Fprintf(&sb, "%d", val)
		if n == end || next == NilNode {
			break
		}
		sb.WriteString(", ")
		n = next
	}
	sb.WriteByte(']')

	_, err := io.WriteString(w, sb.String())
	return err
}

// String renders the list like Display. A read failure is rendered in place
// of the values.
func (l *List) String() string {
	var sb strings.Builder
	if err := l.Display(&sb); err != nil {
		return "[" + err.Error() + "]"
	}
	return sb.String()
}

// Cleanup frees every node and deinitializes the allocator. The list is
// empty afterwards and must not be used again.
func (l *List) Cleanup() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	freed := 0
	for n := l.head; n != NilNode; {
		_, next, err := l.read(n)
		l.a.Free(alloc.Ptr(n))
		freed++
		if err != nil {
			break
		}
		n = next
	}
	l.head = NilNode
	l.n = 0

	logger.L.Debug("list cleanup", "nodes", freed)
	if err := l.a.Deinit(); err != nil {
		return fmt.Errorf("list: cleanup: %w", err)
	}
	return nil
}
