package list

import "errors"

var (
	// ErrNilNode indicates an operation that needs a node was given NilNode.
	ErrNilNode = errors.New("list: nil node")

	// ErrNodeNotFound indicates the node is not reachable from the head.
	ErrNodeNotFound = errors.New("list: node not in list")

	// ErrCorrupt indicates a node record could not be read back from the pool.
	ErrCorrupt = errors.New("list: corrupt node")
)
