package octree

import "github.com/pkg/errors"

// NodeHandle is a stable, opaque identifier for a node in an arena. The
// zero value never refers to a real node.
type NodeHandle uint32

// ChildGroupHandle is a stable, opaque identifier for an 8-tuple of child
// NodeHandles. The zero value means "no children" -- i.e. the owning node
// is a leaf.
type ChildGroupHandle uint32

// Occupancy is the ternary state a leaf node carries. It is represented
// numerically as {-1, 0, +1} so that a future log-odds fusion scheme could
// reuse the same field with additive updates instead of the ternary
// overwrite this core performs.
type Occupancy int8

// The three occupancy states, and their numeric encoding.
const (
	Free     Occupancy = -1
	Unknown  Occupancy = 0
	Occupied Occupancy = 1
)

// Numeric returns the {-1, 0, +1} encoding of the state.
func (o Occupancy) Numeric() int8 {
	return int8(o)
}

func (o Occupancy) String() string {
	switch o {
	case Free:
		return "Free"
	case Occupied:
		return "Occupied"
	default:
		return "Unknown"
	}
}

// node is a single octree node. It is a leaf iff childrenHandle is zero; an
// internal node's occupancy is meaningless and is never read by queries --
// it is overwritten only when the node is later pruned back into a leaf.
type node struct {
	childrenHandle ChildGroupHandle
	occupancy      Occupancy
}

func (n node) isLeaf() bool {
	return n.childrenHandle == 0
}

// arena owns every node and child-group array for one Tree. Node and
// child-group handles are issued from independent monotonically increasing
// counters; recycling of removed handles is not implemented, since memory
// pressure dominates long before a 32-bit counter wraps.
type arena struct {
	nextNode       NodeHandle
	nextChildGroup ChildGroupHandle

	nodes       map[NodeHandle]node
	childGroups map[ChildGroupHandle][8]NodeHandle
}

func newArena() *arena {
	return &arena{
		nodes:       make(map[NodeHandle]node),
		childGroups: make(map[ChildGroupHandle][8]NodeHandle),
	}
}

// newNode allocates a fresh leaf node with Unknown occupancy.
func (a *arena) newNode() (NodeHandle, error) {
	if a.nextNode == ^NodeHandle(0) {
		return 0, errors.Wrap(ErrAllocatorExhausted, "node handles exhausted")
	}
	a.nextNode++
	h := a.nextNode
	a.nodes[h] = node{occupancy: Unknown}
	return h, nil
}

// newChildGroup registers an 8-tuple of existing node handles and returns a
// fresh handle for it.
func (a *arena) newChildGroup(handles [8]NodeHandle) (ChildGroupHandle, error) {
	if a.nextChildGroup == ^ChildGroupHandle(0) {
		return 0, errors.Wrap(ErrAllocatorExhausted, "child group handles exhausted")
	}
	a.nextChildGroup++
	h := a.nextChildGroup
	a.childGroups[h] = handles
	return h, nil
}

func (a *arena) node(h NodeHandle) node {
	return a.nodes[h]
}

func (a *arena) setNode(h NodeHandle, n node) {
	a.nodes[h] = n
}

func (a *arena) children(h ChildGroupHandle) [8]NodeHandle {
	return a.childGroups[h]
}

func (a *arena) removeNode(h NodeHandle) {
	delete(a.nodes, h)
}

func (a *arena) removeChildGroup(h ChildGroupHandle) {
	delete(a.childGroups, h)
}
