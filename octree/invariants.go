package octree

import (
	"context"

	"github.com/pkg/errors"
)

// validate walks the whole tree and returns an error on the first violation
// of invariants 1-4 of the data model: every referenced handle resolves, a
// node is internal iff it has a child group, and no internal node has eight
// leaf children sharing the same Free or Occupied state. AddRay and
// FromBitstream never prune, so a tree built through either can hold such a
// group and fail this check. It is exercised
// only from tests; production callers have no need to pay for a full-tree
// walk on every mutation.
func (t *Tree) validate(ctx context.Context) error {
	return t.validateNode(ctx, t.rootExtent, t.rootCenter, t.rootHandle, true)
}

func (t *Tree) validateNode(ctx context.Context, nodeExtent float64, nodeCenter Vec3, h NodeHandle, isRoot bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n, ok := t.arena.nodes[h]
	if !ok {
		return errors.Errorf("octree: dangling node handle %d", h)
	}

	if n.isLeaf() {
		return nil
	}

	children, ok := t.arena.childGroups[n.childrenHandle]
	if !ok {
		return errors.Errorf("octree: dangling child group handle %d", n.childrenHandle)
	}

	var state Occupancy
	homogeneous := true
	childExtent := nodeExtent / 2
	for slot, ch := range children {
		childNode, ok := t.arena.nodes[ch]
		if !ok {
			return errors.Errorf("octree: dangling child handle %d at slot %d", ch, slot)
		}
		if !childNode.isLeaf() || childNode.occupancy == Unknown {
			homogeneous = false
		} else if slot == 0 {
			state = childNode.occupancy
		} else if childNode.occupancy != state {
			homogeneous = false
		}

		childCtr := childCenter(slot, childExtent, nodeCenter)
		if err := t.validateNode(ctx, childExtent, childCtr, ch, false); err != nil {
			return err
		}
	}

	if homogeneous && !isRoot {
		return errors.Errorf("octree: unpruned homogeneous %s group under node handle %d", state, h)
	}
	return nil
}
