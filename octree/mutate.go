package octree

import (
	"context"

	"github.com/pkg/errors"

	"github.com/alexander-scott/octomap-go/geomray"
)

// AddPoint marks the leaf containing p as Occupied, growing the root volume
// first if p falls outside it. Growth is capped at maxGrowthIterations
// attempts; past that the root is left expanded by whatever growth already
// happened, and ErrGrowthLimitExceeded is returned.
func (t *Tree) AddPoint(ctx context.Context, p Vec3) error {
	growthAttempts := 0
	for !containsPointClosed(t.rootCenter, t.rootExtent, p) {
		if growthAttempts >= maxGrowthIterations {
			t.logger.Warnw("growth limit exceeded while inserting point",
				"point", p, "tree", t.id, "attempts", growthAttempts)
			return errors.Wrapf(ErrGrowthLimitExceeded, "point %v did not fit after %d growth attempts", p, growthAttempts)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.growRoot(p.Sub(t.rootCenter)); err != nil {
			return err
		}
		growthAttempts++
	}
	return t.insert(p, t.rootExtent, t.rootCenter, t.rootHandle)
}

func (t *Tree) insert(p Vec3, nodeExtent float64, nodeCenter Vec3, h NodeHandle) error {
	if nodeExtent < t.minLeafExtent {
		n := t.arena.node(h)
		n.occupancy = Occupied
		t.arena.setNode(h, n)
		return nil
	}
	if !containsPointClosed(nodeCenter, nodeExtent, p) {
		return nil
	}

	n := t.arena.node(h)
	if n.isLeaf() {
		cg, err := t.generateChildren()
		if err != nil {
			return err
		}
		n.childrenHandle = cg
		t.arena.setNode(h, n)
	}

	slot := bestFitChildIndex(p, nodeCenter)
	childExtent := nodeExtent / 2
	children := t.arena.children(n.childrenHandle)
	childCtr := childCenter(slot, childExtent, nodeCenter)

	if err := t.insert(p, childExtent, childCtr, children[slot]); err != nil {
		return err
	}

	// The root is never pruned away, even when all its descendants end up
	// homogeneous -- growRoot depends on the root always existing as a
	// stable handle to re-parent.
	if h != t.rootHandle {
		t.pruneIfHomogeneous(h, n.childrenHandle)
	}
	return nil
}

// generateChildren allocates eight fresh Unknown leaves and registers them
// as a child group.
func (t *Tree) generateChildren() (ChildGroupHandle, error) {
	var handles [8]NodeHandle
	for i := range handles {
		nh, err := t.arena.newNode()
		if err != nil {
			return 0, err
		}
		handles[i] = nh
	}
	return t.arena.newChildGroup(handles)
}

// pruneIfHomogeneous collapses parentHandle's child group back into a
// single leaf when all eight children are leaves sharing the same Free or
// Occupied state. Homogeneous Unknown groups are left alone -- Unknown is
// the default state new leaves are created in, and pruning it would
// immediately undo generateChildren.
func (t *Tree) pruneIfHomogeneous(parentHandle NodeHandle, cg ChildGroupHandle) {
	children := t.arena.children(cg)

	var state Occupancy
	for i, ch := range children {
		n := t.arena.node(ch)
		if !n.isLeaf() || n.occupancy == Unknown {
			return
		}
		if i == 0 {
			state = n.occupancy
		} else if n.occupancy != state {
			return
		}
	}

	for _, ch := range children {
		t.arena.removeNode(ch)
	}
	t.arena.removeChildGroup(cg)

	parent := t.arena.node(parentHandle)
	parent.childrenHandle = 0
	parent.occupancy = state
	t.arena.setNode(parentHandle, parent)
}

// AddRay marks every leaf intersected by the segment from origin to hit as
// Free, except the leaf whose center exactly equals hit. No pruning is
// performed here. A later AddPoint prunes only the nodes on its own insertion
// path; homogeneous groups this leaves elsewhere stay unpruned.
func (t *Tree) AddRay(ctx context.Context, origin, hit Vec3) error {
	dir := hit.Sub(origin)
	if dir == (Vec3{}) {
		return errors.New("octree: ray origin and hit point must differ")
	}
	ray := geomray.NewRay(origin, dir)
	maxT := dir.Norm()
	return t.freeRay(ctx, ray, maxT, hit, t.rootExtent, t.rootCenter, t.rootHandle)
}

func (t *Tree) freeRay(ctx context.Context, ray geomray.Ray, maxT float64, hit Vec3, nodeExtent float64, nodeCenter Vec3, h NodeHandle) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if nodeExtent < t.minLeafExtent {
		if nodeCenter == hit {
			return nil
		}
		n := t.arena.node(h)
		n.occupancy = Free
		t.arena.setNode(h, n)
		return nil
	}

	n := t.arena.node(h)
	if n.isLeaf() {
		cg, err := t.generateChildren()
		if err != nil {
			return err
		}
		n.childrenHandle = cg
		t.arena.setNode(h, n)
	}

	childExtent := nodeExtent / 2
	children := t.arena.children(n.childrenHandle)
	for slot := 0; slot < 8; slot++ {
		childCtr := childCenter(slot, childExtent, nodeCenter)
		box := geomray.AABB{Center: childCtr, HalfExtent: childExtent / 2}
		if !box.IntersectsRay(ray, maxT) {
			continue
		}
		if err := t.freeRay(ctx, ray, maxT, hit, childExtent, childCtr, children[slot]); err != nil {
			return err
		}
	}
	return nil
}

// growRoot doubles the root extent so the root volume grows toward
// direction. sign(0) is treated as +1 on every axis.
func (t *Tree) growRoot(direction Vec3) error {
	sx := sign(direction.X)
	sy := sign(direction.Y)
	sz := sign(direction.Z)

	half := t.rootExtent / 2
	newCenter := t.rootCenter.Add(Vec3{X: sx * half, Y: sy * half, Z: sz * half})
	newExtent := t.rootExtent * 2

	oldSlot := rootPosIndex(sx, sy, sz)

	var handles [8]NodeHandle
	for slot := range handles {
		if slot == oldSlot {
			handles[slot] = t.rootHandle
			continue
		}
		nh, err := t.arena.newNode()
		if err != nil {
			return err
		}
		handles[slot] = nh
	}

	cg, err := t.arena.newChildGroup(handles)
	if err != nil {
		return err
	}

	newRootHandle, err := t.arena.newNode()
	if err != nil {
		return err
	}
	newRoot := t.arena.node(newRootHandle)
	newRoot.childrenHandle = cg
	t.arena.setNode(newRootHandle, newRoot)

	t.rootHandle = newRootHandle
	t.rootCenter = newCenter
	t.rootExtent = newExtent

	t.logger.Debugw("grew octree root", "tree", t.id, "new_center", newCenter, "new_extent", newExtent)
	return nil
}
