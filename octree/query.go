package octree

import (
	"context"
	"math"

	"github.com/alexander-scott/octomap-go/geomray"
)

// LeafDescriptor identifies one Occupied leaf by its center and edge
// length.
type LeafDescriptor struct {
	Center Vec3
	Extent float64
}

// RayIntersect depth-first searches the tree along ray and returns the
// center of the first Occupied leaf the DFS encounters, in child-slot
// order. It is the first such leaf in that order, not necessarily the
// smallest occupied leaf on the ray nor the nearest along the ray parameter t.
func (t *Tree) RayIntersect(ctx context.Context, ray geomray.Ray) (Vec3, bool) {
	return t.rayIntersect(ray, t.rootExtent, t.rootCenter, t.rootHandle)
}

func (t *Tree) rayIntersect(ray geomray.Ray, nodeExtent float64, nodeCenter Vec3, h NodeHandle) (Vec3, bool) {
	box := geomray.AABB{Center: nodeCenter, HalfExtent: nodeExtent / 2}
	if !box.IntersectsRay(ray, math.Inf(1)) {
		return Vec3{}, false
	}

	n := t.arena.node(h)
	if n.isLeaf() {
		if n.occupancy == Occupied {
			return nodeCenter, true
		}
		return Vec3{}, false
	}

	childExtent := nodeExtent / 2
	children := t.arena.children(n.childrenHandle)
	for slot := 0; slot < 8; slot++ {
		childCtr := childCenter(slot, childExtent, nodeCenter)
		if center, ok := t.rayIntersect(ray, childExtent, childCtr, children[slot]); ok {
			return center, true
		}
	}
	return Vec3{}, false
}

// Leaves returns a LeafDescriptor for every Occupied leaf in the tree, in
// DFS slot order.
func (t *Tree) Leaves(ctx context.Context) []LeafDescriptor {
	var out []LeafDescriptor
	t.collectOccupiedLeaves(t.rootExtent, t.rootCenter, t.rootHandle, &out)
	return out
}

func (t *Tree) collectOccupiedLeaves(nodeExtent float64, nodeCenter Vec3, h NodeHandle, out *[]LeafDescriptor) {
	n := t.arena.node(h)
	if n.isLeaf() {
		if n.occupancy == Occupied {
			*out = append(*out, LeafDescriptor{Center: nodeCenter, Extent: nodeExtent})
		}
		return
	}

	childExtent := nodeExtent / 2
	children := t.arena.children(n.childrenHandle)
	for slot := 0; slot < 8; slot++ {
		childCtr := childCenter(slot, childExtent, nodeCenter)
		t.collectOccupiedLeaves(childExtent, childCtr, children[slot], out)
	}
}
