// Package geomray provides the minimal vector, ray, and axis-aligned bounding
// box primitives that the octree core needs. A host application with its own
// vector math library would normally supply these; this package exists so
// the module is usable standalone.
package geomray

import (
	"math"

	"github.com/golang/geo/r3"
)

// Vec3 is a three-dimensional vector. It is a type alias for r3.Vector so
// callers get componentwise add/sub/scale, equality, and Cmp for free.
type Vec3 = r3.Vector

// Ray is a half-line: all points Origin + t*Dir for t >= 0.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// NewRay builds a Ray from an origin and an (unnormalized) direction.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// AABB is an axis-aligned cube, specified by its center and half the edge
// length. This matches the octree's own node-cube representation rather
// than a general min/max bounding box.
type AABB struct {
	Center     Vec3
	HalfExtent float64
}

// ContainsPoint reports whether p lies within the box, using closed
// intervals on every axis.
func (b AABB) ContainsPoint(p Vec3) bool {
	return math.Abs(p.X-b.Center.X) <= b.HalfExtent &&
		math.Abs(p.Y-b.Center.Y) <= b.HalfExtent &&
		math.Abs(p.Z-b.Center.Z) <= b.HalfExtent
}

// IntersectsRay reports whether r, clipped to the parameter range [0, maxT],
// intersects the box. Pass math.Inf(1) for an unbounded half-line.
func (b AABB) IntersectsRay(r Ray, maxT float64) bool {
	tMin, tMax := 0.0, maxT

	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	center := [3]float64{b.Center.X, b.Center.Y, b.Center.Z}

	for axis := 0; axis < 3; axis++ {
		lo := center[axis] - b.HalfExtent
		hi := center[axis] + b.HalfExtent

		if dir[axis] == 0 {
			if origin[axis] < lo || origin[axis] > hi {
				return false
			}
			continue
		}

		invDir := 1 / dir[axis]
		t1 := (lo - origin[axis]) * invDir
		t2 := (hi - origin[axis]) * invDir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return false
		}
	}
	return true
}
