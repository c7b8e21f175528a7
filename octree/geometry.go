package octree

import "github.com/alexander-scott/octomap-go/geomray"

// Vec3 is the vector type used for every center, point, and offset in the
// tree. It is the geomray package's alias for github.com/golang/geo/r3.Vector.
type Vec3 = geomray.Vec3

// slotSigns decomposes a child slot (0..7) into the +/-1 sign each axis
// takes relative to the parent center, per the bit layout fixed by the
// format:
//
//	bit 0 (value 1): +x half (else -x)
//	bit 1 (value 2): +z half (else -z)
//	bit 2 (value 4): -y half (else +y)
//
// childCenter, bestFitChildIndex, and rootPosIndex all derive from this one
// table so the three cannot silently diverge from each other.
func slotSigns(slot int) (sx, sy, sz float64) {
	sx = -1
	if slot&1 != 0 {
		sx = 1
	}
	sz = -1
	if slot&2 != 0 {
		sz = 1
	}
	sy = 1
	if slot&4 != 0 {
		sy = -1
	}
	return sx, sy, sz
}

// childCenter returns the center of the child occupying slot, given that
// child's own edge length and the parent's center.
func childCenter(slot int, childExtent float64, parentCenter Vec3) Vec3 {
	offset := childExtent / 2
	sx, sy, sz := slotSigns(slot)
	return Vec3{
		X: parentCenter.X + sx*offset,
		Y: parentCenter.Y + sy*offset,
		Z: parentCenter.Z + sz*offset,
	}
}

// bestFitChildIndex returns the slot of parentCenter's child whose cube
// contains p. A point exactly on a center plane resolves to the child whose
// bit for that axis is 1 (the same "bit set" side childCenter computes an
// offset for), which is a deterministic, if arbitrary, tie-break.
func bestFitChildIndex(p, parentCenter Vec3) int {
	slot := 0
	if p.X >= parentCenter.X {
		slot |= 1
	}
	if p.Z >= parentCenter.Z {
		slot |= 2
	}
	if p.Y <= parentCenter.Y {
		slot |= 4
	}
	return slot
}

// rootPosIndex returns the slot of the new (doubled) root that the old
// root's cube falls into, given the sign of the growth direction on each
// axis. It is derived by searching slotSigns for the slot on the opposite
// side of the new center from the growth direction, which is exactly where
// the old root ends up after growRoot re-centers -- see growRoot.
func rootPosIndex(sx, sy, sz float64) int {
	for slot := 0; slot < 8; slot++ {
		csx, csy, csz := slotSigns(slot)
		if csx == -sign(sx) && csy == -sign(sy) && csz == -sign(sz) {
			return slot
		}
	}
	// unreachable: sign() only ever returns -1 or +1, and every combination
	// of three +/-1 signs appears exactly once across the eight slots.
	panic("octree: no root slot found for growth direction")
}

// sign returns the sign of v as +1 or -1, with sign(0) defined as +1 per
// the growth direction convention.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// containsPointClosed reports whether p lies within the cube of the given
// center and extent, using closed intervals on every axis.
func containsPointClosed(center Vec3, extent float64, p Vec3) bool {
	half := extent / 2
	return geomray.AABB{Center: center, HalfExtent: half}.ContainsPoint(p)
}
