// Package octree implements a sparse, probabilistic 3D occupancy octree:
// insertion of occupied points and free-space rays, dynamic growth of the
// root volume, pruning of homogeneous subtrees, ray-vs-occupancy queries,
// and a bit-packed binary codec for the tree's topology and leaf states.
package octree
