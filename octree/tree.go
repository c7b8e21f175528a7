package octree

import (
	"context"
	"fmt"

	"github.com/edaniels/golog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Config describes the root volume and minimum leaf size a Tree is built
// with. Both New and FromBitstream require these out-of-band: the bit
// stream itself carries only topology and leaf states, never geometry.
type Config struct {
	RootCenter    Vec3
	RootExtent    float64
	MinLeafExtent float64
}

// Validate reports whether cfg describes a usable tree.
func (c Config) Validate() error {
	if c.RootExtent <= 0 {
		return errors.Errorf("invalid root extent (%.4f) for octree", c.RootExtent)
	}
	if c.MinLeafExtent <= 0 {
		return errors.Errorf("invalid minimum leaf extent (%.4f) for octree", c.MinLeafExtent)
	}
	if c.MinLeafExtent > c.RootExtent {
		return errors.Errorf("minimum leaf extent (%.4f) exceeds root extent (%.4f)", c.MinLeafExtent, c.RootExtent)
	}
	return nil
}

// Tree is a sparse probabilistic occupancy octree. It owns an arena of
// nodes and child groups reachable from a single root, and is
// single-threaded and non-reentrant: concurrent calls into the same Tree
// are undefined, but independent Trees share nothing and may run in
// parallel.
type Tree struct {
	arena *arena

	rootHandle    NodeHandle
	rootCenter    Vec3
	rootExtent    float64
	minLeafExtent float64

	logger golog.Logger
	id     uuid.UUID
}

// New creates an empty Tree: a single Unknown leaf occupying the configured
// root volume.
func New(ctx context.Context, cfg Config, logger golog.Logger) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = golog.Global()
	}

	a := newArena()
	rootHandle, err := a.newNode()
	if err != nil {
		return nil, err
	}

	return &Tree{
		arena:         a,
		rootHandle:    rootHandle,
		rootCenter:    cfg.RootCenter,
		rootExtent:    cfg.RootExtent,
		minLeafExtent: cfg.MinLeafExtent,
		logger:        logger,
		id:            uuid.New(),
	}, nil
}

// FromBitstream rebuilds a Tree from a bit stream previously produced by
// Encode, given the same root_center, root_extent, and min_leaf_extent the
// encoding tree was built with. A truncated stream yields ErrCorruptBitstream
// and the partially decoded tree is discarded.
func FromBitstream(ctx context.Context, cfg Config, logger golog.Logger, data []byte) (*Tree, error) {
	t, err := New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := decodeInto(ctx, t, data); err != nil {
		return nil, err
	}
	return t, nil
}

// ID returns the Tree's identity, stable for its lifetime. Useful for
// correlating log lines when several Trees run in parallel.
func (t *Tree) ID() uuid.UUID {
	return t.id
}

// RootCenter, RootExtent, and MinLeafExtent report the current root volume.
// RootCenter and RootExtent change as growRoot grows the tree; MinLeafExtent
// never does.
func (t *Tree) RootCenter() Vec3       { return t.rootCenter }
func (t *Tree) RootExtent() float64    { return t.rootExtent }
func (t *Tree) MinLeafExtent() float64 { return t.minLeafExtent }

// Size returns the number of Occupied leaves in the tree.
func (t *Tree) Size(ctx context.Context) int {
	return len(t.Leaves(ctx))
}

// String returns a one-line human-readable summary of the tree.
func (t *Tree) String() string {
	return fmt.Sprintf("octree %s: center=%v extent=%.4f occupied_leaves=%d",
		t.id, t.rootCenter, t.rootExtent, len(t.Leaves(context.Background())))
}

// Clone deep-copies the tree, including its arena. The clone has its own
// identity.
func (t *Tree) Clone(ctx context.Context) (*Tree, error) {
	dst := newArena()
	mapping := make(map[NodeHandle]NodeHandle)

	rootHandle, err := cloneNode(t.arena, dst, mapping, t.rootHandle)
	if err != nil {
		return nil, err
	}

	return &Tree{
		arena:         dst,
		rootHandle:    rootHandle,
		rootCenter:    t.rootCenter,
		rootExtent:    t.rootExtent,
		minLeafExtent: t.minLeafExtent,
		logger:        t.logger,
		id:            uuid.New(),
	}, nil
}

func cloneNode(src, dst *arena, mapping map[NodeHandle]NodeHandle, h NodeHandle) (NodeHandle, error) {
	if mapped, ok := mapping[h]; ok {
		return mapped, nil
	}

	n := src.node(h)
	newHandle, err := dst.newNode()
	if err != nil {
		return 0, err
	}
	mapping[h] = newHandle

	cloned := node{occupancy: n.occupancy}
	if !n.isLeaf() {
		oldChildren := src.children(n.childrenHandle)
		var newChildren [8]NodeHandle
		for i, ch := range oldChildren {
			nh, err := cloneNode(src, dst, mapping, ch)
			if err != nil {
				return 0, err
			}
			newChildren[i] = nh
		}
		cg, err := dst.newChildGroup(newChildren)
		if err != nil {
			return 0, err
		}
		cloned.childrenHandle = cg
	}
	dst.setNode(newHandle, cloned)
	return newHandle, nil
}
