package octree

import (
	"context"

	"github.com/pkg/errors"

	"github.com/alexander-scott/octomap-go/bitio"
)

// Marshaler is satisfied by any type that can serialize itself into the
// tree's bit-packed wire format. Tree satisfies it via Encode.
type Marshaler interface {
	Encode(ctx context.Context) ([]byte, error)
}

// Encode serializes the tree's topology and leaf states into a bit-packed
// byte stream. The root itself is never described by a descriptor -- it is
// always treated as internal; decoding assumes the stream's first 16 bits
// (if any) describe the root's eight children. A root with no children
// encodes to an empty stream.
func (t *Tree) Encode(ctx context.Context) ([]byte, error) {
	w := bitio.NewWriter(2 * t.countInternalNodes(t.rootHandle))
	if err := t.encodeNode(ctx, w, t.rootHandle); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (t *Tree) countInternalNodes(h NodeHandle) int {
	n := t.arena.node(h)
	if n.isLeaf() {
		return 0
	}
	count := 1
	for _, ch := range t.arena.children(n.childrenHandle) {
		count += t.countInternalNodes(ch)
	}
	return count
}

// encodeNode emits the two-bit descriptor for each of h's eight children,
// then recurses into every INNER child in slot order. If h is itself a
// leaf, nothing is emitted -- this is how an empty-root tree serializes to
// an empty stream.
func (t *Tree) encodeNode(ctx context.Context, w *bitio.Writer, h NodeHandle) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n := t.arena.node(h)
	if n.isLeaf() {
		return nil
	}

	children := t.arena.children(n.childrenHandle)
	var inner [8]bool
	for slot, ch := range children {
		cn := t.arena.node(ch)
		switch {
		case !cn.isLeaf():
			w.WriteBit(1)
			w.WriteBit(1)
			inner[slot] = true
		case cn.occupancy == Free:
			w.WriteBit(1)
			w.WriteBit(0)
		case cn.occupancy == Occupied:
			w.WriteBit(0)
			w.WriteBit(1)
		default: // Unknown
			w.WriteBit(0)
			w.WriteBit(0)
		}
	}

	for slot, isInner := range inner {
		if !isInner {
			continue
		}
		if err := t.encodeNode(ctx, w, children[slot]); err != nil {
			return err
		}
	}
	return nil
}

// decodeInto rebuilds t's subtree below its root from a bit stream
// previously produced by Encode. The decoder never prunes -- the
// stream's shape is authoritative.
func decodeInto(ctx context.Context, t *Tree, data []byte) error {
	r := bitio.NewReader(data)
	if r.Remaining() == 0 {
		return nil
	}
	return t.decodeNode(ctx, r, t.rootHandle)
}

func (t *Tree) decodeNode(ctx context.Context, r *bitio.Reader, h NodeHandle) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var handles [8]NodeHandle
	for i := range handles {
		nh, err := t.arena.newNode()
		if err != nil {
			return err
		}
		handles[i] = nh
	}
	cg, err := t.arena.newChildGroup(handles)
	if err != nil {
		return err
	}

	n := t.arena.node(h)
	n.childrenHandle = cg
	t.arena.setNode(h, n)

	var inner [8]bool
	for slot := 0; slot < 8; slot++ {
		first, err := r.ReadBit()
		if err != nil {
			return errors.Wrap(ErrCorruptBitstream, err.Error())
		}
		second, err := r.ReadBit()
		if err != nil {
			return errors.Wrap(ErrCorruptBitstream, err.Error())
		}

		child := t.arena.node(handles[slot])
		switch {
		case first == 1 && second == 1:
			inner[slot] = true
		case first == 1 && second == 0:
			child.occupancy = Free
		case first == 0 && second == 1:
			child.occupancy = Occupied
		default:
			child.occupancy = Unknown
		}
		t.arena.setNode(handles[slot], child)
	}

	for slot, isInner := range inner {
		if !isInner {
			continue
		}
		if err := t.decodeNode(ctx, r, handles[slot]); err != nil {
			return err
		}
	}
	return nil
}
