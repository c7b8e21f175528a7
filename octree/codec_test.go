package octree

import (
	"context"
	"testing"

	"github.com/edaniels/golog"
	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"
)

func TestEncodeEmptyTreeIsEmptyStream(t *testing.T) {
	ctx := context.Background()
	tr := newTestTree(t, Vec3{}, 8, 1)

	data, err := tr.Encode(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, data, test.ShouldBeEmpty)
}

// Scenario 5: encode a populated tree, decode it back via FromBitstream
// using the same Config, and confirm the occupied leaves match.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := Config{RootCenter: Vec3{}, RootExtent: 8, MinLeafExtent: 1}
	tr := newTestTree(t, cfg.RootCenter, cfg.RootExtent, cfg.MinLeafExtent)

	test.That(t, tr.AddPoint(ctx, Vec3{X: 0.5, Y: 0.5, Z: 0.5}), test.ShouldBeNil)
	test.That(t, tr.AddPoint(ctx, Vec3{X: -3.5, Y: -3.5, Z: -3.5}), test.ShouldBeNil)
	// The ray runs through leaf interiors (y = z = 3.25), not along leaf
	// edges, so it frees only some children of each node it crosses and
	// leaves no all-Free group for validate to report.
	test.That(t, tr.AddRay(ctx, Vec3{X: -4, Y: 3.25, Z: 3.25}, Vec3{X: 3.5, Y: 3.25, Z: 3.25}), test.ShouldBeNil)

	data, err := tr.Encode(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, data, test.ShouldNotBeEmpty)

	decoded, err := FromBitstream(ctx, cfg, golog.NewTestLogger(t), data)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, decoded.validate(ctx), test.ShouldBeNil)

	want := tr.Leaves(ctx)
	got := decoded.Leaves(ctx)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded leaves diverged from the original tree's leaves:\n%s", diff)
	}
}

func TestFromBitstreamEmptyDataYieldsEmptyRoot(t *testing.T) {
	ctx := context.Background()
	cfg := Config{RootCenter: Vec3{}, RootExtent: 8, MinLeafExtent: 1}

	tr, err := FromBitstream(ctx, cfg, golog.NewTestLogger(t), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tr.Leaves(ctx), test.ShouldBeEmpty)
}

func TestFromBitstreamTruncatedStreamErrors(t *testing.T) {
	ctx := context.Background()
	cfg := Config{RootCenter: Vec3{}, RootExtent: 8, MinLeafExtent: 1}
	tr := newTestTree(t, cfg.RootCenter, cfg.RootExtent, cfg.MinLeafExtent)

	test.That(t, tr.AddPoint(ctx, Vec3{X: 0.5, Y: 0.5, Z: 0.5}), test.ShouldBeNil)
	data, err := tr.Encode(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(data), test.ShouldBeGreaterThan, 0)

	_, err = FromBitstream(ctx, cfg, golog.NewTestLogger(t), data[:len(data)-1])
	test.That(t, err, test.ShouldNotBeNil)
}

func TestEncodeDecodeRoundTripOnCloned(t *testing.T) {
	ctx := context.Background()
	cfg := Config{RootCenter: Vec3{}, RootExtent: 8, MinLeafExtent: 1}
	tr := newTestTree(t, cfg.RootCenter, cfg.RootExtent, cfg.MinLeafExtent)
	test.That(t, tr.AddPoint(ctx, Vec3{X: 1.5, Y: 1.5, Z: 1.5}), test.ShouldBeNil)

	clone, err := tr.Clone(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, clone.ID(), test.ShouldNotEqual, tr.ID())
	test.That(t, clone.Leaves(ctx), test.ShouldResemble, tr.Leaves(ctx))

	data, err := clone.Encode(ctx)
	test.That(t, err, test.ShouldBeNil)
	decoded, err := FromBitstream(ctx, cfg, golog.NewTestLogger(t), data)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, decoded.Leaves(ctx), test.ShouldResemble, tr.Leaves(ctx))
}
