package octree

import "github.com/pkg/errors"

// maxGrowthIterations bounds add_point's root-growth retry loop. Each growth
// doubles the root extent, so 20 doublings cover a 10^6x span -- far beyond
// any practical input; more than that indicates numeric pathology upstream.
const maxGrowthIterations = 20

var (
	// ErrGrowthLimitExceeded is returned by AddPoint when the root could not
	// be grown to contain the point within maxGrowthIterations attempts. The
	// root is left expanded by whatever partial growth already happened.
	ErrGrowthLimitExceeded = errors.New("growth limit exceeded")

	// ErrCorruptBitstream is returned by FromBitstream when the stream ends
	// mid-descriptor. The partially decoded tree is discarded.
	ErrCorruptBitstream = errors.New("corrupt bitstream")

	// ErrAllocatorExhausted is returned when a handle counter wraps around.
	ErrAllocatorExhausted = errors.New("allocator exhausted")
)
