// Package bitio implements the sequential, single-bit reader/writer over a
// byte buffer that the octree codec treats as an external capability: bits
// are packed MSB-first within each byte, and both ends of a round trip must
// agree on that order.
package bitio

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrTruncatedStream is returned by Reader.ReadBit when the underlying
// buffer has been fully consumed.
var ErrTruncatedStream = errors.New("bitio: truncated stream")

// Writer packs bits MSB-first into a growable byte buffer.
type Writer struct {
	buf    []byte
	bitLen int
	tracer *zap.Logger
}

// NewWriter returns a Writer with capacity preallocated for capacityBytes
// bytes. The buffer still grows past that if more bits are written.
func NewWriter(capacityBytes int) *Writer {
	if capacityBytes < 0 {
		capacityBytes = 0
	}
	return &Writer{buf: make([]byte, 0, capacityBytes)}
}

// SetTracer attaches a logger used to trace buffer growth past the
// preallocated capacity. Optional; nil disables tracing.
func (w *Writer) SetTracer(l *zap.Logger) {
	w.tracer = l
}

// WriteBit appends a single bit (0 or nonzero) to the stream.
func (w *Writer) WriteBit(bit uint8) {
	byteIdx := w.bitLen / 8
	if byteIdx >= len(w.buf) {
		if w.tracer != nil && byteIdx >= cap(w.buf) {
			w.tracer.Debug("bit writer buffer grew past preallocated capacity",
				zap.Int("preallocated_bytes", cap(w.buf)), zap.Int("needed_byte", byteIdx+1))
		}
		w.buf = append(w.buf, 0)
	}
	if bit != 0 {
		shift := uint(7 - w.bitLen%8)
		w.buf[byteIdx] |= 1 << shift
	}
	w.bitLen++
}

// Bytes returns the packed byte buffer, zero-padded in its final byte if
// bitLen is not a multiple of 8.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bits written so far.
func (w *Writer) Len() int {
	return w.bitLen
}

// Reader reads bits MSB-first, sequentially and forward-only, from a byte
// buffer.
type Reader struct {
	buf    []byte
	bitPos int
}

// NewReader wraps data for sequential bit reads. data is not copied.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// ReadBit returns the next bit (0 or 1), or ErrTruncatedStream once the
// buffer is exhausted.
func (r *Reader) ReadBit() (uint8, error) {
	byteIdx := r.bitPos / 8
	if byteIdx >= len(r.buf) {
		return 0, ErrTruncatedStream
	}
	shift := uint(7 - r.bitPos%8)
	bit := (r.buf[byteIdx] >> shift) & 1
	r.bitPos++
	return bit, nil
}

// Remaining returns the number of unread bits left in the buffer.
func (r *Reader) Remaining() int {
	return len(r.buf)*8 - r.bitPos
}
