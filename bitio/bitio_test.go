package bitio

import (
	"testing"

	"go.viam.com/test"
)

func TestWriteReadRoundTrip(t *testing.T) {
	t.Run("round trip arbitrary bit pattern", func(t *testing.T) {
		bits := []uint8{1, 1, 0, 1, 0, 0, 0, 1, 1, 0, 1}

		w := NewWriter(0)
		for _, b := range bits {
			w.WriteBit(b)
		}
		test.That(t, w.Len(), test.ShouldEqual, len(bits))

		r := NewReader(w.Bytes())
		for _, want := range bits {
			got, err := r.ReadBit()
			test.That(t, err, test.ShouldBeNil)
			test.That(t, got, test.ShouldEqual, want)
		}
	})

	t.Run("MSB first packing", func(t *testing.T) {
		w := NewWriter(1)
		// 1 0 1 0 0 0 0 0 -> 0xA0
		for _, b := range []uint8{1, 0, 1, 0, 0, 0, 0, 0} {
			w.WriteBit(b)
		}
		test.That(t, w.Bytes(), test.ShouldResemble, []byte{0xA0})
	})

	t.Run("read past end returns ErrTruncatedStream", func(t *testing.T) {
		r := NewReader([]byte{0xFF})
		for i := 0; i < 8; i++ {
			_, err := r.ReadBit()
			test.That(t, err, test.ShouldBeNil)
		}
		_, err := r.ReadBit()
		test.That(t, err, test.ShouldEqual, ErrTruncatedStream)
		test.That(t, r.Remaining(), test.ShouldEqual, 0)
	})

	t.Run("empty writer produces empty buffer", func(t *testing.T) {
		w := NewWriter(4)
		test.That(t, w.Bytes(), test.ShouldBeEmpty)
		test.That(t, w.Len(), test.ShouldEqual, 0)
	})
}
