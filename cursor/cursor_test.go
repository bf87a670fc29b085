package cursor_test

import (
	"testing"

	"github.com/sagahold/essedit/cursor"
	"github.com/stretchr/testify/require"
)

func TestCursorPrimitivesRoundTrip(t *testing.T) {
	w := cursor.NewWriter()
	w.WriteU8(0xAB)
	w.WriteI16(-1234)
	w.WriteU32(0xDEADBEEF)
	w.WriteI64(-1)
	w.WriteF32(3.5)
	w.WriteF64(-2.25)
	require.NoError(t, w.WriteLString("Skyrim.esm"))

	r := cursor.New(w.Written())

	u8, err := r.ReadU8()
	require.NoError(t, err)
	require.Equal(t, uint8(0xAB), u8)

	i16, err := r.ReadI16()
	require.NoError(t, err)
	require.Equal(t, int16(-1234), i16)

	u32, err := r.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u32)

	i64, err := r.ReadI64()
	require.NoError(t, err)
	require.Equal(t, int64(-1), i64)

	f32, err := r.ReadF32()
	require.NoError(t, err)
	require.InDelta(t, 3.5, f32, 0)

	f64, err := r.ReadF64()
	require.NoError(t, err)
	require.InDelta(t, -2.25, f64, 0)

	s, err := r.ReadLString()
	require.NoError(t, err)
	require.Equal(t, "Skyrim.esm", s)
}

func TestCursorUnderflow(t *testing.T) {
	r := cursor.New([]byte{0x01, 0x02})
	_, err := r.ReadU32()
	require.Error(t, err)
}

func TestCursorSliceIsIndependent(t *testing.T) {
	r := cursor.New([]byte{1, 2, 3, 4, 5, 6})
	sub, err := r.Slice(4)
	require.NoError(t, err)
	require.Equal(t, 4, sub.Len())
	require.Equal(t, 2, r.Len())

	b, err := sub.ReadBytes(4)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, b)

	_, err = sub.ReadU8()
	require.Error(t, err, "sub-cursor must not read past its own limit")

	rest, err := r.ReadBytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte{5, 6}, rest)
}
