package cursor_test

import (
	"testing"

	"github.com/sagahold/essedit/cursor"
	"github.com/stretchr/testify/require"
)

func TestVSValRoundTripLaw(t *testing.T) {
	values := []uint32{0, 1, 62, 63, 64, 65, 16383, 16384, 16385, 4194302, 4194303}
	for _, n := range values {
		enc, err := cursor.EncodeVSVal(n)
		require.NoError(t, err)

		got, consumed, err := cursor.DecodeVSVal(enc)
		require.NoError(t, err)
		require.Equal(t, n, got)
		require.Equal(t, len(enc), consumed)
	}
}

func TestVSValMinimalSizeClass(t *testing.T) {
	cases := []struct {
		n    uint32
		size int
	}{
		{0, 1},
		{63, 1},
		{64, 2},
		{16383, 2},
		{16384, 3},
		{4194303, 3},
	}
	for _, c := range cases {
		enc, err := cursor.EncodeVSVal(c.n)
		require.NoError(t, err)
		require.Lenf(t, enc, c.size, "n=%d", c.n)
	}
}

func TestVSValOverflowRejected(t *testing.T) {
	_, err := cursor.EncodeVSVal(4194304)
	require.Error(t, err)
}

func TestVSValCursorRoundTrip(t *testing.T) {
	w := cursor.NewWriter()
	require.NoError(t, w.WriteVSVal(16384))
	require.NoError(t, w.WriteVSVal(3))

	r := cursor.New(w.Written())
	v1, err := r.ReadVSVal()
	require.NoError(t, err)
	require.Equal(t, uint32(16384), v1)

	v2, err := r.ReadVSVal()
	require.NoError(t, err)
	require.Equal(t, uint32(3), v2)
}
