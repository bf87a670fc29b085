package flags_test

import (
	"testing"

	"github.com/sagahold/essedit/flags"
	"github.com/stretchr/testify/require"
)

func TestFlags32Immutability(t *testing.T) {
	var f flags.Flags32
	g := f.With(5)
	require.True(t, g.Get(5))
	require.False(t, f.Get(5), "original must be unchanged")

	h := g.Without(5)
	require.False(t, h.Get(5))
	require.True(t, g.Get(5), "With()'s result must be unchanged by a later Without()")
}

func TestFlags32OtherBitsPreserved(t *testing.T) {
	f := flags.Flags32(0).With(0).With(31)
	g := f.Without(0)
	require.False(t, g.Get(0))
	require.True(t, g.Get(31))
}

func TestFlags8GetAnyAllZero(t *testing.T) {
	var f flags.Flags8
	require.True(t, f.AllZero())
	f = f.With(2)
	require.False(t, f.AllZero())
	require.True(t, f.GetAny(1, 2, 3))
	require.False(t, f.GetAny(1, 3))
}

func TestBitHas(t *testing.T) {
	const havok flags.Bit = 4
	f := flags.Flags32(0).With(4)
	require.True(t, havok.Has(f))
}
