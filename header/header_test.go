package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/format"
	"github.com/sagahold/essedit/header"
)

func sampleHeader() *header.Header {
	return &header.Header{
		Magic:            format.MagicTESV,
		Version:          9,
		SaveIndex:        1,
		PlayerName:       "Dragonborn",
		PlayerLocation:   "Whiterun",
		GameDate:         "Day 3",
		PlayerRace:       "NordRace",
		Sex:              0,
		CurrentXP:        10.5,
		NeededXP:         100,
		FileTime:         123456789,
		ScreenshotWidth:  2,
		ScreenshotHeight: 1,
		Compression:      format.CompressionUncompressed,
		ScreenshotPixels: []byte{1, 2, 3, 4, 5, 6}, // 2x1 @ 3 bytes/pixel
	}
}

func TestHeaderRoundTripLE(t *testing.T) {
	h := sampleHeader()

	w := cursor.NewWriter()
	require.NoError(t, h.Write(w, format.GameSkyrimLE))

	r := cursor.New(w.Written())
	got, game, err := header.Read(r, "save.ess")
	require.NoError(t, err)
	assert.Equal(t, format.GameSkyrimLE, game)
	assert.Equal(t, h.PlayerName, got.PlayerName)
	assert.Equal(t, h.ScreenshotPixels, got.ScreenshotPixels)
	assert.Equal(t, 0, r.Len())
}

func TestHeaderRoundTripSEWithCompressionTag(t *testing.T) {
	h := sampleHeader()
	h.Version = 12
	h.Compression = format.CompressionZlib
	h.ScreenshotPixels = make([]byte, 2*1*4) // SE uses 4 bytes/pixel

	w := cursor.NewWriter()
	require.NoError(t, h.Write(w, format.GameSkyrimSE))

	r := cursor.New(w.Written())
	got, game, err := header.Read(r, "save.ess")
	require.NoError(t, err)
	assert.Equal(t, format.GameSkyrimSE, game)
	assert.Equal(t, format.CompressionZlib, got.Compression)
}

func TestHeaderUnknownMagic(t *testing.T) {
	r := cursor.New([]byte("JUNK0000"))
	_, _, err := header.Read(r, "")
	assert.Error(t, err)
}

func TestHeaderUnknownGameVersionCombo(t *testing.T) {
	w := cursor.NewWriter()
	w.WriteBytes([]byte(format.MagicFO4))
	w.WriteU32(0)
	w.WriteU32(3) // FO4_SAVEGAME requires version >= 11

	r := cursor.New(w.Written())
	_, game, err := header.Read(r, "")
	assert.Error(t, err)
	assert.Equal(t, format.GameUnknown, game)
}
