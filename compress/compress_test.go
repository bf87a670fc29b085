package compress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagahold/essedit/compress"
	"github.com/sagahold/essedit/format"
)

func TestNoOpRoundTrip(t *testing.T) {
	c := compress.NewNoOpCompressor()
	data := []byte("the quick brown fox")

	compressed, err := c.Compress(data)
	require.NoError(t, err)

	out, err := c.Decompress(compressed, len(data))
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestZlibRoundTrip(t *testing.T) {
	c := compress.NewZlibCompressor()
	data := []byte("repeated repeated repeated repeated repeated save data")

	compressed, err := c.Compress(data)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(data))

	out, err := c.Decompress(compressed, len(data))
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestLZ4RoundTrip(t *testing.T) {
	c := compress.NewLZ4Compressor()
	data := []byte("REFR00000000000000000000000000REFR00000000000000000000000000")

	compressed, err := c.Compress(data)
	require.NoError(t, err)

	out, err := c.Decompress(compressed, len(data))
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestLZ4EmptyInput(t *testing.T) {
	c := compress.NewLZ4Compressor()
	compressed, err := c.Compress(nil)
	require.NoError(t, err)
	assert.Nil(t, compressed)

	out, err := c.Decompress(nil, 0)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCreateCodecUnknownType(t *testing.T) {
	_, err := compress.CreateCodec(format.CompressionType(99))
	assert.Error(t, err)
}

func TestCreateCodecSelectsRightAlgorithm(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionUncompressed,
		format.CompressionZlib,
		format.CompressionLZ4,
	} {
		codec, err := compress.CreateCodec(ct)
		require.NoError(t, err)
		require.NotNil(t, codec)
	}
}
