package compress

import (
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/sagahold/essedit/errs"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains internal state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor implements Codec over raw LZ4 block framing, used by
// Skyrim SE/Switch saves that select LZ4 body compression.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
//
// Returns:
//   - LZ4Compressor: New LZ4 compressor instance
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using a single LZ4 block.
//
// Parameters:
//   - data: Input data to compress
//
// Returns:
//   - []byte: Compressed data (nil if input is empty)
//   - error: Compression error if any
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dstSize := lz4.CompressBlockBound(len(data))
	dst := make([]byte, dstSize)

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCompression, err)
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block into a buffer of exactly
// uncompressedSize bytes. Unlike a general-purpose LZ4 consumer this never
// guesses and regrows: the container framing always carries the exact
// uncompressed length ahead of the compressed body.
//
// Parameters:
//   - data: Compressed data to decompress
//   - uncompressedSize: exact decompressed length, taken from the container framing
//
// Returns:
//   - []byte: Decompressed data (nil if both inputs are empty)
//   - error: decompression error, or errs.ErrPositionMismatch if the block decoded to a different length
func (c LZ4Compressor) Decompress(data []byte, uncompressedSize int) ([]byte, error) {
	if len(data) == 0 && uncompressedSize == 0 {
		return nil, nil
	}

	dst := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCompression, err)
	}
	if n != uncompressedSize {
		return nil, errs.ErrPositionMismatch
	}

	return dst, nil
}
