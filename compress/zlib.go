package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/sagahold/essedit/errs"
)

// ZlibCompressor implements Codec over klauspost/compress's zlib package
// (a drop-in, faster replacement for stdlib compress/zlib, carried from the
// teacher's own dependency set), used by Skyrim SE/Switch saves that
// select zlib body compression.
type ZlibCompressor struct{}

var _ Codec = (*ZlibCompressor)(nil)

// NewZlibCompressor creates a new zlib compressor.
func NewZlibCompressor() ZlibCompressor {
	return ZlibCompressor{}
}

// Compress compresses data using zlib at the default compression level.
func (c ZlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%w: %w", errs.ErrCompression, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCompression, err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream into a buffer of exactly
// uncompressedSize bytes, taken from the container framing.
func (c ZlibCompressor) Decompress(data []byte, uncompressedSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCompression, err)
	}
	defer r.Close()

	dst := make([]byte, uncompressedSize)
	n, err := io.ReadFull(r, dst)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("%w: %w", errs.ErrCompression, err)
	}
	if n != uncompressedSize {
		return nil, errs.ErrPositionMismatch
	}

	return dst, nil
}
