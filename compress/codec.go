package compress

import (
	"fmt"

	"github.com/sagahold/essedit/format"
)

// Compressor compresses a change-form/global-data body ahead of writing it
// to the container: the whole body after the header is optionally
// compressed as a single unit.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor. Since the container framing always
// records the exact uncompressed length up front, a
// Decompressor sizes its output buffer exactly instead of guessing.
type Decompressor interface {
	// Decompress decompresses data into a buffer of exactly uncompressedSize
	// bytes.
	Decompress(data []byte, uncompressedSize int) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec for the
// compression algorithm recorded in a save's header.
func CreateCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionUncompressed:
		return NewNoOpCompressor(), nil
	case format.CompressionZlib:
		return NewZlibCompressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("essedit: unsupported compression type: %s", compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionUncompressed: NewNoOpCompressor(),
	format.CompressionZlib:         NewZlibCompressor(),
	format.CompressionLZ4:          NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("essedit: unsupported compression type: %s", compressionType)
}
