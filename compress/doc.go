// Package compress provides the whole-body compression codecs used by the
// container format: zlib, LZ4, and a no-op passthrough.
//
// # Overview
//
// A save's header records a compression type alongside the rest of its
// fixed fields. Everything after the header, from the form version through
// the trailing block, is optionally compressed as a single unit before
// being written.
// Reading reverses this: the container inflates the body before parsing
// anything past the header.
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte, uncompressedSize int) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Decompressor takes the exact uncompressed length because the container
// framing always records it up front; callers never need to guess a buffer
// size or grow one adaptively.
//
// # Supported algorithms
//
// NoOp (format.CompressionUncompressed) returns data unchanged. LE and
// FO4 saves have no body compression field at all, and SE/Switch saves
// may record CompressionUncompressed.
//
// Zlib (format.CompressionZlib) wraps github.com/klauspost/compress/zlib,
// a drop-in replacement for stdlib compress/zlib. This is the most common
// compression type written by the game for SE/Switch saves.
//
// LZ4 (format.CompressionLZ4) wraps github.com/pierrec/lz4's raw block
// API (not the frame format) since the container already carries its own
// length framing around the compressed block.
//
// # Selection
//
//	codec, err := compress.CreateCodec(hdr.Compression)
//	body, err := codec.Decompress(compressedBody, uncompressedLen)
//
// where uncompressedLen is the length recorded in the body framing that
// follows the header.
//
// # Thread safety
//
// All codec values are stateless (NoOp, Zlib) or pool their mutable
// scratch state internally (LZ4's block compressor), so a single Codec can
// be shared across goroutines reading or writing independent saves.
package compress
