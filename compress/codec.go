// Package compress provides the pluggable payload compression behind the
// value codec. A raw value buffer carries a one-byte compression tag; the
// codec selects the matching Codec here to pack or unpack the payload that
// follows the prefix.
//
// Four algorithms are available:
//
//   - None: identity, the default. Scalar payloads are 8-16 bytes and gain
//     nothing from compression.
//   - Zstd: best ratio, for large vector or string payloads.
//   - S2: fastest compression, a good default for medium vectors.
//   - LZ4: fastest decompression.
package compress

import (
	"fmt"

	"github.com/gridfed/cosim/errs"
)

// Compression identifies a payload compression algorithm. The values are
// part of the raw-buffer prefix and must not be reordered.
type Compression uint8

const (
	None Compression = 0x0 // None leaves the payload uncompressed.
	Zstd Compression = 0x1 // Zstd is Zstandard block compression.
	S2   Compression = 0x2 // S2 is the Snappy-compatible S2 format.
	LZ4  Compression = 0x3 // LZ4 is LZ4 block compression.
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Codec compresses and decompresses a complete value payload.
//
// Implementations are safe for concurrent use. Returned slices are owned by
// the caller; input slices are never modified.
type Codec interface {
	// Compress packs data and returns the packed form.
	Compress(data []byte) ([]byte, error)

	// Decompress unpacks data produced by the matching Compress.
	Decompress(data []byte) ([]byte, error)
}

// For returns the Codec implementing c.
func For(c Compression) (Codec, error) {
	switch c {
	case None:
		return NoOpCodec{}, nil
	case Zstd:
		return ZstdCodec{}, nil
	case S2:
		return S2Codec{}, nil
	case LZ4:
		return LZ4Codec{}, nil
	default:
		return nil, fmt.Errorf("%w: 0x%02x", errs.ErrUnsupportedCompression, uint8(c))
	}
}
