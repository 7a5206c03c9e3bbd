package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4Pool reuses lz4.Compressor instances; the compressor keeps internal
// hash tables worth carrying across calls.
var lz4Pool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Codec compresses payloads with LZ4 block encoding. LZ4 trades ratio
// for the fastest decompression of the supported algorithms.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

// Compress packs data as a single LZ4 block. Incompressible input yields an
// empty result; callers fall back to storing the payload uncompressed.
func (LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4Pool.Get().(*lz4.Compressor)
	defer lz4Pool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress unpacks an LZ4 block. The block format does not record the
// output size, so the buffer starts at four times the input and doubles on
// demand, capped to keep corrupted input from exhausting memory.
func (LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	bufSize := len(data) * 4
	const maxSize = 128 * 1024 * 1024

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}

			return nil, err
		}

		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}
