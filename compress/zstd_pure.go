//go:build !cgo

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// The klauspost zstd encoder and decoder are designed for reuse and operate
// without allocations after warmup, so both are pooled.
var zstdEncoderPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd encoder pool: %v", err))
		}
		return enc
	},
}

var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd decoder pool: %v", err))
		}
		return dec
	},
}

// Compress packs data with Zstandard.
func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	enc, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(data, nil), nil
}

// Decompress unpacks a Zstandard frame.
func (ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)

	return dec.DecodeAll(data, nil)
}
