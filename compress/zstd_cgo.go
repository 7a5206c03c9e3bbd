//go:build cgo

package compress

import "github.com/valyala/gozstd"

// Compress packs data with Zstandard through the cgo bindings.
func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress unpacks a Zstandard frame through the cgo bindings.
func (ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
