package compress

import "github.com/klauspost/compress/s2"

// S2Codec compresses payloads with the S2 block format.
type S2Codec struct{}

var _ Codec = S2Codec{}

// Compress packs data with S2 block encoding.
func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress unpacks an S2 block.
func (S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
