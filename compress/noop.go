package compress

// NoOpCodec passes payloads through untouched. It is the default codec:
// most publications are scalars whose payloads are smaller than any
// compression header.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

// Compress returns data unchanged. The result shares the input's memory.
func (NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged. The result shares the input's memory.
func (NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
