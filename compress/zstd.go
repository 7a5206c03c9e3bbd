package compress

// ZstdCodec compresses payloads with Zstandard. It offers the best ratio of
// the supported algorithms and suits large vector and string payloads.
//
// Two implementations exist: a cgo binding used when cgo is available and a
// pure-Go fallback otherwise. Both produce standard Zstandard frames and
// interoperate freely.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}
