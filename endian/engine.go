// Package endian provides the byte-order engine used by the value codec.
//
// It merges encoding/binary's ByteOrder and AppendByteOrder interfaces into
// one Engine interface so a codec can both read fixed-width fields and
// append them to a growing buffer through a single dependency. The standard
// binary.LittleEndian and binary.BigEndian values satisfy the interface
// directly, so the engine carries no state of its own.
package endian

import "encoding/binary"

// Engine combines read and append byte-order operations.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Little returns the little-endian engine, the default wire order.
func Little() Engine {
	return binary.LittleEndian
}

// Big returns the big-endian engine.
func Big() Engine {
	return binary.BigEndian
}

// IsBig reports whether e is the big-endian engine.
func IsBig(e Engine) bool {
	return e == binary.BigEndian
}
