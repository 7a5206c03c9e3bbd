// Package cosim provides the value-federate interface layer of a
// co-simulation runtime: typed input endpoints that receive raw byte
// buffers from a federate core and materialise them into typed values with
// unit conversion, change detection and callback dispatch.
//
// # Core Concepts
//
//   - A federate is one simulator participating in a co-simulation.
//   - An input is a federate-local endpoint fed by one or more
//     publications; each cycle's raw buffers reduce to one observable
//     tagged value.
//   - The federate core (the federate.Core interface) moves bytes and
//     advances time; this layer never touches the wire.
//
// # Basic Usage
//
// Declare inputs during startup, advance the lifecycle, then scan after
// every time grant:
//
//	reg, _ := cosim.NewRegistry(core)
//	load, _ := reg.Register("grid/load", "double",
//	    federate.WithUnits("kW"),
//	    federate.WithMinimumChange(0.5),
//	)
//	load.OnDouble(func(in *federate.Input, v float64, t value.Time) {
//	    fmt.Printf("load=%f at %s\n", v, t)
//	})
//
//	reg.EnterInitializing()
//	load.SetDefault(value.Double(0))
//	reg.EnterExecuting()
//
//	for {
//	    t := advanceTime() // blocking call into the core
//	    reg.ProcessUpdates(t)
//	}
//
// # Package Structure
//
// This package offers convenience constructors over the subpackages:
// federate (inputs, registry, change detection), value (the tagged
// container and conversions), codec (the self-describing wire form), units
// (unit parsing and linear conversion) and compress (payload compression).
package cosim

import (
	"github.com/gridfed/cosim/codec"
	"github.com/gridfed/cosim/compress"
	"github.com/gridfed/cosim/federate"
)

// NewRegistry creates the input registry for a federate backed by core,
// using the default codec: little-endian, uncompressed.
func NewRegistry(core federate.Core, opts ...federate.RegistryOption) (*federate.Registry, error) {
	return federate.NewRegistry(core, opts...)
}

// NewCodec creates a value codec with custom options.
//
// Available options:
//   - codec.WithLittleEndian() / codec.WithBigEndian()
//   - codec.WithCompression(compress.None|Zstd|S2|LZ4)
func NewCodec(opts ...codec.Option) (*codec.Codec, error) {
	return codec.New(opts...)
}

// NewCompressedCodec creates a value codec that compresses payloads with
// the given algorithm. Payloads that do not shrink are stored raw, so the
// choice only affects large vectors and strings.
func NewCompressedCodec(comp compress.Compression) (*codec.Codec, error) {
	return codec.New(codec.WithCompression(comp))
}
