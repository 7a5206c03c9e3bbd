// Package codec serialises primary values to self-describing raw buffers
// and materialises them back.
//
// A raw buffer is a two-byte prefix followed by the payload:
//
//	byte 0   type tag: bits 0-3 hold the kind ordinal, bit 7 marks a
//	         big-endian payload
//	byte 1   compression tag (see the compress package)
//	byte 2+  payload, compressed when the compression tag says so
//
// The prefix makes every buffer decodable without out-of-band schema: the
// decoder never consults the codec's own configuration, only the buffer.
// Encode and Decode are exact inverses for every primary value.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gridfed/cosim/compress"
	"github.com/gridfed/cosim/endian"
	"github.com/gridfed/cosim/errs"
	"github.com/gridfed/cosim/internal/options"
	"github.com/gridfed/cosim/internal/pool"
	"github.com/gridfed/cosim/value"
)

const (
	prefixSize   = 2
	kindMask     = 0x0F
	bigEndianBit = 0x80
)

// Codec encodes primary values with a fixed byte order and compression
// policy, and decodes any self-describing buffer regardless of how it was
// produced. The zero-cost default is little-endian, uncompressed.
type Codec struct {
	engine endian.Engine
	comp   compress.Compression
	packer compress.Codec
}

// Option configures a Codec.
type Option = options.Option[*Codec]

// WithLittleEndian selects little-endian payloads (the default).
func WithLittleEndian() Option {
	return options.NoError(func(c *Codec) {
		c.engine = endian.Little()
	})
}

// WithBigEndian selects big-endian payloads.
func WithBigEndian() Option {
	return options.NoError(func(c *Codec) {
		c.engine = endian.Big()
	})
}

// WithCompression selects the payload compression applied on encode.
// Payloads that do not shrink are stored uncompressed regardless.
func WithCompression(comp compress.Compression) Option {
	return options.New(func(c *Codec) error {
		packer, err := compress.For(comp)
		if err != nil {
			return err
		}
		c.comp = comp
		c.packer = packer

		return nil
	})
}

// New creates a Codec with the given options.
func New(opts ...Option) (*Codec, error) {
	c := &Codec{
		engine: endian.Little(),
		comp:   compress.None,
		packer: compress.NoOpCodec{},
	}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// Default returns the default codec: little-endian, uncompressed.
func Default() *Codec {
	c, _ := New()
	return c
}

// PeekKind reports the kind encoded in buf without decoding the payload.
func PeekKind(buf []byte) (value.Kind, error) {
	if len(buf) < prefixSize {
		return value.KindUnknown, fmt.Errorf("%w: %d bytes", errs.ErrBufferTooShort, len(buf))
	}
	k := value.Kind(buf[0] & kindMask)
	if !k.Primary() {
		return value.KindUnknown, fmt.Errorf("%w: type tag 0x%02x", errs.ErrDecode, buf[0])
	}

	return k, nil
}

// Encode serialises v into a new raw buffer.
func (c *Codec) Encode(v value.Value) ([]byte, error) {
	if !v.Kind().Primary() {
		return nil, fmt.Errorf("%w: cannot encode kind %s", errs.ErrInvalidType, v.Kind())
	}

	bb := pool.GetBuffer()
	defer pool.PutBuffer(bb)
	bb.B = appendPayload(bb.B, c.engine, v)

	payload := bb.Bytes()
	comp := c.comp
	if comp != compress.None {
		packed, err := c.packer.Compress(payload)
		if err != nil {
			return nil, err
		}
		if len(packed) == 0 || len(packed) >= len(payload) {
			comp = compress.None
		} else {
			payload = packed
		}
	}

	tag := byte(v.Kind())
	if endian.IsBig(c.engine) {
		tag |= bigEndianBit
	}

	out := make([]byte, 0, prefixSize+len(payload))
	out = append(out, tag, byte(comp))
	out = append(out, payload...)

	return out, nil
}

// Decode materialises the value encoded in buf. The buffer's own prefix
// determines kind, byte order and compression; the codec configuration
// plays no part.
func (c *Codec) Decode(buf []byte) (value.Value, error) {
	k, err := PeekKind(buf)
	if err != nil {
		return value.Value{}, err
	}

	engine := endian.Little()
	if buf[0]&bigEndianBit != 0 {
		engine = endian.Big()
	}

	packer, err := compress.For(compress.Compression(buf[1]))
	if err != nil {
		return value.Value{}, err
	}
	payload, err := packer.Decompress(buf[prefixSize:])
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: %v", errs.ErrDecode, err)
	}

	return decodePayload(k, engine, payload)
}

func appendPayload(b []byte, engine endian.Engine, v value.Value) []byte {
	switch v.Kind() {
	case value.KindDouble:
		return engine.AppendUint64(b, math.Float64bits(v.AsDouble()))
	case value.KindInt:
		return engine.AppendUint64(b, uint64(v.AsInt()))
	case value.KindString:
		return append(b, v.AsString()...)
	case value.KindComplex:
		cv := v.AsComplex()
		b = engine.AppendUint64(b, math.Float64bits(real(cv)))
		return engine.AppendUint64(b, math.Float64bits(imag(cv)))
	case value.KindVector:
		for _, d := range v.AsVector() {
			b = engine.AppendUint64(b, math.Float64bits(d))
		}
		return b
	case value.KindComplexVector:
		for _, cv := range v.AsComplexVector() {
			b = engine.AppendUint64(b, math.Float64bits(real(cv)))
			b = engine.AppendUint64(b, math.Float64bits(imag(cv)))
		}
		return b
	case value.KindNamedPoint:
		np := v.AsNamed()
		b = binary.AppendUvarint(b, uint64(len(np.Name)))
		b = append(b, np.Name...)
		return engine.AppendUint64(b, math.Float64bits(np.Value))
	case value.KindBool:
		if v.AsBool() {
			return append(b, 1)
		}
		return append(b, 0)
	case value.KindTime:
		return engine.AppendUint64(b, uint64(v.AsTime().Nanoseconds()))
	default:
		return b
	}
}

func decodePayload(k value.Kind, engine endian.Engine, payload []byte) (value.Value, error) {
	badLen := func() error {
		return fmt.Errorf("%w: %s payload of %d bytes", errs.ErrDecode, k, len(payload))
	}

	switch k {
	case value.KindDouble:
		if len(payload) != 8 {
			return value.Value{}, badLen()
		}
		return value.Double(math.Float64frombits(engine.Uint64(payload))), nil
	case value.KindInt:
		if len(payload) != 8 {
			return value.Value{}, badLen()
		}
		return value.Int(int64(engine.Uint64(payload))), nil
	case value.KindString:
		return value.String(string(payload)), nil
	case value.KindComplex:
		if len(payload) != 16 {
			return value.Value{}, badLen()
		}
		re := math.Float64frombits(engine.Uint64(payload[:8]))
		im := math.Float64frombits(engine.Uint64(payload[8:]))
		return value.Complex(complex(re, im)), nil
	case value.KindVector:
		if len(payload)%8 != 0 {
			return value.Value{}, badLen()
		}
		vec := make([]float64, len(payload)/8)
		for i := range vec {
			vec[i] = math.Float64frombits(engine.Uint64(payload[i*8:]))
		}
		return value.Vector(vec), nil
	case value.KindComplexVector:
		if len(payload)%16 != 0 {
			return value.Value{}, badLen()
		}
		vec := make([]complex128, len(payload)/16)
		for i := range vec {
			re := math.Float64frombits(engine.Uint64(payload[i*16:]))
			im := math.Float64frombits(engine.Uint64(payload[i*16+8:]))
			vec[i] = complex(re, im)
		}
		return value.ComplexVector(vec), nil
	case value.KindNamedPoint:
		nameLen, n := binary.Uvarint(payload)
		if n <= 0 || uint64(len(payload)) != uint64(n)+nameLen+8 {
			return value.Value{}, badLen()
		}
		name := string(payload[n : uint64(n)+nameLen])
		num := math.Float64frombits(engine.Uint64(payload[uint64(n)+nameLen:]))
		return value.Named(name, num), nil
	case value.KindBool:
		if len(payload) != 1 {
			return value.Value{}, badLen()
		}
		return value.Bool(payload[0] != 0), nil
	case value.KindTime:
		if len(payload) != 8 {
			return value.Value{}, badLen()
		}
		return value.Timestamp(value.TimeFromNanoseconds(int64(engine.Uint64(payload)))), nil
	default:
		return value.Value{}, fmt.Errorf("%w: kind %s", errs.ErrDecode, k)
	}
}
