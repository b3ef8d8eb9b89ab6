package xdr

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// zero-filled pad source; variable-length payloads need at most 3 pad bytes.
var zeroPad [3]byte

// padLen returns the number of zero bytes needed to align n to a 4-byte
// boundary.
func padLen(n int) int { return (4 - n%4) % 4 }

// Packer serializes primitive and composite values into a single growable
// byte buffer. All multi-byte values are encoded big-endian; variable-length
// data is length-prefixed and zero-padded to a 4-byte boundary.
//
// Every Pack method validates its input before appending, so a failed call
// leaves the buffer exactly as it was.
type Packer struct {
	buf []byte
}

// NewPacker returns an empty Packer.
func NewPacker() *Packer { return &Packer{} }

// Reset discards all buffered bytes, keeping the underlying storage for
// reuse.
func (p *Packer) Reset() { p.buf = p.buf[:0] }

// Len returns the number of bytes packed so far.
func (p *Packer) Len() int { return len(p.buf) }

// Bytes returns a snapshot copy of the bytes packed so far. The returned
// slice is independent of the Packer and remains valid after further packing
// or Reset.
func (p *Packer) Bytes() []byte {
	out := make([]byte, len(p.buf))
	copy(out, p.buf)
	return out
}

// PackUint appends v as a 4-byte big-endian unsigned integer. The argument
// is deliberately wider than the wire type so that out-of-range values,
// including negative ones, fail with ErrConversion instead of silently
// truncating.
func (p *Packer) PackUint(v int64) error {
	if v < 0 || v > math.MaxUint32 {
		return fmt.Errorf("%w: uint %d outside [0, 2^32-1]", ErrConversion, v)
	}
	p.buf = binary.BigEndian.AppendUint32(p.buf, uint32(v))
	return nil
}

// PackInt appends v as a 4-byte big-endian two's complement integer.
func (p *Packer) PackInt(v int64) error {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return fmt.Errorf("%w: int %d outside [-2^31, 2^31-1]", ErrConversion, v)
	}
	p.buf = binary.BigEndian.AppendUint32(p.buf, uint32(int32(v)))
	return nil
}

// PackHyper appends v as an 8-byte big-endian two's complement integer.
func (p *Packer) PackHyper(v int64) error {
	p.buf = binary.BigEndian.AppendUint64(p.buf, uint64(v))
	return nil
}

// PackFloat appends v as a 4-byte IEEE-754 big-endian single.
func (p *Packer) PackFloat(v float32) error {
	p.buf = binary.BigEndian.AppendUint32(p.buf, math.Float32bits(v))
	return nil
}

// PackDouble appends v as an 8-byte IEEE-754 big-endian double.
func (p *Packer) PackDouble(v float64) error {
	p.buf = binary.BigEndian.AppendUint64(p.buf, math.Float64bits(v))
	return nil
}

// PackFString appends exactly n bytes with no length prefix and no padding.
// The declared length n must equal len(s); both ends of the wire must know n
// out of band.
func (p *Packer) PackFString(n int, s []byte) error {
	if n < 0 {
		return fmt.Errorf("%w: fixed string length %d is negative", ErrConversion, n)
	}
	if len(s) != n {
		return fmt.Errorf("%w: fixed string declared %d bytes, got %d", ErrConversion, n, len(s))
	}
	p.buf = append(p.buf, s...)
	return nil
}

// PackFStringText is PackFString for text input; the string's UTF-8 bytes
// are packed as-is.
func (p *Packer) PackFStringText(n int, s string) error {
	return p.PackFString(n, []byte(s))
}

// PackFOpaque appends exactly n opaque bytes. Identical on the wire to
// PackFString.
func (p *Packer) PackFOpaque(n int, data []byte) error {
	if n < 0 {
		return fmt.Errorf("%w: fixed opaque length %d is negative", ErrConversion, n)
	}
	if len(data) != n {
		return fmt.Errorf("%w: fixed opaque declared %d bytes, got %d", ErrConversion, n, len(data))
	}
	p.buf = append(p.buf, data...)
	return nil
}

// PackString appends a 4-byte big-endian length prefix, the payload, and
// 0-3 zero bytes so that the total is a multiple of 4.
func (p *Packer) PackString(s []byte) error {
	if err := p.PackUint(int64(len(s))); err != nil {
		return err
	}
	p.buf = append(p.buf, s...)
	if pad := padLen(len(s)); pad > 0 {
		p.buf = append(p.buf, zeroPad[:pad]...)
	}
	return nil
}

// PackStringText is PackString for text input; the string's UTF-8 bytes are
// the payload.
func (p *Packer) PackStringText(s string) error {
	return p.PackString([]byte(s))
}

// PackOpaque appends variable-length opaque bytes. Identical on the wire to
// PackString.
func (p *Packer) PackOpaque(data []byte) error {
	return p.PackString(data)
}

// PackBytes is an alias for PackOpaque.
func (p *Packer) PackBytes(data []byte) error {
	return p.PackOpaque(data)
}

// Number constrains the "any numeric" inputs the format historically
// accepted for floating-point fields.
type Number interface {
	constraints.Integer | constraints.Float
}

// PackFloatOf packs any numeric value as a 4-byte single, converting at the
// call boundary.
func PackFloatOf[T Number](p *Packer, v T) error {
	return p.PackFloat(float32(v))
}

// PackDoubleOf packs any numeric value as an 8-byte double, converting at
// the call boundary.
func PackDoubleOf[T Number](p *Packer, v T) error {
	return p.PackDouble(float64(v))
}
