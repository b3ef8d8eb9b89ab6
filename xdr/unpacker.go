package xdr

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Unpacker decodes values sequentially from an immutable byte buffer,
// tracking a read cursor. It mirrors Packer operation for operation; calls
// must be issued in the exact order the values were packed.
//
// Every decode checks bounds before moving the cursor, so a failed call
// leaves the cursor exactly where it was. Decoded byte slices alias the
// source buffer; callers that mutate or outlive the buffer must copy.
type Unpacker struct {
	data []byte
	pos  int
}

// NewUnpacker returns an Unpacker positioned at the start of data.
func NewUnpacker(data []byte) *Unpacker { return &Unpacker{data: data} }

// Reset reseeds the Unpacker with new data and rewinds the cursor to 0.
func (u *Unpacker) Reset(data []byte) {
	u.data = data
	u.pos = 0
}

// Position returns the current cursor offset.
func (u *Unpacker) Position() int { return u.pos }

// SetPosition moves the cursor to an absolute offset. The end of the buffer
// is a valid position; anything negative or beyond it fails with ErrRange.
func (u *Unpacker) SetPosition(pos int) error {
	if pos < 0 || pos > len(u.data) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrRange, pos, len(u.data))
	}
	u.pos = pos
	return nil
}

// Remaining returns the undecoded tail of the source buffer without moving
// the cursor.
func (u *Unpacker) Remaining() []byte { return u.data[u.pos:] }

// Done fails with ErrUnreadData if the cursor has not reached the end of
// the buffer. It is an opt-in assertion for callers that expect full
// consumption; nothing enforces it automatically.
func (u *Unpacker) Done() error {
	if u.pos < len(u.data) {
		return fmt.Errorf("%w: %d bytes left at position %d", ErrUnreadData, len(u.data)-u.pos, u.pos)
	}
	return nil
}

// need verifies that n more bytes are available at the cursor.
func (u *Unpacker) need(n int) error {
	if n > len(u.data)-u.pos {
		return fmt.Errorf("%w: need %d bytes at position %d, have %d",
			ErrDataTooShort, n, u.pos, len(u.data)-u.pos)
	}
	return nil
}

// UnpackUint decodes a 4-byte big-endian unsigned integer.
func (u *Unpacker) UnpackUint() (uint32, error) {
	if err := u.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(u.data[u.pos:])
	u.pos += 4
	return v, nil
}

// UnpackInt decodes a 4-byte big-endian two's complement integer.
func (u *Unpacker) UnpackInt() (int32, error) {
	v, err := u.UnpackUint()
	return int32(v), err
}

// UnpackHyper decodes an 8-byte big-endian two's complement integer.
func (u *Unpacker) UnpackHyper() (int64, error) {
	if err := u.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(u.data[u.pos:])
	u.pos += 8
	return int64(v), nil
}

// UnpackFloat decodes a 4-byte IEEE-754 big-endian single.
func (u *Unpacker) UnpackFloat() (float32, error) {
	v, err := u.UnpackUint()
	return math.Float32frombits(v), err
}

// UnpackDouble decodes an 8-byte IEEE-754 big-endian double.
func (u *Unpacker) UnpackDouble() (float64, error) {
	if err := u.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(u.data[u.pos:])
	u.pos += 8
	return math.Float64frombits(v), nil
}

// UnpackFString decodes exactly n raw bytes. The count is not on the wire;
// it is the same out-of-band n the packing side used.
func (u *Unpacker) UnpackFString(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: fixed string length %d is negative", ErrConversion, n)
	}
	if err := u.need(n); err != nil {
		return nil, err
	}
	v := u.data[u.pos : u.pos+n]
	u.pos += n
	return v, nil
}

// UnpackFOpaque decodes exactly n opaque bytes.
func (u *Unpacker) UnpackFOpaque(n int) ([]byte, error) {
	return u.UnpackFString(n)
}

// UnpackString decodes a variable-length payload: a 4-byte length prefix,
// the payload, then 0-3 pad bytes which are skipped without inspection
// (real-world files do not guarantee zeroed padding). If the declared
// length exceeds the remaining bytes the cursor is restored to where it was
// before the length prefix was read.
func (u *Unpacker) UnpackString() ([]byte, error) {
	start := u.pos
	n, err := u.UnpackUint()
	if err != nil {
		return nil, err
	}
	if int64(n) > int64(len(u.data)-u.pos) {
		u.pos = start
		return nil, fmt.Errorf("%w: declared length %d exceeds %d remaining bytes",
			ErrDataTooShort, n, len(u.data)-start-4)
	}
	v := u.data[u.pos : u.pos+int(n)]
	u.pos += int(n)
	// Skip the pad without inspecting it. A buffer truncated inside its
	// final pad run is still accepted; the cursor stops at the end.
	if pad := padLen(int(n % 4)); pad > 0 {
		if rem := len(u.data) - u.pos; pad > rem {
			pad = rem
		}
		u.pos += pad
	}
	return v, nil
}

// UnpackOpaque decodes variable-length opaque bytes. Identical on the wire
// to UnpackString.
func (u *Unpacker) UnpackOpaque() ([]byte, error) {
	return u.UnpackString()
}

// UnpackBytes is an alias for UnpackOpaque.
func (u *Unpacker) UnpackBytes() ([]byte, error) {
	return u.UnpackOpaque()
}
