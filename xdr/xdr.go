package xdr

// One-shot helpers for encoding or decoding a single value without managing
// a Packer or Unpacker explicitly.

// PackUint encodes a single unsigned 32-bit integer.
func PackUint(v int64) ([]byte, error) {
	p := NewPacker()
	if err := p.PackUint(v); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// PackInt encodes a single signed 32-bit integer.
func PackInt(v int64) ([]byte, error) {
	p := NewPacker()
	if err := p.PackInt(v); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// PackHyper encodes a single signed 64-bit integer.
func PackHyper(v int64) ([]byte, error) {
	p := NewPacker()
	if err := p.PackHyper(v); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// PackFloat encodes a single 32-bit float.
func PackFloat(v float32) ([]byte, error) {
	p := NewPacker()
	if err := p.PackFloat(v); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// PackDouble encodes a single 64-bit float.
func PackDouble(v float64) ([]byte, error) {
	p := NewPacker()
	if err := p.PackDouble(v); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// PackString encodes a single variable-length byte string.
func PackString(s []byte) ([]byte, error) {
	p := NewPacker()
	if err := p.PackString(s); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// UnpackUint decodes a single unsigned 32-bit integer from the start of data.
func UnpackUint(data []byte) (uint32, error) {
	return NewUnpacker(data).UnpackUint()
}

// UnpackInt decodes a single signed 32-bit integer from the start of data.
func UnpackInt(data []byte) (int32, error) {
	return NewUnpacker(data).UnpackInt()
}

// UnpackHyper decodes a single signed 64-bit integer from the start of data.
func UnpackHyper(data []byte) (int64, error) {
	return NewUnpacker(data).UnpackHyper()
}

// UnpackFloat decodes a single 32-bit float from the start of data.
func UnpackFloat(data []byte) (float32, error) {
	return NewUnpacker(data).UnpackFloat()
}

// UnpackDouble decodes a single 64-bit float from the start of data.
func UnpackDouble(data []byte) (float64, error) {
	return NewUnpacker(data).UnpackDouble()
}

// UnpackString decodes a single variable-length byte string from the start
// of data.
func UnpackString(data []byte) ([]byte, error) {
	return NewUnpacker(data).UnpackString()
}
