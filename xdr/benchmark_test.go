package xdr

import "testing"

func BenchmarkPackUint(b *testing.B) {
	p := NewPacker()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Reset()
		_ = p.PackUint(int64(i) & 0xFFFFFFFF)
	}
}

func BenchmarkPackString(b *testing.B) {
	p := NewPacker()
	payload := []byte("0123456789abcdef0123456789")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Reset()
		_ = p.PackString(payload)
	}
}

func BenchmarkUnpackUint(b *testing.B) {
	data := []byte{0, 0, 0, 42}
	u := NewUnpacker(data)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.Reset(data)
		_, _ = u.UnpackUint()
	}
}

func BenchmarkUnpackDoubleArray(b *testing.B) {
	p := NewPacker()
	_ = PackArray(p, make([]float64, 1000), (*Packer).PackDouble)
	data := p.Bytes()
	u := NewUnpacker(data)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.Reset(data)
		_, _ = UnpackArray(u, 1000, (*Unpacker).UnpackDouble)
	}
}
