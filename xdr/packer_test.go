package xdr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackerIntegerEncoding(t *testing.T) {
	p := NewPacker()
	require.NoError(t, p.PackUint(1))
	require.NoError(t, p.PackUint(2))

	assert.Equal(t, []byte{0, 0, 0, 1, 0, 0, 0, 2}, p.Bytes())

	p.Reset()
	require.NoError(t, p.PackInt(-1))
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, p.Bytes())

	p.Reset()
	require.NoError(t, p.PackHyper(-2))
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE}, p.Bytes())
}

func TestPackerRangeChecks(t *testing.T) {
	tests := []struct {
		name    string
		pack    func(*Packer) error
		wantErr error
	}{
		{"uint max ok", func(p *Packer) error { return p.PackUint(math.MaxUint32) }, nil},
		{"uint zero ok", func(p *Packer) error { return p.PackUint(0) }, nil},
		{"uint overflow", func(p *Packer) error { return p.PackUint(1 << 32) }, ErrConversion},
		{"uint negative", func(p *Packer) error { return p.PackUint(-1) }, ErrConversion},
		{"int max ok", func(p *Packer) error { return p.PackInt(math.MaxInt32) }, nil},
		{"int min ok", func(p *Packer) error { return p.PackInt(math.MinInt32) }, nil},
		{"int overflow", func(p *Packer) error { return p.PackInt(1 << 31) }, ErrConversion},
		{"int underflow", func(p *Packer) error { return p.PackInt(math.MinInt32 - 1) }, ErrConversion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPacker()
			err := tt.pack(p)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.Equal(t, 4, p.Len())
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			// A failed pack must not leave partial bytes behind.
			assert.Zero(t, p.Len())
		})
	}
}

func TestPackerFixedLength(t *testing.T) {
	p := NewPacker()

	err := p.PackFString(5, []byte("abcd"))
	require.ErrorIs(t, err, ErrConversion)
	assert.Zero(t, p.Len())

	err = p.PackFOpaque(-1, nil)
	require.ErrorIs(t, err, ErrConversion)
	assert.Zero(t, p.Len())

	require.NoError(t, p.PackFString(4, []byte("abcd")))
	// No length prefix, no padding.
	assert.Equal(t, []byte("abcd"), p.Bytes())

	require.NoError(t, p.PackFStringText(2, "xy"))
	assert.Equal(t, []byte("abcdxy"), p.Bytes())
}

func TestPackerVariableLengthPadding(t *testing.T) {
	t.Run("TwoBytePayload", func(t *testing.T) {
		p := NewPacker()
		require.NoError(t, p.PackString([]byte("ab")))
		assert.Equal(t, []byte{0, 0, 0, 2, 'a', 'b', 0, 0}, p.Bytes())
	})

	t.Run("AlignedPayload", func(t *testing.T) {
		p := NewPacker()
		require.NoError(t, p.PackString([]byte("abcd")))
		assert.Equal(t, []byte{0, 0, 0, 4, 'a', 'b', 'c', 'd'}, p.Bytes())
	})

	t.Run("EmptyPayload", func(t *testing.T) {
		p := NewPacker()
		require.NoError(t, p.PackOpaque(nil))
		assert.Equal(t, []byte{0, 0, 0, 0}, p.Bytes())
	})

	t.Run("TotalLengthLaw", func(t *testing.T) {
		for n := 0; n <= 9; n++ {
			p := NewPacker()
			require.NoError(t, p.PackString(make([]byte, n)))
			pad := (4 - n%4) % 4
			assert.Equal(t, 4+n+pad, p.Len(), "payload length %d", n)
			assert.Zero(t, p.Len()%4)
		}
	})
}

func TestPackerSnapshotAndReset(t *testing.T) {
	p := NewPacker()
	require.NoError(t, p.PackUint(7))

	snap := p.Bytes()
	require.NoError(t, p.PackUint(8))

	// Bytes is a copy; later packing must not show through.
	assert.Equal(t, []byte{0, 0, 0, 7}, snap)
	assert.Equal(t, 8, p.Len())

	p.Reset()
	assert.Zero(t, p.Len())
	assert.Empty(t, p.Bytes())
}

func TestPackerNumericUnion(t *testing.T) {
	p := NewPacker()
	require.NoError(t, PackFloatOf(p, 3))
	require.NoError(t, PackDoubleOf(p, float32(-3.5)))

	u := NewUnpacker(p.Bytes())
	f, err := u.UnpackFloat()
	require.NoError(t, err)
	assert.Equal(t, float32(3), f)

	d, err := u.UnpackDouble()
	require.NoError(t, err)
	assert.Equal(t, -3.5, d)
}
