package xdr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripIntegers(t *testing.T) {
	uints := []int64{0, 1, 0x7FFFFFFF, 0xFFFFFFFF}
	for _, v := range uints {
		data, err := PackUint(v)
		require.NoError(t, err)
		got, err := UnpackUint(data)
		require.NoError(t, err)
		assert.EqualValues(t, v, got)
	}

	ints := []int64{0, -1, math.MinInt32, math.MaxInt32}
	for _, v := range ints {
		data, err := PackInt(v)
		require.NoError(t, err)
		got, err := UnpackInt(data)
		require.NoError(t, err)
		assert.EqualValues(t, v, got)
	}

	hypers := []int64{0, -1, math.MinInt64, math.MaxInt64}
	for _, v := range hypers {
		data, err := PackHyper(v)
		require.NoError(t, err)
		got, err := UnpackHyper(data)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestRoundTripFloats(t *testing.T) {
	floats := []float32{0, 1.5, -3.5, math.Pi, math.MaxFloat32, math.SmallestNonzeroFloat32}
	for _, v := range floats {
		data, err := PackFloat(v)
		require.NoError(t, err)
		got, err := UnpackFloat(data)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	doubles := []float64{0, -3.5, math.Pi, math.MaxFloat64, math.SmallestNonzeroFloat64}
	for _, v := range doubles {
		data, err := PackDouble(v)
		require.NoError(t, err)
		got, err := UnpackDouble(data)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	// Doubles narrowed to singles keep single precision, no more.
	data, err := PackFloat(float32(math.Pi))
	require.NoError(t, err)
	got, err := UnpackFloat(data)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, float64(got), 1e-6)
}

func TestRoundTripStrings(t *testing.T) {
	cases := [][]byte{nil, []byte("a"), []byte("ab"), []byte("abc"), []byte("abcd"), []byte("abcde")}
	for _, s := range cases {
		data, err := PackString(s)
		require.NoError(t, err)
		pad := (4 - len(s)%4) % 4
		assert.Equal(t, 4+len(s)+pad, len(data))

		got, err := UnpackString(data)
		require.NoError(t, err)
		assert.Equal(t, []byte(s), append([]byte{}, got...))
	}
}

func TestListCodec(t *testing.T) {
	p := NewPacker()
	err := PackList(p, []int64{10, 20, 30}, func(p *Packer, v int64) error {
		return p.PackUint(v)
	})
	require.NoError(t, err)

	wire := p.Bytes()
	require.Equal(t, []byte{
		0, 0, 0, 3,
		0, 0, 0, 10,
		0, 0, 0, 20,
		0, 0, 0, 30,
	}, wire)

	u := NewUnpacker(wire)
	got, err := UnpackList(u, (*Unpacker).UnpackUint)
	require.NoError(t, err)
	assert.Equal(t, []uint32{10, 20, 30}, got)
	assert.NoError(t, u.Done())
}

func TestListElementFailureStopsEarly(t *testing.T) {
	// Count claims three elements but only one is present.
	u := NewUnpacker([]byte{0, 0, 0, 3, 0, 0, 0, 10})
	_, err := UnpackList(u, (*Unpacker).UnpackUint)
	require.ErrorIs(t, err, ErrDataTooShort)
}

func TestArrayCodec(t *testing.T) {
	p := NewPacker()
	err := PackArray(p, []float64{1.5, -2.5}, (*Packer).PackDouble)
	require.NoError(t, err)
	// No count prefix on the wire.
	require.Equal(t, 16, p.Len())

	u := NewUnpacker(p.Bytes())
	got, err := UnpackArray(u, 2, (*Unpacker).UnpackDouble)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2.5}, got)

	_, err = UnpackArray(u, -1, (*Unpacker).UnpackDouble)
	assert.ErrorIs(t, err, ErrConversion)
}

func TestPackListPropagatesElementError(t *testing.T) {
	p := NewPacker()
	err := PackList(p, []int64{1, 1 << 40}, func(p *Packer, v int64) error {
		return p.PackUint(v)
	})
	require.ErrorIs(t, err, ErrConversion)
}
