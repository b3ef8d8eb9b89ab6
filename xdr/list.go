package xdr

import "fmt"

// PackFunc encodes one element into p. The wire format carries no type
// tags, so the unpacking side must use the matching UnpackFunc.
type PackFunc[T any] func(p *Packer, v T) error

// UnpackFunc decodes one element from u.
type UnpackFunc[T any] func(u *Unpacker) (T, error)

// PackList writes a 4-byte element count followed by each element in order.
func PackList[T any](p *Packer, items []T, pack PackFunc[T]) error {
	if err := p.PackUint(int64(len(items))); err != nil {
		return err
	}
	for _, it := range items {
		if err := pack(p, it); err != nil {
			return err
		}
	}
	return nil
}

// PackArray writes each element in order with no count prefix. The element
// count is an out-of-band contract with the UnpackArray call site.
func PackArray[T any](p *Packer, items []T, pack PackFunc[T]) error {
	for _, it := range items {
		if err := pack(p, it); err != nil {
			return err
		}
	}
	return nil
}

// UnpackList reads a 4-byte element count, then decodes that many elements
// in order. The slice is grown as elements decode rather than preallocated
// from the wire count, so a corrupt count fails on the first short element
// instead of exhausting memory.
func UnpackList[T any](u *Unpacker, unpack UnpackFunc[T]) ([]T, error) {
	n, err := u.UnpackUint()
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, min(int(n), 1024))
	for i := uint32(0); i < n; i++ {
		it, err := unpack(u)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// UnpackArray decodes exactly n elements in order; n comes from the caller,
// not the wire.
func UnpackArray[T any](u *Unpacker, n int, unpack UnpackFunc[T]) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: array length %d is negative", ErrConversion, n)
	}
	items := make([]T, 0, min(n, 1024))
	for i := 0; i < n; i++ {
		it, err := unpack(u)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
