package xdr

import "errors"

var (
	// ErrConversion indicates that a value failed a packer-side range, type,
	// or length constraint. Nothing is appended to the buffer when this is
	// returned.
	ErrConversion = errors.New("xdr: value does not fit target encoding")

	// ErrDataTooShort indicates that a decode would read past the end of the
	// source buffer. The cursor is left where it was before the call.
	ErrDataTooShort = errors.New("xdr: data too short")

	// ErrRange indicates that SetPosition targeted an offset outside the
	// source buffer.
	ErrRange = errors.New("xdr: position out of range")

	// ErrUnreadData is returned by Done when undecoded bytes remain after
	// the caller expected full consumption.
	ErrUnreadData = errors.New("xdr: unread data remains")
)
