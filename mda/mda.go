// Package mda reads and writes synApps MDA scan files: multi-dimensional
// detector/positioner data recorded by the EPICS sscan record. The on-disk
// layout is the big-endian, length-prefixed format implemented by package
// xdr; this package supplies the record schema on top of it.
//
// A file is a header, a tree of scan records (one per dimension, inner
// records located by absolute file offsets stored in their parent), and an
// optional block of "extra" process variables appended at the offset the
// header points to.
package mda

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mdakit/go-mda/xdr"
)

// ErrFormat indicates a structurally invalid file: a field decoded fine at
// the byte level but violates the schema (bad rank, impossible count,
// unknown PV type). Truncation and bounds problems surface as the xdr
// package's errors instead.
var ErrFormat = errors.New("mda: invalid file structure")

// headerProbeSize is enough bytes for the fixed header fields plus any
// realistic dimension list.
const headerProbeSize = 512

// Header is the fixed leading section of an MDA file.
type Header struct {
	Version    float32
	ScanNumber int32
	Rank       int32
	Dimensions []int32
	IsRegular  bool

	// ExtraOffset is the absolute file offset of the extra-PV block, or 0
	// when the file has none.
	ExtraOffset int32
}

// File is a fully decoded MDA file.
type File struct {
	Header
	Scan  *Scan
	Extra []PV
}

// Parse decodes a complete MDA file from data.
func Parse(data []byte) (*File, error) {
	u := xdr.NewUnpacker(data)

	h, err := parseHeader(u)
	if err != nil {
		return nil, fmt.Errorf("mda: header: %w", err)
	}

	scan, err := parseScan(u)
	if err != nil {
		return nil, fmt.Errorf("mda: scan: %w", err)
	}

	f := &File{Header: *h, Scan: scan}
	if h.ExtraOffset > 0 {
		if err := u.SetPosition(int(h.ExtraOffset)); err != nil {
			return nil, fmt.Errorf("mda: extra pvs: %w", err)
		}
		if f.Extra, err = parseExtras(u); err != nil {
			return nil, fmt.Errorf("mda: extra pvs: %w", err)
		}
	}
	return f, nil
}

// Open reads and decodes the MDA file at path.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseHeader decodes only the leading header section. data need not
// contain the whole file.
func ParseHeader(data []byte) (*Header, error) {
	h, err := parseHeader(xdr.NewUnpacker(data))
	if err != nil {
		return nil, fmt.Errorf("mda: header: %w", err)
	}
	return h, nil
}

// OpenHeader reads just enough of the file at path to decode its header.
// It is the cheap probe used by folder scanning.
func OpenHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, headerProbeSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	h, err := ParseHeader(buf[:n])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

func parseHeader(u *xdr.Unpacker) (*Header, error) {
	h := &Header{}

	var err error
	if h.Version, err = u.UnpackFloat(); err != nil {
		return nil, err
	}
	if h.ScanNumber, err = u.UnpackInt(); err != nil {
		return nil, err
	}
	if h.Rank, err = u.UnpackInt(); err != nil {
		return nil, err
	}
	if h.Rank < 1 {
		return nil, fmt.Errorf("%w: data rank %d", ErrFormat, h.Rank)
	}
	if h.Dimensions, err = xdr.UnpackArray(u, int(h.Rank), (*xdr.Unpacker).UnpackInt); err != nil {
		return nil, err
	}

	isRegular, err := u.UnpackInt()
	if err != nil {
		return nil, err
	}
	h.IsRegular = isRegular != 0

	if h.ExtraOffset, err = u.UnpackInt(); err != nil {
		return nil, err
	}
	if h.ExtraOffset < 0 {
		return nil, fmt.Errorf("%w: extra-PV offset %d", ErrFormat, h.ExtraOffset)
	}
	return h, nil
}
