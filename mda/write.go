package mda

import (
	"fmt"

	"github.com/mdakit/go-mda/xdr"
)

// packInt32 adapts an int32 element to Packer.PackInt for array packing.
func packInt32(p *xdr.Packer, v int32) error {
	return p.PackInt(int64(v))
}

func packCountedString(p *xdr.Packer, s string) error {
	if len(s) == 0 {
		return p.PackInt(0)
	}
	if err := p.PackInt(int64(len(s))); err != nil {
		return err
	}
	return p.PackStringText(s)
}

func countedStringSize(s string) int {
	if len(s) == 0 {
		return 4
	}
	pad := (4 - len(s)%4) % 4
	return 4 + 4 + len(s) + pad
}

// MarshalBinary encodes the file in the on-disk MDA layout. Records are laid
// out depth-first: the header, each scan record followed by its sub-scans,
// then the extra-PV block. Absolute offsets (sub-scan pointers, the header's
// extra-PV pointer) are computed from record sizes before any byte is
// packed, so the encoding is single-pass.
func (f *File) MarshalBinary() ([]byte, error) {
	if f.Scan == nil {
		return nil, fmt.Errorf("%w: file has no scan", ErrFormat)
	}
	if f.Rank < 1 || int(f.Rank) != len(f.Dimensions) {
		return nil, fmt.Errorf("%w: rank %d with %d dimensions", ErrFormat, f.Rank, len(f.Dimensions))
	}
	if err := validateScan(f.Scan); err != nil {
		return nil, err
	}

	headerSize := 20 + 4*len(f.Dimensions)
	extraOffset := 0
	if len(f.Extra) > 0 {
		extraOffset = headerSize + f.Scan.treeSize()
	}

	p := xdr.NewPacker()
	if err := p.PackFloat(f.Version); err != nil {
		return nil, err
	}
	if err := p.PackInt(int64(f.ScanNumber)); err != nil {
		return nil, err
	}
	if err := p.PackInt(int64(f.Rank)); err != nil {
		return nil, err
	}
	if err := xdr.PackArray(p, f.Dimensions, packInt32); err != nil {
		return nil, err
	}
	isRegular := int64(0)
	if f.IsRegular {
		isRegular = 1
	}
	if err := p.PackInt(isRegular); err != nil {
		return nil, err
	}
	if err := p.PackInt(int64(extraOffset)); err != nil {
		return nil, err
	}

	if err := packScan(p, f.Scan, headerSize); err != nil {
		return nil, err
	}
	if len(f.Extra) > 0 {
		if err := packExtras(p, f.Extra); err != nil {
			return nil, err
		}
	}
	return p.Bytes(), nil
}

func validateScan(s *Scan) error {
	if s.Rank < 1 || s.NPoints < 0 {
		return fmt.Errorf("%w: scan rank %d, %d points", ErrFormat, s.Rank, s.NPoints)
	}
	for i := range s.Positioners {
		if len(s.Positioners[i].Data) != int(s.NPoints) {
			return fmt.Errorf("%w: positioner %q has %d points, scan declares %d",
				ErrFormat, s.Positioners[i].Name, len(s.Positioners[i].Data), s.NPoints)
		}
	}
	for i := range s.Detectors {
		if len(s.Detectors[i].Data) != int(s.NPoints) {
			return fmt.Errorf("%w: detector %q has %d points, scan declares %d",
				ErrFormat, s.Detectors[i].Name, len(s.Detectors[i].Data), s.NPoints)
		}
	}
	if s.Rank > 1 {
		if len(s.Inner) != int(s.NPoints) {
			return fmt.Errorf("%w: rank-%d scan has %d inner slots, declares %d points",
				ErrFormat, s.Rank, len(s.Inner), s.NPoints)
		}
		for _, inner := range s.Inner {
			if inner == nil {
				continue
			}
			if err := validateScan(inner); err != nil {
				return err
			}
		}
	} else if len(s.Inner) > 0 {
		return fmt.Errorf("%w: rank-1 scan with %d inner scans", ErrFormat, len(s.Inner))
	}
	return nil
}

// recordSize is the encoded size of this record alone, excluding sub-scans.
// It must mirror packScan field for field.
func (s *Scan) recordSize() int {
	n := 12 // rank, points, current point
	if s.Rank > 1 {
		n += 4 * int(s.NPoints)
	}
	n += countedStringSize(s.Name) + countedStringSize(s.Time)
	n += 12 // positioner, detector, trigger counts
	for i := range s.Positioners {
		p := &s.Positioners[i]
		n += 4 + countedStringSize(p.Name) + countedStringSize(p.Desc) +
			countedStringSize(p.StepMode) + countedStringSize(p.Unit) +
			countedStringSize(p.ReadbackName) + countedStringSize(p.ReadbackDesc) +
			countedStringSize(p.ReadbackUnit)
	}
	for i := range s.Detectors {
		d := &s.Detectors[i]
		n += 4 + countedStringSize(d.Name) + countedStringSize(d.Desc) + countedStringSize(d.Unit)
	}
	for i := range s.Triggers {
		n += 4 + countedStringSize(s.Triggers[i].Name) + 4
	}
	n += len(s.Positioners) * 8 * int(s.NPoints)
	n += len(s.Detectors) * 4 * int(s.NPoints)
	return n
}

// treeSize is the encoded size of this record and every sub-scan below it.
func (s *Scan) treeSize() int {
	n := s.recordSize()
	for _, inner := range s.Inner {
		if inner != nil {
			n += inner.treeSize()
		}
	}
	return n
}

// packScan encodes one record at the given absolute offset, then its
// sub-scans at the offsets just written into the pointer array. Slots whose
// scan is nil keep a zero pointer, matching files from interrupted scans.
func packScan(p *xdr.Packer, s *Scan, offset int) error {
	if err := p.PackInt(int64(s.Rank)); err != nil {
		return err
	}
	if err := p.PackInt(int64(s.NPoints)); err != nil {
		return err
	}
	if err := p.PackInt(int64(s.CurrentPoint)); err != nil {
		return err
	}

	var offs []int32
	if s.Rank > 1 {
		child := offset + s.recordSize()
		offs = make([]int32, len(s.Inner))
		for i, inner := range s.Inner {
			if inner != nil {
				offs[i] = int32(child)
				child += inner.treeSize()
			}
		}
		if err := xdr.PackArray(p, offs, packInt32); err != nil {
			return err
		}
	}

	if err := packCountedString(p, s.Name); err != nil {
		return err
	}
	if err := packCountedString(p, s.Time); err != nil {
		return err
	}

	for _, n := range []int{len(s.Positioners), len(s.Detectors), len(s.Triggers)} {
		if err := p.PackInt(int64(n)); err != nil {
			return err
		}
	}

	for i := range s.Positioners {
		pos := &s.Positioners[i]
		if err := p.PackInt(int64(pos.Number)); err != nil {
			return err
		}
		for _, str := range []string{
			pos.Name, pos.Desc, pos.StepMode, pos.Unit,
			pos.ReadbackName, pos.ReadbackDesc, pos.ReadbackUnit,
		} {
			if err := packCountedString(p, str); err != nil {
				return err
			}
		}
	}
	for i := range s.Detectors {
		d := &s.Detectors[i]
		if err := p.PackInt(int64(d.Number)); err != nil {
			return err
		}
		for _, str := range []string{d.Name, d.Desc, d.Unit} {
			if err := packCountedString(p, str); err != nil {
				return err
			}
		}
	}
	for i := range s.Triggers {
		t := &s.Triggers[i]
		if err := p.PackInt(int64(t.Number)); err != nil {
			return err
		}
		if err := packCountedString(p, t.Name); err != nil {
			return err
		}
		if err := p.PackFloat(t.Command); err != nil {
			return err
		}
	}

	for i := range s.Positioners {
		if err := xdr.PackArray(p, s.Positioners[i].Data, (*xdr.Packer).PackDouble); err != nil {
			return err
		}
	}
	for i := range s.Detectors {
		if err := xdr.PackArray(p, s.Detectors[i].Data, (*xdr.Packer).PackFloat); err != nil {
			return err
		}
	}

	for i, inner := range s.Inner {
		if inner == nil {
			continue
		}
		if err := packScan(p, inner, int(offs[i])); err != nil {
			return err
		}
	}
	return nil
}

func packExtras(p *xdr.Packer, pvs []PV) error {
	if err := p.PackInt(int64(len(pvs))); err != nil {
		return err
	}
	for i := range pvs {
		if err := packPV(p, &pvs[i]); err != nil {
			return err
		}
	}
	return nil
}

func packPV(p *xdr.Packer, pv *PV) error {
	if err := packCountedString(p, pv.Name); err != nil {
		return err
	}
	if err := packCountedString(p, pv.Desc); err != nil {
		return err
	}
	if err := p.PackInt(int64(pv.Type)); err != nil {
		return err
	}

	if pv.Type == DBRString {
		s, ok := pv.Value.(string)
		if !ok {
			return fmt.Errorf("%w: PV %q: DBR type %d wants string, have %T",
				ErrFormat, pv.Name, pv.Type, pv.Value)
		}
		return packCountedString(p, s)
	}

	// The element count is derived from the value, never trusted from the
	// struct, so a decoded file re-encodes consistently.
	var count int
	switch pv.Type {
	case DBRCtrlChar:
		v, ok := pv.Value.([]byte)
		if !ok {
			return typeMismatch(pv)
		}
		count = len(v)
	case DBRCtrlShort, DBRCtrlLong:
		v, ok := pv.Value.([]int32)
		if !ok {
			return typeMismatch(pv)
		}
		count = len(v)
	case DBRCtrlFloat:
		v, ok := pv.Value.([]float32)
		if !ok {
			return typeMismatch(pv)
		}
		count = len(v)
	case DBRCtrlDouble:
		v, ok := pv.Value.([]float64)
		if !ok {
			return typeMismatch(pv)
		}
		count = len(v)
	default:
		return fmt.Errorf("%w: PV %q has unknown DBR type %d", ErrFormat, pv.Name, pv.Type)
	}

	if err := p.PackInt(int64(count)); err != nil {
		return err
	}
	if err := packCountedString(p, pv.Unit); err != nil {
		return err
	}

	switch v := pv.Value.(type) {
	case []byte:
		return p.PackFString(count, v)
	case []int32:
		return xdr.PackArray(p, v, packInt32)
	case []float32:
		return xdr.PackArray(p, v, (*xdr.Packer).PackFloat)
	case []float64:
		return xdr.PackArray(p, v, (*xdr.Packer).PackDouble)
	}
	return typeMismatch(pv)
}

func typeMismatch(pv *PV) error {
	return fmt.Errorf("%w: PV %q: value type %T does not match DBR type %d",
		ErrFormat, pv.Name, pv.Value, pv.Type)
}
