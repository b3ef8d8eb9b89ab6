package mda

import (
	"fmt"

	"github.com/mdakit/go-mda/xdr"
)

// maxNesting caps scan recursion so a file whose inner-scan offsets point
// back at themselves cannot recurse forever.
const maxNesting = 16

// Scan is one dimension of a recorded scan. For Rank > 1 the data arrays
// hold the outer positioner/detector values and Inner holds one sub-scan
// per point; entries are nil where the file stores a zero offset (the scan
// was stopped before that point was recorded).
type Scan struct {
	Rank         int32
	NPoints      int32
	CurrentPoint int32
	Name         string
	Time         string

	Positioners []Positioner
	Detectors   []Detector
	Triggers    []Trigger

	Inner []*Scan
}

// Positioner describes one positioner column and its readback data.
type Positioner struct {
	Number       int32
	Name         string
	Desc         string
	StepMode     string
	Unit         string
	ReadbackName string
	ReadbackDesc string
	ReadbackUnit string

	Data []float64
}

// Detector describes one detector column and its data.
type Detector struct {
	Number int32
	Name   string
	Desc   string
	Unit   string

	Data []float32
}

// Trigger describes one trigger PV fired at each scan point.
type Trigger struct {
	Number  int32
	Name    string
	Command float32
}

// unpackCountedString reads the record-string encoding: an int32 count
// followed, only when positive, by a standard variable-length string.
func unpackCountedString(u *xdr.Unpacker) (string, error) {
	n, err := u.UnpackInt()
	if err != nil {
		return "", err
	}
	if n <= 0 {
		return "", nil
	}
	b, err := u.UnpackString()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func parseScan(u *xdr.Unpacker) (*Scan, error) {
	return parseScanDepth(u, 0)
}

func parseScanDepth(u *xdr.Unpacker, depth int) (*Scan, error) {
	if depth >= maxNesting {
		return nil, fmt.Errorf("%w: scan nesting deeper than %d", ErrFormat, maxNesting)
	}

	s := &Scan{}
	var err error
	if s.Rank, err = u.UnpackInt(); err != nil {
		return nil, err
	}
	if s.NPoints, err = u.UnpackInt(); err != nil {
		return nil, err
	}
	if s.CurrentPoint, err = u.UnpackInt(); err != nil {
		return nil, err
	}
	if s.Rank < 1 || s.NPoints < 0 || s.CurrentPoint < 0 {
		return nil, fmt.Errorf("%w: scan rank %d, %d points, current point %d",
			ErrFormat, s.Rank, s.NPoints, s.CurrentPoint)
	}

	// Offsets of the sub-scan records, one per point, present only above
	// rank 1. They are read now and followed after this record's own data.
	var lower []int32
	if s.Rank > 1 {
		if lower, err = xdr.UnpackArray(u, int(s.NPoints), (*xdr.Unpacker).UnpackInt); err != nil {
			return nil, err
		}
	}

	if s.Name, err = unpackCountedString(u); err != nil {
		return nil, err
	}
	if s.Time, err = unpackCountedString(u); err != nil {
		return nil, err
	}

	np, err := u.UnpackInt()
	if err != nil {
		return nil, err
	}
	nd, err := u.UnpackInt()
	if err != nil {
		return nil, err
	}
	nt, err := u.UnpackInt()
	if err != nil {
		return nil, err
	}
	if np < 0 || nd < 0 || nt < 0 {
		return nil, fmt.Errorf("%w: %d positioners, %d detectors, %d triggers", ErrFormat, np, nd, nt)
	}

	if np > 0 {
		s.Positioners = make([]Positioner, np)
	}
	for i := range s.Positioners {
		if err := parsePositioner(u, &s.Positioners[i]); err != nil {
			return nil, err
		}
	}
	if nd > 0 {
		s.Detectors = make([]Detector, nd)
	}
	for i := range s.Detectors {
		if err := parseDetector(u, &s.Detectors[i]); err != nil {
			return nil, err
		}
	}
	if nt > 0 {
		s.Triggers = make([]Trigger, nt)
	}
	for i := range s.Triggers {
		if err := parseTrigger(u, &s.Triggers[i]); err != nil {
			return nil, err
		}
	}

	for i := range s.Positioners {
		if s.Positioners[i].Data, err = xdr.UnpackArray(u, int(s.NPoints), (*xdr.Unpacker).UnpackDouble); err != nil {
			return nil, err
		}
	}
	for i := range s.Detectors {
		if s.Detectors[i].Data, err = xdr.UnpackArray(u, int(s.NPoints), (*xdr.Unpacker).UnpackFloat); err != nil {
			return nil, err
		}
	}

	if s.Rank > 1 {
		s.Inner = make([]*Scan, s.NPoints)
		for i, off := range lower {
			if off <= 0 {
				continue
			}
			if err := u.SetPosition(int(off)); err != nil {
				return nil, err
			}
			if s.Inner[i], err = parseScanDepth(u, depth+1); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func parsePositioner(u *xdr.Unpacker, p *Positioner) error {
	var err error
	if p.Number, err = u.UnpackInt(); err != nil {
		return err
	}
	for _, dst := range []*string{
		&p.Name, &p.Desc, &p.StepMode, &p.Unit,
		&p.ReadbackName, &p.ReadbackDesc, &p.ReadbackUnit,
	} {
		if *dst, err = unpackCountedString(u); err != nil {
			return err
		}
	}
	return nil
}

func parseDetector(u *xdr.Unpacker, d *Detector) error {
	var err error
	if d.Number, err = u.UnpackInt(); err != nil {
		return err
	}
	for _, dst := range []*string{&d.Name, &d.Desc, &d.Unit} {
		if *dst, err = unpackCountedString(u); err != nil {
			return err
		}
	}
	return nil
}

func parseTrigger(u *xdr.Unpacker, t *Trigger) error {
	var err error
	if t.Number, err = u.UnpackInt(); err != nil {
		return err
	}
	if t.Name, err = unpackCountedString(u); err != nil {
		return err
	}
	t.Command, err = u.UnpackFloat()
	return err
}
