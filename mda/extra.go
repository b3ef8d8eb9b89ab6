package mda

import (
	"bytes"
	"fmt"

	"github.com/mdakit/go-mda/xdr"
)

// DBR type codes stored for extra PVs, from EPICS channel access.
const (
	DBRString     int32 = 0
	DBRCtrlShort  int32 = 29
	DBRCtrlFloat  int32 = 30
	DBRCtrlChar   int32 = 32
	DBRCtrlLong   int32 = 33
	DBRCtrlDouble int32 = 34
)

// PV is one extra process variable captured alongside the scan. Value holds
// a string for DBRString, []byte for DBRCtrlChar, []int32 for
// DBRCtrlShort/DBRCtrlLong, []float32 for DBRCtrlFloat, and []float64 for
// DBRCtrlDouble.
type PV struct {
	Name  string
	Desc  string
	Unit  string
	Type  int32
	Count int32
	Value any
}

func parseExtras(u *xdr.Unpacker) ([]PV, error) {
	n, err := u.UnpackInt()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: extra-PV count %d", ErrFormat, n)
	}

	pvs := make([]PV, 0, min(int(n), 1024))
	for i := int32(0); i < n; i++ {
		pv, err := parsePV(u)
		if err != nil {
			return nil, err
		}
		pvs = append(pvs, pv)
	}
	return pvs, nil
}

func parsePV(u *xdr.Unpacker) (PV, error) {
	var pv PV
	var err error

	if pv.Name, err = unpackCountedString(u); err != nil {
		return PV{}, err
	}
	if pv.Desc, err = unpackCountedString(u); err != nil {
		return PV{}, err
	}
	if pv.Type, err = u.UnpackInt(); err != nil {
		return PV{}, err
	}

	// Strings carry neither an element count nor a unit.
	if pv.Type == DBRString {
		s, err := unpackCountedString(u)
		if err != nil {
			return PV{}, err
		}
		pv.Count = 1
		pv.Value = s
		return pv, nil
	}

	if pv.Count, err = u.UnpackInt(); err != nil {
		return PV{}, err
	}
	if pv.Count < 0 {
		return PV{}, fmt.Errorf("%w: PV %q element count %d", ErrFormat, pv.Name, pv.Count)
	}
	if pv.Unit, err = unpackCountedString(u); err != nil {
		return PV{}, err
	}

	switch pv.Type {
	case DBRCtrlChar:
		b, err := u.UnpackFString(int(pv.Count))
		if err != nil {
			return PV{}, err
		}
		pv.Value = bytes.Clone(b)
	case DBRCtrlShort, DBRCtrlLong:
		if pv.Value, err = xdr.UnpackArray(u, int(pv.Count), (*xdr.Unpacker).UnpackInt); err != nil {
			return PV{}, err
		}
	case DBRCtrlFloat:
		if pv.Value, err = xdr.UnpackArray(u, int(pv.Count), (*xdr.Unpacker).UnpackFloat); err != nil {
			return PV{}, err
		}
	case DBRCtrlDouble:
		if pv.Value, err = xdr.UnpackArray(u, int(pv.Count), (*xdr.Unpacker).UnpackDouble); err != nil {
			return PV{}, err
		}
	default:
		return PV{}, fmt.Errorf("%w: PV %q has unknown DBR type %d", ErrFormat, pv.Name, pv.Type)
	}
	return pv, nil
}
