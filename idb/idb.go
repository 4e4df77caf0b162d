package idb

import (
	"github.com/idbtil/idbtil/btree"
	"github.com/idbtil/idbtil/limits"
	"github.com/idbtil/idbtil/til"
)

// IDB is the root object model for a parsed IDB file: the header,
// the decoded ID0 B-tree, the decoded TIL section, and the four
// untouched external shims (Component F, spec.md §3).
type IDB struct {
	Header Header

	ID0 *btree.Tree
	TIL *til.Section

	ID1 *OpaqueSection
	NAM *OpaqueSection
	SEG *OpaqueSection
	ID2 *OpaqueSection
}

// Parse decodes a complete IDB file from data (Component F, spec.md
// §4.2). Section-level failures beyond the header are isolated: a
// section that fails to frame or decode is simply left nil rather than
// failing the whole parse, mirroring the per-bucket isolation policy
// inside the TIL grammar.
func Parse(data []byte, lim *limits.Limits) (*IDB, error) {
	if lim == nil {
		lim = limits.Default()
	}

	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	out := &IDB{Header: header}

	if off := header.Offset(0); off != 0 {
		sec, err := ReadSection(data, off, lim)
		if err != nil {
			if lim.Strict {
				return nil, err
			}
		} else if tree, err := btree.Parse(sec.Payload); err != nil {
			if lim.Strict {
				return nil, err
			}
		} else {
			out.ID0 = tree
		}
	}

	out.ID1 = readOpaque(data, header, 1, lim)
	out.NAM = readOpaque(data, header, 2, lim)
	out.SEG = readOpaque(data, header, 3, lim)

	if off := header.Offset(4); off != 0 {
		sec, err := ReadSection(data, off, lim)
		if err != nil {
			if lim.Strict {
				return nil, err
			}
		} else if tilSec, err := til.ParseSection(sec.Payload, lim); err != nil {
			if lim.Strict {
				return nil, err
			}
		} else {
			out.TIL = tilSec
		}
	}

	out.ID2 = readOpaque(data, header, 5, lim)

	return out, nil
}

func readOpaque(data []byte, header Header, idx int, lim *limits.Limits) *OpaqueSection {
	off := header.Offsets[idx]
	if off == 0 {
		return nil
	}
	sec, err := ReadSection(data, off, lim)
	if err != nil {
		return nil
	}

	return &OpaqueSection{Offset: off, Length: sec.Length, Payload: sec.Payload}
}
