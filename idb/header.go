// Package idb implements the outer IDB container: header validation,
// section framing and decompression (Component B), the opaque shims for
// ID1/NAM/SEG/ID2 (Component G), and the top-level assembler that ties
// every section together (Component F).
package idb

import (
	"github.com/idbtil/idbtil/endian"
	"github.com/idbtil/idbtil/errs"
	"github.com/idbtil/idbtil/format"
)

var byteOrder = endian.LE()

// sectionCount is the fixed number of offset slots in an IDBHeader.
const sectionCount = int(format.SectionCount)

// headerSize is the fixed on-disk size of an IDBHeader: 4-byte
// signature, 4-byte padding, 4-byte secondary magic, 4-byte version,
// six 8-byte offsets.
const headerSize = 4 + 4 + 4 + 4 + sectionCount*8

// Header is the fixed-layout prologue of an IDB file (spec.md §3).
type Header struct {
	Signature format.IDBSignature
	Version   uint32
	// Offsets holds the six absolute byte offsets indexing
	// (id0, id1, nam, seg, til, id2), in that order. A zero offset
	// means the section is absent.
	Offsets [sectionCount]uint64
}

// Offset returns the absolute file offset of the named section, or 0 if
// that section is absent.
func (h Header) Offset(idx format.SectionIndex) uint64 {
	return h.Offsets[idx]
}

// ParseHeader decodes and validates the fixed-layout IDB header from the
// start of data (spec.md §4.2 step 1).
func ParseHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	sig := string(data[0:4])
	if !format.IsValidIDBSignature(sig) {
		return Header{}, errs.ErrInvalidSignature
	}

	magic := byteOrder.Uint32(data[8:12])
	if magic != format.SecondaryMagic {
		return Header{}, errs.ErrInvalidSecondaryMagic
	}

	version := byteOrder.Uint32(data[12:16])
	if version != format.SupportedVersion {
		return Header{}, errs.ErrUnsupportedVersion
	}

	h := Header{Signature: format.IDBSignature(sig), Version: version}
	pos := 16
	for i := 0; i < sectionCount; i++ {
		h.Offsets[i] = byteOrder.Uint64(data[pos : pos+8])
		pos += 8
	}

	return h, nil
}
