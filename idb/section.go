package idb

import (
	"github.com/idbtil/idbtil/compress"
	"github.com/idbtil/idbtil/errs"
	"github.com/idbtil/idbtil/format"
	"github.com/idbtil/idbtil/limits"
)

// sectionHeaderSize is the fixed 9-byte prologue preceding every
// section's payload: a 1-byte compression method and an 8-byte length
// (spec.md §3's SectionHeader invariant).
const sectionHeaderSize = 1 + 8

// Section is one decoded, decompressed section payload.
type Section struct {
	CompressionMethod format.CompressionMethod
	// Length is the on-disk byte count declared by the SectionHeader
	// (the compressed length, when CompressionMethod != MethodNone).
	Length uint64
	Payload []byte
}

// ReadSection windows and, if needed, decompresses the section whose
// SectionHeader begins at offset within data (spec.md §4.2 step 2, 4).
// An offset of 0 is not treated as "absent" here; Parse checks section
// presence before calling ReadSection.
func ReadSection(data []byte, offset uint64, lim *limits.Limits) (Section, error) {
	if lim == nil {
		lim = limits.Default()
	}

	if offset+sectionHeaderSize > uint64(len(data)) {
		return Section{}, errs.ErrInvalidOffset
	}

	method := format.CompressionMethod(data[offset])
	length := byteOrder.Uint64(data[offset+1 : offset+sectionHeaderSize])

	payloadStart := offset + sectionHeaderSize
	payloadEnd := payloadStart + length
	if payloadEnd < payloadStart || payloadEnd > uint64(len(data)) {
		return Section{}, errs.ErrInvalidOffset
	}
	raw := data[payloadStart:payloadEnd]

	codec, err := compress.Get(method)
	if err != nil {
		return Section{}, err
	}

	// The section header carries no declared uncompressed size the way
	// a TIL bucket does, so the cap is a generous multiple of the
	// on-disk length rather than an exact figure.
	maxSize := int(length)*64 + lim.InflateSafetyMargin
	payload, err := codec.Decompress(raw, maxSize)
	if err != nil {
		return Section{}, err
	}

	return Section{CompressionMethod: method, Length: length, Payload: payload}, nil
}
