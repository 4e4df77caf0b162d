package til

import (
	"github.com/idbtil/idbtil/errs"
	"github.com/idbtil/idbtil/format"
	"github.com/idbtil/idbtil/limits"
	"github.com/idbtil/idbtil/varint"
)

// Section is a fully decoded TIL section or standalone TIL file
// (Component D, spec.md §3).
type Section struct {
	Format uint32
	Flags  format.TILFlag
	Title  string
	Base   string

	ID       uint8
	CM       uint8
	SizeI    uint8
	SizeB    uint8
	SizeE    uint8
	DefAlign uint8

	// The following are set only when the corresponding flag bit is
	// present.
	SizeS    uint8
	SizeL    uint8
	SizeLL   uint8
	SizeLDbl uint8

	TypeOrdinalNumbers uint32

	Symbols *Bucket
	Types   *Bucket
	Macros  *Bucket
}

// ParseSection decodes a TIL section's preamble and its three buckets
// (symbols, types, macros) in order (spec.md §3, §4.3.2-§4.3.3).
func ParseSection(data []byte, lim *limits.Limits) (*Section, error) {
	if lim == nil {
		lim = limits.Default()
	}

	c := varint.NewCursor(data)
	sig, err := c.ReadBytes(len(format.TILSignature))
	if err != nil {
		return nil, err
	}
	if string(sig) != format.TILSignature {
		return nil, errs.ErrInvalidSignature
	}

	formatVal, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	flagsVal, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	flags := format.TILFlag(flagsVal)

	title, err := c.ReadString8()
	if err != nil {
		return nil, err
	}
	base, err := c.ReadString8()
	if err != nil {
		return nil, err
	}

	sizes, err := c.ReadBytes(6)
	if err != nil {
		return nil, err
	}

	sec := &Section{
		Format:   formatVal,
		Flags:    flags,
		Title:    title,
		Base:     base,
		ID:       sizes[0],
		CM:       sizes[1],
		SizeI:    sizes[2],
		SizeB:    sizes[3],
		SizeE:    sizes[4],
		DefAlign: sizes[5],
	}

	if flags.Has(format.TILEsi) {
		esi, err := c.ReadBytes(3)
		if err != nil {
			return nil, err
		}
		sec.SizeS, sec.SizeL, sec.SizeLL = esi[0], esi[1], esi[2]
	}
	if flags.Has(format.TILSld) {
		sec.SizeLDbl, err = c.ReadByte()
		if err != nil {
			return nil, err
		}
	}

	zipped := flags.Has(format.TILZip)

	symbols, err := parseBucket(c, lim, sec.SizeE, zipped)
	if err != nil {
		return nil, err
	}
	sec.Symbols = symbols

	if flags.Has(format.TILOrd) {
		ord, err := c.ReadUint32()
		if err != nil {
			return nil, err
		}
		sec.TypeOrdinalNumbers = ord
	}

	types, err := parseBucket(c, lim, sec.SizeE, zipped)
	if err != nil {
		return nil, err
	}
	sec.Types = types

	macros, err := parseBucket(c, lim, sec.SizeE, zipped)
	if err != nil {
		return nil, err
	}
	sec.Macros = macros

	return sec, nil
}
