package varint

import "github.com/idbtil/idbtil/errs"

// MaxDT is the largest value a dt encoding can carry (spec.md §4.1).
const MaxDT = 0x7FFE

// ReadDT decodes the format's 1-2 byte biased length encoding.
func ReadDT(c *Cursor) (uint16, error) {
	b0, err := c.ReadByte()
	if err != nil {
		return 0, err
	}
	if b0&0x80 == 0 {
		return uint16(b0) - 1, nil
	}
	b1, err := c.ReadByte()
	if err != nil {
		return 0, err
	}
	val := (uint16(b0&0x7F) | (uint16(b1) << 7)) - 1

	return val, nil
}

// EncodeDT re-serializes val using the same 1-2 byte biased encoding
// ReadDT decodes, the inverse operation the struct/enum reference-form
// grammar needs when synthesizing a `'=' + dt` prefix (spec.md §4.3.6).
func EncodeDT(val uint16) []byte {
	combined := uint32(val) + 1
	if combined <= 0x7F {
		return []byte{byte(combined)}
	}

	return []byte{byte(0x80 | (combined & 0x7F)), byte((combined >> 7) & 0xFF)}
}

// ReadDE decodes the format's 1-5 byte accumulator-style encoding.
func ReadDE(c *Cursor) (uint32, error) {
	var v uint32
	for i := 0; i < 5; i++ {
		b, err := c.ReadByte()
		if err != nil {
			return 0, err
		}
		hi := v << 6
		if b&0x80 == 0 {
			return uint32(b&0x3F) | hi, nil
		}
		v = (hi << 1) | uint32(b&0x7F)
	}

	return 0, errs.NewCodecError(c.Pos(), errs.ErrBadVarint)
}

// DA is the decoded result of the based-array descriptor encoding.
type DA struct {
	NElem uint32
	Base  uint32
}

// ReadDA decodes the based-array descriptor state machine (spec.md
// §4.1). It consumes high-bit continuation bytes into an internal
// accumulator; after 4 such bytes it peeks a sentinel byte to derive the
// base, then folds further continuation bytes into the element count.
func ReadDA(c *Cursor) (DA, error) {
	var da uint32
	nCont := 0

	for {
		t, err := c.ReadByte()
		if err != nil {
			return DA{}, err
		}
		if t&0x80 == 0 {
			c.UnreadByte()
			return DA{}, nil
		}
		da = (da << 7) | uint32(t&0x7F)
		nCont++
		if nCont >= 4 {
			break
		}
	}

	z, err := c.PeekByte()
	if err != nil {
		return DA{}, err
	}
	var base uint32
	if z != 0 {
		base = 0x10*da | uint32(z&0x0F)
	}

	next, err := c.ReadByte()
	if err != nil {
		return DA{}, err
	}
	nelem := (uint32(next) >> 4) & 7

	aCont := 0
	for {
		y, err := c.PeekByte()
		if err != nil {
			return DA{}, err
		}
		if y&0x80 == 0 {
			break
		}
		c.ReadByte() //nolint:errcheck // PeekByte above already validated the read succeeds
		nelem = (nelem << 7) | uint32(y&0x7F)
		aCont++
		if aCont >= 4 {
			break
		}
	}

	return DA{NElem: nelem, Base: base}, nil
}

// Attribute is the decoded result of a tah/sdacl attribute header: a
// 16-bit value, plus any retained strings from the optional
// dt-counted vector that bit 0x0010 of the value signals.
type Attribute struct {
	Val     uint16
	Strings []string
}

// ReadTAH decodes a type-attribute header (tah), returning a zero-value
// Attribute and leaving the cursor unmoved (via push-back) if the next
// byte is not actually an attribute header.
func ReadTAH(c *Cursor) (Attribute, error) {
	return readAttribute(c, isTAHHeader)
}

// ReadSDACL decodes an sdacl attribute header using the same body as
// ReadTAH but a different detection predicate.
func ReadSDACL(c *Cursor) (Attribute, error) {
	return readAttribute(c, isSDACLHeader)
}

func isTAHHeader(b byte) bool {
	tmp := ((uint16(b) & 1) | ((uint16(b) >> 3) & 6)) + 1
	return b == 0xFE || tmp == 8
}

func isSDACLHeader(b byte) bool {
	return ((b &^ 0x30) ^ 0xC0) <= 0x01
}

func readAttribute(c *Cursor, isHeader func(byte) bool) (Attribute, error) {
	b, err := c.ReadByte()
	if err != nil {
		return Attribute{}, err
	}
	if !isHeader(b) {
		c.UnreadByte()
		return Attribute{}, nil
	}

	var val uint16
	tmp := ((uint16(b) & 1) | ((uint16(b) >> 3) & 6)) + 1
	if tmp == 8 {
		val = 8
	}

	shift := uint(0)
	for {
		next, err := c.ReadByte()
		if err != nil {
			return Attribute{}, err
		}
		if next == 0 {
			return Attribute{}, errs.NewCodecError(c.Pos(), errs.ErrBadAttrHeader)
		}
		val |= uint16(next&0x7F) << shift
		if next&0x80 == 0 {
			break
		}
		shift += 7
	}

	attr := Attribute{Val: val}
	if val&0x0010 != 0 {
		n, err := ReadDT(c)
		if err != nil {
			return Attribute{}, err
		}
		for i := 0; i < int(n); i++ {
			strLen, err := ReadDT(c)
			if err != nil {
				return Attribute{}, err
			}
			strBytes, err := c.ReadBytes(int(strLen))
			if err != nil {
				return Attribute{}, err
			}
			blobLen, err := ReadDT(c)
			if err != nil {
				return Attribute{}, err
			}
			if err := c.Skip(int(blobLen)); err != nil {
				return Attribute{}, err
			}
			attr.Strings = append(attr.Strings, string(strBytes))
		}
	}

	return attr, nil
}
