package til

import (
	"github.com/idbtil/idbtil/errs"
	"github.com/idbtil/idbtil/format"
	"github.com/idbtil/idbtil/limits"
	"github.com/idbtil/idbtil/varint"
)

// ParseTypes decodes one Types value from c (Component E, spec.md
// §4.3.5-§4.3.6). sizeE is the TIL header's default element size, used
// only as the Enum grammar's fallback bytesize when the emsize sub-field
// of the enum's bte byte is zero.
func ParseTypes(c *varint.Cursor, lim *limits.Limits, sizeE uint8) (Types, error) {
	if lim == nil {
		lim = limits.Default()
	}

	return parseTypes(c, lim, sizeE, 0)
}

func parseTypes(c *varint.Cursor, lim *limits.Limits, sizeE uint8, depth int) (Types, error) {
	if lim.MaxTypeDepth > 0 && depth > lim.MaxTypeDepth {
		return nil, errs.NewGrammarError(c.Pos(), errs.ErrDepthExceeded)
	}

	start := c.Pos()
	raw, err := c.ReadByte()
	if err != nil {
		return nil, err
	}

	tag := format.TypeTag(raw)
	base, full, flag := tag.Base(), tag.Full(), tag.Flag()

	var t Types
	switch {
	case format.IsUnset(base):
		t = Unset{TagByte: raw}
	case base == format.BasePointer:
		t, err = parsePointer(c, lim, sizeE, depth, raw, flag)
	case base == format.BaseArray:
		t, err = parseArray(c, lim, sizeE, depth, raw, flag)
	case base == format.BaseFunction:
		t, err = parseFunction(c, lim, sizeE, depth, raw)
	case base == format.BaseBitfield:
		t, err = parseBitfield(c, raw, flag)
	case full == format.FullStruct:
		t, err = parseStructOrUnion(c, lim, sizeE, depth, raw, true)
	case full == format.FullUnion:
		t, err = parseStructOrUnion(c, lim, sizeE, depth, raw, false)
	case full == format.FullEnum:
		t, err = parseEnum(c, lim, sizeE, depth, raw)
	case full == format.FullTypedef:
		t, err = parseTypedef(c, raw)
	default:
		t = Unknown{TagByte: raw, Raw: c.ReadRestAsNUL()}
	}

	if err != nil {
		return nil, errs.NewGrammarError(start, err)
	}

	return t, nil
}

func parsePointer(c *varint.Cursor, lim *limits.Limits, sizeE uint8, depth int, raw, flag byte) (Types, error) {
	p := &Pointer{TagByte: raw}

	if flag == format.FlagTypeClosure {
		k, err := c.ReadByte()
		if err != nil {
			return nil, err
		}
		if k == 0xFF {
			closure, err := parseTypes(c, lim, sizeE, depth+1)
			if err != nil {
				return nil, err
			}
			p.Closure = &closure
		} else {
			p.BasedPtrSize = k
		}
	}

	tah, err := varint.ReadTAH(c)
	if err != nil {
		return nil, err
	}
	p.TAH = tah

	pointee, err := parseTypes(c, lim, sizeE, depth+1)
	if err != nil {
		return nil, err
	}
	p.Pointee = pointee

	return p, nil
}

func parseArray(c *varint.Cursor, lim *limits.Limits, sizeE uint8, depth int, raw, flag byte) (Types, error) {
	a := &Array{TagByte: raw}

	if flag == format.FlagNonBased {
		nelem, err := varint.ReadDT(c)
		if err != nil {
			return nil, err
		}
		a.NonBased = true
		a.NElem = uint32(nelem)
	} else {
		da, err := varint.ReadDA(c)
		if err != nil {
			return nil, err
		}
		a.NElem = da.NElem
		a.Base = da.Base
	}

	tah, err := varint.ReadTAH(c)
	if err != nil {
		return nil, err
	}
	a.TAH = tah

	elem, err := parseTypes(c, lim, sizeE, depth+1)
	if err != nil {
		return nil, err
	}
	a.Element = elem

	return a, nil
}

func parseFunction(c *varint.Cursor, lim *limits.Limits, sizeE uint8, depth int, raw byte) (Types, error) {
	f := &Function{TagByte: raw}

	cc, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	for cc&0xF0 == format.CCSpoiled {
		n := cc & 0x0F
		if n == 15 {
			if _, err := c.ReadByte(); err != nil {
				return nil, err
			}
		}
		cc, err = c.ReadByte()
		if err != nil {
			return nil, err
		}
	}
	f.CC = cc

	tah, err := varint.ReadTAH(c)
	if err != nil {
		return nil, err
	}
	f.TAH = tah

	ret, err := parseTypes(c, lim, sizeE, depth+1)
	if err != nil {
		return nil, err
	}
	f.Return = ret

	if cc == format.CCVoidArg {
		f.VoidArgs = true
		return f, nil
	}

	if format.IsSpecialPECC(cc) && !isVoidType(ret) {
		return nil, errs.ErrSpecialPEUnsupported
	}

	n, err := varint.ReadDT(c)
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(n); i++ {
		var arg FuncArg
		peek, err := c.PeekByte()
		if err == nil && peek == 0xFF {
			if _, err := c.ReadByte(); err != nil {
				return nil, err
			}
			flags, err := varint.ReadDE(c)
			if err != nil {
				return nil, err
			}
			arg.HasFlags = true
			arg.Flags = flags
		}
		argType, err := parseTypes(c, lim, sizeE, depth+1)
		if err != nil {
			return nil, err
		}
		arg.Type = argType
		f.Args = append(f.Args, arg)
	}

	return f, nil
}

func isVoidType(t Types) bool {
	u, ok := t.(Unset)
	return ok && format.TypeTag(u.TagByte).Base() == 1
}

func parseTypedef(c *varint.Cursor, raw byte) (Types, error) {
	n, err := varint.ReadDT(c)
	if err != nil {
		return nil, err
	}
	buf, err := c.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}

	td := Typedef{TagByte: raw}
	if len(buf) > 0 && buf[0] == '#' {
		sub := varint.NewCursor(buf[1:])
		ordinal, err := varint.ReadDE(sub)
		if err != nil {
			return nil, err
		}
		td.IsOrdRef = true
		td.Ordinal = ordinal
	} else {
		td.Name = string(buf)
	}

	return td, nil
}

// refBody reconstructs the byte run a struct/union/enum reference-form
// parses as a nested Types value: the stored bytes already begin with
// '=' or need it (plus a re-serialized dt of their own length)
// prepended (spec.md §4.3.6).
func refBody(length uint16, buf []byte) []byte {
	if len(buf) > 0 && buf[0] == '=' {
		return buf
	}

	out := make([]byte, 0, 1+2+len(buf))
	out = append(out, '=')
	out = append(out, varint.EncodeDT(length)...)
	out = append(out, buf...)

	return out
}

func parseStructOrUnion(c *varint.Cursor, lim *limits.Limits, sizeE uint8, depth int, raw byte, isStruct bool) (Types, error) {
	n, err := varint.ReadDT(c)
	if err != nil {
		return nil, err
	}

	if n == 0 {
		refLen, err := varint.ReadDT(c)
		if err != nil {
			return nil, err
		}
		refBuf, err := c.ReadBytes(int(refLen))
		if err != nil {
			return nil, err
		}
		refCursor := varint.NewCursor(refBody(refLen, refBuf))
		refType, err := parseTypes(refCursor, lim, sizeE, depth+1)
		if err != nil {
			return nil, err
		}
		sdacl, err := varint.ReadSDACL(c)
		if err != nil {
			return nil, err
		}
		if isStruct {
			return &Struct{TagByte: raw, IsRef: true, RefType: refType, SDACL: sdacl}, nil
		}

		return &Union{TagByte: raw, IsRef: true, RefType: refType, SDACL: sdacl}, nil
	}

	nVal := uint32(n)
	if nVal == varint.MaxDT {
		de, err := varint.ReadDE(c)
		if err != nil {
			return nil, err
		}
		nVal = de
	}

	alpow := nVal & 7
	var alignment uint16
	if alpow != 0 {
		alignment = uint16(1) << (alpow - 1)
	}
	memberCount := nVal >> 3

	sdacl, err := varint.ReadSDACL(c)
	if err != nil {
		return nil, err
	}

	if isStruct {
		s := &Struct{TagByte: raw, Alignment: alignment, SDACL: sdacl}
		for i := uint32(0); i < memberCount; i++ {
			memType, err := parseTypes(c, lim, sizeE, depth+1)
			if err != nil {
				return nil, err
			}
			memSDACL, err := varint.ReadSDACL(c)
			if err != nil {
				return nil, err
			}
			s.Members = append(s.Members, StructMember{Type: memType, SDACL: memSDACL})
		}

		return s, nil
	}

	u := &Union{TagByte: raw, Alignment: alignment, SDACL: sdacl}
	for i := uint32(0); i < memberCount; i++ {
		memType, err := parseTypes(c, lim, sizeE, depth+1)
		if err != nil {
			return nil, err
		}
		u.Members = append(u.Members, memType)
	}

	return u, nil
}

func parseEnum(c *varint.Cursor, lim *limits.Limits, sizeE uint8, depth int, raw byte) (Types, error) {
	n, err := varint.ReadDT(c)
	if err != nil {
		return nil, err
	}

	if n == 0 {
		refLen, err := varint.ReadDT(c)
		if err != nil {
			return nil, err
		}
		refBuf, err := c.ReadBytes(int(refLen))
		if err != nil {
			return nil, err
		}
		refCursor := varint.NewCursor(refBody(refLen, refBuf))
		refType, err := parseTypes(refCursor, lim, sizeE, depth+1)
		if err != nil {
			return nil, err
		}
		sdacl, err := varint.ReadSDACL(c)
		if err != nil {
			return nil, err
		}

		return &Enum{TagByte: raw, IsRef: true, RefType: refType, SDACL: sdacl}, nil
	}

	nVal := uint32(n)
	if nVal == varint.MaxDT {
		de, err := varint.ReadDE(c)
		if err != nil {
			return nil, err
		}
		nVal = de
	}

	tah, err := varint.ReadTAH(c)
	if err != nil {
		return nil, err
	}

	bte, err := c.ReadByte()
	if err != nil {
		return nil, err
	}

	emsize := bte & 0x07
	var bytesize uint64
	switch {
	case emsize != 0:
		bytesize = uint64(1) << (emsize - 1)
	case sizeE != 0:
		bytesize = uint64(sizeE)
	default:
		bytesize = 4
	}

	var mask uint64
	if bytesize*8 < 64 {
		mask = (uint64(1) << (bytesize * 8)) - 1
	} else {
		mask = ^uint64(0)
	}

	e := &Enum{TagByte: raw, TAH: tah, ByteSize: bytesize}

	var cur uint64
	for i := uint32(0); i < nVal; i++ {
		lo, err := varint.ReadDE(c)
		if err != nil {
			return nil, err
		}
		var hi uint32
		if tah.Val&0x0020 != 0 {
			hi, err = varint.ReadDE(c)
			if err != nil {
				return nil, err
			}
		}
		if bte&0x10 != 0 {
			gs, err := varint.ReadDT(c)
			if err != nil {
				return nil, err
			}
			e.GroupSizes = append(e.GroupSizes, gs)
		}

		delta := (uint64(lo) | (uint64(hi) << 32)) & mask
		cur += delta
		e.Members = append(e.Members, cur)
	}

	return e, nil
}

func parseBitfield(c *varint.Cursor, raw, flag byte) (Types, error) {
	dt, err := varint.ReadDT(c)
	if err != nil {
		return nil, err
	}
	tah, err := varint.ReadTAH(c)
	if err != nil {
		return nil, err
	}

	return Bitfield{
		TagByte:  raw,
		Width:    dt >> 1,
		Unsigned: dt&1 != 0,
		NBytes:   1 << (flag >> 4),
		TAH:      tah,
	}, nil
}
