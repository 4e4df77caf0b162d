// Package til implements the TIL section layout (Component D) and the
// recursive Types grammar (Component E) — the core of the IDB/TIL
// format, per spec.md §1-§4.3.
package til

import "github.com/idbtil/idbtil/varint"

// Types is the sum type parsed from a type-info byte run (spec.md §3,
// §4.3.5-§4.3.6). Every variant embeds the raw tag byte it was
// discriminated from, so the model can be faithfully re-rendered
// without re-parsing (Design Note, spec.md §9).
type Types interface {
	// Tag returns the raw discriminator byte this value was parsed from.
	Tag() byte
}

// Attribute is the decoded value of a tah or sdacl attribute header.
type Attribute = varint.Attribute

// Unset is the terminal leaf variant: base <= 0x09 (a built-in scalar)
// or base == 0x0F (reserved). It consumes only the tag byte. §4.3.7's
// leaf-name table is keyed off this variant's tag.
type Unset struct {
	TagByte byte
}

func (u Unset) Tag() byte { return u.TagByte }

// Pointer is `base == 0x0A` (spec.md §4.3.6).
type Pointer struct {
	TagByte byte
	// Closure is non-nil only when the tag's flag view is 0x30 (type
	// closure) and the following byte was 0xFF.
	Closure *Types
	// BasedPtrSize is set when the tag's flag view is 0x30 and the
	// following byte was not 0xFF.
	BasedPtrSize uint8
	TAH          Attribute
	Pointee      Types
}

func (p *Pointer) Tag() byte { return p.TagByte }

// FuncArg is one formal argument of a Function type.
type FuncArg struct {
	HasFlags bool
	Flags    uint32
	Type     Types
}

// Function is `base == 0x0C` (spec.md §4.3.6).
type Function struct {
	TagByte  byte
	CC       byte
	TAH      Attribute
	Return   Types
	VoidArgs bool
	Args     []FuncArg
}

func (f *Function) Tag() byte { return f.TagByte }

// Array is `base == 0x0B` (spec.md §4.3.6).
type Array struct {
	TagByte  byte
	NonBased bool
	Base     uint32
	NElem    uint32
	TAH      Attribute
	Element  Types
}

func (a *Array) Tag() byte { return a.TagByte }

// Typedef is `full == 0x3D` (spec.md §4.3.6). It is either a name
// reference or an ordinal reference to another entry in the enclosing
// bucket, resolved lazily by ResolveTypedef.
type Typedef struct {
	TagByte  byte
	IsOrdRef bool
	Ordinal  uint32
	Name     string
}

func (t Typedef) Tag() byte { return t.TagByte }

// StructMember pairs a member's Types with its optional sdacl attribute.
type StructMember struct {
	Type  Types
	SDACL Attribute
}

// Struct is `full == 0x0D` (spec.md §4.3.6).
type Struct struct {
	TagByte   byte
	IsRef     bool
	RefType   Types // set only when IsRef
	Alignment uint16
	SDACL     Attribute
	Members   []StructMember
}

func (s *Struct) Tag() byte { return s.TagByte }

// Union is `full == 0x1D` (spec.md §4.3.6).
type Union struct {
	TagByte   byte
	IsRef     bool
	RefType   Types // set only when IsRef
	Alignment uint16
	SDACL     Attribute
	Members   []Types
}

func (u *Union) Tag() byte { return u.TagByte }

// Enum is `full == 0x2D` (spec.md §4.3.6).
type Enum struct {
	TagByte    byte
	IsRef      bool
	RefType    Types     // set only when IsRef
	SDACL      Attribute // set only when IsRef; non-ref form carries TAH instead
	TAH        Attribute
	ByteSize   uint64
	GroupSizes []uint16 // present only when bte&0x10 != 0
	Members    []uint64 // accumulated values, one per enumerant
}

func (e *Enum) Tag() byte { return e.TagByte }

// Bitfield is `base == 0x0E` (spec.md §4.3.6).
type Bitfield struct {
	TagByte  byte
	Width    uint16
	Unsigned bool
	NBytes   int
	TAH      Attribute
}

func (b Bitfield) Tag() byte { return b.TagByte }

// Unknown captures a tag byte this grammar doesn't recognize, along with
// the raw bytes up to the next NUL (spec.md §4.3.5).
type Unknown struct {
	TagByte byte
	Raw     []byte
}

func (u Unknown) Tag() byte { return u.TagByte }
