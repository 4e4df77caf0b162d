package til

import (
	"fmt"
	"strings"
)

// leafNames is the built-in scalar naming table keyed by a tag byte's
// base view (spec.md §4.3.7).
var leafNames = map[byte]string{
	0: "unknown",
	1: "void",
	2: "int8",
	3: "int16",
	4: "int32",
	5: "int64",
	6: "int128",
	7: "int",
	8: "bool",
}

func leafName(tag byte) string {
	base := tag & 0x0F
	if base == 9 {
		switch tag & 0x30 {
		case 0x10:
			return "double"
		case 0x20:
			return "long double"
		case 0x30:
			return "special float"
		default:
			return "float"
		}
	}
	if name, ok := leafNames[base]; ok {
		return name
	}

	return fmt.Sprintf("unset(0x%02x)", tag)
}

// Render produces a minimal C-like rendering of t. bucket, when
// non-nil, is consulted to resolve Typedef references within the same
// enclosing bucket; a Typedef that cannot be resolved renders by its
// raw name or ordinal instead.
func Render(t Types, bucket *Bucket) string {
	switch v := t.(type) {
	case Unset:
		return leafName(v.TagByte)
	case *Pointer:
		return Render(v.Pointee, bucket) + " *"
	case *Array:
		return fmt.Sprintf("%s[%d]", Render(v.Element, bucket), v.NElem)
	case *Function:
		return renderFunction(v, bucket)
	case Typedef:
		return renderTypedef(v, bucket)
	case *Struct:
		return renderComposite("struct", v.Members, bucket)
	case *Union:
		return renderComposite("union", unionMembers(v), bucket)
	case *Enum:
		return fmt.Sprintf("enum /* %d bytes, %d members */", v.ByteSize, len(v.Members))
	case Bitfield:
		unsignedStr := "signed"
		if v.Unsigned {
			unsignedStr = "unsigned"
		}

		return fmt.Sprintf("%s bitfield:%d", unsignedStr, v.Width)
	case Unknown:
		return fmt.Sprintf("/* unknown tag 0x%02x */", v.TagByte)
	default:
		return "?"
	}
}

func renderFunction(f *Function, bucket *Bucket) string {
	args := make([]string, 0, len(f.Args))
	for _, a := range f.Args {
		args = append(args, Render(a.Type, bucket))
	}
	if f.VoidArgs {
		return fmt.Sprintf("%s (*)(void)", Render(f.Return, bucket))
	}

	return fmt.Sprintf("%s (*)(%s)", Render(f.Return, bucket), strings.Join(args, ", "))
}

func renderTypedef(t Typedef, bucket *Bucket) string {
	entry, ok := ResolveTypedef(bucket, t)
	if !ok {
		if t.IsOrdRef {
			return fmt.Sprintf("typedef#%d", t.Ordinal)
		}

		return t.Name
	}

	return Render(entry.Type, bucket)
}

func renderComposite(kw string, members []StructMember, bucket *Bucket) string {
	if len(members) == 0 {
		return kw
	}
	parts := make([]string, 0, len(members))
	for _, m := range members {
		parts = append(parts, Render(m.Type, bucket))
	}

	return fmt.Sprintf("%s { %s }", kw, strings.Join(parts, "; "))
}

func unionMembers(u *Union) []StructMember {
	out := make([]StructMember, 0, len(u.Members))
	for _, m := range u.Members {
		out = append(out, StructMember{Type: m})
	}

	return out
}
