// Package endian provides byte order utilities for binary encoding and
// decoding, shared by every component that reads fixed-width integers
// out of an IDB or TIL byte slice.
//
// The format committed to by the spec is little-endian throughout. The
// Engine interface itself is byte-order agnostic, but every decoder in
// this module holds a fixed LE() engine; none accepts a caller-supplied
// one.
package endian

import "encoding/binary"

// Engine combines ByteOrder and AppendByteOrder from encoding/binary into
// a single interface, satisfied directly by binary.LittleEndian and
// binary.BigEndian.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// LE is the little-endian engine mandated by the on-disk format (spec.md
// §6: "all integers are little-endian").
func LE() Engine { return binary.LittleEndian }

// BE is provided for completeness; nothing in the IDB/TIL grammar uses it.
func BE() Engine { return binary.BigEndian }
