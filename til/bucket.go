package til

import (
	"github.com/idbtil/idbtil/compress"
	"github.com/idbtil/idbtil/format"
	"github.com/idbtil/idbtil/limits"
	"github.com/idbtil/idbtil/varint"
)

// ordinalBit31 selects the u64-vs-u32 ordinal width of a TypeInfo
// entry's flags field (spec.md §3).
const ordinalBit31 = 1 << 31

// EntryError records why a bucket stopped parsing short of its
// declared ndefs entries. Entries before the failure remain valid
// (spec.md §4.3.3).
type EntryError struct {
	Index int
	Err   error
}

func (e EntryError) Error() string { return e.Err.Error() }

// TypeInfo is one decoded entry inside a bucket (spec.md §3).
type TypeInfo struct {
	Flags        uint32
	Name         string
	Ordinal      uint64
	IsU64Ordinal bool
	Type         Types
	// Remainder holds any bytes left over when Type's recursive parse
	// consumed fewer bytes than the tinfo run contained.
	Remainder     []byte
	Comment       string
	Fields        []string
	FieldComments string
	StorageClass  uint8
}

// Bucket is one of a TIL section's three fixed buckets (symbols, types,
// macros). Entries holds every successfully parsed TypeInfo, in file
// order; Failures records isolated per-entry parse failures without
// invalidating entries parsed before them.
type Bucket struct {
	NDefs           uint32
	UncompressedLen uint32
	Entries         []TypeInfo
	Failures        []EntryError

	byOrdinal map[uint64]int
	byName    *nameIndex
}

func parseBucket(c *varint.Cursor, lim *limits.Limits, sizeE uint8, zipped bool) (*Bucket, error) {
	ndefs, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	uncompressedLen, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}

	bucket := &Bucket{NDefs: ndefs, UncompressedLen: uncompressedLen}

	var payload []byte
	if zipped {
		compressedLen, err := c.ReadUint32()
		if err != nil {
			return nil, err
		}
		raw, err := c.ReadBytes(int(compressedLen))
		if err != nil {
			return nil, err
		}

		codec, err := compress.Get(format.MethodZlib)
		if err != nil {
			return nil, err
		}
		maxSize := int(uncompressedLen) + lim.InflateSafetyMargin
		out, err := codec.Decompress(raw, maxSize)
		if err != nil {
			// Decompression failure is isolated to this bucket, not
			// fatal to the whole file (spec.md §4.2 step 4), unless the
			// caller opted into Strict mode for corpus validation.
			if lim.Strict {
				return nil, err
			}
			bucket.buildIndexes()
			return bucket, nil
		}
		payload = out
	} else {
		raw, err := c.ReadBytes(int(uncompressedLen))
		if err != nil {
			return nil, err
		}
		payload = raw
	}

	sub := varint.NewCursor(payload)
	for i := uint32(0); i < ndefs; i++ {
		entry, err := parseTypeInfo(sub, lim, sizeE)
		if err != nil {
			if lim.Strict {
				return nil, err
			}
			bucket.Failures = append(bucket.Failures, EntryError{Index: int(i), Err: err})
			break
		}
		bucket.Entries = append(bucket.Entries, entry)
	}

	bucket.buildIndexes()

	return bucket, nil
}

func parseTypeInfo(c *varint.Cursor, lim *limits.Limits, sizeE uint8) (TypeInfo, error) {
	flags, err := c.ReadUint32()
	if err != nil {
		return TypeInfo{}, err
	}

	name, err := c.ReadCString()
	if err != nil {
		return TypeInfo{}, err
	}

	var ordinal uint64
	isU64 := flags&ordinalBit31 != 0
	if isU64 {
		ordinal, err = c.ReadUint64()
	} else {
		var v uint32
		v, err = c.ReadUint32()
		ordinal = uint64(v)
	}
	if err != nil {
		return TypeInfo{}, err
	}

	tinfoRun, err := c.ReadNULRun()
	if err != nil {
		return TypeInfo{}, err
	}
	tinfoCursor := varint.NewCursor(tinfoRun)
	parsedType, err := ParseTypes(tinfoCursor, lim, sizeE)
	if err != nil {
		return TypeInfo{}, err
	}
	var remainder []byte
	if tinfoCursor.Remaining() > 0 {
		remainder, _ = tinfoCursor.ReadBytes(tinfoCursor.Remaining())
	}

	// The "_info" field is reserved/unused by this model; it is still
	// consumed to keep the cursor aligned with the next field.
	if _, err := c.ReadCString(); err != nil {
		return TypeInfo{}, err
	}

	comment, err := c.ReadCString()
	if err != nil {
		return TypeInfo{}, err
	}

	fieldsRun, err := c.ReadNULRun()
	if err != nil {
		return TypeInfo{}, err
	}
	var fields []string
	fieldsCursor := varint.NewCursor(fieldsRun)
	for fieldsCursor.Remaining() > 0 {
		s, err := fieldsCursor.ReadString8()
		if err != nil {
			break
		}
		fields = append(fields, s)
	}

	fieldComments, err := c.ReadCString()
	if err != nil {
		return TypeInfo{}, err
	}

	sclass, err := c.ReadByte()
	if err != nil {
		return TypeInfo{}, err
	}

	return TypeInfo{
		Flags:         flags,
		Name:          name,
		Ordinal:       ordinal,
		IsU64Ordinal:  isU64,
		Type:          parsedType,
		Remainder:     remainder,
		Comment:       comment,
		Fields:        fields,
		FieldComments: fieldComments,
		StorageClass:  sclass,
	}, nil
}
