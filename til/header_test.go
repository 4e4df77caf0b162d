package til

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idbtil/idbtil/format"
	"github.com/idbtil/idbtil/limits"
)

// buildMinimalTIL assembles a TIL file with flags=0 (no Esi/Sld/Ord/Zip)
// and three empty buckets, exercising the unconditional preamble fields
// plus the "uncompressed_len == 0 still emits an empty bucket" rule
// (spec.md §4.3.2).
func buildMinimalTIL() []byte {
	buf := []byte(format.TILSignature)
	buf = append(buf, 1, 0, 0, 0) // format
	buf = append(buf, 0, 0, 0, 0) // flags
	buf = append(buf, 0)         // title (empty, 1-byte length prefix)
	buf = append(buf, 0)         // base (empty)
	buf = append(buf, 4, 1, 4, 1, 4, 0) // id, cm, size_i, size_b, size_e, def_align
	emptyBucket := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	buf = append(buf, emptyBucket...) // symbols
	buf = append(buf, emptyBucket...) // types
	buf = append(buf, emptyBucket...) // macros

	return buf
}

func TestParseSectionMinimal(t *testing.T) {
	sec, err := ParseSection(buildMinimalTIL(), limits.Default())
	require.NoError(t, err)
	require.Equal(t, uint32(1), sec.Format)
	require.Equal(t, uint8(4), sec.SizeI)
	require.Equal(t, uint8(4), sec.SizeE)
	require.NotNil(t, sec.Symbols)
	require.NotNil(t, sec.Types)
	require.NotNil(t, sec.Macros)
	require.Empty(t, sec.Symbols.Entries)
	require.Zero(t, sec.TypeOrdinalNumbers)
}

func TestParseSectionOrdFlagPlacement(t *testing.T) {
	buf := []byte(format.TILSignature)
	buf = append(buf, 1, 0, 0, 0)                         // format
	buf = append(buf, byte(format.TILOrd), 0, 0, 0)       // flags = Ord
	buf = append(buf, 0, 0)                               // title, base
	buf = append(buf, 4, 1, 4, 1, 4, 0)                   // sizes
	emptyBucket := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	buf = append(buf, emptyBucket...) // symbols
	buf = append(buf, 0x2A, 0, 0, 0)  // type_ordinal_numbers, between symbols and types
	buf = append(buf, emptyBucket...) // types
	buf = append(buf, emptyBucket...) // macros

	sec, err := ParseSection(buf, limits.Default())
	require.NoError(t, err)
	require.Equal(t, uint32(0x2A), sec.TypeOrdinalNumbers)
}

func TestParseSectionRejectsBadSignature(t *testing.T) {
	buf := []byte("BADSIG")
	_, err := ParseSection(buf, limits.Default())
	require.Error(t, err)
}
