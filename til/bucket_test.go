package til

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idbtil/idbtil/limits"
	"github.com/idbtil/idbtil/varint"
)

// TestParseBucketSingleEntry decodes a single-entry, uncompressed
// bucket and checks every field lands where the TypeInfo layout says
// it should (spec.md §3).
func TestParseBucketSingleEntry(t *testing.T) {
	payload := []byte{
		0, 0, 0, 0, // flags
		'f', 'o', 'o', 0, // name
		1, 0, 0, 0, // ordinal (u32 form)
		0x02, 0x00, // tinfo run: Unset tag 0x02, NUL terminator
		0x00,       // _info (empty)
		0x00,       // comment (empty)
		0x00,       // fields (empty)
		0x00,       // fieldcmts (empty)
		0x00,       // sclass
	}
	stream := []byte{1, 0, 0, 0} // ndefs=1
	stream = append(stream, byte(len(payload)), 0, 0, 0)
	stream = append(stream, payload...)

	c := varint.NewCursor(stream)
	bucket, err := parseBucket(c, limits.Default(), 0, false)
	require.NoError(t, err)

	require.Equal(t, uint32(1), bucket.NDefs)
	require.Len(t, bucket.Entries, 1)
	require.Empty(t, bucket.Failures)

	entry := bucket.Entries[0]
	require.Equal(t, "foo", entry.Name)
	require.Equal(t, uint64(1), entry.Ordinal)
	require.False(t, entry.IsU64Ordinal)
	require.Equal(t, Unset{TagByte: 0x02}, entry.Type)
	require.Equal(t, uint8(0), entry.StorageClass)

	got, ok := bucket.ByOrdinal(1)
	require.True(t, ok)
	require.Equal(t, "foo", got.Name)

	byName, ok := bucket.ByName("foo")
	require.True(t, ok)
	require.Equal(t, uint64(1), byName.Ordinal)

	_, ok = bucket.ByName("nope")
	require.False(t, ok)
}

// TestParseBucketEntryCountNeverExceedsNDefs checks the structural
// entry cap: a bucket never parses past its own declared ndefs, even
// given extra trailing payload bytes.
func TestParseBucketEntryCountNeverExceedsNDefs(t *testing.T) {
	entry := []byte{
		0, 0, 0, 0,
		'a', 0,
		1, 0, 0, 0,
		0x01, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00,
	}
	var payload []byte
	payload = append(payload, entry...)
	payload = append(payload, entry...)
	payload = append(payload, entry...) // three valid entries present

	stream := []byte{2, 0, 0, 0} // ndefs declares only 2
	stream = append(stream, byte(len(payload)), 0, 0, 0)
	stream = append(stream, payload...)

	c := varint.NewCursor(stream)
	bucket, err := parseBucket(c, limits.Default(), 0, false)
	require.NoError(t, err)
	require.Len(t, bucket.Entries, 2)
}

// TestParseBucketZippedDecompressionFailureIsolated checks that a
// corrupt zlib-flagged bucket is isolated (empty bucket, no error)
// rather than failing the whole file (spec.md §4.2 step 4).
func TestParseBucketZippedDecompressionFailureIsolated(t *testing.T) {
	stream := []byte{
		5, 0, 0, 0, // ndefs
		100, 0, 0, 0, // uncompressed_len
		4, 0, 0, 0, // compressed_len
		0xDE, 0xAD, 0xBE, 0xEF, // not a valid zlib stream
	}

	c := varint.NewCursor(stream)
	bucket, err := parseBucket(c, limits.Default(), 0, true)
	require.NoError(t, err)
	require.Equal(t, uint32(5), bucket.NDefs)
	require.Empty(t, bucket.Entries)
}
