package btree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idbtil/idbtil/errs"
)

// buildSection assembles a minimal one-page ID0 section: a 44-byte
// preamble (page_size=64, root_page=1, record_count=2, page_count=1,
// version "B-tree 2.1"), padded out to the start of page 1, followed by
// a single leaf page holding two prefix-compressed keys ("aaa" -> "1",
// "aab" -> "2", the second stored as a 2-byte common_prefix plus
// suffix "b").
func buildSection() []byte {
	preamble := make([]byte, preambleSize)
	preamble[4], preamble[5] = 64, 0 // page_size=64
	preamble[6], preamble[7], preamble[8], preamble[9] = 1, 0, 0, 0 // root_page
	preamble[10], preamble[11], preamble[12], preamble[13] = 2, 0, 0, 0 // record_count
	preamble[14], preamble[15], preamble[16], preamble[17] = 1, 0, 0, 0 // page_count
	copy(preamble[19:], "B-tree 2.1")

	section := make([]byte, 64) // preamble + padding up to page 1's start
	copy(section, preamble)

	page := make([]byte, 64)
	// rightChild=0 (leaf), entryCount=2
	page[4], page[5] = 2, 0
	// entry 0: common_prefix=0, data_offset=18
	copy(page[6:12], []byte{0, 0, 0, 0, 18, 0})
	// entry 1: common_prefix=2, data_offset=26
	copy(page[12:18], []byte{2, 0, 0, 0, 26, 0})
	// record 0 at offset 18: key "aaa", value "1"
	copy(page[18:26], []byte{3, 0, 'a', 'a', 'a', 1, 0, '1'})
	// record 1 at offset 26: suffix key "b", value "2"
	copy(page[26:32], []byte{1, 0, 'b', 1, 0, '2'})

	return append(section, page...)
}

func TestParsePreamble(t *testing.T) {
	tr, err := Parse(buildSection())
	require.NoError(t, err)
	require.Equal(t, uint16(64), tr.PageSize)
	require.Equal(t, uint32(1), tr.RootPage)
	require.Equal(t, uint32(2), tr.RecordCount)
	require.Equal(t, uint32(1), tr.PageCount)
	require.Equal(t, "2.1", tr.Version)
}

func TestParsePageReconstructsPrefixedKeys(t *testing.T) {
	tr, err := Parse(buildSection())
	require.NoError(t, err)

	page := tr.Pages[1]
	require.True(t, page.IsLeaf)
	require.Equal(t, uint32(0), page.RightChild)
	require.Len(t, page.Entries, 2)

	require.Equal(t, []byte("aaa"), page.Entries[0].Key)
	require.Equal(t, []byte("1"), page.Entries[0].Value)

	// The second entry's stored key is only the "b" suffix; Parse must
	// reconstruct the full key by prefixing the previous key's first
	// common_prefix bytes.
	require.Equal(t, []byte("aab"), page.Entries[1].Key)
	require.Equal(t, []byte("2"), page.Entries[1].Value)
}

func TestTreeEntriesWalksInOrder(t *testing.T) {
	tr, err := Parse(buildSection())
	require.NoError(t, err)

	entries := tr.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, []byte("aaa"), entries[0].Key)
	require.Equal(t, []byte("aab"), entries[1].Key)
}

func TestParseRejectsTruncatedSection(t *testing.T) {
	_, err := Parse(make([]byte, preambleSize-1))
	require.Error(t, err)
}

func TestParseRejectsZeroPageSize(t *testing.T) {
	buf := make([]byte, preambleSize)
	_, err := Parse(buf)
	require.ErrorIs(t, err, errs.ErrInvalidPageSize)
}
