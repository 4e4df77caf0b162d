// Package btree decodes the ID0 section's paged, prefix-compressed
// key-value store (Component C, spec.md §3, §4.3.1).
package btree

import (
	"strings"

	"github.com/idbtil/idbtil/endian"
	"github.com/idbtil/idbtil/errs"
)

const preambleSize = 4 + 2 + 4 + 4 + 4 + 1 + 25

var byteOrder = endian.LE()

// Entry is one decoded (key, value) record from a page. Branch entries
// additionally carry the page index of their left child.
type Entry struct {
	IsLeaf    bool
	ChildPage uint32
	Key       []byte
	Value     []byte
}

// Page is one page_size-byte slice of the ID0 section, indexed from 1.
type Page struct {
	RightChild uint32
	IsLeaf     bool
	Entries    []Entry
}

// Tree is the decoded ID0 B-tree: the preamble fields plus every page,
// indexed 1..PageCount (index 0 is unused, matching the on-disk
// preamble occupying that slot).
type Tree struct {
	PageSize    uint16
	RootPage    uint32
	RecordCount uint32
	PageCount   uint32
	Version     string
	Pages       []Page
}

// Parse decodes the preamble and every page of an ID0 section.
func Parse(section []byte) (*Tree, error) {
	if len(section) < preambleSize {
		return nil, errs.ErrTruncatedPage
	}

	pageSize := byteOrder.Uint16(section[4:6])
	if pageSize == 0 {
		return nil, errs.ErrInvalidPageSize
	}
	rootPage := byteOrder.Uint32(section[6:10])
	recordCount := byteOrder.Uint32(section[10:14])
	pageCount := byteOrder.Uint32(section[14:18])
	version := parseVersion(section[19:44])

	t := &Tree{
		PageSize:    pageSize,
		RootPage:    rootPage,
		RecordCount: recordCount,
		PageCount:   pageCount,
		Version:     version,
		Pages:       make([]Page, pageCount+1),
	}

	for p := uint32(1); p <= pageCount; p++ {
		page, err := parsePage(section, pageSize, p)
		if err != nil {
			return nil, err
		}
		t.Pages[p] = page
	}

	return t, nil
}

func parseVersion(sig []byte) string {
	const prefix = "B-tree "
	s := string(sig)
	if !strings.HasPrefix(s, prefix) {
		return ""
	}
	rest := s[len(prefix):]

	end := 0
	for end < len(rest) && (rest[end] == '.' || (rest[end] >= '0' && rest[end] <= '9')) {
		end++
	}

	return rest[:end]
}

func parsePage(section []byte, pageSize uint16, index uint32) (Page, error) {
	start := uint64(index) * uint64(pageSize)
	end := start + uint64(pageSize)
	if end > uint64(len(section)) {
		return Page{}, errs.ErrPageOutOfRange
	}
	buf := section[start:end]
	if len(buf) < 6 {
		return Page{}, errs.ErrTruncatedPage
	}

	rightChild := byteOrder.Uint32(buf[0:4])
	entryCount := byteOrder.Uint16(buf[4:6])
	isLeaf := rightChild == 0

	page := Page{RightChild: rightChild, IsLeaf: isLeaf}

	var prevKey []byte
	for i := uint16(0); i < entryCount; i++ {
		recStart := 6 + int(i)*6
		if recStart+6 > len(buf) {
			return Page{}, errs.ErrTruncatedPage
		}
		rec := buf[recStart : recStart+6]

		var childPage uint32
		var commonPrefix uint16
		var dataOffset uint16
		if isLeaf {
			commonPrefix = byteOrder.Uint16(rec[0:2])
			dataOffset = byteOrder.Uint16(rec[4:6])
		} else {
			childPage = byteOrder.Uint32(rec[0:4])
			dataOffset = byteOrder.Uint16(rec[4:6])
		}

		key, val, err := readRecord(buf, int(dataOffset))
		if err != nil {
			return Page{}, err
		}

		if isLeaf {
			// Clamp an overflowing common_prefix to the previous key's
			// length; real-world ID0 sections are known to trigger this
			// (spec.md §4.3.1).
			if int(commonPrefix) > len(prevKey) {
				commonPrefix = uint16(len(prevKey))
			}
			full := make([]byte, 0, int(commonPrefix)+len(key))
			full = append(full, prevKey[:commonPrefix]...)
			full = append(full, key...)
			key = full
			prevKey = key
		}

		page.Entries = append(page.Entries, Entry{
			IsLeaf:    isLeaf,
			ChildPage: childPage,
			Key:       key,
			Value:     val,
		})
	}

	return page, nil
}

func readRecord(buf []byte, offset int) (key, value []byte, err error) {
	if offset < 0 || offset+2 > len(buf) {
		return nil, nil, errs.ErrTruncatedBTreeRecord
	}
	keyLen := int(byteOrder.Uint16(buf[offset : offset+2]))
	pos := offset + 2
	if pos+keyLen > len(buf) {
		return nil, nil, errs.ErrTruncatedBTreeRecord
	}
	key = buf[pos : pos+keyLen]
	pos += keyLen

	if pos+2 > len(buf) {
		return nil, nil, errs.ErrTruncatedBTreeRecord
	}
	valLen := int(byteOrder.Uint16(buf[pos : pos+2]))
	pos += 2
	if pos+valLen > len(buf) {
		return nil, nil, errs.ErrTruncatedBTreeRecord
	}
	value = buf[pos : pos+valLen]

	return key, value, nil
}

// Entries returns every (key, value) pair in the tree, in ascending key
// order, via an in-order walk from the root page. Malformed child-page
// cycles are broken by visiting each page index at most once.
func (t *Tree) Entries() []Entry {
	if t.RootPage == 0 || int(t.RootPage) >= len(t.Pages) {
		return nil
	}

	visited := make(map[uint32]bool)
	var out []Entry

	var walk func(idx uint32)
	walk = func(idx uint32) {
		if idx == 0 || int(idx) >= len(t.Pages) || visited[idx] {
			return
		}
		visited[idx] = true

		page := t.Pages[idx]
		if page.IsLeaf {
			out = append(out, page.Entries...)
			return
		}
		for _, e := range page.Entries {
			walk(e.ChildPage)
			out = append(out, e)
		}
		walk(page.RightChild)
	}
	walk(t.RootPage)

	return out
}
