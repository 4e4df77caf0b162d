package til

import "github.com/idbtil/idbtil/internal/index"

// nameIndex wraps the hashed by-name lookup for a single bucket's
// entries (Component I, spec.md §4.3.7).
type nameIndex struct {
	idx *index.ByName
}

func (b *Bucket) buildIndexes() {
	b.byOrdinal = make(map[uint64]int, len(b.Entries))
	ni := index.NewByName()
	for i, e := range b.Entries {
		b.byOrdinal[e.Ordinal] = i
		if e.Name != "" {
			ni.Add(e.Name, i)
		}
	}
	b.byName = &nameIndex{idx: ni}
}

// ByOrdinal looks up the TypeInfo entry whose Ordinal matches ordinal.
func (b *Bucket) ByOrdinal(ordinal uint64) (TypeInfo, bool) {
	if b == nil {
		return TypeInfo{}, false
	}
	i, ok := b.byOrdinal[ordinal]
	if !ok {
		return TypeInfo{}, false
	}

	return b.Entries[i], true
}

// ByName looks up the TypeInfo entry whose Name matches name exactly.
func (b *Bucket) ByName(name string) (TypeInfo, bool) {
	if b == nil || b.byName == nil {
		return TypeInfo{}, false
	}
	for _, i := range b.byName.idx.Lookup(name) {
		if b.Entries[i].Name == name {
			return b.Entries[i], true
		}
	}

	return TypeInfo{}, false
}

// ResolveTypedef follows a Typedef variant to the TypeInfo entry it
// names, within the given bucket. Resolution is always on-demand: the
// Types tree never stores a direct pointer to another entry (spec.md
// §3's "logical links" invariant).
func ResolveTypedef(b *Bucket, t Typedef) (TypeInfo, bool) {
	if t.IsOrdRef {
		return b.ByOrdinal(uint64(t.Ordinal))
	}

	return b.ByName(t.Name)
}
