// Package idbtil parses IDB container files and standalone TIL
// type-library files into an immutable, read-only object model.
//
// A typical use:
//
//	data, err := os.ReadFile("database.idb")
//	if err != nil {
//		log.Fatal(err)
//	}
//	db, err := idbtil.ParseIDB(data, idbtil.WithMaxTypeDepth(128))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, t := range db.TIL.Types.Entries {
//		fmt.Println(t.Name)
//	}
package idbtil

import (
	"github.com/idbtil/idbtil/idb"
	"github.com/idbtil/idbtil/internal/options"
	"github.com/idbtil/idbtil/limits"
	"github.com/idbtil/idbtil/til"
)

// IDB is the parsed root object model of an IDB file.
type IDB = idb.IDB

// TILSection is the parsed root object model of a standalone TIL file.
type TILSection = til.Section

// Option configures the resource bounds of a ParseIDB or ParseTIL call
// (Component J, spec.md §5).
type Option = options.Option[*limits.Limits]

// WithMaxTypeDepth overrides the recursive Types parsing depth cap.
func WithMaxTypeDepth(n int) Option {
	return options.New(func(l *limits.Limits) { l.MaxTypeDepth = n })
}

// WithMaxInflateSize overrides the safety margin added to a bucket's
// declared uncompressed_len when capping inflate output.
func WithMaxInflateSize(margin int) Option {
	return options.New(func(l *limits.Limits) { l.InflateSafetyMargin = margin })
}

// WithStrict turns isolated per-entry and per-bucket parse failures
// into whole-call errors instead of being recorded alongside the
// entries that parsed successfully.
func WithStrict(strict bool) Option {
	return options.New(func(l *limits.Limits) { l.Strict = strict })
}

// ParseIDB decodes a complete IDB file.
func ParseIDB(data []byte, opts ...Option) (*IDB, error) {
	lim := limits.Default()
	options.Apply(lim, opts...)

	return idb.Parse(data, lim)
}

// ParseTIL decodes a standalone TIL file — the ungated equivalent of
// taking the TIL section directly out of an IDB file.
func ParseTIL(data []byte, opts ...Option) (*TILSection, error) {
	lim := limits.Default()
	options.Apply(lim, opts...)

	return til.ParseSection(data, lim)
}
