// Package limits holds the resource bounds an implementation must
// enforce against adversarial input (spec.md §5): a recursive Types
// depth cap, and a safety margin added on top of a bucket's declared
// uncompressed_len when sizing the inflate output buffer. The bucket
// entry cap itself is structural (a bucket never parses more than its
// declared ndefs entries) and needs no configuration knob.
package limits

// DefaultMaxTypeDepth is the suggested recursion depth cap from spec.md
// §5.
const DefaultMaxTypeDepth = 256

// DefaultInflateSafetyMargin is added to a bucket's declared
// uncompressed_len when capping inflate output, to tolerate the rare
// corpus file whose declared length undercounts by a few bytes without
// opening the door to unbounded decompression.
const DefaultInflateSafetyMargin = 8192

// Limits bundles every resource bound honored by a parse.
type Limits struct {
	// MaxTypeDepth caps recursive Types parsing (Component E). Exceeding
	// it yields errs.ErrDepthExceeded.
	MaxTypeDepth int

	// InflateSafetyMargin is added to a bucket's declared
	// uncompressed_len to form the hard cap passed to a Decompressor.
	InflateSafetyMargin int

	// Strict turns a per-entry or per-bucket isolated failure into a
	// file-level error instead of recording it alongside the
	// successfully parsed entries (spec.md §7's default isolation
	// policy, invertible for corpus-validation tooling).
	Strict bool
}

// Default returns the Limits a parse uses when no options override them.
func Default() *Limits {
	return &Limits{
		MaxTypeDepth:        DefaultMaxTypeDepth,
		InflateSafetyMargin: DefaultInflateSafetyMargin,
	}
}
