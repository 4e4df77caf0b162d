// Package compress implements the Component H codec registry: a
// dispatch table from a format.CompressionMethod byte to a Decompressor,
// used both for the outer IDB SectionHeader (spec.md §3) and for TIL
// bucket bodies that carry the Zip flag (spec.md §4.2).
//
// The registry shape mirrors the teacher package's Codec abstraction
// (compress.Compressor/Decompressor/Codec, CreateCodec/GetCodec): one
// interface per direction, a factory keyed by an enum, and a map of
// ready-made instances for the common case.
package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/idbtil/idbtil/errs"
	"github.com/idbtil/idbtil/format"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Decompressor inflates a compressed payload to its original bytes.
type Decompressor interface {
	// Decompress inflates data. maxSize caps the output size; exceeding
	// it is reported as errs.ErrInflateCapExceeded rather than letting
	// an adversarial input exhaust memory (spec.md §5).
	Decompress(data []byte, maxSize int) ([]byte, error)
}

// NoOpCodec passes data through unchanged; it backs
// format.MethodNone.
type NoOpCodec struct{}

// Decompress implements Decompressor.
func (NoOpCodec) Decompress(data []byte, maxSize int) ([]byte, error) {
	if maxSize > 0 && len(data) > maxSize {
		return nil, errs.ErrInflateCapExceeded
	}

	return data, nil
}

// ZlibCodec inflates an RFC 1950 zlib stream, the codec mandated by
// spec.md §4.2 for both section and TIL bucket payloads. It uses
// klauspost/compress/zlib, a drop-in replacement for the standard
// library's compress/zlib with lower per-call allocation overhead, the
// same choice the teacher package makes for all of its payload codecs.
type ZlibCodec struct{}

// Decompress implements Decompressor.
func (ZlibCodec) Decompress(data []byte, maxSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDecompression, err)
	}
	defer r.Close()

	limit := int64(maxSize)
	if maxSize <= 0 {
		limit = 1<<63 - 1
	}
	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDecompression, err)
	}
	if maxSize > 0 && len(out) > maxSize {
		return nil, errs.ErrInflateCapExceeded
	}

	return out, nil
}

// LZ4Codec inflates an LZ4 frame. Registered for CompressionMethod
// byte 2 as a forward-compatible codec; no section observed in the
// spec's corpus declares this method today (see DESIGN.md).
type LZ4Codec struct{}

// Decompress implements Decompressor.
func (LZ4Codec) Decompress(data []byte, maxSize int) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(data))
	limit := int64(maxSize)
	if maxSize <= 0 {
		limit = 1<<63 - 1
	}
	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDecompression, err)
	}
	if maxSize > 0 && len(out) > maxSize {
		return nil, errs.ErrInflateCapExceeded
	}

	return out, nil
}

// S2Codec inflates an S2 (Snappy-compatible) block. Registered for
// CompressionMethod byte 3; see DESIGN.md.
type S2Codec struct{}

// Decompress implements Decompressor.
func (S2Codec) Decompress(data []byte, maxSize int) ([]byte, error) {
	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDecompression, err)
	}
	if maxSize > 0 && len(out) > maxSize {
		return nil, errs.ErrInflateCapExceeded
	}

	return out, nil
}

// ZstdCodec inflates a zstd frame. Registered for CompressionMethod
// byte 4; see DESIGN.md.
type ZstdCodec struct{}

// Decompress implements Decompressor.
func (ZstdCodec) Decompress(data []byte, maxSize int) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDecompression, err)
	}
	defer dec.Close()

	limit := int64(maxSize)
	if maxSize <= 0 {
		limit = 1<<63 - 1
	}
	out, err := io.ReadAll(io.LimitReader(dec, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDecompression, err)
	}
	if maxSize > 0 && len(out) > maxSize {
		return nil, errs.ErrInflateCapExceeded
	}

	return out, nil
}

var builtinCodecs = map[format.CompressionMethod]Decompressor{
	format.MethodNone: NoOpCodec{},
	format.MethodZlib: ZlibCodec{},
	format.MethodLZ4:  LZ4Codec{},
	format.MethodS2:   S2Codec{},
	format.MethodZstd: ZstdCodec{},
}

// Get retrieves the built-in Decompressor for method, or
// errs.ErrUnsupportedCodec if method is not registered.
func Get(method format.CompressionMethod) (Decompressor, error) {
	if c, ok := builtinCodecs[method]; ok {
		return c, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCodec, method)
}
