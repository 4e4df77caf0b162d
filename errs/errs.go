// Package errs collects the sentinel errors surfaced by idbtil's parsers.
//
// Every error kind named in the IDB/TIL grammar documentation is a
// distinct sentinel here, so callers can discriminate with errors.Is.
// Parsers that need to attach positional context wrap a sentinel with
// CodecError or GrammarError rather than inventing new error types.
package errs

import (
	"errors"
	"fmt"
)

// Header and section framing errors (Component B). These are whole-file
// or whole-section fatal, per the error-kind table.
var (
	ErrInvalidSignature      = errors.New("idbtil: invalid IDB signature")
	ErrInvalidSecondaryMagic = errors.New("idbtil: invalid secondary magic")
	ErrUnsupportedVersion    = errors.New("idbtil: unsupported IDB version")
	ErrInvalidOffset         = errors.New("idbtil: section offset out of range")
	ErrInvalidHeaderSize     = errors.New("idbtil: invalid header size")
	ErrUnsupportedCodec      = errors.New("idbtil: unsupported compression method")
	ErrDecompression         = errors.New("idbtil: decompression failed")
	ErrInflateCapExceeded    = errors.New("idbtil: inflated payload exceeds declared size cap")
)

// ID0 B-tree errors (Component C).
var (
	ErrInvalidPageSize      = errors.New("idbtil: ID0 page size is zero")
	ErrPageOutOfRange       = errors.New("idbtil: ID0 page index out of range")
	ErrTruncatedPage        = errors.New("idbtil: ID0 page truncated")
	ErrTruncatedBTreeRecord = errors.New("idbtil: ID0 key/value record truncated")
)

// Primitive codec errors (Component A). Wrapped by CodecError when the
// caller needs to record where in the stream the failure occurred.
var (
	ErrShortRead      = errors.New("idbtil: short read decoding primitive")
	ErrBadVarint      = errors.New("idbtil: malformed varint")
	ErrBadAttrHeader  = errors.New("idbtil: malformed attribute header")
)

// Type grammar errors (Component E). Wrapped by GrammarError.
var (
	ErrUnexpectedTag          = errors.New("idbtil: unexpected type tag")
	ErrDepthExceeded          = errors.New("idbtil: type recursion depth exceeded")
	ErrBucketEntryCapExceeded = errors.New("idbtil: bucket entry count exceeds declared ndefs")
	ErrSpecialPEUnsupported   = errors.New("idbtil: special-PE calling convention with non-void return is unsupported")
)

// CodecError reports a failure in a Component A primitive decoder
// (dt/de/da/tah/sdacl), with the byte offset the decoder was at when it
// failed.
type CodecError struct {
	Offset int
	Err    error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("idbtil: codec error at offset %d: %v", e.Offset, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

// NewCodecError wraps err as a CodecError positioned at offset.
func NewCodecError(offset int, err error) *CodecError {
	return &CodecError{Offset: offset, Err: err}
}

// GrammarError reports a failure parsing a Types variant, with the byte
// offset the sub-parser started at.
type GrammarError struct {
	Offset int
	Err    error
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("idbtil: grammar error at offset %d: %v", e.Offset, e.Err)
}

func (e *GrammarError) Unwrap() error { return e.Err }

// NewGrammarError wraps err as a GrammarError positioned at offset.
func NewGrammarError(offset int, err error) *GrammarError {
	return &GrammarError{Offset: offset, Err: err}
}
