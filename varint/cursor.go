// Package varint implements the primitive decoders for the format's
// bit-packed tag bytes and variable-length integer encodings: dt, de,
// da, tah, and sdacl (Component A). Every decoder operates on a Cursor,
// a byte-slice-backed reader that supports exactly one byte of
// push-back, which is all the grammar ever needs (Design Note, spec.md
// §9: "One-byte push-back for attribute headers").
package varint

import (
	"github.com/idbtil/idbtil/endian"
	"github.com/idbtil/idbtil/errs"
)

var byteOrder = endian.LE()

// Cursor reads sequentially through a byte slice, tracking position and
// allowing a single byte to be pushed back onto the stream.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a Cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current byte offset into the underlying buffer.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// Remaining returns the number of unconsumed bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// ReadByte consumes and returns the next byte.
func (c *Cursor) ReadByte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, errs.NewCodecError(c.pos, errs.ErrShortRead)
	}
	b := c.buf[c.pos]
	c.pos++

	return b, nil
}

// UnreadByte rewinds the cursor by one byte. Callers must not unread more
// than one byte without an intervening read.
func (c *Cursor) UnreadByte() {
	if c.pos > 0 {
		c.pos--
	}
}

// PeekByte returns the next byte without consuming it.
func (c *Cursor) PeekByte() (byte, error) {
	b, err := c.ReadByte()
	if err != nil {
		return 0, err
	}
	c.UnreadByte()

	return b, nil
}

// ReadBytes consumes and returns the next n bytes. The returned slice
// aliases the underlying buffer; callers must not retain it past the
// lifetime of the source data without copying.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, errs.NewCodecError(c.pos, errs.ErrShortRead)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

// Skip advances the cursor by n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	_, err := c.ReadBytes(n)
	return err
}

// ReadCString consumes bytes up to and including the next NUL byte and
// returns the bytes before it (the NUL is consumed but not included).
func (c *Cursor) ReadCString() (string, error) {
	start := c.pos
	for c.pos < len(c.buf) {
		if c.buf[c.pos] == 0 {
			s := string(c.buf[start:c.pos])
			c.pos++

			return s, nil
		}
		c.pos++
	}

	return "", errs.NewCodecError(start, errs.ErrShortRead)
}

// ReadRestAsNUL consumes bytes up to (but not including) the next NUL
// byte, or the end of the buffer if no NUL is present, without consuming
// the terminator. Used by the Unknown type-tag variant.
func (c *Cursor) ReadRestAsNUL() []byte {
	start := c.pos
	for c.pos < len(c.buf) && c.buf[c.pos] != 0 {
		c.pos++
	}

	return c.buf[start:c.pos]
}

// ReadNULRun consumes bytes up to and including the next NUL byte and
// returns the raw bytes before it (the NUL is consumed but not
// included). Unlike ReadCString, the run is not interpreted as text —
// used to capture a tinfo or fields byte run for independent
// sub-parsing.
func (c *Cursor) ReadNULRun() ([]byte, error) {
	start := c.pos
	for c.pos < len(c.buf) {
		if c.buf[c.pos] == 0 {
			run := c.buf[start:c.pos]
			c.pos++

			return run, nil
		}
		c.pos++
	}

	return nil, errs.NewCodecError(start, errs.ErrShortRead)
}

// ReadString8 reads a 1-byte length prefix followed by that many bytes,
// the format's general-purpose length-prefixed string shape.
func (c *Cursor) ReadString8() (string, error) {
	n, err := c.ReadByte()
	if err != nil {
		return "", err
	}
	b, err := c.ReadBytes(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadUint16 reads a little-endian 16-bit integer.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}

	return byteOrder.Uint16(b), nil
}

// ReadUint32 reads a little-endian 32-bit integer.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}

	return byteOrder.Uint32(b), nil
}

// ReadUint64 reads a little-endian 64-bit integer.
func (c *Cursor) ReadUint64() (uint64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}

	return byteOrder.Uint64(b), nil
}
