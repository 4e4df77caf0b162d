package varint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idbtil/idbtil/errs"
)

func TestReadDT(t *testing.T) {
	t.Run("single byte", func(t *testing.T) {
		c := NewCursor([]byte{0x01})
		v, err := ReadDT(c)
		require.NoError(t, err)
		require.Equal(t, uint16(0), v)
		require.Equal(t, 1, c.Pos())
	})

	t.Run("two byte", func(t *testing.T) {
		// 0x81 0x02 -> ((0x01) | (0x02 << 7)) - 1 = 0x100
		c := NewCursor([]byte{0x81, 0x02})
		v, err := ReadDT(c)
		require.NoError(t, err)
		require.Equal(t, uint16(0x100), v)
		require.Equal(t, 2, c.Pos())
	})

	t.Run("round trip across the full range", func(t *testing.T) {
		for n := uint16(0); n < MaxDT; n += 97 {
			enc := EncodeDT(n)
			c := NewCursor(enc)
			got, err := ReadDT(c)
			require.NoError(t, err)
			require.Equal(t, n, got)
			require.Equal(t, len(enc), c.Pos())
		}
	})

	t.Run("short read", func(t *testing.T) {
		c := NewCursor([]byte{0x81})
		_, err := ReadDT(c)
		require.Error(t, err)
	})
}

func TestReadDE(t *testing.T) {
	t.Run("single byte", func(t *testing.T) {
		c := NewCursor([]byte{0x3F})
		v, err := ReadDE(c)
		require.NoError(t, err)
		require.Equal(t, uint32(0x3F), v)
	})

	t.Run("two byte", func(t *testing.T) {
		// first byte's high bit signals continuation
		c := NewCursor([]byte{0x81, 0x02})
		v, err := ReadDE(c)
		require.NoError(t, err)
		require.Equal(t, uint32(0x42), v)
	})

	t.Run("unterminated fails after five bytes", func(t *testing.T) {
		c := NewCursor([]byte{0x80, 0x80, 0x80, 0x80, 0x80})
		_, err := ReadDE(c)
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrBadVarint)
	})

	t.Run("round trip for small values", func(t *testing.T) {
		for n := uint32(0); n < 1<<20; n += 7919 {
			// Re-encode manually using the inverse of ReadDE's accumulator.
			buf := encodeDEForTest(n)
			c := NewCursor(buf)
			got, err := ReadDE(c)
			require.NoError(t, err)
			require.Equal(t, n, got)
		}
	})
}

// encodeDEForTest inverts ReadDE's accumulator for round-trip testing.
func encodeDEForTest(n uint32) []byte {
	var chunks []byte
	chunks = append(chunks, byte(n&0x3F))
	n >>= 6
	for n > 0 {
		chunks = append(chunks, byte(n&0x7F)|0x80)
		n >>= 7
	}
	// Reverse into stream order: continuation bytes first, terminator last.
	out := make([]byte, len(chunks))
	for i, b := range chunks {
		out[len(chunks)-1-i] = b
	}
	// All but the last byte need the continuation bit set.
	for i := 0; i < len(out)-1; i++ {
		out[i] |= 0x80
	}
	out[len(out)-1] &^= 0x80

	return out
}

func TestReadDA(t *testing.T) {
	t.Run("no continuation byte yields zero DA", func(t *testing.T) {
		c := NewCursor([]byte{0x05})
		da, err := ReadDA(c)
		require.NoError(t, err)
		require.Equal(t, DA{}, da)
		require.Equal(t, 0, c.Pos(), "non-continuation byte must be pushed back")
	})

	t.Run("four continuation bytes and a non-zero sentinel yield a base", func(t *testing.T) {
		c := NewCursor([]byte{0x81, 0x82, 0x83, 0x84, 0x01, 0x20})
		da, err := ReadDA(c)
		require.NoError(t, err)
		require.NotZero(t, da.Base)
	})
}

func TestReadTAHSDACL(t *testing.T) {
	t.Run("tah not present is pushed back", func(t *testing.T) {
		c := NewCursor([]byte{0x00, 0x99})
		attr, err := ReadTAH(c)
		require.NoError(t, err)
		require.Equal(t, Attribute{}, attr)
		require.Equal(t, 0, c.Pos())
	})

	t.Run("tah 0xFE header with terminated value", func(t *testing.T) {
		c := NewCursor([]byte{0xFE, 0x05})
		attr, err := ReadTAH(c)
		require.NoError(t, err)
		require.Equal(t, uint16(5), attr.Val)
	})

	t.Run("sdacl detection predicate", func(t *testing.T) {
		require.True(t, isSDACLHeader(0xC0))
		require.False(t, isSDACLHeader(0x04))
	})
}
