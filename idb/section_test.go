package idb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idbtil/idbtil/errs"
	"github.com/idbtil/idbtil/format"
	"github.com/idbtil/idbtil/limits"
)

func TestReadSectionUncompressed(t *testing.T) {
	payload := []byte("hello section")
	buf := make([]byte, sectionHeaderSize)
	buf[0] = byte(format.MethodNone)
	byteOrder.PutUint64(buf[1:9], uint64(len(payload)))
	buf = append(buf, payload...)

	sec, err := ReadSection(buf, 0, limits.Default())
	require.NoError(t, err)
	require.Equal(t, format.MethodNone, sec.CompressionMethod)
	require.Equal(t, payload, sec.Payload)
}

func TestReadSectionRejectsOutOfRangeOffset(t *testing.T) {
	_, err := ReadSection(make([]byte, 4), 100, limits.Default())
	require.ErrorIs(t, err, errs.ErrInvalidOffset)
}

func TestReadSectionRejectsTruncatedPayload(t *testing.T) {
	buf := make([]byte, sectionHeaderSize)
	byteOrder.PutUint64(buf[1:9], 1000) // declares far more than available
	_, err := ReadSection(buf, 0, limits.Default())
	require.ErrorIs(t, err, errs.ErrInvalidOffset)
}

func TestReadSectionRejectsUnsupportedCodec(t *testing.T) {
	buf := make([]byte, sectionHeaderSize)
	buf[0] = 0xEE
	_, err := ReadSection(buf, 0, limits.Default())
	require.ErrorIs(t, err, errs.ErrUnsupportedCodec)
}
