package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignTo(t *testing.T) {
	tests := []struct {
		val, align, want uint64
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 4, 12},
		{13, 1, 13},
		{13, 0, 13},
		{0x400001, 4096, 0x401000},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, AlignTo(tt.val, tt.align), "AlignTo(%d, %d)", tt.val, tt.align)
	}
}

func TestRemovePrefix(t *testing.T) {
	rest, ok := RemovePrefix("-lfoo", "-l")
	assert.True(t, ok)
	assert.Equal(t, "foo", rest)

	rest, ok = RemovePrefix("foo.o", "-l")
	assert.False(t, ok)
	assert.Equal(t, "foo.o", rest)
}

func TestAddDashes(t *testing.T) {
	assert.Equal(t, []string{"-o"}, AddDashes("o"))
	assert.Equal(t, []string{"-output", "--output"}, AddDashes("output"))
}

func TestReadSlice(t *testing.T) {
	vals, err := ReadSlice[uint32]([]byte{1, 0, 0, 0, 2, 0, 0, 0}, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, vals)

	_, err = ReadSlice[uint32]([]byte{1, 0, 0}, 4)
	assert.Error(t, err)
}

func TestReadWrite(t *testing.T) {
	buf := make([]byte, 8)
	Write[uint16](buf[2:], 0xbeef)
	assert.Equal(t, []byte{0, 0, 0xef, 0xbe, 0, 0, 0, 0}, buf)

	var v uint16
	require.NoError(t, Read[uint16](buf[2:], &v))
	assert.Equal(t, uint16(0xbeef), v)
	assert.Error(t, Read[uint64](buf[:4], new(uint64)))
}
