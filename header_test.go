package pak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exectails/huskypak/internal/obfuscate"
)

func TestHeaderDecode(t *testing.T) {
	t.Parallel()

	h := newHeader(0x1234, true)
	assert.Equal(t, Version, h.Version)
	assert.Equal(t, uint32(0x1234)^obfuscate.Hash("firstheader"), h.LastEntryMasked)
	assert.Equal(t, uint32(4)^obfuscate.Hash("split"), h.SplitFlagMasked)
	assert.Equal(t, uint32(0x1234), h.LastEntryOffset())
	assert.Equal(t, SplitLast, h.SplitFlag())
	assert.True(t, h.IsLastSplit())

	h = newHeader(0, false)
	assert.Equal(t, uint32(0), h.LastEntryOffset())
	assert.Equal(t, SplitMore, h.SplitFlag())
	assert.False(t, h.IsLastSplit())
}

func TestHeaderStoredWords(t *testing.T) {
	t.Parallel()

	h := newHeader(0, true)
	assert.Equal(t, uint32(0x71bb06ed), h.LastEntryMasked)
	assert.Equal(t, uint32(0xdea77cc8), h.SplitFlagMasked)

	h = newHeader(0x8C, false)
	assert.Equal(t, uint32(0x8C^0x71bb06ed), h.LastEntryMasked)
	assert.Equal(t, uint32(0xdea77cce), h.SplitFlagMasked)
}

func TestHeaderMarshalBinary(t *testing.T) {
	t.Parallel()

	b, err := newHeader(0x8C, false).MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, HeaderSize)
	assert.Equal(t, "BPFS", string(b[:4]))
	assert.Equal(t, []byte{0x01, 0x02, 0x00, 0x00}, b[4:8])
}

func TestSplitFlagString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "more", SplitMore.String())
	assert.Equal(t, "last", SplitLast.String())
	assert.Equal(t, "unknown", SplitFlag(3).String())
}

func TestEntryErrorMessage(t *testing.T) {
	t.Parallel()

	err := &EntryError{Offset: 0x8C, Name: "a.txt", Err: ErrRecordTrailer}
	assert.Equal(t, "pak: invalid format: unexpected record trailer length on file 'a.txt' (record at 0x8c)", err.Error())

	err = &EntryError{Offset: 0x100, Err: ErrTruncated}
	assert.Equal(t, "pak: truncated data (record at 0x100)", err.Error())
}
