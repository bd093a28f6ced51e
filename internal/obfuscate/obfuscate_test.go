package obfuscate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		want uint32
	}{
		{"empty", "", 0},
		{"single byte", "a", 97},
		{"two bytes", "ab", 0x80e76fb1},
		{"first header key", KeyFirstHeader, 0x71bb06ed},
		{"split key", KeySplit, 0xdea77ccc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Hash(tt.key))
		})
	}
}

func TestHashDeterministic(t *testing.T) {
	t.Parallel()

	for _, key := range []string{KeyFirstHeader, KeySplit} {
		assert.Equal(t, Hash(key), Hash(key), "key %q", key)
	}
	assert.NotEqual(t, Hash(KeyFirstHeader), Hash(KeySplit))
}

func TestHashWraps(t *testing.T) {
	t.Parallel()

	// Long keys must not panic and must stay deterministic past overflow.
	key := "firstheaderfirstheaderfirstheaderfirstheader"
	assert.Equal(t, Hash(key), Hash(key))
	assert.NotEqual(t, Hash(key), Hash(key[:len(key)-1]))
}

func TestMaskRoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []uint32{0, 2, 4, 0x8C, 0xFFFFFFFF} {
		masked := Mask(v, KeySplit)
		assert.Equal(t, v, Unmask(masked, KeySplit))
	}
	assert.Equal(t, Hash(KeyFirstHeader), Mask(0, KeyFirstHeader))
}
