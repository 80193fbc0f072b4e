package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHamming(t *testing.T) {
	dist, err := Hamming([]byte("this is a test"), []byte("wokka wokka!!!"))
	require.NoError(t, err)
	assert.Equal(t, 37, dist)
}

func TestHammingProperties(t *testing.T) {
	buffers := [][]byte{
		{},
		{0x00},
		{0xff},
		[]byte("hello"),
		[]byte("world"),
		{0x00, 0x00, 0x00, 0x00, 0x00},
		{0xff, 0xff, 0xff, 0xff, 0xff},
	}

	for _, a := range buffers {
		self, err := Hamming(a, a)
		require.NoError(t, err)
		assert.Zero(t, self, "distance to self for %x", a)

		for _, b := range buffers {
			if len(a) != len(b) {
				continue
			}
			ab, err := Hamming(a, b)
			require.NoError(t, err)
			ba, err := Hamming(b, a)
			require.NoError(t, err)
			assert.Equal(t, ab, ba, "symmetry for %x / %x", a, b)
			assert.LessOrEqual(t, ab, 8*len(a))
		}
	}

	full, err := Hamming([]byte{0x00, 0x00}, []byte{0xff, 0xff})
	require.NoError(t, err)
	assert.Equal(t, 16, full)
}

func TestHammingLengthMismatch(t *testing.T) {
	_, err := Hamming([]byte("abc"), []byte("ab"))
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"hi there", "hi there", 0},
		{"aaa", "aaabb", 2},
		{"aaabb", "aaa", 2},
		{"aaaa", "bbbb", 4},
		{"kittens", "sitting", 3},
		{"Saturday", "Sunday", 3},
		{"", "abc", 3},
		{"abc", "", 3},
		{"café", "cafe", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
		})
	}
}
