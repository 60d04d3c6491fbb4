package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_FindKnownCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	tests := []struct{ name, want string }{
		{"utf-8", "UTF-8"},
		{"UTF8", "UTF-8"},
		{"Unicode", "UTF-8"},
		{"latin1", "ISO-8859-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := r.Find(tt.name)
			assert.Equal(t, tt.want, d.Name)
		})
	}
}

func TestRegistry_UnknownNameRegistersOpaque(t *testing.T) {
	r := NewRegistry()
	d1 := r.Find("X-MADE-UP-ENCODING")
	d2 := r.Find("x-made-up-encoding")
	require.NotNil(t, d1)
	assert.Same(t, d1, d2, "identical canonical names must resolve to the same descriptor")
	assert.False(t, d1.MultiByte())
	assert.Equal(t, 5, d1.CharLength([]byte("hello")))
}

func TestRegistry_DescriptorIdentityIsEncodingEquality(t *testing.T) {
	r := NewRegistry()
	a := r.Find("UTF-8")
	b := r.Find("UTF-8")
	c := r.Find("ISO-8859-1")
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestCharLength_MultiByteNeverExceedsByteLength(t *testing.T) {
	r := NewRegistry()
	utf8d := r.Find("UTF-8")
	samples := []string{"hello", "héllo", "日本語", ""}
	for _, s := range samples {
		b := []byte(s)
		assert.LessOrEqual(t, utf8d.CharLength(b), len(b))
	}
}

func TestTranscode_RoundTrip(t *testing.T) {
	r := NewRegistry()
	utf8d := r.Find("UTF-8")
	latin1 := r.Find("ISO-8859-1")

	original := []byte("cafe")
	toLatin1, err := Transcode(original, utf8d, latin1)
	require.NoError(t, err)
	back, err := Transcode(toLatin1, latin1, utf8d)
	require.NoError(t, err)
	assert.Equal(t, original, back)
}
