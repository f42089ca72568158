package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEncodingUTF8(t *testing.T) {
	assert.Equal(t, EncodingUTF8, DetectEncoding([]byte("Pâine cu semințe")))
}

func TestDetectEncodingBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("id;name")...)
	assert.Equal(t, EncodingUTF8, DetectEncoding(data))
}

func TestDetectEncodingFallsBackToWindows1250(t *testing.T) {
	// 0xBA is s-comma in the Windows-1250 cedilla slot, invalid alone in UTF-8.
	data := []byte{'c', 'a', 0xBA, 'c', 'a', 'v', 'a', 'l'}
	assert.Equal(t, EncodingWindows1250, DetectEncoding(data))
}

func TestDecodeValidUTF8Passthrough(t *testing.T) {
	out, err := Decode([]byte("brânză"), EncodingWindows1250)
	require.NoError(t, err)
	assert.Equal(t, "brânză", out)
}

func TestDecodeStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("id;name")...)
	out, err := Decode(data, EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "id;name", out)
}

func TestDecodeWindows1250RomanianLetters(t *testing.T) {
	data := []byte{0xBA, 'i', ' ', 0xFE, 'a', 'r', 0xE3}
	out, err := Decode(data, EncodingWindows1250)
	require.NoError(t, err)
	assert.Equal(t, "și țară", out)
}

func TestDecodeWindows1250ASCIIUnchanged(t *testing.T) {
	data := []byte{'l', 'a', 'p', 't', 'e', 0xE2}
	out, err := Decode(data, EncodingWindows1250)
	require.NoError(t, err)
	assert.Equal(t, "lapteâ", out)
}
