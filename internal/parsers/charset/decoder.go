package charset

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Romanian Windows-1250 byte mappings for common characters
var windows1250Chars = map[byte]rune{
	// Letters with diacritics used in Romanian/Central European languages
	0xAA: 'Ș', // Latin capital letter S with comma below (cedilla slot)
	0xBA: 'ș', // Latin small letter s with comma below
	0xDE: 'Ț', // Latin capital letter T with comma below (cedilla slot)
	0xFE: 'ț', // Latin small letter t with comma below
	0xC3: 'Ă', // Latin capital letter A with breve
	0xE3: 'ă', // Latin small letter a with breve
	0xC2: 'Â', // Latin capital letter A with circumflex
	0xE2: 'â', // Latin small letter a with circumflex
	0xCE: 'Î', // Latin capital letter I with circumflex
	0xEE: 'î', // Latin small letter i with circumflex
}

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1250 Encoding = "windows-1250"
	EncodingISO88592    Encoding = "iso-8859-2"
)

// DetectEncoding detects the encoding of a byte buffer
func DetectEncoding(data []byte) Encoding {
	// Check for UTF-8 BOM
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return EncodingUTF8
	}

	if utf8.Valid(data) {
		return EncodingUTF8
	}

	// Not valid UTF-8, assume Windows-1250
	return EncodingWindows1250
}

// Decode converts a byte buffer from the specified encoding to UTF-8 string.
// Valid UTF-8 input is returned as-is even when another encoding is claimed,
// which avoids double-decoding files mislabeled by their producer.
func Decode(data []byte, enc Encoding) (string, error) {
	if utf8.Valid(data) {
		return strings.TrimPrefix(string(data), "\uFEFF"), nil
	}

	switch enc {
	case EncodingISO88592:
		return decodeISO88592(data)
	default:
		return decodeWindows1250(data)
	}
}

// decodeWindows1250 decodes Windows-1250 encoded bytes to UTF-8
func decodeWindows1250(data []byte) (string, error) {
	// The charmap table maps the cedilla forms; Romanian text wants the
	// comma-below forms, so those bytes are handled explicitly.
	result := make([]byte, 0, len(data)*2)
	buf := make([]byte, 4)

	for _, b := range data {
		r, ok := windows1250Chars[b]
		if !ok {
			r = charmap.Windows1250.DecodeByte(b)
		}
		n := utf8.EncodeRune(buf, r)
		result = append(result, buf[:n]...)
	}

	return string(result), nil
}

// decodeISO88592 decodes ISO-8859-2 encoded bytes to UTF-8
func decodeISO88592(data []byte) (string, error) {
	decoder := charmap.ISO8859_2.NewDecoder()
	reader := transform.NewReader(strings.NewReader(string(data)), decoder)
	result, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

// ToUTF8Reader wraps a reader with a decoder to convert to UTF-8
func ToUTF8Reader(r io.Reader, enc Encoding) (io.Reader, error) {
	var decoder encoding.Encoding

	switch enc {
	case EncodingWindows1250:
		decoder = charmap.Windows1250
	case EncodingISO88592:
		decoder = charmap.ISO8859_2
	default:
		return r, nil
	}

	return transform.NewReader(r, decoder.NewDecoder()), nil
}
