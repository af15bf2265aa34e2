package xls97

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// cp1252Encode lossily encodes to Windows-1252, replacing any rune the
// code page cannot represent with '?' — SPEC_FULL.md §3/§4.7's "ReplaceUnsupported"
// composition, used for both the writer's LABEL cells and the BIFF5
// BOUNDSHEET name.
func cp1252Encode(s string) []byte {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		// ReplaceUnsupported never errors on encode; kept defensive.
		return []byte(s)
	}
	return out
}

// cp1252Decode interprets raw as Windows-1252 bytes (BIFF5's "compressed
// string" 8-bit path, per spec §3/§4.5).
func cp1252Decode(raw []byte) string {
	dec := charmap.Windows1252.NewDecoder()
	out, err := dec.Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// utf16leEncode encodes s as UTF-16LE (BIFF8's Unicode string path).
func utf16leEncode(s string) []byte {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		return stringToUTF16LE(s)
	}
	return out
}

// utf16leDecode decodes raw (2*n bytes) as UTF-16LE.
func utf16leDecode(raw []byte) string {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}
