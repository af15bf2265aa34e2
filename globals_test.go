package xls97

import "testing"

func TestDecodeBoundSheetBIFF5(t *testing.T) {
	var d []byte
	d = putU32(d, 0x1234) // offset
	d = putU8(d, 0)       // visibility
	d = putU8(d, 0)       // type
	name := "Sheet1"
	d = putU8(d, byte(len(name)))
	d = append(d, []byte(name)...)

	bs, err := decodeBoundSheet(d, biffVersion5)
	if err != nil {
		t.Fatalf("decodeBoundSheet: %v", err)
	}
	if bs.offset != 0x1234 || bs.name != "Sheet1" {
		t.Fatalf("bs = %+v, want offset=0x1234 name=Sheet1", bs)
	}
}

func TestDecodeBoundSheetBIFF8Unicode(t *testing.T) {
	var d []byte
	d = putU32(d, 0xABCD)
	d = putU8(d, 0)
	d = putU8(d, 0)
	name := "Données" // contains a non-ASCII rune to exercise the unicode path
	encoded := utf16leEncode(name)
	d = putU16(d, uint16(len([]rune(name))))
	d = putU8(d, 0x1) // unicode flag
	d = append(d, encoded...)

	bs, err := decodeBoundSheet(d, 0x0600)
	if err != nil {
		t.Fatalf("decodeBoundSheet: %v", err)
	}
	if bs.offset != 0xABCD || bs.name != name {
		t.Fatalf("bs = %+v, want offset=0xABCD name=%q", bs, name)
	}
}

func TestDecodeSSTSimple(t *testing.T) {
	var sst []byte
	sst = putU32(sst, 2) // total count (unused by decoder)
	sst = putU32(sst, 2) // unique count
	sst = append(sst, encodeSSTString("hi", false)...)
	sst = append(sst, encodeSSTString("bye", false)...)

	r := newBIFFReader(nil)
	strs, err := decodeSST(sst, r)
	if err != nil {
		t.Fatalf("decodeSST: %v", err)
	}
	if len(strs) != 2 || strs[0] != "hi" || strs[1] != "bye" {
		t.Fatalf("strs = %v, want [hi bye]", strs)
	}
}

func TestDecodeSSTContinueSpillFlipsCompression(t *testing.T) {
	// First SST record holds the cch/flags header plus one compressed
	// character; the CONTINUE record re-declares the compression flag as
	// unicode and supplies the rest of the string as 2-byte units, per
	// spec §8 scenario 4.
	full := "abc"
	firstChar := []byte(full)[0:1]

	var firstPayload []byte
	firstPayload = putU16(firstPayload, uint16(len(full)))
	firstPayload = putU8(firstPayload, 0x0) // compressed
	firstPayload = append(firstPayload, firstChar...)

	var sstHeader []byte
	sstHeader = putU32(sstHeader, 1)
	sstHeader = putU32(sstHeader, 1)
	sstHeader = append(sstHeader, firstPayload...)

	var continuation []byte
	continuation = putU8(continuation, 0x1) // now unicode
	continuation = append(continuation, utf16leEncode(full[1:])...)

	var stream []byte
	stream = writeRecord(stream, sidCONTINUE, continuation)

	r := newBIFFReader(stream)
	strs, err := decodeSST(sstHeader, r)
	if err != nil {
		t.Fatalf("decodeSST: %v", err)
	}
	if len(strs) != 1 || strs[0] != full {
		t.Fatalf("strs = %v, want [%s]", strs, full)
	}
}

// encodeSSTString builds the cch/flags/bytes payload for one SST string,
// used only to construct test fixtures.
func encodeSSTString(s string, unicode bool) []byte {
	var d []byte
	d = putU16(d, uint16(len(s)))
	if unicode {
		d = putU8(d, 0x1)
		d = append(d, utf16leEncode(s)...)
	} else {
		d = putU8(d, 0x0)
		d = append(d, cp1252Encode(s)...)
	}
	return d
}
