package xls97

import "testing"

func TestDecodeNUMBER(t *testing.T) {
	var d []byte
	d = putU16(d, 1)   // row
	d = putU16(d, 2)   // col
	d = putU16(d, 0)   // xf
	d = putF64(d, 42.5)

	row, col, v, ok := decodeNUMBER(d)
	if !ok || row != 1 || col != 2 || v != 42.5 {
		t.Fatalf("decodeNUMBER = %v %v %v %v", row, col, v, ok)
	}
}

func TestDecodeRKRecord(t *testing.T) {
	var d []byte
	d = putU16(d, 0)
	d = putU16(d, 0)
	d = putU16(d, 0)
	d = putU32(d, 0x3FF00000) // decodeRK -> 1.0

	row, col, v, ok := decodeRKRecord(d)
	if !ok || row != 0 || col != 0 || v != 1.0 {
		t.Fatalf("decodeRKRecord = %v %v %v %v", row, col, v, ok)
	}
}

func TestDecodeMULRK(t *testing.T) {
	var d []byte
	d = putU16(d, 3) // row
	d = putU16(d, 1) // first col
	d = putU16(d, 0) // xf for col 1
	d = putU32(d, 0x3FF00000)
	d = putU16(d, 0) // xf for col 2
	d = putU32(d, 0x00000002)
	d = putU16(d, 2) // last col

	cells, ok := decodeMULRK(d)
	if !ok || len(cells) != 2 {
		t.Fatalf("decodeMULRK = %v, %v", cells, ok)
	}
	if cells[0].row != 3 || cells[0].col != 1 || cells[0].value != 1.0 {
		t.Fatalf("cells[0] = %+v", cells[0])
	}
	if cells[1].col != 2 || cells[1].value != 0.0 {
		t.Fatalf("cells[1] = %+v", cells[1])
	}
}

func TestDecodeLABELBIFF5(t *testing.T) {
	var d []byte
	d = putU16(d, 0)
	d = putU16(d, 0)
	d = putU16(d, 0)
	text := "hello"
	d = putU8(d, byte(len(text)))
	d = append(d, cp1252Encode(text)...)

	row, col, got, ok := decodeLABEL(d, biffVersion5)
	if !ok || row != 0 || col != 0 || got != text {
		t.Fatalf("decodeLABEL = %v %v %q %v", row, col, got, ok)
	}
}

func TestDecodeLABELSSTOutOfRangeSkips(t *testing.T) {
	var d []byte
	d = putU16(d, 0)
	d = putU16(d, 0)
	d = putU16(d, 0)
	d = putU32(d, 5) // index far beyond a 2-entry SST

	sst := []string{"a", "b"}
	_, _, _, ok := decodeLABELSST(d, sst)
	if ok {
		t.Fatal("out-of-range LABELSST index must be skipped (ok=false), not fail loudly")
	}
}

func TestDecodeFORMULANumericResult(t *testing.T) {
	var d []byte
	d = putU16(d, 0)
	d = putU16(d, 0)
	d = putU16(d, 0)
	d = putF64(d, 7.0) // cached numeric result, bytes 6..7 == 0x1C 0x40 (not 0xFFFF)

	row, col, v, ok := decodeFORMULA(d)
	if !ok || row != 0 || col != 0 || v != 7.0 {
		t.Fatalf("decodeFORMULA = %v %v %v %v", row, col, v, ok)
	}
}

func TestDecodeFORMULANonNumericResultSkipped(t *testing.T) {
	var d []byte
	d = putU16(d, 0)
	d = putU16(d, 0)
	d = putU16(d, 0)
	result := make([]byte, 8)
	result[6], result[7] = 0xFF, 0xFF // "other type" marker
	d = append(d, result...)

	_, _, _, ok := decodeFORMULA(d)
	if ok {
		t.Fatal("a non-numeric cached FORMULA result must be skipped")
	}
}

func TestParseSheetRoundTripsWrittenGrid(t *testing.T) {
	grid := [][]string{
		{"A", "B"},
		{"hi", "42"},
		{"x", "3.14"},
	}
	wsBytes := buildWorksheet(grid, 1)

	sh, err := parseSheet("S1", wsBytes, nil)
	if err != nil {
		t.Fatalf("parseSheet: %v", err)
	}

	cell, ok := sh.Cell(0, 0)
	if !ok || cell.Kind != KindText || cell.Text != "A" {
		t.Fatalf("(0,0) = %+v, %v", cell, ok)
	}
	cell, ok = sh.Cell(1, 1)
	if !ok || cell.Kind != KindNumber || cell.Number != 42.0 {
		t.Fatalf("(1,1) = %+v, %v", cell, ok)
	}
	cell, ok = sh.Cell(2, 1)
	if !ok || cell.Kind != KindNumber || cell.Number != 3.14 {
		t.Fatalf("(2,1) = %+v, %v", cell, ok)
	}
}
