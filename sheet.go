package xls97

import "math"

// Kind identifies which variant of CellValue is populated, per spec §2's
// tagged cell value union (Text/Number/Date).
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
)

// CellValue is the decoded contents of a single worksheet cell. Only the
// field matching Kind is meaningful; Date is accepted by the union today
// but no decode path in this library populates it (DESIGN.md Open
// Question (c): BIFF's date cells are plain NUMBER records styled with a
// date format, and distinguishing them would require reading the XF/number
// format tables, which this library's reader intentionally omits).
type CellValue struct {
	Kind   Kind
	Text   string
	Number float64
}

// cellPos keys a sheet's sparse grid by zero-based (row, col).
type cellPos struct {
	row, col uint32
}

// Sheet is one parsed worksheet: its name and a sparse grid of cells.
type Sheet struct {
	Name  string
	cells map[cellPos]CellValue
}

// Cell returns the value at (row, col) and whether that cell was present
// in the source file, per spec §4.6's sparse-grid model.
func (s *Sheet) Cell(row, col uint32) (CellValue, bool) {
	v, ok := s.cells[cellPos{row, col}]
	return v, ok
}

// Dimensions returns the exclusive upper bound of rows and columns seen
// across every cell this sheet holds.
func (s *Sheet) Dimensions() (rows, cols uint32) {
	for pos := range s.cells {
		if pos.row+1 > rows {
			rows = pos.row + 1
		}
		if pos.col+1 > cols {
			cols = pos.col + 1
		}
	}
	return rows, cols
}

// Workbook is the in-memory result of Read: an ordered list of sheets.
type Workbook struct {
	Sheets []*Sheet
}

// Sheet looks a worksheet up by name.
func (wb *Workbook) Sheet(name string) (*Sheet, bool) {
	for _, s := range wb.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// parseSheet decodes one worksheet substream, starting at its own BOF
// record and continuing until the matching EOF, per spec §4.6. sst is the
// shared string table decoded from the workbook globals (may be nil if
// the file has no SST, e.g. pure-RK/LABEL content).
func parseSheet(name string, sheetBytes []byte, sst []string) (*Sheet, error) {
	sh := &Sheet{Name: name, cells: make(map[cellPos]CellValue)}

	r := newBIFFReader(sheetBytes)

	bof, ok := r.next()
	if !ok || bof.sid != sidBOF {
		return nil, ParseError{"worksheet stream does not start with a BOF record"}
	}
	biffVersion, _ := readU16At(bof.data, 0)

	for {
		rec, ok := r.next()
		if !ok {
			return nil, ParseError{"worksheet substream truncated before EOF"}
		}
		if rec.sid == sidEOF {
			break
		}

		switch rec.sid {
		case sidNUMBER:
			row, col, v, ok := decodeNUMBER(rec.data)
			if ok {
				sh.cells[cellPos{row, col}] = CellValue{Kind: KindNumber, Number: v}
			}

		case sidRK:
			row, col, v, ok := decodeRKRecord(rec.data)
			if ok {
				sh.cells[cellPos{row, col}] = CellValue{Kind: KindNumber, Number: v}
			}

		case sidMULRK:
			cells, ok := decodeMULRK(rec.data)
			if ok {
				for _, c := range cells {
					sh.cells[cellPos{c.row, c.col}] = CellValue{Kind: KindNumber, Number: c.value}
				}
			}

		case sidLABEL:
			row, col, text, ok := decodeLABEL(rec.data, biffVersion)
			if ok {
				sh.cells[cellPos{row, col}] = CellValue{Kind: KindText, Text: text}
			}

		case sidLABELSST:
			row, col, text, ok := decodeLABELSST(rec.data, sst)
			if ok {
				sh.cells[cellPos{row, col}] = CellValue{Kind: KindText, Text: text}
			}
			// An out-of-range SST index is silently skipped (ok==false),
			// per spec §8 scenario 3: a corrupt index must not abort the
			// whole parse.

		case sidFORMULA:
			row, col, v, ok := decodeFORMULA(rec.data)
			if ok {
				sh.cells[cellPos{row, col}] = CellValue{Kind: KindNumber, Number: v}
			}
		}
	}

	return sh, nil
}

func decodeNUMBER(data []byte) (row, col uint32, v float64, ok bool) {
	c := newCursor(data)
	r16, ok1 := c.u16()
	c16, ok2 := c.u16()
	if !ok1 || !ok2 {
		return 0, 0, 0, false
	}
	if _, ok := c.u16(); !ok { // XF index
		return 0, 0, 0, false
	}
	val, ok3 := c.f64()
	if !ok3 {
		return 0, 0, 0, false
	}
	return uint32(r16), uint32(c16), val, true
}

func decodeRKRecord(data []byte) (row, col uint32, v float64, ok bool) {
	c := newCursor(data)
	r16, ok1 := c.u16()
	c16, ok2 := c.u16()
	if !ok1 || !ok2 {
		return 0, 0, 0, false
	}
	if _, ok := c.u16(); !ok { // XF index
		return 0, 0, 0, false
	}
	rk, ok3 := c.u32()
	if !ok3 {
		return 0, 0, 0, false
	}
	return uint32(r16), uint32(c16), decodeRK(rk), true
}

type mulrkCell struct {
	row, col uint32
	value    float64
}

// decodeMULRK decodes a run of RK values sharing one row, per spec §4.6:
// row, firstCol, (xf u16, rk u32)*, lastCol.
func decodeMULRK(data []byte) ([]mulrkCell, bool) {
	if len(data) < 6 {
		return nil, false
	}
	row, _ := readU16At(data, 0)
	firstCol, _ := readU16At(data, 2)
	lastCol, ok := readU16At(data, len(data)-2)
	if !ok {
		return nil, false
	}
	if lastCol < firstCol {
		return nil, false
	}

	body := data[4 : len(data)-2]
	numCells := int(lastCol-firstCol) + 1
	if len(body) < numCells*6 {
		return nil, false
	}

	cells := make([]mulrkCell, 0, numCells)
	for i := 0; i < numCells; i++ {
		off := i * 6
		rk, ok := readU32At(body, off+2)
		if !ok {
			return cells, true
		}
		cells = append(cells, mulrkCell{
			row:   uint32(row),
			col:   uint32(firstCol) + uint32(i),
			value: decodeRK(rk),
		})
	}
	return cells, true
}

// decodeLABEL decodes a BIFF5/BIFF8 LABEL record. BIFF8 encodes the string
// length as a u16 and inserts a unicode-flag byte before the text bytes;
// BIFF5's length is a single u8 and its text is plain CP-1252, matching the
// same split decodeBoundSheet applies to BOUNDSHEET's name field.
func decodeLABEL(data []byte, biffVersion uint16) (row, col uint32, text string, ok bool) {
	c := newCursor(data)
	r16, ok1 := c.u16()
	c16, ok2 := c.u16()
	if !ok1 || !ok2 {
		return 0, 0, "", false
	}
	if _, ok := c.u16(); !ok { // XF index
		return 0, 0, "", false
	}

	if biffVersion >= 0x0600 {
		cch, ok := c.u16()
		if !ok {
			return 0, 0, "", false
		}
		flags, ok := c.u8()
		if !ok {
			return 0, 0, "", false
		}
		width := 1
		if flags&0x1 != 0 {
			width = 2
		}
		raw, ok := c.bytes(int(cch) * width)
		if !ok {
			return 0, 0, "", false
		}
		if width == 2 {
			text = utf16leDecode(raw)
		} else {
			text = cp1252Decode(raw)
		}
	} else {
		cch, ok := c.u8()
		if !ok {
			return 0, 0, "", false
		}
		raw, ok := c.bytes(int(cch))
		if !ok {
			return 0, 0, "", false
		}
		text = cp1252Decode(raw)
	}

	return uint32(r16), uint32(c16), text, true
}

func decodeLABELSST(data []byte, sst []string) (row, col uint32, text string, ok bool) {
	c := newCursor(data)
	r16, ok1 := c.u16()
	c16, ok2 := c.u16()
	if !ok1 || !ok2 {
		return 0, 0, "", false
	}
	if _, ok := c.u16(); !ok { // XF index
		return 0, 0, "", false
	}
	idx, ok3 := c.u32()
	if !ok3 {
		return 0, 0, "", false
	}
	if int(idx) < 0 || int(idx) >= len(sst) {
		return 0, 0, "", false
	}
	return uint32(r16), uint32(c16), sst[idx], true
}

// decodeFORMULA decodes only the cached numeric result of a FORMULA
// record, per spec §4.6: payload bytes 6..13 hold either a double or, when
// bytes 6..7 of that 8-byte result field equal 0xFFFF, an "other type" marker (string/bool/error) that this
// library does not attempt to recompute or represent.
func decodeFORMULA(data []byte) (row, col uint32, v float64, ok bool) {
	c := newCursor(data)
	r16, ok1 := c.u16()
	c16, ok2 := c.u16()
	if !ok1 || !ok2 {
		return 0, 0, 0, false
	}
	if _, ok := c.u16(); !ok { // XF index
		return 0, 0, 0, false
	}

	resultBytes, ok := c.bytes(8)
	if !ok {
		return 0, 0, 0, false
	}

	marker, _ := readU16At(resultBytes, 6)
	if marker == 0xFFFF {
		// Cached result is a string/bool/error, not a number: spec §4.6
		// scopes this reader to numeric FORMULA results only.
		return 0, 0, 0, false
	}

	val, ok3 := readF64At(resultBytes, 0)
	if !ok3 {
		return 0, 0, 0, false
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, 0, 0, false
	}

	return uint32(r16), uint32(c16), val, true
}
