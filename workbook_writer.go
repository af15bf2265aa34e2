package xls97

// Workbook globals builder, adapted from the teacher's writeBIFF8 in its
// original writer.go: the record sequence is kept (BOF, codepage, window,
// font, XF, BOUNDSHEET, EOF, then the worksheet bytes) but cut down to
// BIFF5's far smaller filler set and the single-sheet shape this library
// targets (spec §4.8).

// Option configures a Writer, following the teacher's functional-option
// pattern (its own WithSheetName).
type Option func(*Writer)

// WithSheetName overrides the worksheet's name (default "Sheet1").
func WithSheetName(name string) Option {
	return func(w *Writer) { w.sheetName = name }
}

// WithStreamName overrides the CFB stream the workbook is written under
// (default "Book", per DESIGN.md's resolution of Open Question (b)).
func WithStreamName(name string) Option {
	return func(w *Writer) { w.streamName = name }
}

// WithCodepage overrides the workbook's CODEPAGE record (default 0x04E4,
// Windows-1252). Only meaningful alongside text that a different code
// page can represent more faithfully than Windows-1252.
func WithCodepage(codepage uint16) Option {
	return func(w *Writer) { w.codepage = codepage }
}

// Writer assembles a single-sheet BIFF5 workbook from tabular input.
type Writer struct {
	sheetName  string
	streamName string
	codepage   uint16
}

// NewWriter constructs a Writer with the teacher's default sheet name and
// this library's default stream name and codepage, then applies opts.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{sheetName: "Sheet1", streamName: "Book", codepage: 0x04E4}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Build assembles the full workbook stream bytes (globals + worksheet)
// for grid, a row-major table including its header row as grid[0].
func (w *Writer) Build(grid [][]string) []byte {
	worksheet := buildWorksheet(grid, 1)

	var globals []byte

	bofPayload := putU16(nil, biffVersion5)
	bofPayload = putU16(bofPayload, bofWorkbookGlobals)
	globals = writeRecord(globals, sidBOF, bofPayload)

	globals = writeRecord(globals, sidCODEPAGE, putU16(nil, w.codepage))

	globals = writeRecord(globals, sidWINDOW1, buildWindow1())

	globals = writeRecord(globals, sidFONT, buildDefaultFont())

	globals = writeRecord(globals, sidXF, buildDefaultXF())

	boundSheetOffset := len(globals) + 4 // +4 skips this record's own sid/length header
	globals = writeRecord(globals, sidBOUNDSHEET, buildBoundSheetPlaceholder(w.sheetName))

	globals = writeRecord(globals, sidEOF, nil)

	worksheetAbsoluteOffset := len(globals)
	patchU32(globals, boundSheetOffset, uint32(worksheetAbsoluteOffset))

	return append(globals, worksheet...)
}

// patchU32 overwrites the 4 bytes at off in place with v, little-endian —
// the back-patching spec §9 calls for instead of two-pass pre-sizing.
func patchU32(buf []byte, off int, v uint32) {
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
	buf[off+2] = byte(v >> 16)
	buf[off+3] = byte(v >> 24)
}

func buildWindow1() []byte {
	var d []byte
	d = putU16(d, 0x0000) // horizontal position
	d = putU16(d, 0x0000) // vertical position
	d = putU16(d, 0x4470) // width
	d = putU16(d, 0x3510) // height
	d = putU16(d, 0x0038) // option flags
	d = putU16(d, 0x0000) // active tab index
	d = putU16(d, 0x0000) // first visible tab
	d = putU16(d, 0x0001) // selected tabs
	d = putU16(d, 0x0258) // tab bar width ratio, 600
	return d
}

// buildDefaultFont encodes the teacher's default font (Arial, 10pt/height
// 200, weight 400) as a BIFF5 8-bit compressed string rather than the
// teacher's Unicode-flagged BIFF8 form.
func buildDefaultFont() []byte {
	name := "Arial"
	var d []byte
	d = putU16(d, 200) // height in twips
	d = putU16(d, 0)   // option flags
	d = putU16(d, 0)   // color index
	d = putU16(d, 400) // weight
	d = putU16(d, 0)   // escapement
	d = putU8(d, 0)    // underline
	d = putU8(d, 0)    // family
	d = putU8(d, 0)    // charset
	d = putU8(d, 0)    // reserved
	d = putU8(d, byte(len(name)))
	d = append(d, []byte(name)...)
	return d
}

// buildDefaultXF emits the single default cell format spec §3/§9 call for
// in place of the teacher's style-XF/cell-XF pair.
func buildDefaultXF() []byte {
	var d []byte
	d = putU16(d, 0)      // font index
	d = putU16(d, 0)      // format index
	d = putU16(d, 0xFFF5) // cell protection / parent style flags
	d = putU16(d, 0x0020) // alignment / text break
	d = putU16(d, 0x0000) // used attributes
	d = putU16(d, 0x0000) // border
	d = putU16(d, 0x0000) // border color
	d = putU16(d, 0x0000) // pattern / fill color
	return d
}

// buildBoundSheetPlaceholder emits a BOUNDSHEET record with its offset
// field zeroed; the caller patches it once the worksheet's absolute
// position is known.
func buildBoundSheetPlaceholder(name string) []byte {
	encoded := cp1252Encode(name)
	if len(encoded) > 31 {
		encoded = encoded[:31]
	}
	var d []byte
	d = putU32(d, 0) // placeholder offset
	d = putU8(d, 0)  // visibility: visible
	d = putU8(d, 0)  // sheet type: worksheet
	d = putU8(d, byte(len(encoded)))
	d = append(d, encoded...)
	return d
}
