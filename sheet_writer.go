package xls97

import (
	"strconv"
	"strings"
)

// Worksheet builder, adapted from the teacher's writeRowsAndCells /
// writeRow / writeCell family in its original BIFF8 writer.go: the shape
// (iterate rows, emit ROW then each row's cells) is kept, retargeted at
// BIFF5 and the simpler NUMBER-or-LABEL cell policy SPEC_FULL.md §4.7
// calls for.

const maxLabelBytes = 255

// buildWorksheet emits one worksheet substream: BOF, DIMENSIONS, a ROW
// plus cells for every row in grid, then EOF. Rows with index < headerRows
// are always written as LABEL cells — the header row is never subjected
// to the numeric-parse policy applied to data rows (spec §4.9).
func buildWorksheet(grid [][]string, headerRows int) []byte {
	var buf []byte

	bofPayload := putU16(nil, biffVersion5)
	bofPayload = putU16(bofPayload, bofWorksheet)
	buf = writeRecord(buf, sidBOF, bofPayload)

	rowMax := uint16(len(grid))
	colMax := uint16(0)
	for _, row := range grid {
		if len(row) > int(colMax) {
			colMax = uint16(len(row))
		}
	}
	buf = writeRecord(buf, sidDIMENSIONS, buildDimensions(rowMax, colMax))

	for r, row := range grid {
		buf = writeRecord(buf, sidROW, buildRow(uint16(r), colMax))
		for c, val := range row {
			if r < headerRows {
				buf = writeRecord(buf, sidLABEL, buildLabelPayload(uint16(r), uint16(c), val))
				continue
			}
			buf = append(buf, buildCell(uint16(r), uint16(c), val)...)
		}
	}

	buf = writeRecord(buf, sidEOF, nil)
	return buf
}

func buildDimensions(rowMax, colMax uint16) []byte {
	var d []byte
	d = putU32(d, 0)             // first row
	d = putU32(d, uint32(rowMax))
	d = putU16(d, 0) // first col
	d = putU16(d, colMax)
	d = putU16(d, 0) // reserved
	return d
}

func buildRow(row, colMax uint16) []byte {
	var d []byte
	d = putU16(d, row)
	d = putU16(d, 0)      // first defined col
	d = putU16(d, colMax) // last defined col + 1
	d = putU16(d, 0x00FF) // default row height
	d = putU16(d, 0)      // reserved
	d = putU16(d, 0)      // reserved
	d = putU16(d, 0)      // flags
	return d
}

// buildCell dispatches a single cell to NUMBER or LABEL, per the writer's
// cell-type policy: a trimmed value that parses as a float64 (accepting a
// ',' decimal separator) is numeric, everything else is text.
func buildCell(row, col uint16, raw string) []byte {
	if v, ok := parseCellNumber(raw); ok {
		var d []byte
		d = putU16(d, row)
		d = putU16(d, col)
		d = putU16(d, 0) // XF index
		d = putF64(d, v)
		return writeRecord(nil, sidNUMBER, d)
	}
	return writeRecord(nil, sidLABEL, buildLabelPayload(row, col, raw))
}

func parseCellNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	normalized := strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func buildLabelPayload(row, col uint16, text string) []byte {
	encoded := cp1252Encode(text)
	if len(encoded) > maxLabelBytes {
		encoded = encoded[:maxLabelBytes]
	}
	var d []byte
	d = putU16(d, row)
	d = putU16(d, col)
	d = putU16(d, 0)                 // XF index
	d = putU8(d, byte(len(encoded))) // BIFF5 LABEL length is a single byte
	d = append(d, encoded...)
	return d
}
