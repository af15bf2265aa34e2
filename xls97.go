// Package xls97 reads and writes legacy Excel 97-2003 binary (.xls)
// spreadsheet files: a hand-rolled CFB (OLE2 Compound File Binary)
// container layer plus a BIFF5/BIFF8 record layer, self-contained with no
// host application dependency, per SPEC_FULL.md.
package xls97

import (
	"os"
	"path/filepath"
)

// SheetInput is the tabular input accepted by Write: a sheet name, a
// header row, and zero or more data rows, each expected to have the same
// width as Headers.
type SheetInput struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Read loads path, opens it as a CFB container, locates the workbook
// stream (trying "Workbook" then "Book"), and decodes every sheet named
// in the workbook globals into a Workbook.
func Read(path string) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfb, err := openCFB(data)
	if err != nil {
		return nil, err
	}

	wbBytes, err := cfb.stream("Workbook", "Book")
	if err != nil {
		return nil, err
	}

	globals, err := parseGlobals(wbBytes)
	if err != nil {
		return nil, err
	}

	wb := &Workbook{}
	for _, bs := range globals.sheets {
		if int(bs.offset) < 0 || int(bs.offset) >= len(wbBytes) {
			return nil, ParseError{"BOUNDSHEET offset out of range"}
		}
		sheetBytes := wbBytes[bs.offset:]

		sh, err := parseSheet(bs.name, sheetBytes, globals.sst)
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, sh)
	}

	return wb, nil
}

// Write validates sheet and writes it as a single-sheet BIFF5 .xls file
// at path, atomically (temp file in the same directory, then rename).
func Write(sheet SheetInput, path string) error {
	if sheet.Name == "" {
		return ErrEmptySheetName
	}
	for i, row := range sheet.Rows {
		if len(row) != len(sheet.Headers) {
			return InvalidGridError{
				ExpectedWidth: len(sheet.Headers),
				RowIndex:      i,
				GotWidth:      len(row),
			}
		}
	}

	grid := make([][]string, 0, len(sheet.Rows)+1)
	grid = append(grid, sheet.Headers)
	grid = append(grid, sheet.Rows...)

	w := NewWriter(WithSheetName(sheet.Name))
	wbBytes := w.Build(grid)

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".xls97-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := WriteCFB(tmp, w.streamName, wbBytes); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
