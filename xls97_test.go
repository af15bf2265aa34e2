package xls97

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadMinimalSheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s1.xls")

	sheet := SheetInput{
		Name:    "S1",
		Headers: []string{"A", "B"},
		Rows: [][]string{
			{"hi", "42"},
			{"x", "3,14"},
		},
	}
	if err := Write(sheet, path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	wb, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	sh, ok := wb.Sheet("S1")
	if !ok {
		t.Fatalf("sheet S1 not found, have %d sheets", len(wb.Sheets))
	}

	checkText := func(row, col uint32, want string) {
		t.Helper()
		v, ok := sh.Cell(row, col)
		if !ok || v.Kind != KindText || v.Text != want {
			t.Errorf("(%d,%d) = %+v, %v; want Text(%q)", row, col, v, ok, want)
		}
	}
	checkNumber := func(row, col uint32, want float64) {
		t.Helper()
		v, ok := sh.Cell(row, col)
		if !ok || v.Kind != KindNumber || v.Number != want {
			t.Errorf("(%d,%d) = %+v, %v; want Number(%v)", row, col, v, ok, want)
		}
	}

	checkText(0, 0, "A")
	checkText(0, 1, "B")
	checkText(1, 0, "hi")
	checkNumber(1, 1, 42.0)
	checkText(2, 0, "x")
	checkNumber(2, 1, 3.14)
}

func TestWriteEmptySheetNameRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.xls")

	err := Write(SheetInput{Name: "", Headers: []string{"A"}}, path)
	if err != ErrEmptySheetName {
		t.Fatalf("Write with empty name = %v, want ErrEmptySheetName", err)
	}
}

func TestWriteInvalidGridRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.xls")

	err := Write(SheetInput{
		Name:    "S",
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"x"}},
	}, path)

	ige, ok := err.(InvalidGridError)
	if !ok {
		t.Fatalf("Write with mismatched row width = %v (%T), want InvalidGridError", err, err)
	}
	if ige.ExpectedWidth != 2 || ige.RowIndex != 0 || ige.GotWidth != 1 {
		t.Fatalf("InvalidGridError = %+v, want {2 0 1}", ige)
	}
}

func TestReadMissingWorkbookStream(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.xls")

	var buf bytes.Buffer
	if err := WriteCFB(&buf, "SomeOtherStream", []byte("not a workbook")); err != nil {
		t.Fatalf("WriteCFB: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Read(path); err != ErrWorkbookStreamMissing {
		t.Fatalf("Read(file with no workbook/book stream) = %v, want ErrWorkbookStreamMissing", err)
	}
}

func TestReadFallsBackToBookStream(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preferred.xls")

	if err := Write(SheetInput{Name: "S", Headers: []string{"A"}, Rows: [][]string{{"1"}}}, path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// Write's streamName defaults to "Book"; Read must still succeed by
	// falling back to "Book" when "Workbook" is absent (spec §8 scenario 6).
	if _, err := Read(path); err != nil {
		t.Fatalf("Read: %v", err)
	}
}
