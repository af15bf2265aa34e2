package xls97

import (
	"bytes"
	"testing"
)

func TestWriteCFBRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("BIFFDATA"), 100)

	var buf bytes.Buffer
	if err := WriteCFB(&buf, "Book", payload); err != nil {
		t.Fatalf("WriteCFB: %v", err)
	}

	cfb, err := openCFB(buf.Bytes())
	if err != nil {
		t.Fatalf("openCFB: %v", err)
	}

	got, err := cfb.stream("Workbook", "Book")
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if !bytes.Equal(got[:len(payload)], payload) {
		t.Fatalf("round-tripped stream prefix does not match original payload")
	}
}

func TestWriteCFBIdempotentRead(t *testing.T) {
	payload := []byte("small workbook body")

	var buf bytes.Buffer
	if err := WriteCFB(&buf, "Book", payload); err != nil {
		t.Fatalf("WriteCFB: %v", err)
	}
	data := buf.Bytes()

	cfb1, err := openCFB(data)
	if err != nil {
		t.Fatalf("openCFB (1): %v", err)
	}
	s1, err := cfb1.stream("Book")
	if err != nil {
		t.Fatalf("stream (1): %v", err)
	}

	cfb2, err := openCFB(data)
	if err != nil {
		t.Fatalf("openCFB (2): %v", err)
	}
	s2, err := cfb2.stream("Book")
	if err != nil {
		t.Fatalf("stream (2): %v", err)
	}

	if !bytes.Equal(s1, s2) {
		t.Fatal("reading the same stream name twice from the same buffer must be byte-identical")
	}
}

func TestOpenCFBRejectsBadSignature(t *testing.T) {
	data := make([]byte, 512)
	if _, err := openCFB(data); err != ErrNotXLS {
		t.Fatalf("openCFB with zeroed header = %v, want ErrNotXLS", err)
	}
}

func TestStreamMissingYieldsWorkbookStreamMissing(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCFB(&buf, "Book", []byte("x")); err != nil {
		t.Fatalf("WriteCFB: %v", err)
	}
	cfb, err := openCFB(buf.Bytes())
	if err != nil {
		t.Fatalf("openCFB: %v", err)
	}
	if _, err := cfb.stream("NoSuchStream"); err != ErrWorkbookStreamMissing {
		t.Fatalf("stream(missing) = %v, want ErrWorkbookStreamMissing", err)
	}
}
