package xls97

import (
	"encoding/binary"
	"io"
)

// CFB (Compound File Binary) / OLE2 container writer: packs a single named
// stream into a minimal, valid compound file per SPEC_FULL.md §4.3.
//
// This writer only ever emits two sectors of bookkeeping (one FAT sector
// and one directory sector) besides however many data sectors the payload
// takes, so it skips the mini-stream, DIFAT-extension and multi-FAT-sector
// machinery cfb_reader.go has to handle on the read side — a single DIFAT
// slot and a single FAT sector always suffice for output this small. The
// sector end-of-chain/free/FAT markers are shared with cfb_reader.go
// (sectEndOfChain etc.): they're fixed OLE2 constants, not something a
// writer and reader for the same container format could disagree on.
const (
	cfbHeaderSize     = 512
	cfbSectorSize     = 512
	cfbMiniSectorSize = 64
)

// CFBHeader is the 512-byte OLE2 header that precedes every compound file.
type CFBHeader struct {
	Signature          [8]byte
	CLSID              [16]byte
	MinorVersion       uint16
	MajorVersion       uint16
	ByteOrder          uint16
	SectorShift        uint16
	MiniSectorShift    uint16
	Reserved           [6]byte
	TotalSectors       uint32
	FATSectors         uint32
	FirstDirSector     uint32
	TransactionSig     uint32
	MiniStreamCutoff   uint32
	FirstMiniFATSector uint32
	MiniFATSectors     uint32
	FirstDIFATSector   uint32
	DIFATSectors       uint32
	DIFAT              [109]uint32
}

// newMinimalCFBHeader returns a header preset to the fixed-width, little
// -endian OLE2 layout (512-byte sectors, 64-byte mini-sectors) this writer
// always emits, with every chain pointer defaulted to "absent" so callers
// only need to fill in what a single-FAT-sector, single-directory-sector
// file actually uses.
func newMinimalCFBHeader() *CFBHeader {
	h := &CFBHeader{
		Signature:          [8]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1},
		MinorVersion:       0x003E,
		MajorVersion:       0x0003,
		ByteOrder:          0xFFFE,
		SectorShift:        0x0009,
		MiniSectorShift:    0x0006,
		MiniStreamCutoff:   cfbMiniStreamCutoff,
		FirstMiniFATSector: sectEndOfChain,
		FirstDIFATSector:   sectEndOfChain,
	}
	for i := range h.DIFAT {
		h.DIFAT[i] = sectFreeSect
	}
	return h
}

// WriteTo serializes the header fields into the 512-byte on-disk layout.
func (h *CFBHeader) WriteTo(w io.Writer) error {
	buf := make([]byte, cfbHeaderSize)

	copy(buf[0:8], h.Signature[:])
	copy(buf[8:24], h.CLSID[:])
	binary.LittleEndian.PutUint16(buf[24:26], h.MinorVersion)
	binary.LittleEndian.PutUint16(buf[26:28], h.MajorVersion)
	binary.LittleEndian.PutUint16(buf[28:30], h.ByteOrder)
	binary.LittleEndian.PutUint16(buf[30:32], h.SectorShift)
	binary.LittleEndian.PutUint16(buf[32:34], h.MiniSectorShift)
	copy(buf[34:40], h.Reserved[:])
	binary.LittleEndian.PutUint32(buf[40:44], h.TotalSectors)
	binary.LittleEndian.PutUint32(buf[44:48], h.FATSectors)
	binary.LittleEndian.PutUint32(buf[48:52], h.FirstDirSector)
	binary.LittleEndian.PutUint32(buf[52:56], h.TransactionSig)
	binary.LittleEndian.PutUint32(buf[56:60], h.MiniStreamCutoff)
	binary.LittleEndian.PutUint32(buf[60:64], h.FirstMiniFATSector)
	binary.LittleEndian.PutUint32(buf[64:68], h.MiniFATSectors)
	binary.LittleEndian.PutUint32(buf[68:72], h.FirstDIFATSector)
	binary.LittleEndian.PutUint32(buf[72:76], h.DIFATSectors)
	for i, v := range h.DIFAT {
		binary.LittleEndian.PutUint32(buf[76+i*4:80+i*4], v)
	}

	_, err := w.Write(buf)
	return err
}

// CFBDirectoryEntry is one 128-byte slot of the directory stream: a root
// entry, a storage, or — the only kind this writer emits besides the root —
// a stream.
type CFBDirectoryEntry struct {
	Name            [64]byte
	NameLength      uint16
	ObjectType      byte
	ColorFlag       byte
	LeftSiblingDID  uint32
	RightSiblingDID uint32
	ChildDID        uint32
	CLSID           [16]byte
	StateBits       uint32
	CreationTime    uint64
	ModifiedTime    uint64
	StartSector     uint32
	StreamSize      uint64
}

// WriteTo serializes the entry into the 128-byte on-disk layout.
func (e *CFBDirectoryEntry) WriteTo(w io.Writer) error {
	buf := make([]byte, 128)

	copy(buf[0:64], e.Name[:])
	binary.LittleEndian.PutUint16(buf[64:66], e.NameLength)
	buf[66] = e.ObjectType
	buf[67] = e.ColorFlag
	binary.LittleEndian.PutUint32(buf[68:72], e.LeftSiblingDID)
	binary.LittleEndian.PutUint32(buf[72:76], e.RightSiblingDID)
	binary.LittleEndian.PutUint32(buf[76:80], e.ChildDID)
	copy(buf[80:96], e.CLSID[:])
	binary.LittleEndian.PutUint32(buf[96:100], e.StateBits)
	binary.LittleEndian.PutUint64(buf[100:108], e.CreationTime)
	binary.LittleEndian.PutUint64(buf[108:116], e.ModifiedTime)
	binary.LittleEndian.PutUint32(buf[116:120], e.StartSector)
	binary.LittleEndian.PutUint64(buf[120:128], e.StreamSize)

	_, err := w.Write(buf)
	return err
}

// nameEntry packs a directory-entry name: UTF-16LE bytes plus the
// NUL-terminator width OLE2 bakes into NameLength.
func nameEntry(name string) (encoded [64]byte, length uint16) {
	raw := stringToUTF16LE(name)
	copy(encoded[:], raw)
	// OLE2 counts the trailing UTF-16 NUL terminator in NameLength even
	// though it's implicitly zero in the (already zeroed) buffer.
	return encoded, uint16(len(raw) + 2)
}

// WriteCFB wraps workbookData in a CFB container under a single stream
// named streamName (the BIFF5 writer uses "Book", per DESIGN.md's
// resolution of spec.md's Open Question (b)) and writes it to w.
//
// The container this emits always has exactly three kinds of sector: the
// payload's data sectors, one FAT sector describing them, and one directory
// sector holding the root entry, the stream entry, and two empty slots to
// round the sector out to 512 bytes (128 bytes/entry * 4 == one sector).
func WriteCFB(w io.Writer, streamName string, workbookData []byte) error {
	dataSize := len(workbookData)
	if dataSize < cfbMiniStreamCutoff {
		// Below the mini-stream cutoff, OLE2 readers expect the stream's
		// bytes to live in the mini-stream instead of the regular FAT
		// chain; padding the payload past the cutoff keeps this writer
		// on the simpler regular-sector path for every size it emits.
		dataSize = cfbMiniStreamCutoff
	}
	dataSectorCount := (dataSize + cfbSectorSize - 1) / cfbSectorSize
	fatSector := uint32(dataSectorCount)
	dirSector := uint32(dataSectorCount) + 1

	header := newMinimalCFBHeader()
	header.FATSectors = 1
	header.FirstDirSector = dirSector
	header.DIFAT[0] = fatSector
	if err := header.WriteTo(w); err != nil {
		return err
	}

	padded := make([]byte, dataSectorCount*cfbSectorSize)
	copy(padded, workbookData)
	if _, err := w.Write(padded); err != nil {
		return err
	}

	if err := writeFATSector(w, dataSectorCount, fatSector, dirSector); err != nil {
		return err
	}
	return writeDirectorySector(w, streamName, uint64(dataSize))
}

// writeFATSector emits the single sector describing the data chain (each
// data sector points to the next, the last terminates the chain) plus the
// self-referential markers for the FAT and directory sectors themselves;
// every other slot is free.
func writeFATSector(w io.Writer, dataSectorCount int, fatSector, dirSector uint32) error {
	entries := cfbSectorSize / 4
	fat := make([]uint32, entries)
	for i := range fat {
		fat[i] = sectFreeSect
	}
	for i := 0; i < dataSectorCount; i++ {
		if i == dataSectorCount-1 {
			fat[i] = sectEndOfChain
		} else {
			fat[i] = uint32(i + 1)
		}
	}
	fat[fatSector] = sectFATSect
	fat[dirSector] = sectEndOfChain

	buf := make([]byte, cfbSectorSize)
	for i, v := range fat {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	_, err := w.Write(buf)
	return err
}

// writeDirectorySector lays out the root storage entry, the workbook
// stream entry (starting at data sector 0), and two empty trailer entries
// into one 512-byte sector.
func writeDirectorySector(w io.Writer, streamName string, streamSize uint64) error {
	rootName, rootLen := nameEntry("Root Entry")
	root := &CFBDirectoryEntry{
		Name:            rootName,
		NameLength:      rootLen,
		ObjectType:      5,
		ColorFlag:       1,
		LeftSiblingDID:  sectFreeSect,
		RightSiblingDID: sectFreeSect,
		ChildDID:        1,
		StartSector:     sectEndOfChain,
	}

	streamNameBytes, streamNameLen := nameEntry(streamName)
	stream := &CFBDirectoryEntry{
		Name:            streamNameBytes,
		NameLength:      streamNameLen,
		ObjectType:      2,
		ColorFlag:       1,
		LeftSiblingDID:  sectFreeSect,
		RightSiblingDID: sectFreeSect,
		ChildDID:        sectFreeSect,
		StartSector:     0,
		StreamSize:      streamSize,
	}

	empty := &CFBDirectoryEntry{
		LeftSiblingDID:  sectFreeSect,
		RightSiblingDID: sectFreeSect,
		ChildDID:        sectFreeSect,
		StartSector:     sectEndOfChain,
	}

	buf := make([]byte, cfbSectorSize)
	entries := []*CFBDirectoryEntry{root, stream, empty, empty}
	for i, e := range entries {
		if err := e.WriteTo(&bufferWriter{buf: buf[i*128 : (i+1)*128]}); err != nil {
			return err
		}
	}
	_, err := w.Write(buf)
	return err
}

// bufferWriter adapts a fixed-size byte slice to io.Writer so WriteTo
// methods can target a sub-range of an already-allocated sector buffer.
type bufferWriter struct {
	buf []byte
	pos int
}

func (bw *bufferWriter) Write(p []byte) (n int, err error) {
	n = copy(bw.buf[bw.pos:], p)
	bw.pos += n
	return n, nil
}

// stringToUTF16LE converts s to raw UTF-16LE bytes (no BOM, no
// terminator) — used for OLE2 directory-entry names, which are Basic
// Multilingual Plane text in practice for every stream this writer emits.
func stringToUTF16LE(s string) []byte {
	runes := []rune(s)
	buf := make([]byte, len(runes)*2)
	for i, r := range runes {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(r))
	}
	return buf
}
