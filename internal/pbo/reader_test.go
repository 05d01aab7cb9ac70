// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package pbo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/woozymasta/lzss"
)

// fixtureEntry is one entry for buildPBO.
type fixtureEntry struct {
	name     string
	data     []byte
	compress bool
	mime     MimeType
	original uint32
}

// buildPBO assembles PBO bytes with headers, index table, and payloads.
func buildPBO(t *testing.T, headers []HeaderPair, entries []fixtureEntry) []byte {
	t.Helper()

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[1:5], uint32(MimeHeader))

	var raw bytes.Buffer
	raw.Write(header)
	for _, pair := range headers {
		raw.WriteString(pair.Key + "\x00")
		raw.WriteString(pair.Value + "\x00")
	}
	raw.WriteByte(0)

	payloads := make([][]byte, 0, len(entries))
	for _, entry := range entries {
		payload := entry.data
		mime := entry.mime
		original := entry.original
		if entry.compress {
			compressed, err := lzss.Compress(entry.data, lzss.DefaultCompressOptions())
			if err != nil {
				t.Fatalf("lzss.Compress %s: %v", entry.name, err)
			}

			payload = compressed
			mime = MimeCompress
			original = uint32(len(entry.data))
		}

		fields := make([]byte, 20)
		binary.LittleEndian.PutUint32(fields[0:4], uint32(mime))
		binary.LittleEndian.PutUint32(fields[4:8], original)
		binary.LittleEndian.PutUint32(fields[16:20], uint32(len(payload)))

		raw.WriteString(entry.name + "\x00")
		raw.Write(fields)
		payloads = append(payloads, payload)
	}
	raw.WriteByte(0)
	raw.Write(make([]byte, 20))

	for _, payload := range payloads {
		raw.Write(payload)
	}

	return raw.Bytes()
}

func TestNewReader_Nil(t *testing.T) {
	t.Parallel()

	_, err := NewReader(nil, 100, ReaderOptions{})
	if !errors.Is(err, ErrNilReader) {
		t.Fatalf("expected ErrNilReader, got %v", err)
	}
}

func TestNewReader_InvalidHeader(t *testing.T) {
	t.Parallel()

	raw := []byte("not a pbo header\x00\x00\x00\x00\x00")
	_, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{})
	if !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
}

func TestNewReader_ShortInput(t *testing.T) {
	t.Parallel()

	raw := []byte{0, 's', 'r', 'e'}
	_, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{})
	if !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
}

func TestNewReader_ManualPBO(t *testing.T) {
	t.Parallel()

	raw := buildPBO(t,
		[]HeaderPair{{Key: "prefix", Value: `mod\scripts`}, {Key: "version", Value: "1"}},
		[]fixtureEntry{
			{name: "a.txt", data: []byte("hello")},
			{name: `dir\b.txt`, data: []byte("world")},
		},
	)

	r, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	headers := r.Headers()
	if len(headers) != 2 || headers[0].Key != "prefix" || headers[1].Value != "1" {
		t.Fatalf("headers=%+v", headers)
	}

	entries := r.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries)=%d, want 2", len(entries))
	}
	if entries[0].Path != "a.txt" || entries[0].DataSize != 5 {
		t.Fatalf("entry: path=%q dataSize=%d", entries[0].Path, entries[0].DataSize)
	}

	data, err := r.ReadEntry("a.txt")
	if err != nil {
		t.Fatalf("ReadEntry a.txt: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("a.txt=%q, want hello", data)
	}
}

func TestReadEntry_NormalizedPathSeparators(t *testing.T) {
	t.Parallel()

	want := []byte("class CfgMission {};\n")
	raw := buildPBO(t, nil, []fixtureEntry{
		{name: `metricz\scripts\5_Mission\MissionServer.c`, data: want},
	})

	r, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	for _, name := range []string{
		"metricz/scripts/5_Mission/MissionServer.c",
		`metricz\scripts\5_Mission\MissionServer.c`,
		"./metricz/scripts/5_Mission/MissionServer.c",
	} {
		got, err := r.ReadEntry(name)
		if err != nil {
			t.Fatalf("ReadEntry(%q): %v", name, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("ReadEntry(%q)=%q", name, got)
		}
	}
}

func TestReadEntry_Compressed(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("abcdef"), 1024)
	raw := buildPBO(t, nil, []fixtureEntry{
		{name: "a.bin", data: payload, compress: true},
		{name: "b.txt", data: []byte("tail")},
	})

	r, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	entries := r.Entries()
	if !entries[0].IsCompressed() {
		t.Fatal("entry is expected to be compressed")
	}
	if entries[0].DataSize >= entries[0].OriginalSize {
		t.Fatalf("dataSize=%d not smaller than original=%d", entries[0].DataSize, entries[0].OriginalSize)
	}

	got, err := r.ReadEntry("a.bin")
	if err != nil {
		t.Fatalf("ReadEntry a.bin: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("decompressed payload mismatch")
	}

	tail, err := r.ReadEntry("b.txt")
	if err != nil {
		t.Fatalf("ReadEntry b.txt: %v", err)
	}
	if string(tail) != "tail" {
		t.Fatalf("b.txt=%q, want tail", tail)
	}
}

func TestReadEntry_CompressedCorruptedPayload(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("abcdef"), 1024)
	raw := buildPBO(t, nil, []fixtureEntry{{name: "a.bin", data: payload, compress: true}})

	r, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	entry := r.Entries()[0]
	corrupted := bytes.Clone(raw)
	corrupted[int(entry.Offset)+int(entry.DataSize)-1] ^= 0xFF

	r, err = NewReader(bytes.NewReader(corrupted), int64(len(corrupted)), ReaderOptions{})
	if err != nil {
		t.Fatalf("NewReader after corrupt: %v", err)
	}

	if _, err := r.ReadEntry("a.bin"); err == nil {
		t.Fatal("expected decompression error for corrupted compressed payload")
	}
}

func TestReadEntry_NotFound(t *testing.T) {
	t.Parallel()

	raw := buildPBO(t, nil, []fixtureEntry{{name: "a.txt", data: []byte("hello")}})
	r, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	_, err = r.ReadEntry("nonexistent.txt")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestNewReader_JunkFilter(t *testing.T) {
	t.Parallel()

	raw := buildPBO(t, nil, []fixtureEntry{
		{name: "keep1.txt", data: []byte("hello")},
		{name: "zero.bin"},
		{name: "badcprs.bin", mime: MimeCompress, data: []byte{1, 2, 3, 4}},
		{name: "../evil.txt", data: []byte("bad")},
		{name: "keep2.txt", data: []byte("world")},
	})

	rDefault, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if len(rDefault.Entries()) != 5 {
		t.Fatalf("default entries=%d, want 5", len(rDefault.Entries()))
	}

	rFiltered, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{EnableJunkFilter: true})
	if err != nil {
		t.Fatalf("NewReader junk filter: %v", err)
	}

	entries := rFiltered.Entries()
	if len(entries) != 2 {
		t.Fatalf("filtered entries=%d, want 2", len(entries))
	}
	if entries[0].Path != "keep1.txt" || entries[1].Path != "keep2.txt" {
		t.Fatalf("filtered paths = [%q, %q], want [keep1.txt, keep2.txt]", entries[0].Path, entries[1].Path)
	}

	got, err := rFiltered.ReadEntry("keep2.txt")
	if err != nil {
		t.Fatalf("ReadEntry keep2.txt: %v", err)
	}
	if string(got) != "world" {
		t.Fatalf("keep2.txt payload = %q, want world", got)
	}
}

func TestNewReader_StoredOffsetModes(t *testing.T) {
	t.Parallel()

	raw, firstOffset, secondOffset := buildPBOWithAbsoluteOffsetsAndGaps(t)

	rDefault, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	gotDefault, err := rDefault.ReadEntry("a.txt")
	if err != nil {
		t.Fatalf("ReadEntry default: %v", err)
	}
	if bytes.Equal(gotDefault, []byte("hello")) {
		t.Fatal("default sequential mode unexpectedly read stored-offset payload")
	}

	rCompat, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{OffsetMode: OffsetModeStoredCompat})
	if err != nil {
		t.Fatalf("NewReader compat: %v", err)
	}

	entries := rCompat.Entries()
	if entries[0].Offset != firstOffset || entries[1].Offset != secondOffset {
		t.Fatalf("offsets = [%d, %d], want [%d, %d]", entries[0].Offset, entries[1].Offset, firstOffset, secondOffset)
	}

	for name, want := range map[string]string{"a.txt": "hello", "b.txt": "world"} {
		got, err := rCompat.ReadEntry(name)
		if err != nil {
			t.Fatalf("ReadEntry %s compat: %v", name, err)
		}
		if string(got) != want {
			t.Fatalf("%s compat=%q, want %s", name, got, want)
		}
	}
}

func TestNewReader_StoredOffsetStrictRejectsMalformed(t *testing.T) {
	t.Parallel()

	raw := buildPBO(t, nil, []fixtureEntry{{name: "a.txt", data: []byte("hello")}})
	// First entry offset field: header(21) + terminator(1) + "a.txt\x00"(6) + mime/original(8).
	binary.LittleEndian.PutUint32(raw[headerSize+1+6+8:], 0xFFFFFFF0)

	rCompat, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{OffsetMode: OffsetModeStoredCompat})
	if err != nil {
		t.Fatalf("NewReader compat: %v", err)
	}

	got, err := rCompat.ReadEntry("a.txt")
	if err != nil {
		t.Fatalf("ReadEntry compat: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("compat payload=%q, want hello", got)
	}

	_, err = NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{OffsetMode: OffsetModeStoredStrict})
	if !errors.Is(err, ErrInvalidEntryOffset) {
		t.Fatalf("expected ErrInvalidEntryOffset, got %v", err)
	}
}

func TestNewReader_RelativeStoredOffsets(t *testing.T) {
	t.Parallel()

	raw := buildPBO(t, nil, []fixtureEntry{
		{name: "a.txt", data: []byte("hello")},
		{name: "b.txt", data: []byte("world")},
	})
	// Second entry offset field: header(21) + terminator(1) + a.txt record(26) + "b.txt\x00"(6) + mime/original(8).
	binary.LittleEndian.PutUint32(raw[headerSize+1+26+6+8:], 5)

	for _, mode := range []OffsetMode{OffsetModeStoredCompat, OffsetModeStoredStrict} {
		r, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{OffsetMode: mode})
		if err != nil {
			t.Fatalf("NewReader %s: %v", mode, err)
		}

		entries := r.Entries()
		if entries[1].Offset != entries[0].Offset+5 {
			t.Fatalf("%s offsets = [%d, %d]", mode, entries[0].Offset, entries[1].Offset)
		}

		got, err := r.ReadEntry("b.txt")
		if err != nil {
			t.Fatalf("ReadEntry %s: %v", mode, err)
		}
		if string(got) != "world" {
			t.Fatalf("%s b.txt=%q, want world", mode, got)
		}
	}
}

func TestNewReader_TableErrors(t *testing.T) {
	t.Parallel()

	raw := buildPBO(t, nil, []fixtureEntry{{name: "a.txt", data: []byte("hello")}})
	if _, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{OffsetMode: "guess"}); !errors.Is(err, ErrInvalidEntryOffset) {
		t.Fatalf("unknown mode: expected ErrInvalidEntryOffset, got %v", err)
	}

	long := buildPBO(t, nil, []fixtureEntry{{name: strings.Repeat("n", maxNameLen+1), data: []byte("x")}})
	if _, err := NewReader(bytes.NewReader(long), int64(len(long)), ReaderOptions{}); !errors.Is(err, ErrFileNameTooLong) {
		t.Fatalf("long name: expected ErrFileNameTooLong, got %v", err)
	}

	truncated := raw[:len(raw)-3]
	if _, err := NewReader(bytes.NewReader(truncated), int64(len(truncated)), ReaderOptions{}); !errors.Is(err, ErrInvalidEntryOffset) {
		t.Fatalf("truncated payload: expected ErrInvalidEntryOffset, got %v", err)
	}
}

func TestNewReader_MalformedEntryTable(t *testing.T) {
	t.Parallel()

	raw := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(raw[1:5], uint32(MimeHeader))
	raw = append(raw, 0x00)
	// Name without full 20-byte field block.
	raw = append(raw, 'a', 0x00, 0x01, 0x02, 0x03)

	if _, err := NewReader(bytes.NewReader(raw), int64(len(raw)), ReaderOptions{}); err == nil {
		t.Fatal("NewReader must fail on malformed entry table")
	}
}

// buildPBOWithAbsoluteOffsetsAndGaps assembles a PBO where payloads start at stored absolute offsets.
func buildPBOWithAbsoluteOffsetsAndGaps(t *testing.T) ([]byte, uint32, uint32) {
	t.Helper()

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[1:5], uint32(MimeHeader))

	var table bytes.Buffer
	writeEntry := func(name string) int {
		_, _ = table.WriteString(name)
		_ = table.WriteByte(0)
		fieldPos := table.Len()
		_, _ = table.Write(make([]byte, 20))
		return fieldPos
	}

	fieldPosA := writeEntry("a.txt")
	fieldPosB := writeEntry("b.txt")
	_ = table.WriteByte(0)
	_, _ = table.Write(make([]byte, 20))

	raw := make([]byte, 0, 256)
	raw = append(raw, header...)
	raw = append(raw, 0x00)
	tableBase := len(raw)
	raw = append(raw, table.Bytes()...)
	dataStart := len(raw)

	firstOffset := uint32(dataStart + 16)
	secondOffset := firstOffset + uint32(len("hello")+7)

	binary.LittleEndian.PutUint32(raw[tableBase+fieldPosA+8:tableBase+fieldPosA+12], firstOffset)
	binary.LittleEndian.PutUint32(raw[tableBase+fieldPosA+16:tableBase+fieldPosA+20], uint32(len("hello")))
	binary.LittleEndian.PutUint32(raw[tableBase+fieldPosB+8:tableBase+fieldPosB+12], secondOffset)
	binary.LittleEndian.PutUint32(raw[tableBase+fieldPosB+16:tableBase+fieldPosB+20], uint32(len("world")))

	region := make([]byte, int(secondOffset)+len("world")-dataStart)
	copy(region[int(firstOffset)-dataStart:], "hello")
	copy(region[int(secondOffset)-dataStart:], "world")
	raw = append(raw, region...)

	return raw, firstOffset, secondOffset
}
