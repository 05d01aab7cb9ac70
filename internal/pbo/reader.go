// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package pbo

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// recordFieldsSize is mime, original size, offset, timestamp, and data size.
const recordFieldsSize = 20

// Reader gives read-only access to PBO entries over io.ReaderAt.
// The reader does not own ra.
type Reader struct {
	ra      io.ReaderAt
	headers []HeaderPair
	entries []EntryInfo
	size    int64
	// dataEnd is the first byte after payload data; a trailer may start here.
	dataEnd int64
}

// NewReader parses PBO header block and entry table from ra holding size bytes.
func NewReader(ra io.ReaderAt, size int64, opts ReaderOptions) (*Reader, error) {
	if ra == nil {
		return nil, ErrNilReader
	}
	if size < headerSize {
		return nil, fmt.Errorf("%w: short header", ErrInvalidHeader)
	}

	opts.applyDefaults()

	scan := &tableScanner{br: bufio.NewReader(io.NewSectionReader(ra, 0, size))}
	if err := scan.versionRecord(); err != nil {
		return nil, err
	}

	headers, err := scan.headers()
	if err != nil {
		return nil, err
	}

	entries, err := scan.entries()
	if err != nil {
		return nil, err
	}

	dataStart := scan.off
	if err := placeEntries(entries, dataStart, size, opts.OffsetMode); err != nil {
		return nil, err
	}

	r := &Reader{ra: ra, headers: headers, size: size, dataEnd: dataStart}
	for _, entry := range entries {
		r.dataEnd = max(r.dataEnd, int64(entry.Offset)+int64(entry.DataSize))
	}

	if opts.EnableJunkFilter {
		entries = filterJunkEntries(entries)
	}
	r.entries = entries

	return r, nil
}

// Entries returns a copy of parsed entries in table order.
func (r *Reader) Entries() []EntryInfo {
	if r == nil {
		return nil
	}

	return append([]EntryInfo(nil), r.entries...)
}

// Headers returns header pairs in archive order.
func (r *Reader) Headers() []HeaderPair {
	if r == nil {
		return nil
	}

	return append([]HeaderPair(nil), r.headers...)
}

// tableScanner reads the header block and entry table front to back.
type tableScanner struct {
	br  *bufio.Reader
	off int64
}

// cstring reads one NUL-terminated string.
func (t *tableScanner) cstring() (string, error) {
	s, err := t.br.ReadString(0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}

	t.off += int64(len(s))
	return s[:len(s)-1], nil
}

// fields reads the fixed part of one record.
func (t *tableScanner) fields() (EntryInfo, error) {
	var raw [recordFieldsSize]byte
	if _, err := io.ReadFull(t.br, raw[:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return EntryInfo{}, err
	}

	t.off += recordFieldsSize
	return EntryInfo{
		MimeType:     MimeType(binary.LittleEndian.Uint32(raw[0:4])),
		OriginalSize: binary.LittleEndian.Uint32(raw[4:8]),
		Offset:       binary.LittleEndian.Uint32(raw[8:12]),
		TimeStamp:    binary.LittleEndian.Uint32(raw[12:16]),
		DataSize:     binary.LittleEndian.Uint32(raw[16:20]),
	}, nil
}

// versionRecord checks the leading unnamed "Vers" record.
func (t *tableScanner) versionRecord() error {
	name, err := t.cstring()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if name != "" {
		return ErrInvalidHeader
	}

	rec, err := t.fields()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if rec.MimeType != MimeHeader {
		return ErrInvalidHeader
	}

	return nil
}

// headers reads key-value pairs up to the empty key.
func (t *tableScanner) headers() ([]HeaderPair, error) {
	var out []HeaderPair
	for {
		key, err := t.cstring()
		if err != nil {
			return nil, fmt.Errorf("read header key: %w", err)
		}
		if key == "" {
			return out, nil
		}

		value, err := t.cstring()
		if err != nil {
			return nil, fmt.Errorf("read header %s: %w", key, err)
		}

		out = append(out, HeaderPair{Key: key, Value: value})
	}
}

// entries reads entry records up to the all-zero terminator record.
func (t *tableScanner) entries() ([]EntryInfo, error) {
	var out []EntryInfo
	for {
		name, err := t.cstring()
		if err != nil {
			return nil, fmt.Errorf("read entry name: %w", err)
		}

		rec, err := t.fields()
		if err != nil {
			return nil, fmt.Errorf("read entry %q fields: %w", name, err)
		}

		if name == "" && rec == (EntryInfo{}) {
			return out, nil
		}
		if len(name) > maxNameLen {
			return nil, fmt.Errorf("%w: %d bytes", ErrFileNameTooLong, len(name))
		}

		rec.Path = name
		out = append(out, rec)
	}
}

// placeEntries resolves payload offsets for mode and checks they fit in size bytes.
func placeEntries(entries []EntryInfo, dataStart, size int64, mode OffsetMode) error {
	switch mode {
	case OffsetModeSequential:
		return placeSequential(entries, dataStart, size)

	case OffsetModeStoredCompat, OffsetModeStoredStrict:
		if !hasStoredOffsets(entries) {
			return placeSequential(entries, dataStart, size)
		}

		err := placeStored(entries, dataStart, size)
		if err == nil {
			return nil
		}
		if mode == OffsetModeStoredStrict {
			return fmt.Errorf("%w: %w", ErrInvalidEntryOffset, err)
		}

		return placeSequential(entries, dataStart, size)

	default:
		return fmt.Errorf("%w: unknown offset mode %q", ErrInvalidEntryOffset, mode)
	}
}

// placeSequential packs payloads back to back from dataStart.
func placeSequential(entries []EntryInfo, dataStart, size int64) error {
	next := dataStart
	for i := range entries {
		if next > math.MaxUint32 {
			return fmt.Errorf("%w: entry %s starts past 4 GiB", ErrSizeOverflow, entries[i].Path)
		}

		entries[i].Offset = uint32(next) //nolint:gosec // checked above
		next += int64(entries[i].DataSize)
		if next > size {
			return fmt.Errorf("%w: entry %s payload out of file bounds", ErrInvalidEntryOffset, entries[i].Path)
		}
	}

	return nil
}

func hasStoredOffsets(entries []EntryInfo) bool {
	for i := range entries {
		if entries[i].Offset != 0 {
			return true
		}
	}

	return false
}

// placeStored applies stored offsets read either as absolute or as relative to dataStart.
// A first offset below dataStart is tried as relative first. Entries are only
// updated when one reading yields ordered in-bounds payloads.
func placeStored(entries []EntryInfo, dataStart, size int64) error {
	bases := [2]int64{0, dataStart}
	if int64(entries[0].Offset) < dataStart {
		bases = [2]int64{dataStart, 0}
	}

	for _, base := range bases {
		offsets, ok := storedOffsets(entries, base, dataStart, size)
		if !ok {
			continue
		}

		for i := range entries {
			entries[i].Offset = offsets[i]
		}
		return nil
	}

	return errors.New("stored offsets are out of order or out of file bounds")
}

// storedOffsets returns offsets shifted by base, or false when any payload is misplaced.
func storedOffsets(entries []EntryInfo, base, dataStart, size int64) ([]uint32, bool) {
	out := make([]uint32, len(entries))
	prev := dataStart
	for i := range entries {
		start := int64(entries[i].Offset) + base
		end := start + int64(entries[i].DataSize)
		if start < prev || end > size || start > math.MaxUint32 {
			return nil, false
		}

		out[i] = uint32(start) //nolint:gosec // checked above
		prev = start
	}

	return out, true
}
