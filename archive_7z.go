// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"fmt"
	"io"
	"strings"

	"github.com/javi11/sevenzip"
)

// sevenZipArchive reads 7z headers and entries.
type sevenZipArchive struct {
	files map[string]*sevenzip.File
	names []string
}

// openSevenZipArchive parses 7z headers from ra.
func openSevenZipArchive(ra io.ReaderAt, size int64) (Archive, error) {
	r, err := sevenzip.NewReader(ra, size)
	if err != nil {
		return nil, corruptError(FormatSevenZip, err)
	}

	a := &sevenZipArchive{
		files: make(map[string]*sevenzip.File, len(r.File)),
		names: make([]string, 0, len(r.File)),
	}
	for _, f := range r.File {
		name := normalizeEntryName(f.Name)
		if name == "" {
			continue
		}
		if f.FileInfo().IsDir() && !strings.HasSuffix(name, "/") {
			name += "/"
		}

		if _, exists := a.files[name]; exists {
			continue
		}

		a.files[name] = f
		a.names = append(a.names, name)
	}

	return a, nil
}

// Format returns FormatSevenZip.
func (a *sevenZipArchive) Format() Format {
	return FormatSevenZip
}

// Entries returns entry paths in header order.
func (a *sevenZipArchive) Entries() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// ReadEntry decodes named entry; solid blocks are decoded up to the entry.
func (a *sevenZipArchive) ReadEntry(name string) ([]byte, error) {
	f, ok := a.files[normalizeEntryName(name)]
	if !ok {
		return nil, entryNotFoundError(name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, corruptError(FormatSevenZip, fmt.Errorf("open entry %s: %w", name, err))
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, corruptError(FormatSevenZip, fmt.Errorf("read entry %s: %w", name, err))
	}

	return data, nil
}

// Close is a no-op; the archive does not own its reader.
func (a *sevenZipArchive) Close() error {
	return nil
}
