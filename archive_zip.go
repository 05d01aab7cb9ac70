// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

// zipArchive reads ZIP central directory and entries.
type zipArchive struct {
	files map[string]*zip.File
	names []string
}

// openZipArchive parses ZIP central directory from ra.
func openZipArchive(ra io.ReaderAt, size int64) (Archive, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && zr != nil) {
		return nil, corruptError(FormatZIP, err)
	}

	zr.RegisterDecompressor(zip.Deflate, flate.NewReader)
	zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	zr.RegisterDecompressor(zstd.ZipMethodPKWare, zstd.ZipDecompressor())

	a := &zipArchive{
		files: make(map[string]*zip.File, len(zr.File)),
		names: make([]string, 0, len(zr.File)),
	}
	for _, f := range zr.File {
		name := normalizeEntryName(f.Name)
		if name == "" {
			continue
		}

		// First record wins for duplicate names.
		if _, exists := a.files[name]; exists {
			continue
		}

		a.files[name] = f
		a.names = append(a.names, name)
	}

	return a, nil
}

// Format returns FormatZIP.
func (a *zipArchive) Format() Format {
	return FormatZIP
}

// Entries returns entry paths in central directory order.
func (a *zipArchive) Entries() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// ReadEntry decompresses named entry.
func (a *zipArchive) ReadEntry(name string) ([]byte, error) {
	f, ok := a.files[normalizeEntryName(name)]
	if !ok {
		return nil, entryNotFoundError(name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, corruptError(FormatZIP, fmt.Errorf("open entry %s: %w", name, err))
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, corruptError(FormatZIP, fmt.Errorf("read entry %s: %w", name, err))
	}

	return data, nil
}

// Close is a no-op; the archive does not own its reader.
func (a *zipArchive) Close() error {
	return nil
}
