// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"errors"
	"io"

	"github.com/woozymasta/zipcontents/internal/pbo"
)

// pboArchive reads PBO index and entries; LZSS entries are decompressed on read.
type pboArchive struct {
	reader *pbo.Reader
	names  []string
}

// openPBOArchive parses PBO index from ra.
func openPBOArchive(ra io.ReaderAt, size int64, opts ArchiveOptions) (Archive, error) {
	r, err := pbo.NewReader(ra, size, pbo.ReaderOptions{
		OffsetMode:       opts.PBOOffsetMode,
		EnableJunkFilter: true,
	})
	if err != nil {
		return nil, corruptError(FormatPBO, err)
	}

	if opts.VerifyPBOChecksum {
		if err := r.VerifyTrailer(); err != nil && !errors.Is(err, pbo.ErrNoTrailer) {
			return nil, corruptError(FormatPBO, err)
		}
	}

	entries := r.Entries()
	a := &pboArchive{
		reader: r,
		names:  make([]string, 0, len(entries)),
	}

	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		name := pbo.NormalizePath(entry.Path)
		if name == "" {
			continue
		}
		if _, exists := seen[name]; exists {
			continue
		}

		seen[name] = struct{}{}
		a.names = append(a.names, name)
	}

	return a, nil
}

// Format returns FormatPBO.
func (a *pboArchive) Format() Format {
	return FormatPBO
}

// Entries returns entry paths in index order with "/" separators.
func (a *pboArchive) Entries() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// ReadEntry reads named entry; compressed payloads are LZSS-decoded.
func (a *pboArchive) ReadEntry(name string) ([]byte, error) {
	data, err := a.reader.ReadEntry(name)
	if err != nil {
		if errors.Is(err, pbo.ErrEntryNotFound) {
			return nil, entryNotFoundError(name)
		}

		return nil, corruptError(FormatPBO, err)
	}

	return data, nil
}

// Close is a no-op; the archive does not own its reader.
func (a *pboArchive) Close() error {
	return nil
}
