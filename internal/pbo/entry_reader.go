// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package pbo

import (
	"fmt"
	"io"
	"math"

	"github.com/woozymasta/lzss"
)

// lookup returns entry whose normalized path equals normalized name.
func (r *Reader) lookup(name string) (EntryInfo, bool) {
	want := NormalizePath(name)
	for _, entry := range r.entries {
		if NormalizePath(entry.Path) == want {
			return entry, true
		}
	}

	return EntryInfo{}, false
}

// ReadEntry returns content of the named entry, decompressing LZSS payloads.
// Name matching ignores separator style and leading "./".
func (r *Reader) ReadEntry(name string) ([]byte, error) {
	if r == nil || r.ra == nil {
		return nil, ErrNilReader
	}

	entry, ok := r.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	payload := make([]byte, entry.DataSize)
	section := io.NewSectionReader(r.ra, int64(entry.Offset), int64(entry.DataSize))
	if _, err := io.ReadFull(section, payload); err != nil {
		return nil, fmt.Errorf("read entry %s: %w", name, err)
	}

	if !entry.IsCompressed() {
		return payload, nil
	}

	if uint64(entry.OriginalSize) > math.MaxInt {
		return nil, fmt.Errorf("entry %s: %w", name, ErrSizeOverflow)
	}

	data, err := lzss.Decompress(payload, int(entry.OriginalSize), nil)
	if err != nil {
		return nil, fmt.Errorf("decompress entry %s: %w", name, err)
	}

	return data, nil
}
