// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package pbo

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // Trailer format requires SHA1.
	"fmt"
	"io"
)

// trailerSize is 0x00 marker plus 20-byte SHA1.
const trailerSize = 1 + sha1.Size

// HasTrailer reports whether a SHA1 trailer follows payload data.
func (r *Reader) HasTrailer() bool {
	if r == nil || r.size-r.dataEnd < trailerSize {
		return false
	}

	var marker [1]byte
	if _, err := r.ra.ReadAt(marker[:], r.dataEnd); err != nil {
		return false
	}

	return marker[0] == 0x00
}

// VerifyTrailer checks SHA1 trailer against all bytes preceding it.
// It fails with ErrNoTrailer when the archive carries none.
func (r *Reader) VerifyTrailer() error {
	if r == nil || r.ra == nil {
		return ErrNilReader
	}
	if !r.HasTrailer() {
		return ErrNoTrailer
	}

	tail := make([]byte, trailerSize)
	if _, err := r.ra.ReadAt(tail, r.dataEnd); err != nil && err != io.EOF {
		return fmt.Errorf("read trailer: %w", err)
	}

	h := sha1.New() //nolint:gosec // Trailer format requires SHA1.
	if _, err := io.Copy(h, io.NewSectionReader(r.ra, 0, r.dataEnd)); err != nil {
		return fmt.Errorf("hash content: %w", err)
	}

	if !bytes.Equal(h.Sum(nil), tail[1:]) {
		return ErrChecksumMismatch
	}

	return nil
}
