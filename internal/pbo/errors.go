// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package pbo

import "errors"

// Sentinel errors for PBO read operations. Use errors.Is in callers.
var (
	// ErrInvalidHeader means the PBO file is missing or has a bad header.
	ErrInvalidHeader = errors.New("invalid PBO file: missing or bad header")
	// ErrFileNameTooLong means the entry filename exceeds the maximum length.
	ErrFileNameTooLong = errors.New("entry filename exceeds maximum length")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrEntryNotFound means the entry is not found.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrSizeOverflow means the size exceeds the uint32 or 4 GiB PBO limit.
	ErrSizeOverflow = errors.New("size exceeds uint32 or 4 GiB PBO limit")
	// ErrInvalidEntryOffset means one or more entry offsets are malformed for selected reader policy.
	ErrInvalidEntryOffset = errors.New("invalid entry offset")
	// ErrInvalidEntryPath means entry path is empty, absolute, or escapes archive root.
	ErrInvalidEntryPath = errors.New("invalid entry path")
	// ErrNoTrailer means the archive has no SHA1 trailer after payload data.
	ErrNoTrailer = errors.New("PBO has no SHA1 trailer")
	// ErrChecksumMismatch means the SHA1 trailer does not match archive content.
	ErrChecksumMismatch = errors.New("PBO SHA1 trailer mismatch")
)
