// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import "errors"

// Sentinel errors for stream, archive, and session operations. Use errors.Is in callers.
var (
	// ErrNilSource means the hex text source is nil.
	ErrNilSource = errors.New("hex text source is nil")
	// ErrNotSeekable means the source has no valid identity or cannot report its length.
	ErrNotSeekable = errors.New("source is not seekable")
	// ErrNotReadable means the source has no valid identity and cannot be read.
	ErrNotReadable = errors.New("source is not readable")
	// ErrMalformedHex means decoded range has odd digit count or non-hex characters.
	ErrMalformedHex = errors.New("malformed hex text")
	// ErrUnsupportedOperation means the operation is not supported on a read-only stream.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrInvalidWhence means seek whence is not one of io.SeekStart, io.SeekCurrent, io.SeekEnd.
	ErrInvalidWhence = errors.New("invalid seek whence")
	// ErrNegativePosition means strict seek mode rejected a position before stream start.
	ErrNegativePosition = errors.New("negative stream position")
	// ErrInvalidPattern means exclude patterns or rules cannot be compiled.
	ErrInvalidPattern = errors.New("invalid exclude pattern")
	// ErrNilArchive means the archive is nil.
	ErrNilArchive = errors.New("archive is nil")
	// ErrUnknownFormat means archive signature is not recognized.
	ErrUnknownFormat = errors.New("unknown archive format")
	// ErrArchiveCorrupt means the archive cannot be parsed.
	ErrArchiveCorrupt = errors.New("archive is corrupt")
	// ErrEntryNotFound means the entry is not present in the archive.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrInvalidSelection means selected index is outside the current listing.
	ErrInvalidSelection = errors.New("invalid selection index")
	// ErrEmptyArchive means the archive has no visible entries after filtering.
	ErrEmptyArchive = errors.New("archive has no entries")
	// ErrSessionActive means another browsing session already owns the coordinator slot.
	ErrSessionActive = errors.New("browsing session already active")
	// ErrSessionClosed means the session already reached a terminal state.
	ErrSessionClosed = errors.New("browsing session closed")
	// ErrNoChooser means a session was run without a selection callback.
	ErrNoChooser = errors.New("chooser callback is not configured")
	// ErrNoOpener means extracted content cannot be opened without an opener callback.
	ErrNoOpener = errors.New("opener callback is not configured")
	// ErrReleased means the extracted entry temporary storage was already released.
	ErrReleased = errors.New("extracted entry already released")
	// ErrDigestMismatch means written scratch content does not match extracted bytes.
	ErrDigestMismatch = errors.New("extracted content digest mismatch")
)
