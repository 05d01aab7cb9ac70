// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// signatureProbeSize is number of leading bytes read for format detection.
const signatureProbeSize = 8

// Archive is a read-only view of archive entries.
type Archive interface {
	// Format returns container format.
	Format() Format
	// Entries returns entry paths in archive order; folders end with "/".
	Entries() []string
	// ReadEntry returns full content of named entry.
	ReadEntry(name string) ([]byte, error)
	// Close releases resources owned by archive.
	Close() error
}

// Leading magic bytes per container format.
var (
	zipSignatures = [][]byte{
		[]byte("PK\x03\x04"),
		[]byte("PK\x05\x06"),
		[]byte("PK\x07\x08"),
	}
	sevenZipSignature = []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}
	// pboSignature is the zero-length name terminator followed by "Vers" mime (little-endian).
	pboSignature = []byte{0x00, 's', 'r', 'e', 'V'}
)

// DetectFormat sniffs container format from leading bytes of ra.
func DetectFormat(ra io.ReaderAt, size int64) (Format, error) {
	if ra == nil {
		return "", ErrNilArchive
	}
	if size < 0 {
		size = 0
	}

	probe := make([]byte, min(size, signatureProbeSize))
	if len(probe) > 0 {
		n, err := ra.ReadAt(probe, 0)
		if err != nil && !(errors.Is(err, io.EOF) && n == len(probe)) {
			return "", fmt.Errorf("read signature: %w", err)
		}
	}

	for _, sig := range zipSignatures {
		if bytes.HasPrefix(probe, sig) {
			return FormatZIP, nil
		}
	}
	if bytes.HasPrefix(probe, sevenZipSignature) {
		return FormatSevenZip, nil
	}
	if bytes.HasPrefix(probe, pboSignature) {
		return FormatPBO, nil
	}

	return "", ErrUnknownFormat
}

// OpenArchive detects format and parses archive from ra holding size bytes.
// The returned archive does not own ra.
func OpenArchive(ra io.ReaderAt, size int64, opts ArchiveOptions) (Archive, error) {
	opts.applyDefaults()

	format, err := DetectFormat(ra, size)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatZIP:
		return openZipArchive(ra, size)
	case FormatSevenZip:
		return openSevenZipArchive(ra, size)
	case FormatPBO:
		return openPBOArchive(ra, size, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// OpenArchiveFile opens archive from filesystem path. The returned archive owns the file.
func OpenArchiveFile(path string, opts ArchiveOptions) (Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	a, err := OpenArchive(f, fi.Size(), opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &ownedArchive{Archive: a, closer: f}, nil
}

// OpenHexArchive opens archive from hex text source. The archive does not own src.
func OpenHexArchive(src TextSource, opts ArchiveOptions) (Archive, error) {
	opts.applyDefaults()

	stream, err := NewHexStream(src, opts.Stream)
	if err != nil {
		return nil, err
	}
	if !stream.Readable() {
		return nil, ErrNotReadable
	}

	size, err := stream.Size()
	if err != nil {
		return nil, err
	}

	return OpenArchive(stream, size, opts)
}

// ownedArchive closes an owned resource after the wrapped archive.
type ownedArchive struct {
	Archive
	closer io.Closer
}

// Close closes wrapped archive and owned resource.
func (a *ownedArchive) Close() error {
	archiveErr := a.Archive.Close()
	closeErr := a.closer.Close()
	return errors.Join(archiveErr, closeErr)
}

// corruptError wraps archive parser failure with ErrArchiveCorrupt.
func corruptError(format Format, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrArchiveCorrupt, format, err)
}

// entryNotFoundError wraps missing entry name with ErrEntryNotFound.
func entryNotFoundError(name string) error {
	return fmt.Errorf("%w: %s", ErrEntryNotFound, name)
}
