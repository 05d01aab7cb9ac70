// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipcontents

package zipcontents

import (
	"fmt"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/afero"
)

// ExtractedEntry is one archive entry written to scratch storage.
// The coordinator owns the temporary location until Release.
type ExtractedEntry struct {
	// ArchivePath is full entry path inside archive.
	ArchivePath string `json:"archive_path" yaml:"archive_path"`
	// DisplayName is final entry path segment.
	DisplayName string `json:"display_name" yaml:"display_name"`
	// TemporaryLocation is scratch file path; its base name is the sanitized DisplayName.
	TemporaryLocation string `json:"temporary_location" yaml:"temporary_location"`
	// Digest is sha256 digest of extracted bytes.
	Digest digest.Digest `json:"digest" yaml:"digest"`
	// Size is extracted byte count.
	Size int64 `json:"size" yaml:"size"`

	fs         afero.Fs
	dir        string
	mu         sync.Mutex
	released   bool
	releaseErr error
}

// Released reports whether scratch storage was already released.
func (e *ExtractedEntry) Released() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.released
}

// Release removes scratch directory with the extracted file.
// Repeated calls return the first result.
func (e *ExtractedEntry) Release() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.released {
		return e.releaseErr
	}
	e.released = true

	if e.fs == nil || e.dir == "" {
		return nil
	}

	if err := e.fs.RemoveAll(e.dir); err != nil {
		e.releaseErr = fmt.Errorf("remove scratch dir %s: %w", e.dir, err)
	}

	return e.releaseErr
}

// Open opens scratch file for reading.
func (e *ExtractedEntry) Open() (afero.File, error) {
	if e.Released() {
		return nil, ErrReleased
	}

	f, err := e.fs.Open(e.TemporaryLocation)
	if err != nil {
		return nil, fmt.Errorf("open scratch file: %w", err)
	}

	return f, nil
}
